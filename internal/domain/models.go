package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// CartLine is one item a shopper added to the cart
type CartLine struct {
	LineID         string          `json:"lineId"`
	CatalogItemID  int             `json:"catalogItemId"`
	Name           string          `json:"name"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Quantity       int             `json:"quantity"`
	RestaurantName string          `json:"restaurantName"`
}

// LineTotal returns unit price times quantity
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// PaymentInput holds the card form exactly as entered. It is never persisted.
type PaymentInput struct {
	CardBrand       string `json:"cardBrand"`
	CardNumber      string `json:"cardNumber"`
	HolderFirstName string `json:"holderFirstName"`
	HolderLastName  string `json:"holderLastName"`
	BillingAddress  string `json:"billingAddress"`
	ExpiryMonth     string `json:"expiryMonth"`
	ExpiryYear      string `json:"expiryYear"`
	CVV             string `json:"cvv"`
}

// UnmarshalJSON accepts the expiry fields as JSON strings or numbers
func (p *PaymentInput) UnmarshalJSON(data []byte) error {
	type alias PaymentInput
	aux := struct {
		*alias
		ExpiryMonth json.RawMessage `json:"expiryMonth"`
		ExpiryYear  json.RawMessage `json:"expiryYear"`
	}{alias: (*alias)(p)}

	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	var err error
	if p.ExpiryMonth, err = formText(aux.ExpiryMonth); err != nil {
		return fmt.Errorf("expiryMonth: %w", err)
	}
	if p.ExpiryYear, err = formText(aux.ExpiryYear); err != nil {
		return fmt.Errorf("expiryYear: %w", err)
	}
	return nil
}

func formText(raw json.RawMessage) (string, error) {
	if len(raw) == 0 || string(raw) == "null" {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		err := json.Unmarshal(raw, &s)
		return s, err
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", fmt.Errorf("must be a string or number")
	}
	return n.String(), nil
}

// DeliveryInput holds the delivery form
type DeliveryInput struct {
	AddressLine1 string `json:"addressLine1"`
	AddressLine2 string `json:"addressLine2,omitempty"`
	City         string `json:"city"`
	State        string `json:"state"`
	Zip          string `json:"zip,omitempty"`
	ContactName  string `json:"contactName"`
	ContactPhone string `json:"contactPhone"`
}

// FormattedAddress renders the address as "line1[, line2], city, state[ zip]"
func (d DeliveryInput) FormattedAddress() string {
	var b strings.Builder
	b.WriteString(d.AddressLine1)
	if d.AddressLine2 != "" {
		b.WriteString(", ")
		b.WriteString(d.AddressLine2)
	}
	b.WriteString(", ")
	b.WriteString(d.City)
	b.WriteString(", ")
	b.WriteString(d.State)
	if d.Zip != "" {
		b.WriteString(" ")
		b.WriteString(d.Zip)
	}
	return b.String()
}

// OperatingHoursEntry is one day of a restaurant's opening hours
type OperatingHoursEntry struct {
	DayOfWeek string `json:"dayOfWeek" mapstructure:"dayOfWeek"`
	OpenTime  string `json:"openTime" mapstructure:"openTime"`
	CloseTime string `json:"closeTime" mapstructure:"closeTime"`
	IsClosed  bool   `json:"isClosed" mapstructure:"isClosed"`
}

// TipSelection is either a preset percentage or a free-form amount. Preset wins when non-zero.
type TipSelection struct {
	Preset int    `json:"preset,omitempty"`
	Amount string `json:"amount,omitempty"`
}

// PricingBreakdown is derived from the cart and tip on every read
type PricingBreakdown struct {
	Subtotal      decimal.Decimal `json:"subtotal"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	TipAmount     decimal.Decimal `json:"tipAmount"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

// Rounded returns the breakdown rounded to cents for display
func (p PricingBreakdown) Rounded() PricingBreakdown {
	return PricingBreakdown{
		Subtotal:      p.Subtotal.Round(2),
		ServiceCharge: p.ServiceCharge.Round(2),
		TipAmount:     p.TipAmount.Round(2),
		GrandTotal:    p.GrandTotal.Round(2),
	}
}

// Eligibility is the result of checking operating hours at a point in time
type Eligibility struct {
	Status    EligibilityStatus `json:"status"`
	OpenTime  string            `json:"openTime,omitempty"`
	CloseTime string            `json:"closeTime,omitempty"`
}

// Allowed reports whether orders may be submitted
func (e Eligibility) Allowed() bool {
	return e.Status == EligibilityEligible || e.Status == EligibilityUnknown
}

// Message is the banner text shown while ordering is blocked
func (e Eligibility) Message() string {
	switch e.Status {
	case EligibilityClosedToday:
		return "Restaurant is closed today."
	case EligibilityOutsideHours:
		return "Orders accepted between " + e.OpenTime + " - " + e.CloseTime
	default:
		return ""
	}
}

// OrderItem is the id and quantity sent to the order API. Prices are resolved server side.
type OrderItem struct {
	CatalogItemID int
	Quantity      int
}

// OrderRequest is the createOrder payload
type OrderRequest struct {
	RestaurantName string
	TipAmount      decimal.Decimal
	Items          []OrderItem
	Delivery       DeliveryInput
}

// OrderReceipt is what the order API returns after creating an order
type OrderReceipt struct {
	OrderNumber   int
	Message       string
	Subtotal      decimal.Decimal
	ServiceCharge decimal.Decimal
	TipAmount     decimal.Decimal
	GrandTotal    decimal.Decimal
}

// OrderConfirmation is shown to the shopper once an order has been placed
type OrderConfirmation struct {
	OrderNumber       string          `json:"orderNumber"`
	RestaurantName    string          `json:"restaurantName"`
	OrderDate         time.Time       `json:"orderDate"`
	Items             []CartLine      `json:"items"`
	Subtotal          decimal.Decimal `json:"subtotal"`
	ServiceCharge     decimal.Decimal `json:"serviceCharge"`
	TipAmount         decimal.Decimal `json:"tipAmount"`
	GrandTotal        decimal.Decimal `json:"grandTotal"`
	DeliveryAddress   string          `json:"deliveryAddress"`
	ContactName       string          `json:"contactName"`
	ContactPhone      string          `json:"contactPhone"`
	EstimatedDelivery time.Time       `json:"estimatedDelivery"`
}

// MenuItem is a catalog entry as listed by the restaurant API
type MenuItem struct {
	ItemID      int             `json:"itemId" mapstructure:"itemID"`
	ItemName    string          `json:"itemName" mapstructure:"itemName"`
	ItemPrice   decimal.Decimal `json:"itemPrice" mapstructure:"itemPrice"`
	IsAvailable bool            `json:"isAvailable" mapstructure:"isAvailable"`
}
