package frontdash

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/mitchellh/mapstructure"
	"github.com/shopspring/decimal"

	"github.com/frontdash/checkout/internal/domain"
)

type orderItemPayload struct {
	ItemID   int `json:"itemId"`
	Quantity int `json:"quantity"`
}

type deliveryPayload struct {
	StreetAddress1 string `json:"streetAddress1"`
	StreetAddress2 string `json:"streetAddress2"`
	City           string `json:"city"`
	State          string `json:"state"`
	Zip            string `json:"zip"`
	ContactName    string `json:"contactName"`
	ContactPhone   string `json:"contactPhone"`
}

type createOrderRequest struct {
	RestName  string             `json:"restName"`
	TipAmount float64            `json:"tipAmount"`
	Items     []orderItemPayload `json:"items"`
	Delivery  deliveryPayload    `json:"delivery"`
}

type createOrderResponse struct {
	OrderNumber   int             `json:"orderNumber"`
	Message       string          `json:"message"`
	Subtotal      decimal.Decimal `json:"subtotal"`
	ServiceCharge decimal.Decimal `json:"serviceCharge"`
	TipAmount     decimal.Decimal `json:"tipAmount"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

func newCreateOrderRequest(order domain.OrderRequest) createOrderRequest {
	items := make([]orderItemPayload, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, orderItemPayload{ItemID: item.CatalogItemID, Quantity: item.Quantity})
	}

	return createOrderRequest{
		RestName:  order.RestaurantName,
		TipAmount: order.TipAmount.Round(2).InexactFloat64(),
		Items:     items,
		Delivery: deliveryPayload{
			StreetAddress1: order.Delivery.AddressLine1,
			StreetAddress2: order.Delivery.AddressLine2,
			City:           order.Delivery.City,
			State:          order.Delivery.State,
			Zip:            order.Delivery.Zip,
			ContactName:    order.Delivery.ContactName,
			ContactPhone:   order.Delivery.ContactPhone,
		},
	}
}

func (r createOrderResponse) toReceipt() *domain.OrderReceipt {
	return &domain.OrderReceipt{
		OrderNumber:   r.OrderNumber,
		Message:       r.Message,
		Subtotal:      r.Subtotal,
		ServiceCharge: r.ServiceCharge,
		TipAmount:     r.TipAmount,
		GrandTotal:    r.GrandTotal,
	}
}

// decodeRow maps one loosely typed API row onto a domain struct.
// Prices may arrive as numbers or strings and flags as "Y"/"N".
func decodeRow(row map[string]interface{}, out interface{}) error {
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			decimalHook,
			flagHook,
		),
		WeaklyTypedInput: true,
		Result:           out,
	})
	if err != nil {
		return err
	}
	return decoder.Decode(row)
}

func decimalHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to != reflect.TypeOf(decimal.Decimal{}) {
		return data, nil
	}
	switch v := data.(type) {
	case float64:
		return decimal.NewFromFloat(v), nil
	case string:
		d, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return nil, fmt.Errorf("invalid price %q: %w", v, err)
		}
		return d, nil
	case nil:
		return decimal.Zero, nil
	}
	return data, nil
}

func flagHook(from reflect.Type, to reflect.Type, data interface{}) (interface{}, error) {
	if to.Kind() != reflect.Bool || from.Kind() != reflect.String {
		return data, nil
	}
	switch strings.ToUpper(strings.TrimSpace(reflect.ValueOf(data).String())) {
	case "Y", "YES", "TRUE", "1":
		return true, nil
	default:
		return false, nil
	}
}
