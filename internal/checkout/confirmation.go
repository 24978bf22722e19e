package checkout

import (
	"strconv"
	"time"

	"github.com/frontdash/checkout/internal/domain"
)

// DefaultDeliveryEstimate is added to the submission time to estimate delivery
const DefaultDeliveryEstimate = 45 * time.Minute

// NewOrderRequest builds the createOrder payload. Only ids and quantities are
// sent; the order API prices the items itself.
func NewOrderRequest(lines []domain.CartLine, pricing domain.PricingBreakdown, delivery domain.DeliveryInput) domain.OrderRequest {
	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, domain.OrderItem{
			CatalogItemID: line.CatalogItemID,
			Quantity:      line.Quantity,
		})
	}

	req := domain.OrderRequest{
		TipAmount: pricing.TipAmount,
		Items:     items,
		Delivery:  delivery,
	}
	if len(lines) > 0 {
		req.RestaurantName = lines[0].RestaurantName
	}
	return req
}

// NewConfirmation assembles the confirmation from the request echo and the
// server's pricing. Server figures are authoritative.
func NewConfirmation(
	lines []domain.CartLine,
	delivery domain.DeliveryInput,
	receipt *domain.OrderReceipt,
	submittedAt time.Time,
	estimate time.Duration,
) *domain.OrderConfirmation {
	items := make([]domain.CartLine, len(lines))
	copy(items, lines)

	conf := &domain.OrderConfirmation{
		OrderNumber:       strconv.Itoa(receipt.OrderNumber),
		OrderDate:         submittedAt,
		Items:             items,
		Subtotal:          receipt.Subtotal,
		ServiceCharge:     receipt.ServiceCharge,
		TipAmount:         receipt.TipAmount,
		GrandTotal:        receipt.GrandTotal,
		DeliveryAddress:   delivery.FormattedAddress(),
		ContactName:       delivery.ContactName,
		ContactPhone:      delivery.ContactPhone,
		EstimatedDelivery: submittedAt.Add(estimate),
	}
	if len(lines) > 0 {
		conf.RestaurantName = lines[0].RestaurantName
	}
	return conf
}

// pricingDrift lists the fields where the server disagrees with the local,
// cent-rounded breakdown
func pricingDrift(local domain.PricingBreakdown, receipt *domain.OrderReceipt) []string {
	rounded := local.Rounded()
	var fields []string
	if !rounded.Subtotal.Equal(receipt.Subtotal) {
		fields = append(fields, "subtotal")
	}
	if !rounded.ServiceCharge.Equal(receipt.ServiceCharge) {
		fields = append(fields, "serviceCharge")
	}
	if !rounded.TipAmount.Equal(receipt.TipAmount) {
		fields = append(fields, "tipAmount")
	}
	if !rounded.GrandTotal.Equal(receipt.GrandTotal) {
		fields = append(fields, "grandTotal")
	}
	return fields
}
