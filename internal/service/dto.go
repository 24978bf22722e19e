package service

import (
	"github.com/shopspring/decimal"

	"github.com/frontdash/checkout/internal/domain"
)

// StartCheckoutRequest is the cart handed over by the UI when the shopper opens checkout
type StartCheckoutRequest struct {
	Lines []CartLineRequest `json:"lines" binding:"dive"`
}

type CartLineRequest struct {
	LineID         string          `json:"lineId"`
	CatalogItemID  int             `json:"catalogItemId" binding:"required"`
	Name           string          `json:"name" binding:"required"`
	UnitPrice      decimal.Decimal `json:"unitPrice"`
	Quantity       int             `json:"quantity"`
	RestaurantName string          `json:"restaurantName" binding:"required"`
}

// SetTipRequest selects a preset percentage or a free-form amount
type SetTipRequest struct {
	Preset int    `json:"preset"`
	Amount string `json:"amount"`
}

// ToDomain converts the request lines into cart lines
func (r StartCheckoutRequest) ToDomain() []domain.CartLine {
	lines := make([]domain.CartLine, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, domain.CartLine{
			LineID:         l.LineID,
			CatalogItemID:  l.CatalogItemID,
			Name:           l.Name,
			UnitPrice:      l.UnitPrice,
			Quantity:       l.Quantity,
			RestaurantName: l.RestaurantName,
		})
	}
	return lines
}

func (r SetTipRequest) ToDomain() domain.TipSelection {
	return domain.TipSelection{Preset: r.Preset, Amount: r.Amount}
}
