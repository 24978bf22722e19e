package checkout

import (
	"strings"

	"github.com/shopspring/decimal"

	"github.com/frontdash/checkout/internal/domain"
)

// ServiceChargeRate is the fixed 8.25% surcharge applied to the subtotal
var ServiceChargeRate = decimal.RequireFromString("0.0825")

// TipPresets are the percentages offered as one-tap tip buttons
var TipPresets = []int{18, 20, 25}

// MaxAmount caps any single tip or unit price
var MaxAmount = decimal.NewFromInt(10000)

var (
	hundred      = decimal.NewFromInt(100)
	presetMargin = decimal.RequireFromString("0.01")
)

const (
	maxAmountInputLength = 32
	minAmountExponent    = -6
	maxAmountExponent    = 4
)

// ComputePricing derives the pricing breakdown for a cart and tip.
// Nothing is rounded here; use PricingBreakdown.Rounded for display.
func ComputePricing(lines []domain.CartLine, tip domain.TipSelection) domain.PricingBreakdown {
	subtotal := Subtotal(lines)
	serviceCharge := subtotal.Mul(ServiceChargeRate)
	tipAmount := TipAmount(subtotal, tip)

	return domain.PricingBreakdown{
		Subtotal:      subtotal,
		ServiceCharge: serviceCharge,
		TipAmount:     tipAmount,
		GrandTotal:    subtotal.Add(serviceCharge).Add(tipAmount),
	}
}

// Subtotal sums unit price times quantity over all lines
func Subtotal(lines []domain.CartLine) decimal.Decimal {
	subtotal := decimal.Zero
	for _, line := range lines {
		subtotal = subtotal.Add(line.LineTotal())
	}
	return subtotal
}

// TipAmount normalizes a tip selection to a non-negative amount
func TipAmount(subtotal decimal.Decimal, tip domain.TipSelection) decimal.Decimal {
	if tip.Preset != 0 {
		if !IsTipPreset(tip.Preset) {
			return decimal.Zero
		}
		return PresetTipAmount(subtotal, tip.Preset)
	}

	amount, ok := parseTip(tip.Amount)
	if !ok || amount.IsNegative() {
		return decimal.Zero
	}
	return amount
}

// PresetTipAmount returns subtotal * percentage / 100 rounded to cents
func PresetTipAmount(subtotal decimal.Decimal, percentage int) decimal.Decimal {
	return subtotal.Mul(decimal.NewFromInt(int64(percentage))).Div(hundred).Round(2)
}

// IsTipPreset reports whether percentage is one of TipPresets
func IsTipPreset(percentage int) bool {
	for _, p := range TipPresets {
		if p == percentage {
			return true
		}
	}
	return false
}

// PresetSelected reports whether the entered tip matches the preset within a cent.
// The entered value is compared as typed, not rounded first.
func PresetSelected(subtotal decimal.Decimal, tipInput string, percentage int) bool {
	current, ok := parseTip(tipInput)
	if !ok {
		return false
	}
	calculated := PresetTipAmount(subtotal, percentage)
	return current.Sub(calculated).Abs().LessThan(presetMargin)
}

func parseTip(input string) (decimal.Decimal, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return decimal.Zero, false
	}
	if len(input) > maxAmountInputLength {
		return decimal.Zero, false
	}
	amount, err := decimal.NewFromString(input)
	if err != nil || !boundedAmount(amount) {
		return decimal.Zero, false
	}
	return amount, true
}

// boundedAmount reports whether d is within MaxAmount at a small scale.
// The exponent is checked first: arithmetic on an extreme exponent rescales
// the coefficient to millions of digits.
func boundedAmount(d decimal.Decimal) bool {
	exp := d.Exponent()
	if exp < minAmountExponent || exp > maxAmountExponent {
		return false
	}
	return d.Abs().LessThanOrEqual(MaxAmount)
}

// validUnitPrice accepts non-negative prices up to MaxAmount with at most two decimal places
func validUnitPrice(price decimal.Decimal) bool {
	if !boundedAmount(price) || price.IsNegative() {
		return false
	}
	return price.Equal(price.Round(2))
}
