package checkout

import (
	"testing"
	"time"

	"github.com/jaswdr/faker"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/frontdash/checkout/internal/domain"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	assert.True(t, dec(want).Equal(got), append([]interface{}{"want %s, got %s", want, got.String()}, msgAndArgs...)...)
}

func line(price string, qty int) domain.CartLine {
	return domain.CartLine{
		CatalogItemID:  1,
		Name:           "Margherita",
		UnitPrice:      dec(price),
		Quantity:       qty,
		RestaurantName: "Luigi's",
	}
}

func TestComputePricing_PresetTip(t *testing.T) {
	p := ComputePricing([]domain.CartLine{line("10.00", 2)}, domain.TipSelection{Preset: 20})

	assertDecimal(t, "20.00", p.Subtotal)
	assertDecimal(t, "1.65", p.ServiceCharge)
	assertDecimal(t, "4.00", p.TipAmount)
	assertDecimal(t, "25.65", p.GrandTotal)
}

func TestComputePricing_EmptyCart(t *testing.T) {
	tips := []domain.TipSelection{
		{},
		{Amount: "3.50"},
		{Preset: 25},
	}

	for _, tip := range tips {
		p := ComputePricing(nil, tip)
		assert.True(t, p.Subtotal.IsZero())
		assert.True(t, p.ServiceCharge.IsZero())
		assert.True(t, p.GrandTotal.Equal(p.TipAmount))
	}

	p := ComputePricing([]domain.CartLine{}, domain.TipSelection{Amount: "3.50"})
	assertDecimal(t, "3.50", p.GrandTotal)
}

func TestComputePricing_ServiceChargeUnrounded(t *testing.T) {
	p := ComputePricing([]domain.CartLine{line("12.99", 1)}, domain.TipSelection{})

	// 12.99 * 0.0825 = 1.071675
	assertDecimal(t, "1.071675", p.ServiceCharge)
	assertDecimal(t, "14.061675", p.GrandTotal)

	display := p.Rounded()
	assertDecimal(t, "1.07", display.ServiceCharge)
	assertDecimal(t, "14.06", display.GrandTotal)
}

func TestComputePricing_GeneratedCarts(t *testing.T) {
	fake := faker.New()

	for i := 0; i < 50; i++ {
		n := fake.IntBetween(0, 8)
		lines := make([]domain.CartLine, 0, n)
		want := decimal.Zero
		for j := 0; j < n; j++ {
			price := decimal.NewFromFloat(fake.Float64(2, 0, 60))
			qty := fake.IntBetween(1, 6)
			lines = append(lines, domain.CartLine{
				CatalogItemID:  fake.IntBetween(1, 500),
				Name:           fake.Lorem().Word(),
				UnitPrice:      price,
				Quantity:       qty,
				RestaurantName: "Generated Kitchen",
			})
			want = want.Add(price.Mul(decimal.NewFromInt(int64(qty))))
		}

		p := ComputePricing(lines, domain.TipSelection{Amount: "2.00"})

		require.True(t, want.Equal(p.Subtotal), "subtotal %s != %s", p.Subtotal, want)
		require.True(t, p.Subtotal.Mul(ServiceChargeRate).Equal(p.ServiceCharge))
		require.True(t, p.Subtotal.Add(p.ServiceCharge).Add(dec("2.00")).Equal(p.GrandTotal))
	}
}

func TestComputePricing_Idempotent(t *testing.T) {
	lines := []domain.CartLine{line("7.35", 3), line("0.99", 7)}
	tip := domain.TipSelection{Preset: 18}

	first := ComputePricing(lines, tip)
	second := ComputePricing(lines, tip)

	assert.Equal(t, first, second)
	assert.Equal(t, first.GrandTotal.String(), second.GrandTotal.String())
}

func TestTipAmount(t *testing.T) {
	subtotal := dec("100.00")

	tests := []struct {
		name string
		tip  domain.TipSelection
		want string
	}{
		{name: "none", tip: domain.TipSelection{}, want: "0"},
		{name: "preset 18", tip: domain.TipSelection{Preset: 18}, want: "18.00"},
		{name: "preset 25", tip: domain.TipSelection{Preset: 25}, want: "25.00"},
		{name: "unknown preset", tip: domain.TipSelection{Preset: 15}, want: "0"},
		{name: "free form", tip: domain.TipSelection{Amount: "3.5"}, want: "3.5"},
		{name: "free form with spaces", tip: domain.TipSelection{Amount: " 6.25 "}, want: "6.25"},
		{name: "unparsable", tip: domain.TipSelection{Amount: "five"}, want: "0"},
		{name: "negative", tip: domain.TipSelection{Amount: "-2"}, want: "0"},
		{name: "preset wins over amount", tip: domain.TipSelection{Preset: 20, Amount: "1"}, want: "20.00"},
		{name: "at cap", tip: domain.TipSelection{Amount: "10000"}, want: "10000"},
		{name: "over cap", tip: domain.TipSelection{Amount: "10000.01"}, want: "0"},
		{name: "huge exponent", tip: domain.TipSelection{Amount: "1e50000000"}, want: "0"},
		{name: "tiny exponent", tip: domain.TipSelection{Amount: "1e-50000000"}, want: "0"},
		{name: "exponent within cap", tip: domain.TipSelection{Amount: "1e3"}, want: "1000"},
		{name: "long input", tip: domain.TipSelection{Amount: "0.000000000000000000000000000000001"}, want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertDecimal(t, tt.want, TipAmount(subtotal, tt.tip))
		})
	}
}

func TestPresetTipAmount_RoundsToCents(t *testing.T) {
	// 33.33 * 18 / 100 = 5.9994
	assertDecimal(t, "6.00", PresetTipAmount(dec("33.33"), 18))
	// 12.34 * 25 / 100 = 3.085
	assertDecimal(t, "3.09", PresetTipAmount(dec("12.34"), 25))
}

func TestPresetSelected(t *testing.T) {
	subtotal := dec("100.00")

	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{name: "exact", input: "20.00", want: true},
		{name: "off by two cents", input: "19.98", want: false},
		{name: "diff 0.009", input: "19.991", want: true},
		{name: "diff 0.011", input: "19.989", want: false},
		{name: "diff exactly 0.01", input: "20.01", want: false},
		{name: "blank", input: "", want: false},
		{name: "unparsable", input: "twenty", want: false},
		{name: "huge exponent", input: "2e50000000", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PresetSelected(subtotal, tt.input, 20))
		})
	}

	assert.False(t, PresetSelected(subtotal, "20.00", 18))
	assert.True(t, PresetSelected(subtotal, "25", 25))
}

func TestComputePricing_ExtremeTipStaysCheap(t *testing.T) {
	lines := []domain.CartLine{line("10.00", 2)}

	done := make(chan domain.PricingBreakdown, 1)
	go func() {
		done <- ComputePricing(lines, domain.TipSelection{Amount: "1e50000000"})
	}()

	select {
	case p := <-done:
		assertDecimal(t, "21.65", p.GrandTotal)
	case <-time.After(2 * time.Second):
		t.Fatal("pricing an extreme tip did not return promptly")
	}
}

func TestValidUnitPrice(t *testing.T) {
	tests := []struct {
		price string
		want  bool
	}{
		{price: "0", want: true},
		{price: "12.99", want: true},
		{price: "12.990", want: true},
		{price: "10000", want: true},
		{price: "10000.01", want: false},
		{price: "12.999", want: false},
		{price: "-1", want: false},
		{price: "1e50000000", want: false},
		{price: "1e-50000000", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.price, func(t *testing.T) {
			assert.Equal(t, tt.want, validUnitPrice(dec(tt.price)))
		})
	}
}
