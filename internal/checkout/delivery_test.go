package checkout

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/frontdash/checkout/internal/domain"
)

func validDelivery() domain.DeliveryInput {
	return domain.DeliveryInput{
		AddressLine1: "12 Elm St",
		AddressLine2: "Apt 4",
		City:         "Dallas",
		State:        "TX",
		Zip:          "75201",
		ContactName:  "Sam Rivera",
		ContactPhone: "1234567890",
	}
}

func TestValidateDelivery(t *testing.T) {
	tests := []struct {
		name      string
		modify    func(*domain.DeliveryInput)
		cartEmpty bool
		want      domain.Reason
	}{
		{name: "accepted", modify: func(d *domain.DeliveryInput) {}},
		{name: "optional fields blank", modify: func(d *domain.DeliveryInput) { d.AddressLine2 = ""; d.Zip = "" }},
		{name: "formatted phone", modify: func(d *domain.DeliveryInput) { d.ContactPhone = "(123) 456-7890" }},
		{name: "empty cart", modify: func(d *domain.DeliveryInput) {}, cartEmpty: true, want: domain.ReasonEmptyCart},
		{name: "empty cart checked first", modify: func(d *domain.DeliveryInput) { d.ContactPhone = "" }, cartEmpty: true, want: domain.ReasonEmptyCart},
		{name: "short phone", modify: func(d *domain.DeliveryInput) { d.ContactPhone = "12345" }, want: domain.ReasonInvalidPhone},
		{name: "long phone", modify: func(d *domain.DeliveryInput) { d.ContactPhone = "123456789012" }, want: domain.ReasonInvalidPhone},
		{name: "phone checked before address", modify: func(d *domain.DeliveryInput) { d.ContactPhone = ""; d.City = "" }, want: domain.ReasonInvalidPhone},
		{name: "missing line 1", modify: func(d *domain.DeliveryInput) { d.AddressLine1 = "  " }, want: domain.ReasonIncompleteAddress},
		{name: "missing city", modify: func(d *domain.DeliveryInput) { d.City = "" }, want: domain.ReasonIncompleteAddress},
		{name: "missing state", modify: func(d *domain.DeliveryInput) { d.State = "" }, want: domain.ReasonIncompleteAddress},
		{name: "missing contact name", modify: func(d *domain.DeliveryInput) { d.ContactName = "" }, want: domain.ReasonMissingContactName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validDelivery()
			tt.modify(&in)

			err := ValidateDelivery(in, !tt.cartEmpty)
			if tt.want == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tt.want, reasonOf(t, err))
		})
	}
}

func TestFormattedAddress(t *testing.T) {
	d := validDelivery()
	assert.Equal(t, "12 Elm St, Apt 4, Dallas, TX 75201", d.FormattedAddress())

	d.AddressLine2 = ""
	d.Zip = ""
	assert.Equal(t, "12 Elm St, Dallas, TX", d.FormattedAddress())
}

func TestNormalizeDelivery(t *testing.T) {
	in := validDelivery()
	in.ContactPhone = "(123) 456-7890"
	in.City = " Dallas "

	out := normalizeDelivery(in)
	assert.Equal(t, "1234567890", out.ContactPhone)
	assert.Equal(t, "Dallas", out.City)
}
