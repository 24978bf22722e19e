package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPaymentInput_UnmarshalExpiry(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantMonth string
		wantYear  string
		wantErr   bool
	}{
		{name: "strings", body: `{"expiryMonth": "07", "expiryYear": "2030"}`, wantMonth: "07", wantYear: "2030"},
		{name: "numbers", body: `{"expiryMonth": 7, "expiryYear": 2030}`, wantMonth: "7", wantYear: "2030"},
		{name: "missing", body: `{}`},
		{name: "null", body: `{"expiryMonth": null, "expiryYear": null}`},
		{name: "boolean", body: `{"expiryMonth": true}`, wantErr: true},
		{name: "object", body: `{"expiryYear": {"y": 2030}}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var in PaymentInput
			err := json.Unmarshal([]byte(tt.body), &in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantMonth, in.ExpiryMonth)
			assert.Equal(t, tt.wantYear, in.ExpiryYear)
		})
	}
}

func TestPaymentInput_UnmarshalKeepsOtherFields(t *testing.T) {
	var in PaymentInput
	body := `{"cardBrand": "Visa", "cardNumber": "4111111111111111", "holderFirstName": "Sam", "expiryMonth": 12, "expiryYear": "2099", "cvv": "123"}`

	require.NoError(t, json.Unmarshal([]byte(body), &in))

	assert.Equal(t, PaymentInput{
		CardBrand:       "Visa",
		CardNumber:      "4111111111111111",
		HolderFirstName: "Sam",
		ExpiryMonth:     "12",
		ExpiryYear:      "2099",
		CVV:             "123",
	}, in)
}
