package checkout

import (
	"strings"

	"github.com/frontdash/checkout/internal/domain"
	"github.com/frontdash/checkout/pkg/errors"
)

const phoneLength = 10

// ValidateDelivery checks the delivery form. A nil error means it is accepted.
func ValidateDelivery(in domain.DeliveryInput, cartNonEmpty bool) error {
	if !cartNonEmpty {
		return &errors.ErrValidation{
			Reason:  domain.ReasonEmptyCart,
			Message: "Cart is empty",
		}
	}

	if len(digitsOnly(in.ContactPhone)) != phoneLength {
		return &errors.ErrValidation{
			Reason:  domain.ReasonInvalidPhone,
			Message: "Please enter a valid 10-digit phone number",
		}
	}

	if isBlank(in.AddressLine1) || isBlank(in.City) || isBlank(in.State) {
		return &errors.ErrValidation{
			Reason:  domain.ReasonIncompleteAddress,
			Message: "Please complete the delivery address.",
		}
	}

	if isBlank(in.ContactName) {
		return &errors.ErrValidation{
			Reason:  domain.ReasonMissingContactName,
			Message: "Please enter a contact name.",
		}
	}

	return nil
}

// normalizeDelivery trims fields and reduces the phone to its digits
func normalizeDelivery(in domain.DeliveryInput) domain.DeliveryInput {
	return domain.DeliveryInput{
		AddressLine1: strings.TrimSpace(in.AddressLine1),
		AddressLine2: strings.TrimSpace(in.AddressLine2),
		City:         strings.TrimSpace(in.City),
		State:        strings.TrimSpace(in.State),
		Zip:          strings.TrimSpace(in.Zip),
		ContactName:  strings.TrimSpace(in.ContactName),
		ContactPhone: digitsOnly(in.ContactPhone),
	}
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
