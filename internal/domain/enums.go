package domain

// CheckoutState represents the step a checkout session is in
type CheckoutState string

const (
	CheckoutStatePricing       CheckoutState = "PRICING"
	CheckoutStatePaymentEntry  CheckoutState = "PAYMENT_ENTRY"
	CheckoutStateDeliveryEntry CheckoutState = "DELIVERY_ENTRY"
	CheckoutStateSubmitting    CheckoutState = "SUBMITTING"
	CheckoutStateConfirmed     CheckoutState = "CONFIRMED"
)

// IsValid checks if the checkout state is valid
func (s CheckoutState) IsValid() bool {
	switch s {
	case CheckoutStatePricing,
		CheckoutStatePaymentEntry,
		CheckoutStateDeliveryEntry,
		CheckoutStateSubmitting,
		CheckoutStateConfirmed:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a state transition is valid
func (s CheckoutState) CanTransitionTo(newState CheckoutState) bool {
	switch s {
	case CheckoutStatePricing:
		return newState == CheckoutStatePaymentEntry
	case CheckoutStatePaymentEntry:
		return newState == CheckoutStateDeliveryEntry
	case CheckoutStateDeliveryEntry:
		return newState == CheckoutStateSubmitting ||
			newState == CheckoutStatePaymentEntry
	case CheckoutStateSubmitting:
		return newState == CheckoutStateConfirmed ||
			newState == CheckoutStateDeliveryEntry
	case CheckoutStateConfirmed:
		return false // Terminal state
	default:
		return false
	}
}

// Reason identifies why a checkout step was refused
type Reason string

const (
	ReasonInvalidCardNumber      Reason = "INVALID_CARD_NUMBER"
	ReasonInvalidCVV             Reason = "INVALID_CVV"
	ReasonInvalidExpiry          Reason = "INVALID_EXPIRY"
	ReasonCardExpired            Reason = "CARD_EXPIRED"
	ReasonInvalidPhone           Reason = "INVALID_PHONE"
	ReasonIncompleteAddress      Reason = "INCOMPLETE_ADDRESS"
	ReasonMissingContactName     Reason = "MISSING_CONTACT_NAME"
	ReasonEmptyCart              Reason = "EMPTY_CART"
	ReasonMixedRestaurants       Reason = "MIXED_RESTAURANTS"
	ReasonInvalidCartLine        Reason = "INVALID_CART_LINE"
	ReasonInvalidTip             Reason = "INVALID_TIP"
	ReasonClosedToday            Reason = "CLOSED_TODAY"
	ReasonOutsideHours           Reason = "OUTSIDE_HOURS"
	ReasonCardVerificationFailed Reason = "CARD_VERIFICATION_FAILED"
)

// EligibilityStatus is the outcome of checking a restaurant's operating hours
type EligibilityStatus string

const (
	EligibilityEligible     EligibilityStatus = "ELIGIBLE"
	EligibilityUnknown      EligibilityStatus = "UNKNOWN"
	EligibilityClosedToday  EligibilityStatus = "CLOSED_TODAY"
	EligibilityOutsideHours EligibilityStatus = "OUTSIDE_HOURS"
)

// IsValid checks if the eligibility status is valid
func (s EligibilityStatus) IsValid() bool {
	switch s {
	case EligibilityEligible,
		EligibilityUnknown,
		EligibilityClosedToday,
		EligibilityOutsideHours:
		return true
	default:
		return false
	}
}
