package checkout

import (
	"strconv"
	"strings"
	"time"

	"github.com/frontdash/checkout/internal/domain"
	"github.com/frontdash/checkout/pkg/errors"
)

const (
	cardNumberLength = 16
	cvvLength        = 3
)

// ValidatePayment checks the card form. A nil error means the card is accepted.
// Checks run in order and stop at the first failure. There is no issuer
// simulation and no spend limit, and the Luhn checksum is not applied here.
func ValidatePayment(in domain.PaymentInput, now time.Time) error {
	if len(digitsOnly(in.CardNumber)) != cardNumberLength {
		return &errors.ErrValidation{
			Reason:  domain.ReasonInvalidCardNumber,
			Message: "Card declined: invalid card number",
		}
	}

	if len(digitsOnly(in.CVV)) != cvvLength {
		return &errors.ErrValidation{
			Reason:  domain.ReasonInvalidCVV,
			Message: "Card declined: invalid CVV",
		}
	}

	month, monthErr := strconv.Atoi(strings.TrimSpace(in.ExpiryMonth))
	year, yearErr := strconv.Atoi(strings.TrimSpace(in.ExpiryYear))
	if monthErr != nil || yearErr != nil || month < 1 || month > 12 || year <= 0 {
		return &errors.ErrValidation{
			Reason:  domain.ReasonInvalidExpiry,
			Message: "Card declined: invalid expiration",
		}
	}

	if lastDayOfMonth(year, time.Month(month), now.Location()).Before(now) {
		return &errors.ErrValidation{
			Reason:  domain.ReasonCardExpired,
			Message: "Card declined: card expired",
		}
	}

	return nil
}

// lastDayOfMonth returns midnight at the start of the month's final day
func lastDayOfMonth(year int, month time.Month, loc *time.Location) time.Time {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc)
}

// LuhnValid reports whether a digit string passes the Luhn checksum.
// Sessions only apply it when built WithLuhnCheck.
func LuhnValid(digits string) bool {
	if digits == "" {
		return false
	}
	sum := 0
	double := false
	for i := len(digits) - 1; i >= 0; i-- {
		c := digits[i]
		if c < '0' || c > '9' {
			return false
		}
		d := int(c - '0')
		if double {
			d *= 2
			if d > 9 {
				d -= 9
			}
		}
		sum += d
		double = !double
	}
	return sum%10 == 0
}

func digitsOnly(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] >= '0' && s[i] <= '9' {
			b.WriteByte(s[i])
		}
	}
	return b.String()
}
