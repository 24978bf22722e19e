package checkout

import (
	"strconv"
	"strings"
	"time"

	"github.com/frontdash/checkout/internal/domain"
	"github.com/frontdash/checkout/pkg/errors"
)

// CheckEligibility decides whether the restaurant accepts orders at now.
// The weekday is taken in now's location, so callers pass local time.
func CheckEligibility(hours []domain.OperatingHoursEntry, now time.Time) domain.Eligibility {
	today, ok := findDay(hours, now.Weekday())
	if !ok {
		return domain.Eligibility{Status: domain.EligibilityUnknown}
	}

	if today.IsClosed {
		return domain.Eligibility{Status: domain.EligibilityClosedToday}
	}

	openMinutes, openOK := minutesSinceMidnight(today.OpenTime)
	closeMinutes, closeOK := minutesSinceMidnight(today.CloseTime)
	if openOK && closeOK {
		nowMinutes := now.Hour()*60 + now.Minute()
		if nowMinutes < openMinutes || nowMinutes > closeMinutes {
			return domain.Eligibility{
				Status:    domain.EligibilityOutsideHours,
				OpenTime:  today.OpenTime,
				CloseTime: today.CloseTime,
			}
		}
	}

	return domain.Eligibility{Status: domain.EligibilityEligible}
}

// eligibilityError converts a blocking result into ErrIneligible
func eligibilityError(e domain.Eligibility) error {
	switch e.Status {
	case domain.EligibilityClosedToday:
		return &errors.ErrIneligible{Reason: domain.ReasonClosedToday, Message: e.Message()}
	case domain.EligibilityOutsideHours:
		return &errors.ErrIneligible{Reason: domain.ReasonOutsideHours, Message: e.Message()}
	default:
		return nil
	}
}

func findDay(hours []domain.OperatingHoursEntry, day time.Weekday) (domain.OperatingHoursEntry, bool) {
	name := day.String()
	for _, h := range hours {
		if strings.EqualFold(strings.TrimSpace(h.DayOfWeek), name) {
			return h, true
		}
	}
	return domain.OperatingHoursEntry{}, false
}

// minutesSinceMidnight parses "HH:MM". A trailing ":SS" is ignored.
// "24:00" is accepted as the end of the day.
func minutesSinceMidnight(clock string) (int, bool) {
	parts := strings.Split(strings.TrimSpace(clock), ":")
	if len(parts) < 2 || len(parts) > 3 {
		return 0, false
	}
	h, err := strconv.Atoi(parts[0])
	if err != nil || h < 0 || h > 24 {
		return 0, false
	}
	m, err := strconv.Atoi(parts[1])
	if err != nil || m < 0 || m > 59 {
		return 0, false
	}
	if h == 24 && (m != 0 || (len(parts) == 3 && strings.Trim(parts[2], "0") != "")) {
		return 0, false
	}
	return h*60 + m, true
}
