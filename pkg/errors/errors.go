package errors

import (
	"fmt"

	"github.com/frontdash/checkout/internal/domain"
)

// ErrNotFound is returned when a session or archived confirmation does not exist
type ErrNotFound struct {
	Resource string
	ID       string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found: %s", e.Resource, e.ID)
}

// ErrInvalidStateTransition is returned when a checkout step is attempted from the wrong state
type ErrInvalidStateTransition struct {
	From domain.CheckoutState
	To   domain.CheckoutState
}

func (e *ErrInvalidStateTransition) Error() string {
	return fmt.Sprintf("invalid state transition from %s to %s", e.From, e.To)
}

// ErrValidation reports rejected form input. The shopper is expected to correct and resubmit.
type ErrValidation struct {
	Reason  domain.Reason
	Message string
}

func (e *ErrValidation) Error() string {
	return e.Message
}

// ErrIneligible reports that the restaurant is not accepting orders right now.
type ErrIneligible struct {
	Reason  domain.Reason
	Message string
}

func (e *ErrIneligible) Error() string {
	return e.Message
}

// ErrTransientGateway is a simulated payment gateway failure. Resubmitting is enough to recover.
type ErrTransientGateway struct {
	Reason  domain.Reason
	Message string
}

func (e *ErrTransientGateway) Error() string {
	return e.Message
}

// ErrSubmission wraps a failed order-creation call
type ErrSubmission struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *ErrSubmission) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("order submission failed: %v", e.Err)
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("order submission failed: status %d: %s", e.StatusCode, e.Message)
	}
	return "order submission failed: " + e.Message
}

func (e *ErrSubmission) Unwrap() error {
	return e.Err
}

// ErrSubmissionInFlight is returned when an order call is already outstanding for the session
type ErrSubmissionInFlight struct {
	SessionID string
}

func (e *ErrSubmissionInFlight) Error() string {
	return fmt.Sprintf("order submission already in progress for checkout %s", e.SessionID)
}

// ErrInvalidState is returned when an action is not available in the session's current state
type ErrInvalidState struct {
	State  domain.CheckoutState
	Action string
}

func (e *ErrInvalidState) Error() string {
	return fmt.Sprintf("cannot %s while checkout is %s", e.Action, e.State)
}
