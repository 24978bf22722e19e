package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/frontdash/checkout/pkg/errors"
)

// errorStatus maps the checkout error taxonomy onto HTTP status codes
func errorStatus(err error) (int, string) {
	var (
		validation *errors.ErrValidation
		ineligible *errors.ErrIneligible
		transient  *errors.ErrTransientGateway
		submission *errors.ErrSubmission
		transition *errors.ErrInvalidStateTransition
		state      *errors.ErrInvalidState
		inFlight   *errors.ErrSubmissionInFlight
		notFound   *errors.ErrNotFound
	)

	switch {
	case stderrors.As(err, &validation):
		return http.StatusUnprocessableEntity, string(validation.Reason)
	case stderrors.As(err, &ineligible):
		return http.StatusConflict, string(ineligible.Reason)
	case stderrors.As(err, &transient):
		return http.StatusServiceUnavailable, string(transient.Reason)
	case stderrors.As(err, &submission):
		return http.StatusBadGateway, "ORDER_SUBMISSION_FAILED"
	case stderrors.As(err, &transition), stderrors.As(err, &state):
		return http.StatusConflict, "INVALID_STATE"
	case stderrors.As(err, &inFlight):
		return http.StatusConflict, "SUBMISSION_IN_FLIGHT"
	case stderrors.As(err, &notFound):
		return http.StatusNotFound, "NOT_FOUND"
	default:
		return http.StatusInternalServerError, "INTERNAL"
	}
}

// errorMessage is the text shown to the shopper
func errorMessage(err error) string {
	var submission *errors.ErrSubmission
	if stderrors.As(err, &submission) && submission.Message != "" {
		return submission.Message
	}
	return err.Error()
}

func respondError(c *gin.Context, logger *zap.Logger, err error, view interface{}) {
	status, reason := errorStatus(err)
	if status == http.StatusInternalServerError {
		logger.Error("Unhandled checkout error", zap.Error(err))
		c.JSON(status, gin.H{"error": "internal error"})
		return
	}

	body := gin.H{
		"error":  errorMessage(err),
		"reason": reason,
	}
	if view != nil {
		body["checkout"] = view
	}
	c.JSON(status, body)
}
