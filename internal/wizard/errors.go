package wizard

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrTransitionInFlight = errors.New("transition in progress")
	ErrLastStep           = errors.New("already at the last step")
	ErrFirstStep          = errors.New("already at the first step")
	ErrLoading            = errors.New("room resolution in progress")
	ErrSubmitting         = errors.New("submission in progress")
	ErrCompleted          = errors.New("booking already submitted")
	ErrClosed             = errors.New("wizard closed")
	ErrWrongStep          = errors.New("action not available at this step")
	ErrStaleResolution    = errors.New("stale room resolution ignored")
	ErrNotFound           = errors.New("wizard not found")

	ErrRoomRequired     = errors.New("room is required")
	ErrRoomNotFound     = errors.New("room not found")
	ErrDatesRequired    = errors.New("check-in and check-out dates are required")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidDateRange = errors.New("check-out must be at least one day after check-in")
	ErrCheckInPast      = errors.New("check-in cannot be in the past")
	ErrGuestsOutOfRange = errors.New("guests out of range")
	ErrTermsNotAccepted = errors.New("booking terms must be accepted")
	ErrPaymentMethod    = errors.New("invalid payment method")
	ErrGuestIncomplete  = errors.New("guest details incomplete")
)

// MissingFieldsError lists required guest fields that are still empty.
type MissingFieldsError struct {
	Fields []string
}

func (e *MissingFieldsError) Error() string {
	return fmt.Sprintf("%s: missing %s", ErrGuestIncomplete, strings.Join(e.Fields, ", "))
}

func (e *MissingFieldsError) Unwrap() error {
	return ErrGuestIncomplete
}

// IsValidation reports whether err means the draft does not yet satisfy a step.
func IsValidation(err error) bool {
	var missing *MissingFieldsError
	switch {
	case errors.As(err, &missing):
		return true
	case errors.Is(err, ErrRoomRequired),
		errors.Is(err, ErrDatesRequired),
		errors.Is(err, ErrInvalidDate),
		errors.Is(err, ErrInvalidDateRange),
		errors.Is(err, ErrCheckInPast),
		errors.Is(err, ErrGuestsOutOfRange),
		errors.Is(err, ErrTermsNotAccepted),
		errors.Is(err, ErrPaymentMethod),
		errors.Is(err, ErrGuestIncomplete):
		return true
	}
	return false
}
