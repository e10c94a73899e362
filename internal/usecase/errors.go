package usecase

import (
	"context"
	"errors"

	"hostel-booking/pkg/hostelapi"
	"hostel-booking/pkg/utils"
)

var (
	ErrInvalidInput    = errors.New("invalid input")
	ErrUnauthenticated = errors.New("authentication required")
	ErrRoomNotFound    = errors.New("room not found")
	ErrBookingNotFound = errors.New("booking not found")
)

// ValidationError carries per-field messages keyed by JSON name.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed: " + utils.FormatValidationErrors(e.Fields)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

func validate(v any) error {
	if errs := utils.ValidateStruct(v); len(errs) > 0 {
		return &ValidationError{Fields: errs}
	}
	return nil
}

func fieldError(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}

// rejected drops the caller's session when the hostel API refused its token.
// It returns err unchanged for any other failure.
func rejected(ctx context.Context, auth AuthService, err error) error {
	if !errors.Is(err, hostelapi.ErrUnauthorized) {
		return err
	}
	if session, ok := utils.GetSessionFromContext(ctx); ok && auth != nil {
		auth.Invalidate(ctx, session, ReasonRejected)
	}
	return errors.Join(ErrUnauthenticated, err)
}
