package utils

import (
	"github.com/google/uuid"
)

// GenerateSessionToken returns a new opaque front-end session token.
func GenerateSessionToken() uuid.UUID {
	return uuid.New()
}

// IsSessionToken reports whether s has the shape of a session token.
func IsSessionToken(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
