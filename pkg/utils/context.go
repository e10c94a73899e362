package utils

import (
	"context"
)

type contextKey string

const (
	SessionKey contextKey = "session_token"
	TokenKey   contextKey = "token"
)

// GetSessionFromContext returns the front-end session token set by AuthSession.
func GetSessionFromContext(ctx context.Context) (string, bool) {
	val := ctx.Value(SessionKey)
	if val == nil {
		return "", false
	}

	session, ok := val.(string)
	return session, ok && session != ""
}

func SetSessionContext(ctx context.Context, session string) context.Context {
	return context.WithValue(ctx, SessionKey, session)
}

// GetTokenFromContext returns the upstream bearer token
func GetTokenFromContext(ctx context.Context) (string, bool) {
	tokenVal := ctx.Value(TokenKey)
	if tokenVal == nil {
		return "", false
	}

	token, ok := tokenVal.(string)
	return token, ok && token != ""
}

// SetTokenContext stores the upstream bearer token
func SetTokenContext(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, TokenKey, token)
}
