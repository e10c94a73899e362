package middleware

import (
	"context"
	"errors"
	"net/http"

	"hostel-booking/internal/usecase"
	"hostel-booking/pkg/utils"

	"go.uber.org/zap"
)

// SessionResolver maps a front-end session token to the hostel API bearer token.
type SessionResolver interface {
	CurrentToken(ctx context.Context, sessionToken string) (string, error)
}

// AuthSession rejects requests without a valid session and puts the
// session and upstream token into the request context.
func AuthSession(sessions SessionResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				utils.ResponseUnauthorized(w, "Missing authorization token")
				return
			}

			session, ok := utils.BearerToken(authHeader)
			if !ok {
				utils.ResponseUnauthorized(w, "Invalid token format. Use: Bearer <token>")
				return
			}

			ctx, err := attachSession(r.Context(), sessions, session)
			if errors.Is(err, usecase.ErrUnauthenticated) {
				logger.Warn("Invalid or expired session", zap.String("path", r.URL.Path))
				utils.ResponseUnauthorized(w, "Invalid or expired session")
				return
			}
			if err != nil {
				logger.Error("Failed to validate session", zap.Error(err))
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OptionalAuth attaches the session when a valid one is presented and
// lets the request through anonymously otherwise.
func OptionalAuth(sessions SessionResolver, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			session, ok := utils.BearerToken(r.Header.Get("Authorization"))
			if !ok {
				next.ServeHTTP(w, r)
				return
			}

			ctx, err := attachSession(r.Context(), sessions, session)
			if err != nil {
				if !errors.Is(err, usecase.ErrUnauthenticated) {
					logger.Error("Failed to validate session", zap.Error(err))
				}
				next.ServeHTTP(w, r)
				return
			}
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func attachSession(ctx context.Context, sessions SessionResolver, session string) (context.Context, error) {
	token, err := sessions.CurrentToken(ctx, session)
	if err != nil {
		return ctx, err
	}
	if token == "" {
		return ctx, usecase.ErrUnauthenticated
	}
	ctx = utils.SetSessionContext(ctx, session)
	return utils.SetTokenContext(ctx, token), nil
}
