package wire

import (
	"hostel-booking/internal/adaptor"
	"hostel-booking/internal/usecase"
	"hostel-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireAuth(
	r chi.Router,
	authHandler *adaptor.AuthHandler,
	auth usecase.AuthService,
	limiter *middleware.RateLimiter,
	log *zap.Logger,
) {
	// ==================== PUBLIC ROUTES ====================
	r.With(limiter.Handler).Post("/api/register", authHandler.Register)
	r.With(limiter.Handler).Post("/api/login", authHandler.Login)

	// ==================== PROTECTED ROUTES ====================
	r.With(middleware.AuthSession(auth, log)).Post("/api/logout", authHandler.Logout)
}
