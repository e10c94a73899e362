package wire

import (
	"hostel-booking/internal/adaptor"
	"hostel-booking/internal/usecase"
	"hostel-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireProfile(
	r chi.Router,
	profileHandler *adaptor.ProfileHandler,
	auth usecase.AuthService,
	log *zap.Logger,
) {
	// ==================== PROTECTED ROUTES ====================
	r.Group(func(r chi.Router) {
		r.Use(middleware.AuthSession(auth, log))

		r.Get("/api/me", profileHandler.Me)
		r.Post("/api/me", profileHandler.Update)
		r.Get("/api/profile", profileHandler.Dashboard)
		r.Post("/api/bookings/{id}/pay", profileHandler.Pay)
		r.Post("/api/bookings/{id}/cancel", profileHandler.Cancel)
	})
}
