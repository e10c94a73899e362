package wire

import (
	"hostel-booking/internal/adaptor"
	"hostel-booking/internal/usecase"
	"hostel-booking/pkg/middleware"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

func wireWizard(
	r chi.Router,
	wizardHandler *adaptor.WizardHandler,
	auth usecase.AuthService,
	log *zap.Logger,
) {
	r.Route("/api/wizard", func(r chi.Router) {
		// anonymous visitors may fill the wizard; the session only matters for prefill and confirm
		r.Use(middleware.OptionalAuth(auth, log))

		r.Post("/", wizardHandler.Start)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", wizardHandler.Get)
			r.Delete("/", wizardHandler.Abandon)
			r.Get("/rooms", wizardHandler.Rooms)
			r.Post("/room", wizardHandler.SelectRoom)
			r.Put("/dates", wizardHandler.SetDates)
			r.Put("/guest", wizardHandler.SetGuest)
			r.Post("/prefill", wizardHandler.Prefill)
			r.Post("/next", wizardHandler.Next)
			r.Post("/prev", wizardHandler.Prev)
			r.With(middleware.AuthSession(auth, log)).Post("/confirm", wizardHandler.Confirm)
		})
	})
}
