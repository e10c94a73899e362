// internal/wire/wire.go
package wire

import (
	"net/http"

	"hostel-booking/internal/adaptor"
	"hostel-booking/internal/data/repository"
	"hostel-booking/internal/usecase"
	"hostel-booking/pkg/cache"
	"hostel-booking/pkg/middleware"
	"hostel-booking/pkg/utils"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// App holds the router and the long-running pieces the server drives.
type App struct {
	Router      *chi.Mux
	Service     *usecase.Service
	LoginLimits *middleware.RateLimiter
}

// Wiring builds services, handlers and routes.
func Wiring(
	repo *repository.Repository,
	api usecase.HostelAPI,
	store cache.Cache,
	config *utils.Config,
	logger *zap.Logger,
) *App {
	service := usecase.NewService(repo, api, store, config, logger)
	handler := adaptor.NewHandler(service, logger)
	limiter := middleware.NewRateLimiter(config.App.LoginRatePerMin, logger)

	router := setupRouter(handler, service, limiter, config, logger)

	return &App{
		Router:      router,
		Service:     service,
		LoginLimits: limiter,
	}
}

func setupRouter(
	handler *adaptor.Handler,
	service *usecase.Service,
	limiter *middleware.RateLimiter,
	config *utils.Config,
	logger *zap.Logger,
) *chi.Mux {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recover(logger))
	r.Use(middleware.CORS(config.App.AllowedOrigin))

	wireAuth(r, handler.Auth, service.Auth, limiter, logger)
	wireRoom(r, handler.Room)
	wireWizard(r, handler.Wizard, service.Auth, logger)
	wireProfile(r, handler.Profile, service.Auth, logger)

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		utils.ResponseSuccess(w, "OK", map[string]string{"app": config.App.Name})
	})

	return r
}
