package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"hostel-booking/internal/data/repository"
	"hostel-booking/internal/wire"
	"hostel-booking/pkg/utils"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	wizardSweepInterval  = time.Minute
	sessionSweepInterval = time.Hour
	limiterIdle          = 10 * time.Minute
)

// APIServer serves app until ctx is cancelled, running the background
// sweepers alongside, then shuts down within the configured deadline.
func APIServer(ctx context.Context, app *wire.App, repo *repository.Repository, config *utils.Config, logger *zap.Logger) error {
	addr := fmt.Sprintf(":%s", config.App.Port)
	srv := &http.Server{
		Addr:              addr,
		Handler:           app.Router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("Server running", zap.String("addr", "http://localhost"+addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.App.ShutdownDeadline)
		defer cancel()
		logger.Info("Shutting down HTTP server")
		return srv.Shutdown(shutdownCtx)
	})

	g.Go(func() error {
		watchAuth(gctx, app, logger)
		return nil
	})

	g.Go(func() error {
		app.Service.Wizard.RunSweeper(gctx, wizardSweepInterval)
		return nil
	})

	g.Go(func() error {
		sweepSessions(gctx, repo, app, logger)
		return nil
	})

	return g.Wait()
}

// watchAuth logs every change of authentication state.
func watchAuth(ctx context.Context, app *wire.App, logger *zap.Logger) {
	events, cancel := app.Service.Auth.Subscribe()
	defer cancel()

	log := logger.With(zap.String("component", "auth_events"))
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			log.Info("Auth state changed",
				zap.String("type", string(ev.Type)),
				zap.String("user_id", ev.UserID),
				zap.String("reason", ev.Reason),
				zap.Time("at", ev.At),
			)
		}
	}
}

// sweepSessions purges expired sessions and forgets idle rate limit buckets.
func sweepSessions(ctx context.Context, repo *repository.Repository, app *wire.App, logger *zap.Logger) {
	ticker := time.NewTicker(sessionSweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := repo.Session.CleanExpiredSessions(ctx)
			if err != nil {
				logger.Error("Failed to clean expired sessions", zap.Error(err))
			} else if n > 0 {
				logger.Info("Expired sessions cleaned", zap.Int64("count", n))
			}
			app.LoginLimits.Cleanup(limiterIdle)
		}
	}
}
