// main.go
package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"hostel-booking/cmd"
	"hostel-booking/internal/data/repository"
	"hostel-booking/internal/wire"
	"hostel-booking/pkg/cache"
	"hostel-booking/pkg/database"
	"hostel-booking/pkg/hostelapi"
	"hostel-booking/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Name, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
		zap.String("hostel_api", config.Upstream.BaseURL),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Sessions live in Postgres when configured, in memory otherwise
	var db database.PgxIface
	if config.Database.Enabled() {
		db, err = database.InitDB(config.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		logger.Info("Database connected successfully")
	}
	repos := repository.NewRepository(db, logger)

	store := cache.NewNoop()
	if config.Redis.Enabled() {
		store, err = cache.NewRedis(ctx, config.Redis.Addr, config.Redis.Password, config.Redis.DB)
		if err != nil {
			logger.Warn("Redis unavailable, room cache disabled", zap.Error(err))
			store = cache.NewNoop()
		} else {
			logger.Info("Redis connected", zap.String("addr", config.Redis.Addr))
		}
	}
	defer store.Close()

	api := hostelapi.NewClient(hostelapi.Config{
		BaseURL:     config.Upstream.BaseURL,
		StorageURL:  config.Upstream.StorageURL,
		Placeholder: config.Wizard.Placeholder,
		Timeout:     config.Upstream.Timeout,
	}, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, api, store, config, logger)

	if err := cmd.APIServer(ctx, app, repos, config, logger); err != nil {
		logger.Fatal("Server error", zap.Error(err))
	}
	logger.Info("Server stopped")
}
