package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"matatubook/cmd"
	"matatubook/internal/data/repository"
	"matatubook/internal/wire"
	"matatubook/internal/worker"
	"matatubook/pkg/database"
	"matatubook/pkg/mpesa"
	"matatubook/pkg/sms"
	"matatubook/pkg/utils"

	"go.uber.org/zap"
)

func main() {
	// Load config
	config, err := utils.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Initialize logger
	logger, err := utils.InitLogger(config.App.LogPath, config.App.Debug)
	if err != nil {
		log.Printf("Failed to init logger: %v. Using standard log.", err)
		logger, _ = zap.NewProduction()
	}
	defer logger.Sync()

	logger.Info("Starting application",
		zap.String("app", config.App.Name),
		zap.String("port", config.App.Port),
		zap.Bool("debug", config.App.Debug),
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Wait for the database, then bring the schema up to date
	if err := database.WaitForDB(ctx, config.Database, logger); err != nil {
		logger.Fatal("Database not reachable", zap.Error(err))
	}

	if err := database.Migrate(config.Database, logger); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	// Connect to database
	db, err := database.InitDB(config.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	logger.Info("Database connected successfully")

	// Initialize all repositories
	repos := repository.NewRepository(db, logger)

	// External gateways
	mpesaClient := mpesa.NewClient(config.MPesa, logger)
	smsClient := sms.NewClient(config.SMS, logger)

	// Wire all dependencies
	app := wire.Wiring(repos, config, mpesaClient, smsClient, logger)

	// First-boot admin account
	if config.Admin.Bootstrap {
		if err := app.Service.Auth.EnsureAdmin(ctx); err != nil {
			logger.Fatal("Failed to bootstrap admin account", zap.Error(err))
		}
	}

	// Background jobs
	runner := worker.NewRunner(app.Service, logger)
	runner.Start(ctx)

	// Start server
	if err := cmd.APIServer(ctx, app.Router, config.App.Port, logger); err != nil {
		logger.Error("Server stopped with error", zap.Error(err))
	}

	runner.Wait()
	logger.Info("Application stopped")
}
