package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"cakery/internal/config"
	"cakery/internal/database"
	"cakery/internal/handler"
	"cakery/internal/preview"
	"cakery/internal/repository"
	"cakery/internal/router"
	"cakery/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting cakery API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Apply pending schema migrations
	if err := database.Migrate(pool, logger); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	// Initialize repositories
	orderRepo := repository.NewOrderRepository(pool, logger)
	cakeRepo := repository.NewCakeRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)

	// Initialize preview store with S3 and local fallback
	var previewStore preview.Store
	if cfg.Preview.S3Enabled {
		previewStore, err = preview.NewS3Store(ctx, cfg.Preview.Bucket, cfg.Preview.Region, cfg.Preview.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 preview store, falling back to local directory")
			previewStore, err = preview.NewLocalStore(cfg.Preview.LocalDir, cfg.Preview.LocalURL, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize preview store: %w", err)
			}
		}
	} else {
		previewStore, err = preview.NewLocalStore(cfg.Preview.LocalDir, cfg.Preview.LocalURL, logger)
		if err != nil {
			return fmt.Errorf("failed to initialize preview store: %w", err)
		}
		logger.Info().Msg("using local directory for preview images (S3 disabled)")
	}

	// Initialize services
	orderService := service.NewOrderService(orderRepo, cfg.Payment, cfg.Orders, logger)
	cakeService := service.NewCakeService(cakeRepo, previewStore, logger)
	userService := service.NewUserService(userRepo, logger)

	// Initialize HTTP handlers
	orderHandler := handler.NewOrderHandler(orderService, userService, logger)
	cakeHandler := handler.NewCakeHandler(cakeService, userService, logger)
	adminHandler := handler.NewAdminHandler(orderService, userService, logger)

	// Initialize router
	mux := router.New(orderHandler, cakeHandler, adminHandler, userService, cfg.Auth.JWTSecret, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		// Attempt graceful shutdown
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error().Err(err).Msg("failed to shutdown server gracefully")
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
