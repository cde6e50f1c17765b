package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"agrimart/internal/audit"
	"agrimart/internal/blob"
	"agrimart/internal/config"
	"agrimart/internal/database"
	"agrimart/internal/handler"
	"agrimart/internal/promotion"
	"agrimart/internal/repository"
	"agrimart/internal/router"
	"agrimart/internal/service"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env if present; real environments set variables directly
	_ = godotenv.Load()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Initialize logger
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting agrimart API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize repositories
	itemRepo := repository.NewItemRepository(pool, logger)
	addressRepo := repository.NewAddressRepository(pool, logger)
	cartRepo := repository.NewCartRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	promoRepo := repository.NewPromotionRepository(pool, logger)
	proofRepo := repository.NewProofRepository(pool, logger)
	statusRepo := repository.NewStatusRepository(pool, logger)

	// Initialize proof image store with S3 and local fallback
	var blobStore blob.Store
	if cfg.S3.Enabled {
		blobStore, err = blob.NewS3Store(ctx, cfg.S3.Bucket, cfg.S3.Region, cfg.S3.Prefix, logger)
		if err != nil {
			logger.Warn().
				Err(err).
				Msg("failed to initialise S3 blob store, falling back to local file system")
			blobStore, err = blob.NewFSStore("data/proofs", logger)
			if err != nil {
				return fmt.Errorf("failed to initialize blob store: %w", err)
			}
		}
	} else {
		blobStore, err = blob.NewFSStore("data/proofs", logger)
		if err != nil {
			return fmt.Errorf("failed to initialize blob store: %w", err)
		}
		logger.Info().Msg("using local file system for proof images (S3 disabled)")
	}

	// Initialize audit sink and promotion engine
	sink := audit.NewPGSink(pool, logger)
	engine := promotion.NewEngine(logger)

	// Initialize services
	addressService := service.NewAddressService(addressRepo, sink, logger)
	cartService := service.NewCartService(cartRepo, itemRepo, logger)
	orderService := service.NewOrderService(
		orderRepo,
		cartRepo,
		itemRepo,
		addressRepo,
		promoRepo,
		promoRepo,
		statusRepo,
		engine,
		sink,
		cfg.Fulfillment.ShippingFee,
		cfg.Fulfillment.OrderCodeRetries,
		logger,
	)
	fulfillmentService := service.NewFulfillmentService(orderRepo, statusRepo, sink, logger)
	proofService := service.NewProofService(proofRepo, orderRepo, blobStore, sink, logger)

	// Initialize HTTP handlers
	addressHandler := handler.NewAddressHandler(addressService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)
	fulfillmentHandler := handler.NewFulfillmentHandler(fulfillmentService, logger)
	proofHandler := handler.NewProofHandler(proofService, logger)

	// Initialize router
	mux := router.New(
		addressHandler,
		cartHandler,
		orderHandler,
		fulfillmentHandler,
		proofHandler,
		cfg.Auth.APIKey,
		logger,
	)

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
			// Force close
			if closeErr := server.Close(); closeErr != nil {
				logger.Error().Err(closeErr).Msg("failed to close server")
			}
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("server shutdown completed")
	}

	return nil
}
