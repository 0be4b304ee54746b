package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sellora/internal/cart"
	"sellora/internal/config"
	"sellora/internal/database"
	"sellora/internal/events"
	"sellora/internal/handler"
	"sellora/internal/inventory"
	"sellora/internal/payment"
	"sellora/internal/repository"
	"sellora/internal/router"
	"sellora/internal/seed"
	"sellora/internal/service"

	"github.com/redis/go-redis/v9"
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
	logger.Info().Msg("starting sellora API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Apply pending schema migrations before opening the pool
	if err := database.Migrate(cfg.Database, logger); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	// Initialize Redis client for the cart store
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Address,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("failed to connect to redis: %w", err)
	}
	defer redisClient.Close()

	// Initialize repositories
	productRepo := repository.NewProductRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)
	userRepo := repository.NewUserRepository(pool, logger)
	outboxRepo := repository.NewOutboxRepository(pool, logger)

	// Seed the catalogue if configured, with S3 and local fallback
	if cfg.Seed.Enabled {
		fileLoader := seed.NewFileLoader(logger)
		var seedLoader seed.Loader = fileLoader

		if cfg.Seed.S3Enabled {
			s3Loader, err := seed.NewS3Loader(ctx, cfg.Seed.S3Bucket, cfg.Seed.S3Region, logger)
			if err != nil {
				logger.Warn().
					Err(err).
					Msg("failed to initialise S3 loader, falling back to local file system only")
			} else {
				seedLoader = seed.NewFallbackLoader(s3Loader, fileLoader, cfg.Seed.S3Prefix, true, logger)
			}
		}

		importer := seed.NewImporter(seedLoader, productRepo, logger)
		if err := importer.Run(ctx, cfg.Seed.File); err != nil {
			return fmt.Errorf("failed to seed catalogue: %w", err)
		}
	}

	// Initialize the cart store, stock reservation store and payment processor
	cartStore := cart.NewRedisStore(redisClient, cfg.Redis.CartTTL, logger)
	reservations := inventory.NewMemoryStore(cfg.Checkout.ReservationTTL, logger)
	defer reservations.Close()
	processor := payment.NewSimulatedProcessor(cfg.Checkout.PaymentDelay, logger)

	// Initialize services
	productService := service.NewProductService(productRepo, logger)
	cartService := service.NewCartService(cartStore, productRepo, logger)
	orderService := service.NewOrderService(orderRepo, productRepo, outboxRepo, logger)
	checkoutService := service.NewCheckoutService(
		cartService,
		orderService,
		productRepo,
		userRepo,
		reservations,
		processor,
		logger,
	)

	// Start the outbox publisher if events are enabled
	if cfg.Events.Enabled {
		writer := events.NewWriter(cfg.Events.Brokers, cfg.Events.Topic)
		publisher := events.NewPublisher(outboxRepo, writer, cfg.Events.PollInterval, logger)
		go publisher.Run(ctx)
	}

	// Initialize HTTP handlers
	productHandler := handler.NewProductHandler(productService, logger)
	cartHandler := handler.NewCartHandler(cartService, logger)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, logger)
	orderHandler := handler.NewOrderHandler(orderService, logger)

	// Initialize router
	mux := router.New(productHandler, cartHandler, checkoutHandler, orderHandler, cfg.Auth.APIKey, logger)

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
