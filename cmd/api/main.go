package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"shams-elarab/internal/auth"
	"shams-elarab/internal/cache"
	"shams-elarab/internal/config"
	"shams-elarab/internal/database"
	"shams-elarab/internal/events"
	"shams-elarab/internal/handler"
	"shams-elarab/internal/media"
	"shams-elarab/internal/repository"
	"shams-elarab/internal/router"
	"shams-elarab/internal/service"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
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
	logger := config.NewLogger(cfg.Logger, "api")
	logger.Info().Msg("starting shams-elarab API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	pool, err := database.NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer pool.Close()

	if err := database.EnsureSchema(ctx, pool, logger); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}

	catalogCache, err := newCache(ctx, cfg.Cache, logger)
	if err != nil {
		return err
	}
	defer catalogCache.Close()

	uploader, err := newUploader(ctx, cfg.Media, logger)
	if err != nil {
		return err
	}

	publisher := newPublisher(cfg.Kafka, logger)
	defer func() {
		if err := publisher.Close(); err != nil {
			logger.Error().Err(err).Msg("failed to close event publisher")
		}
	}()

	// Initialize repositories
	courseRepo := repository.NewCourseRepository(pool, logger)
	roadmapRepo := repository.NewRoadmapRepository(pool, logger)
	pageRepo := repository.NewPageRepository(pool, logger)
	orderRepo := repository.NewOrderRepository(pool, logger)

	// Initialize services
	catalogService := service.NewCatalogService(courseRepo, roadmapRepo, catalogCache, logger)
	checkoutService := service.NewCheckoutService(orderRepo, catalogService, uploader, publisher, logger)
	orderService := service.NewOrderService(orderRepo, courseRepo, roadmapRepo, publisher, cfg.Orders.ReviewWindowHours, logger)
	pageService := service.NewPageService(pageRepo, logger)
	mediaService := service.NewMediaService(uploader, logger)

	// Initialize HTTP handlers
	handlers := router.Handlers{
		Health:   handler.NewHealthHandler(pool, logger),
		Catalog:  handler.NewCatalogHandler(catalogService, logger),
		Pages:    handler.NewPageHandler(pageService, logger),
		Checkout: handler.NewCheckoutHandler(checkoutService, cfg.Media.MaxUploadBytes, logger),
		Orders:   handler.NewOrderHandler(orderService, logger),
		Media:    handler.NewMediaHandler(mediaService, cfg.Media.MaxUploadBytes, logger),
	}

	verifier := auth.NewVerifier(cfg.Auth.JWTSecret, cfg.Auth.StaffRole, cfg.Auth.Issuer)

	// Initialize router
	mux := router.New(handlers, verifier, cfg.Server.RequestTimeout, logger)

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

// newCache returns the Redis catalog cache, or a no-op cache when disabled.
func newCache(ctx context.Context, cfg config.CacheConfig, logger zerolog.Logger) (cache.Cache, error) {
	if !cfg.Enabled {
		logger.Info().Msg("catalog cache disabled")
		return cache.NewNop(), nil
	}

	c, err := cache.NewRedisCache(ctx, &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	}, "catalog", cfg.TTL, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize cache: %w", err)
	}
	return c, nil
}

func newUploader(ctx context.Context, cfg config.MediaConfig, logger zerolog.Logger) (media.Uploader, error) {
	var (
		uploader media.Uploader
		err      error
	)

	switch cfg.Backend {
	case config.MediaBackendMinio:
		uploader, err = media.NewMinioUploader(ctx, media.MinioOptions{
			Endpoint:      cfg.MinioEndpoint,
			AccessKey:     cfg.MinioAccessKey,
			SecretKey:     cfg.MinioSecretKey,
			UseSSL:        cfg.MinioUseSSL,
			Bucket:        cfg.Bucket,
			Prefix:        cfg.Prefix,
			PublicBaseURL: cfg.PublicBaseURL,
		}, logger)
	default:
		uploader, err = media.NewS3Uploader(ctx, cfg.Bucket, cfg.Region, cfg.Prefix, cfg.PublicBaseURL, logger)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to initialize %s uploader: %w", cfg.Backend, err)
	}

	logger.Info().Str("backend", cfg.Backend).Str("bucket", cfg.Bucket).Msg("media uploader ready")
	return uploader, nil
}

func newPublisher(cfg config.KafkaConfig, logger zerolog.Logger) events.Publisher {
	if !cfg.Enabled {
		logger.Info().Msg("order events disabled")
		return events.NewNop()
	}

	logger.Info().Strs("brokers", cfg.Brokers).Str("topic", cfg.Topic).Msg("publishing order events to kafka")
	return events.NewKafkaPublisher(cfg.Brokers, cfg.Topic, logger)
}
