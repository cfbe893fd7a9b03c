package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"eshop/internal/auth"
	"eshop/internal/config"
	"eshop/internal/database"
	"eshop/internal/handler"
	"eshop/internal/middleware"
	"eshop/internal/repository"
	"eshop/internal/router"
	"eshop/internal/service"
	"eshop/internal/storage"

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
	logger := config.NewLogger(cfg.Logger)
	logger.Info().Msg("starting eshop API server")

	// Create context for application lifecycle
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Connect to MongoDB
	client, err := database.NewClient(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer func() {
		disconnectCtx, disconnectCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer disconnectCancel()
		if err := client.Disconnect(disconnectCtx); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from database")
		}
	}()

	db := client.Database(cfg.Database.Name)
	if err := database.EnsureIndexes(ctx, db, logger); err != nil {
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	// Initialize repositories
	categoryRepo := repository.NewCategoryRepository(db, logger)
	productRepo := repository.NewProductRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)
	orderItemRepo := repository.NewOrderItemRepository(db, logger)
	orderRepo := repository.NewOrderRepository(db, logger)

	// Initialize image storage with S3 and local fallback
	images, err := newImageStore(ctx, cfg.Storage, logger)
	if err != nil {
		return fmt.Errorf("failed to initialize image storage: %w", err)
	}

	tokens, err := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Algorithm, cfg.Auth.TokenTTL)
	if err != nil {
		return fmt.Errorf("failed to initialize token manager: %w", err)
	}

	// Initialize services
	categoryService := service.NewCategoryService(categoryRepo, logger)
	productService := service.NewProductService(productRepo, categoryRepo, images, logger)
	userService := service.NewUserService(userRepo, tokens, cfg.Auth.SaltCost, logger)
	orderService := service.NewOrderService(orderRepo, orderItemRepo, productRepo, categoryRepo, userRepo, logger)

	limiter := middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger)
	stopCleanup := make(chan struct{})
	defer close(stopCleanup)
	limiter.StartCleanup(10*time.Minute, stopCleanup)

	// Initialize router
	mux := router.New(cfg, router.Dependencies{
		Handlers: router.Handlers{
			Category: handler.NewCategoryHandler(categoryService, logger),
			Product:  handler.NewProductHandler(productService, logger),
			User:     handler.NewUserHandler(userService, logger),
			Order:    handler.NewOrderHandler(orderService, logger),
		},
		Verifier: tokens,
		Metrics:  middleware.NewMetrics(),
		Limiter:  limiter,
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, client)
		},
		ServeUploads: true,
	}, logger)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Channel to listen for errors from the server
	serverErrors := make(chan error, 1)

	// Start HTTP server in a goroutine
	go func() {
		logger.Info().
			Str("address", cfg.Server.Address()).
			Str("api_url", cfg.Server.APIURL).
			Msg("HTTP server started")
		serverErrors <- server.ListenAndServe()
	}()

	// Channel to listen for interrupt signals
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	// Block until we receive a signal or an error
	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case sig := <-shutdown:
		logger.Info().
			Str("signal", sig.String()).
			Msg("shutdown signal received, starting graceful shutdown")

		// Create a context with timeout for shutdown
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
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

// newImageStore returns the local store, or S3 backed by the local store when
// the s3 backend is selected. An S3 client that cannot be created degrades to
// local storage only.
func newImageStore(ctx context.Context, cfg config.StorageConfig, logger zerolog.Logger) (storage.ImageStore, error) {
	local, err := storage.NewLocalStore(cfg.UploadDir, cfg.PublicPath, logger)
	if err != nil {
		return nil, err
	}

	if cfg.Backend != "s3" {
		logger.Info().Str("dir", cfg.UploadDir).Msg("using local file system for product images")
		return local, nil
	}

	s3Store, err := storage.NewS3Store(ctx, storage.S3Options{
		Bucket:    cfg.S3Bucket,
		Region:    cfg.S3Region,
		Prefix:    cfg.S3Prefix,
		PublicURL: cfg.S3PublicURL,
	}, logger)
	if err != nil {
		logger.Warn().
			Err(err).
			Msg("failed to initialise S3 image store, falling back to local file system only")
		return local, nil
	}

	logger.Info().Str("bucket", cfg.S3Bucket).Msg("using S3 for product images with local fallback")
	return storage.NewFallbackStore(s3Store, local, logger), nil
}
