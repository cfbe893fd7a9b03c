package integration

import (
	"context"
	"net/http"
	"testing"
	"time"

	"eshop/internal/auth"
	"eshop/internal/config"
	"eshop/internal/database"
	"eshop/internal/handler"
	"eshop/internal/middleware"
	"eshop/internal/model"
	"eshop/internal/repository"
	"eshop/internal/router"
	"eshop/internal/service"
	"eshop/internal/storage"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

const (
	apiURL        = "/api/v1"
	adminEmail    = "admin@eshop.test"
	adminPassword = "s3cret-admin"
)

// TestEnv is a running API backed by a MongoDB test container.
type TestEnv struct {
	DB        *mongo.Database
	Server    http.Handler
	UploadDir string
}

// SetupTestEnv starts MongoDB, wires the full application stack and seeds one administrator.
func SetupTestEnv(t *testing.T) *TestEnv {
	t.Helper()

	ctx := context.Background()

	mongoContainer, err := mongodb.Run(ctx, "mongo:7")
	if err != nil {
		t.Fatalf("failed to start mongo container: %v", err)
	}

	uri, err := mongoContainer.ConnectionString(ctx)
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{APIURL: apiURL},
		Database: config.DatabaseConfig{
			URI:            uri,
			Name:           "eshop_test",
			ConnectTimeout: 30 * time.Second,
			MaxPoolSize:    10,
		},
		Auth: config.AuthConfig{
			Secret:    "integration-secret",
			Algorithm: "HS256",
			SaltCost:  bcrypt.MinCost,
			TokenTTL:  time.Hour,
		},
		Storage: config.StorageConfig{
			Backend:    "local",
			UploadDir:  t.TempDir(),
			PublicPath: "/public/uploads/",
		},
		CORS:      config.CORSConfig{AllowedOrigins: []string{"*"}},
		RateLimit: config.RateLimitConfig{RequestsPerSecond: 100, Burst: 100},
	}

	logger := zerolog.Nop()

	client, err := database.NewClient(ctx, cfg.Database, logger)
	if err != nil {
		t.Fatalf("failed to connect to database: %v", err)
	}

	t.Cleanup(func() {
		_ = client.Disconnect(ctx)
		if err := mongoContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	db := client.Database(cfg.Database.Name)
	require.NoError(t, database.EnsureIndexes(ctx, db, logger))

	categoryRepo := repository.NewCategoryRepository(db, logger)
	productRepo := repository.NewProductRepository(db, logger)
	userRepo := repository.NewUserRepository(db, logger)
	orderItemRepo := repository.NewOrderItemRepository(db, logger)
	orderRepo := repository.NewOrderRepository(db, logger)

	images, err := storage.NewLocalStore(cfg.Storage.UploadDir, cfg.Storage.PublicPath, logger)
	require.NoError(t, err)

	tokens, err := auth.NewManager(cfg.Auth.Secret, cfg.Auth.Algorithm, cfg.Auth.TokenTTL)
	require.NoError(t, err)

	userService := service.NewUserService(userRepo, tokens, cfg.Auth.SaltCost, logger)
	_, err = userService.Create(ctx, &model.UserRequest{
		Name:     "Admin",
		Email:    adminEmail,
		Password: adminPassword,
		Phone:    "+100000000",
		IsAdmin:  true,
	})
	require.NoError(t, err)

	server := router.New(cfg, router.Dependencies{
		Handlers: router.Handlers{
			Category: handler.NewCategoryHandler(service.NewCategoryService(categoryRepo, logger), logger),
			Product:  handler.NewProductHandler(service.NewProductService(productRepo, categoryRepo, images, logger), logger),
			User:     handler.NewUserHandler(userService, logger),
			Order: handler.NewOrderHandler(
				service.NewOrderService(orderRepo, orderItemRepo, productRepo, categoryRepo, userRepo, logger), logger),
		},
		Verifier: tokens,
		Metrics:  middleware.NewMetrics(),
		Limiter:  middleware.NewRateLimiter(cfg.RateLimit.RequestsPerSecond, cfg.RateLimit.Burst, logger),
		Ping: func(ctx context.Context) error {
			return database.Ping(ctx, client)
		},
		ServeUploads: true,
	}, logger)

	return &TestEnv{
		DB:        db,
		Server:    server,
		UploadDir: cfg.Storage.UploadDir,
	}
}

// CleanupDB removes every document written by a test.
func CleanupDB(t *testing.T, db *mongo.Database) {
	t.Helper()

	ctx := context.Background()

	collections := []string{
		database.CollectionOrderItems,
		database.CollectionOrders,
		database.CollectionProducts,
		database.CollectionCategories,
	}
	for _, name := range collections {
		if _, err := db.Collection(name).DeleteMany(ctx, bson.M{}); err != nil {
			t.Logf("failed to clean collection %s: %v", name, err)
		}
	}
}
