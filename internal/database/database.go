package database

import (
	"context"
	"fmt"

	"eshop/internal/config"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Collection names.
const (
	CollectionProducts   = "products"
	CollectionCategories = "categories"
	CollectionUsers      = "users"
	CollectionOrders     = "orders"
	CollectionOrderItems = "orderitems"
)

// NewClient connects to MongoDB and verifies the connection with a ping.
func NewClient(ctx context.Context, cfg config.DatabaseConfig, logger zerolog.Logger) (*mongo.Client, error) {
	opts := options.Client().
		ApplyURI(cfg.URI).
		SetMaxPoolSize(cfg.MaxPoolSize).
		SetConnectTimeout(cfg.ConnectTimeout).
		SetServerSelectionTimeout(cfg.ConnectTimeout)

	logger.Info().
		Str("database", cfg.Name).
		Uint64("max_pool_size", cfg.MaxPoolSize).
		Dur("connect_timeout", cfg.ConnectTimeout).
		Msg("connecting to database")

	connectCtx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info().Msg("database connection established")

	return client, nil
}

// EnsureIndexes creates the indexes the repositories rely on. It is idempotent.
func EnsureIndexes(ctx context.Context, db *mongo.Database, logger zerolog.Logger) error {
	indexes := map[string][]mongo.IndexModel{
		CollectionUsers: {
			{
				Keys:    bson.D{{Key: "email", Value: 1}},
				Options: options.Index().SetUnique(true).SetName("uniq_email"),
			},
		},
		CollectionOrders: {
			{Keys: bson.D{{Key: "user", Value: 1}}, Options: options.Index().SetName("idx_user")},
			{Keys: bson.D{{Key: "dateOrdered", Value: -1}}, Options: options.Index().SetName("idx_date_ordered")},
		},
		CollectionProducts: {
			{Keys: bson.D{{Key: "category", Value: 1}}, Options: options.Index().SetName("idx_category")},
			{Keys: bson.D{{Key: "isFeatured", Value: 1}}, Options: options.Index().SetName("idx_featured")},
		},
	}

	for collection, models := range indexes {
		names, err := db.Collection(collection).Indexes().CreateMany(ctx, models)
		if err != nil {
			return fmt.Errorf("failed to create indexes on %s: %w", collection, err)
		}
		logger.Debug().
			Str("collection", collection).
			Strs("indexes", names).
			Msg("indexes ensured")
	}

	return nil
}

// Ping reports whether the primary is reachable.
func Ping(ctx context.Context, client *mongo.Client) error {
	return client.Ping(ctx, readpref.Primary())
}
