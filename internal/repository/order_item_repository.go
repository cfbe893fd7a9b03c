package repository

import (
	"context"
	"fmt"

	"eshop/internal/database"
	"eshop/internal/model"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// orderItemRepository implements the OrderItemRepository interface using MongoDB.
type orderItemRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

// NewOrderItemRepository creates a new MongoDB-backed order item repository.
func NewOrderItemRepository(db *mongo.Database, logger zerolog.Logger) OrderItemRepository {
	return &orderItemRepository{
		coll:   db.Collection(database.CollectionOrderItems),
		logger: logger.With().Str("repository", "order_item").Logger(),
	}
}

func (r *orderItemRepository) Create(ctx context.Context, item *model.OrderItem) error {
	item.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, item); err != nil {
		r.logger.Error().Err(err).Str("product_id", item.Product.Hex()).Msg("failed to insert order item")
		return fmt.Errorf("failed to insert order item: %w", err)
	}
	return nil
}

func (r *orderItemRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.OrderItem, error) {
	item, err := findOne[model.OrderItem](ctx, r.coll, bson.M{"_id": id})
	if err != nil {
		r.logger.Error().Err(err).Str("order_item_id", id.Hex()).Msg("failed to query order item")
		return nil, fmt.Errorf("failed to query order item: %w", err)
	}
	return item, nil
}

func (r *orderItemRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.OrderItem, error) {
	if len(ids) == 0 {
		return []model.OrderItem{}, nil
	}

	items, err := findMany[model.OrderItem](ctx, r.coll, byIDs(ids))
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query order items by IDs")
		return nil, fmt.Errorf("failed to query order items by IDs: %w", err)
	}
	return items, nil
}

func (r *orderItemRepository) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.coll.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		r.logger.Error().Err(err).Str("order_item_id", id.Hex()).Msg("failed to delete order item")
		return fmt.Errorf("failed to delete order item: %w", err)
	}
	return nil
}
