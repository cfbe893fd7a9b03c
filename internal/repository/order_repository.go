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
	"go.mongodb.org/mongo-driver/mongo/options"
)

var newestFirst = bson.D{{Key: "dateOrdered", Value: -1}}

// orderRepository implements the OrderRepository interface using MongoDB.
type orderRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

// NewOrderRepository creates a new MongoDB-backed order repository.
func NewOrderRepository(db *mongo.Database, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		coll:   db.Collection(database.CollectionOrders),
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// GetAll retrieves every order, newest first.
func (r *orderRepository) GetAll(ctx context.Context) ([]model.Order, error) {
	orders, err := findMany[model.Order](ctx, r.coll, bson.M{}, options.Find().SetSort(newestFirst))
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	return orders, nil
}

// GetByID retrieves an order by its ID.
func (r *orderRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	order, err := findOne[model.Order](ctx, r.coll, bson.M{"_id": id})
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.Hex()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}
	if order == nil {
		r.logger.Debug().Str("order_id", id.Hex()).Msg("order not found")
	}
	return order, nil
}

// GetByUser retrieves the orders placed by a user, newest first.
func (r *orderRepository) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error) {
	orders, err := findMany[model.Order](ctx, r.coll, bson.M{"user": userID}, options.Find().SetSort(newestFirst))
	if err != nil {
		r.logger.Error().Err(err).Str("user_id", userID.Hex()).Msg("failed to query user orders")
		return nil, fmt.Errorf("failed to query user orders: %w", err)
	}
	return orders, nil
}

// Create inserts a new order and assigns its ID.
func (r *orderRepository) Create(ctx context.Context, order *model.Order) error {
	order.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, order); err != nil {
		r.logger.Error().Err(err).
			Str("user_id", order.User.Hex()).
			Int("item_count", len(order.OrderItems)).
			Msg("failed to insert order")
		return fmt.Errorf("failed to insert order: %w", err)
	}

	r.logger.Info().
		Str("order_id", order.ID.Hex()).
		Float64("total_price", order.TotalPrice).
		Msg("order created")
	return nil
}

// UpdateStatus overwrites the status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*model.Order, error) {
	updated, err := findOneAndUpdate[model.Order](ctx, r.coll, id, bson.M{"$set": bson.M{"status": status}}, nil)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.Hex()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	return updated, nil
}

// Delete removes an order and returns it.
func (r *orderRepository) Delete(ctx context.Context, id primitive.ObjectID) (*model.Order, error) {
	deleted, err := findOneAndDelete[model.Order](ctx, r.coll, id, nil)
	if err != nil {
		r.logger.Error().Err(err).Str("order_id", id.Hex()).Msg("failed to delete order")
		return nil, fmt.Errorf("failed to delete order: %w", err)
	}
	return deleted, nil
}

// Count returns the number of orders.
func (r *orderRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count orders")
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}

// TotalSales sums totalPrice across all orders.
func (r *orderRepository) TotalSales(ctx context.Context) (float64, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalsales", Value: bson.D{{Key: "$sum", Value: "$totalPrice"}}},
		}}},
	}

	cursor, err := r.coll.Aggregate(ctx, pipeline)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to aggregate total sales")
		return 0, fmt.Errorf("failed to aggregate total sales: %w", err)
	}
	defer cursor.Close(ctx)

	var results []model.TotalSales
	if err := cursor.All(ctx, &results); err != nil {
		return 0, fmt.Errorf("failed to decode total sales: %w", err)
	}

	if len(results) == 0 {
		return 0, nil
	}
	return results[0].TotalSales, nil
}
