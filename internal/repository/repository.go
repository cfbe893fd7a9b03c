package repository

import (
	"context"

	"eshop/internal/model"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Lookups that find nothing return (nil, nil); callers decide whether that is NotFound.

// CategoryRepository defines the interface for category data access operations.
type CategoryRepository interface {
	GetAll(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error)

	// GetByIDs retrieves the categories that exist among ids, in no particular order.
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Category, error)

	Create(ctx context.Context, category *model.Category) error

	// Update replaces name, icon and color. It returns the updated category.
	Update(ctx context.Context, category *model.Category) (*model.Category, error)

	// Delete removes a category and returns the removed document.
	Delete(ctx context.Context, id primitive.ObjectID) (*model.Category, error)
}

// ProductRepository defines the interface for product data access operations.
type ProductRepository interface {
	// GetAll retrieves products, restricted to the given categories when any are provided.
	GetAll(ctx context.Context, categoryIDs []primitive.ObjectID) ([]model.Product, error)

	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Product, error)

	// GetFeatured retrieves featured products. A negative limit means no limit.
	GetFeatured(ctx context.Context, limit int64) ([]model.Product, error)

	Count(ctx context.Context) (int64, error)
	Create(ctx context.Context, product *model.Product) error

	// Update replaces every mutable field, including the image, and returns the result.
	Update(ctx context.Context, product *model.Product) (*model.Product, error)

	// UpdateImages replaces the gallery of a product and returns the result.
	UpdateImages(ctx context.Context, id primitive.ObjectID, images []string) (*model.Product, error)

	Delete(ctx context.Context, id primitive.ObjectID) (*model.Product, error)
}

// UserRepository defines the interface for user data access operations.
// Only GetByEmail returns the password hash.
type UserRepository interface {
	GetAll(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	Count(ctx context.Context) (int64, error)

	// Create inserts a user. A duplicate email yields model.ErrEmailTaken.
	Create(ctx context.Context, user *model.User) error

	// Update replaces the profile fields. The stored hash is kept when user.PasswordHash is empty.
	Update(ctx context.Context, user *model.User) (*model.User, error)

	Delete(ctx context.Context, id primitive.ObjectID) (*model.User, error)
}

// OrderItemRepository defines the interface for order item data access operations.
type OrderItemRepository interface {
	Create(ctx context.Context, item *model.OrderItem) error
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.OrderItem, error)
	GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.OrderItem, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// OrderRepository defines the interface for order data access operations.
type OrderRepository interface {
	// GetAll retrieves every order, newest first.
	GetAll(ctx context.Context) ([]model.Order, error)

	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Order, error)

	// GetByUser retrieves the orders placed by a user, newest first.
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]model.Order, error)

	Create(ctx context.Context, order *model.Order) error
	UpdateStatus(ctx context.Context, id primitive.ObjectID, status string) (*model.Order, error)
	Delete(ctx context.Context, id primitive.ObjectID) (*model.Order, error)
	Count(ctx context.Context) (int64, error)

	// TotalSales sums totalPrice over every order; an empty collection yields 0.
	TotalSales(ctx context.Context) (float64, error)
}
