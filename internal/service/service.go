package service

import (
	"context"

	"eshop/internal/model"
	"eshop/internal/storage"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Missing resources are reported as model NotFound errors, never as nil results.

// CategoryService defines operations for category management.
type CategoryService interface {
	GetAll(ctx context.Context) ([]model.Category, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error)
	Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)
	Update(ctx context.Context, id primitive.ObjectID, req *model.CategoryRequest) (*model.Category, error)
	Delete(ctx context.Context, id primitive.ObjectID) error
}

// ProductService defines operations for product management.
type ProductService interface {
	// GetAll retrieves products with their category populated, optionally filtered by category.
	GetAll(ctx context.Context, categoryIDs []primitive.ObjectID) ([]model.ProductDetail, error)

	// GetByID retrieves a single product with its category populated.
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.ProductDetail, error)

	// GetFeatured retrieves featured products. A negative limit returns all of them.
	GetFeatured(ctx context.Context, limit int64) ([]model.Product, error)

	Count(ctx context.Context) (int64, error)

	// Create validates the category and image, stores the image and inserts the product.
	Create(ctx context.Context, req *model.ProductRequest, image *storage.Upload, baseURL string) (*model.Product, error)

	// Update replaces a product. A nil image keeps the stored one.
	Update(ctx context.Context, id primitive.ObjectID, req *model.ProductRequest, image *storage.Upload, baseURL string) (*model.Product, error)

	// UpdateGallery replaces the gallery with the given images.
	UpdateGallery(ctx context.Context, id primitive.ObjectID, images []*storage.Upload, baseURL string) (*model.Product, error)

	Delete(ctx context.Context, id primitive.ObjectID) error
}

// UserService defines operations for user management and authentication.
type UserService interface {
	GetAll(ctx context.Context) ([]model.User, error)
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.User, error)
	Count(ctx context.Context) (int64, error)

	// Create inserts a user, honouring isAdmin from the request.
	Create(ctx context.Context, req *model.UserRequest) (*model.User, error)

	// Register inserts a user that is never an administrator.
	Register(ctx context.Context, req *model.UserRequest) (*model.User, error)

	// Update replaces a user's profile; an empty password keeps the stored hash.
	Update(ctx context.Context, id primitive.ObjectID, req *model.UserRequest) (*model.User, error)

	Delete(ctx context.Context, id primitive.ObjectID) error

	// Login verifies credentials and issues a token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.LoginResponse, error)
}

// OrderService defines operations for order management.
type OrderService interface {
	// CreateOrder persists the order items, prices them and persists the order.
	CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error)

	// GetAll lists orders newest first with the user name populated.
	GetAll(ctx context.Context) ([]model.OrderSummary, error)

	// GetByID retrieves an order with user, items, products and categories populated.
	GetByID(ctx context.Context, id primitive.ObjectID) (*model.OrderDetail, error)

	// GetByUser lists a user's orders newest first with items populated.
	GetByUser(ctx context.Context, userID primitive.ObjectID) ([]model.OrderDetail, error)

	UpdateStatus(ctx context.Context, id primitive.ObjectID, req *model.OrderStatusRequest) (*model.Order, error)

	// Delete removes an order and then its items.
	Delete(ctx context.Context, id primitive.ObjectID) error

	TotalSales(ctx context.Context) (float64, error)
	Count(ctx context.Context) (int64, error)
}

// TokenIssuer issues signed tokens for authenticated users.
type TokenIssuer interface {
	Issue(userID string, isAdmin bool) (string, error)
}
