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

// productRepository implements the ProductRepository interface using MongoDB.
type productRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

// NewProductRepository creates a new MongoDB-backed product repository.
func NewProductRepository(db *mongo.Database, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		coll:   db.Collection(database.CollectionProducts),
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

// GetAll retrieves products, optionally restricted to a set of categories.
func (r *productRepository) GetAll(ctx context.Context, categoryIDs []primitive.ObjectID) ([]model.Product, error) {
	filter := bson.M{}
	if len(categoryIDs) > 0 {
		filter["category"] = bson.M{"$in": categoryIDs}
	}

	products, err := findMany[model.Product](ctx, r.coll, filter)
	if err != nil {
		r.logger.Error().Err(err).
			Int("category_filter", len(categoryIDs)).
			Msg("failed to query products")
		return nil, fmt.Errorf("failed to query products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	product, err := findOne[model.Product](ctx, r.coll, bson.M{"_id": id})
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.Hex()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}
	if product == nil {
		r.logger.Debug().Str("product_id", id.Hex()).Msg("product not found")
	}
	return product, nil
}

// GetByIDs retrieves multiple products by their IDs.
func (r *productRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	products, err := findMany[model.Product](ctx, r.coll, byIDs(ids))
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query products by IDs")
		return nil, fmt.Errorf("failed to query products by IDs: %w", err)
	}
	return products, nil
}

// GetFeatured retrieves featured products, at most limit of them when limit >= 0.
func (r *productRepository) GetFeatured(ctx context.Context, limit int64) ([]model.Product, error) {
	if limit == 0 {
		return []model.Product{}, nil
	}

	opts := options.Find()
	if limit > 0 {
		opts.SetLimit(limit)
	}

	products, err := findMany[model.Product](ctx, r.coll, bson.M{"isFeatured": true}, opts)
	if err != nil {
		r.logger.Error().Err(err).Int64("limit", limit).Msg("failed to query featured products")
		return nil, fmt.Errorf("failed to query featured products: %w", err)
	}
	return products, nil
}

// Count returns the number of products.
func (r *productRepository) Count(ctx context.Context) (int64, error) {
	n, err := r.coll.CountDocuments(ctx, bson.M{})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// Create inserts a new product and assigns its ID.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	product.ID = primitive.NewObjectID()
	if product.Images == nil {
		product.Images = []string{}
	}

	if _, err := r.coll.InsertOne(ctx, product); err != nil {
		r.logger.Error().Err(err).Str("name", product.Name).Msg("failed to insert product")
		return fmt.Errorf("failed to insert product: %w", err)
	}

	r.logger.Info().
		Str("product_id", product.ID.Hex()).
		Str("category_id", product.Category.Hex()).
		Msg("product created")
	return nil
}

// Update replaces the mutable fields of a product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	update := bson.M{"$set": bson.M{
		"name":            product.Name,
		"description":     product.Description,
		"richDescription": product.RichDescription,
		"image":           product.Image,
		"brand":           product.Brand,
		"price":           product.Price,
		"category":        product.Category,
		"countInStock":    product.CountInStock,
		"rating":          product.Rating,
		"numReviews":      product.NumReviews,
		"isFeatured":      product.IsFeatured,
	}}

	updated, err := findOneAndUpdate[model.Product](ctx, r.coll, product.ID, update, nil)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", product.ID.Hex()).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	return updated, nil
}

// UpdateImages replaces the gallery of a product.
func (r *productRepository) UpdateImages(ctx context.Context, id primitive.ObjectID, images []string) (*model.Product, error) {
	if images == nil {
		images = []string{}
	}

	updated, err := findOneAndUpdate[model.Product](ctx, r.coll, id, bson.M{"$set": bson.M{"images": images}}, nil)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.Hex()).Msg("failed to update product gallery")
		return nil, fmt.Errorf("failed to update product gallery: %w", err)
	}
	return updated, nil
}

// Delete removes a product and returns it.
func (r *productRepository) Delete(ctx context.Context, id primitive.ObjectID) (*model.Product, error) {
	deleted, err := findOneAndDelete[model.Product](ctx, r.coll, id, nil)
	if err != nil {
		r.logger.Error().Err(err).Str("product_id", id.Hex()).Msg("failed to delete product")
		return nil, fmt.Errorf("failed to delete product: %w", err)
	}
	return deleted, nil
}
