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

// categoryRepository implements the CategoryRepository interface using MongoDB.
type categoryRepository struct {
	coll   *mongo.Collection
	logger zerolog.Logger
}

// NewCategoryRepository creates a new MongoDB-backed category repository.
func NewCategoryRepository(db *mongo.Database, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		coll:   db.Collection(database.CollectionCategories),
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

func (r *categoryRepository) GetAll(ctx context.Context) ([]model.Category, error) {
	categories, err := findMany[model.Category](ctx, r.coll, bson.M{})
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	category, err := findOne[model.Category](ctx, r.coll, bson.M{"_id": id})
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", id.Hex()).Msg("failed to query category")
		return nil, fmt.Errorf("failed to query category: %w", err)
	}
	if category == nil {
		r.logger.Debug().Str("category_id", id.Hex()).Msg("category not found")
	}
	return category, nil
}

func (r *categoryRepository) GetByIDs(ctx context.Context, ids []primitive.ObjectID) ([]model.Category, error) {
	if len(ids) == 0 {
		return []model.Category{}, nil
	}

	categories, err := findMany[model.Category](ctx, r.coll, byIDs(ids))
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query categories by IDs")
		return nil, fmt.Errorf("failed to query categories by IDs: %w", err)
	}
	return categories, nil
}

func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	category.ID = primitive.NewObjectID()

	if _, err := r.coll.InsertOne(ctx, category); err != nil {
		r.logger.Error().Err(err).Str("name", category.Name).Msg("failed to insert category")
		return fmt.Errorf("failed to insert category: %w", err)
	}

	r.logger.Info().Str("category_id", category.ID.Hex()).Msg("category created")
	return nil
}

func (r *categoryRepository) Update(ctx context.Context, category *model.Category) (*model.Category, error) {
	update := bson.M{"$set": bson.M{
		"name":  category.Name,
		"icon":  category.Icon,
		"color": category.Color,
	}}

	updated, err := findOneAndUpdate[model.Category](ctx, r.coll, category.ID, update, nil)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", category.ID.Hex()).Msg("failed to update category")
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	return updated, nil
}

func (r *categoryRepository) Delete(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	deleted, err := findOneAndDelete[model.Category](ctx, r.coll, id, nil)
	if err != nil {
		r.logger.Error().Err(err).Str("category_id", id.Hex()).Msg("failed to delete category")
		return nil, fmt.Errorf("failed to delete category: %w", err)
	}
	return deleted, nil
}
