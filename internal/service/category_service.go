package service

import (
	"context"
	"fmt"

	"eshop/internal/model"
	"eshop/internal/repository"
	"eshop/internal/validate"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// categoryService implements CategoryService.
type categoryService struct {
	repo   repository.CategoryRepository
	logger zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(repo repository.CategoryRepository, logger zerolog.Logger) CategoryService {
	return &categoryService{
		repo:   repo,
		logger: logger.With().Str("service", "category").Logger(),
	}
}

func (s *categoryService) GetAll(ctx context.Context) ([]model.Category, error) {
	categories, err := s.repo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

func (s *categoryService) GetByID(ctx context.Context, id primitive.ObjectID) (*model.Category, error) {
	category, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	if category == nil {
		return nil, model.ErrCategoryNotFound
	}
	return category, nil
}

func (s *categoryService) Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	category := &model.Category{Name: req.Name, Icon: req.Icon, Color: req.Color}
	if err := s.repo.Create(ctx, category); err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	return category, nil
}

func (s *categoryService) Update(ctx context.Context, id primitive.ObjectID, req *model.CategoryRequest) (*model.Category, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	updated, err := s.repo.Update(ctx, &model.Category{ID: id, Name: req.Name, Icon: req.Icon, Color: req.Color})
	if err != nil {
		return nil, fmt.Errorf("failed to update category: %w", err)
	}
	if updated == nil {
		return nil, model.ErrCategoryNotFound
	}
	return updated, nil
}

func (s *categoryService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}
	if deleted == nil {
		return model.ErrCategoryNotFound
	}

	s.logger.Info().Str("category_id", id.Hex()).Msg("category deleted")
	return nil
}
