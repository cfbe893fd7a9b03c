package service

import (
	"context"
	"fmt"
	"time"

	"eshop/internal/model"
	"eshop/internal/repository"
	"eshop/internal/storage"
	"eshop/internal/validate"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// productService implements ProductService.
type productService struct {
	repo         repository.ProductRepository
	categoryRepo repository.CategoryRepository
	images       storage.ImageStore
	now          func() time.Time
	logger       zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(
	repo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	images storage.ImageStore,
	logger zerolog.Logger,
) ProductService {
	return &productService{
		repo:         repo,
		categoryRepo: categoryRepo,
		images:       images,
		now:          time.Now,
		logger:       logger.With().Str("service", "product").Logger(),
	}
}

// GetAll retrieves products with their category populated.
func (s *productService) GetAll(ctx context.Context, categoryIDs []primitive.ObjectID) ([]model.ProductDetail, error) {
	products, err := s.repo.GetAll(ctx, categoryIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return withCategories(ctx, s.categoryRepo, products)
}

// GetByID retrieves a single product with its category populated.
func (s *productService) GetByID(ctx context.Context, id primitive.ObjectID) (*model.ProductDetail, error) {
	product, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if product == nil {
		return nil, model.ErrProductNotFound
	}

	details, err := withCategories(ctx, s.categoryRepo, []model.Product{*product})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *productService) GetFeatured(ctx context.Context, limit int64) ([]model.Product, error) {
	products, err := s.repo.GetFeatured(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list featured products: %w", err)
	}
	return products, nil
}

func (s *productService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

// Create validates the request, the category reference and the image before
// anything is written.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest, image *storage.Upload, baseURL string) (*model.Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	if image == nil {
		return nil, model.ErrNoImage
	}

	now := s.now()
	imageURL, err := s.storeImage(ctx, image, baseURL, now)
	if err != nil {
		return nil, err
	}

	product := productFromRequest(req, categoryID)
	product.Image = imageURL
	product.Images = []string{}
	product.DateCreated = now.UTC()

	if err := s.repo.Create(ctx, product); err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

// Update replaces a product. The stored image is kept when no new image is sent.
func (s *productService) Update(ctx context.Context, id primitive.ObjectID, req *model.ProductRequest, image *storage.Upload, baseURL string) (*model.Product, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	categoryID, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return nil, model.ErrProductNotFound
	}

	imageURL := existing.Image
	if image != nil {
		imageURL, err = s.storeImage(ctx, image, baseURL, s.now())
		if err != nil {
			return nil, err
		}
	}

	product := productFromRequest(req, categoryID)
	product.ID = id
	product.Image = imageURL

	updated, err := s.repo.Update(ctx, product)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if updated == nil {
		return nil, model.ErrProductNotFound
	}
	return updated, nil
}

// UpdateGallery validates every image before storing any of them.
func (s *productService) UpdateGallery(ctx context.Context, id primitive.ObjectID, images []*storage.Upload, baseURL string) (*model.Product, error) {
	if len(images) > storage.MaxGalleryImages {
		return nil, model.ErrTooManyImages
	}

	existing, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	if existing == nil {
		return nil, model.ErrProductNotFound
	}

	now := s.now()
	names := make([]string, len(images))
	for i, img := range images {
		if names[i], err = storage.Prepare(img, now); err != nil {
			return nil, err
		}
	}

	urls := make([]string, len(images))
	for i, img := range images {
		if urls[i], err = s.images.Save(ctx, names[i], img, baseURL); err != nil {
			s.logOrphans(id, urls[:i])
			return nil, fmt.Errorf("failed to store gallery image: %w", err)
		}
	}

	updated, err := s.repo.UpdateImages(ctx, id, urls)
	if err != nil {
		s.logOrphans(id, urls)
		return nil, fmt.Errorf("failed to update product gallery: %w", err)
	}
	if updated == nil {
		return nil, model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.Hex()).Int("images", len(urls)).Msg("product gallery updated")
	return updated, nil
}

// logOrphans records stored images that no product references after a failed
// gallery update. The stores have no delete operation; the files stay for manual cleanup.
func (s *productService) logOrphans(id primitive.ObjectID, urls []string) {
	if len(urls) == 0 {
		return
	}
	s.logger.Warn().
		Str("product_id", id.Hex()).
		Strs("orphaned_images", urls).
		Msg("gallery update failed after images were stored")
}

func (s *productService) Delete(ctx context.Context, id primitive.ObjectID) error {
	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if deleted == nil {
		return model.ErrProductNotFound
	}

	s.logger.Info().Str("product_id", id.Hex()).Msg("product deleted")
	return nil
}

// resolveCategory returns the category id if it refers to an existing category.
func (s *productService) resolveCategory(ctx context.Context, raw string) (primitive.ObjectID, error) {
	id, err := primitive.ObjectIDFromHex(raw)
	if err != nil {
		return primitive.NilObjectID, model.ErrInvalidCategory
	}

	category, err := s.categoryRepo.GetByID(ctx, id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("failed to check category: %w", err)
	}
	if category == nil {
		s.logger.Warn().Str("category_id", raw).Msg("product references unknown category")
		return primitive.NilObjectID, model.ErrInvalidCategory
	}
	return id, nil
}

func (s *productService) storeImage(ctx context.Context, image *storage.Upload, baseURL string, at time.Time) (string, error) {
	name, err := storage.Prepare(image, at)
	if err != nil {
		return "", err
	}

	url, err := s.images.Save(ctx, name, image, baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to store product image: %w", err)
	}
	return url, nil
}

func productFromRequest(req *model.ProductRequest, categoryID primitive.ObjectID) *model.Product {
	return &model.Product{
		Name:            req.Name,
		Description:     req.Description,
		RichDescription: req.RichDescription,
		Brand:           req.Brand,
		Price:           req.Price,
		Category:        categoryID,
		CountInStock:    req.CountInStock,
		Rating:          req.Rating,
		NumReviews:      req.NumReviews,
		IsFeatured:      req.IsFeatured,
	}
}
