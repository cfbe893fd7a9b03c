package service

import (
	"context"
	"fmt"

	"eshop/internal/model"
	"eshop/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// The document store has no joins; references are resolved with one batched
// lookup per collection. Dangling references populate as nil.

func categoriesByID(ctx context.Context, repo repository.CategoryRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.Category, error) {
	categories, err := repo.GetByIDs(ctx, model.UniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load categories: %w", err)
	}

	byID := make(map[primitive.ObjectID]*model.Category, len(categories))
	for i := range categories {
		byID[categories[i].ID] = &categories[i]
	}
	return byID, nil
}

// withCategories populates the category of each product.
func withCategories(ctx context.Context, repo repository.CategoryRepository, products []model.Product) ([]model.ProductDetail, error) {
	ids := make([]primitive.ObjectID, len(products))
	for i, p := range products {
		ids[i] = p.Category
	}

	categories, err := categoriesByID(ctx, repo, ids)
	if err != nil {
		return nil, err
	}

	details := make([]model.ProductDetail, len(products))
	for i, p := range products {
		details[i] = model.ProductDetail{Product: p, Category: categories[p.Category]}
	}
	return details, nil
}

func usersByID(ctx context.Context, repo repository.UserRepository, ids []primitive.ObjectID) (map[primitive.ObjectID]*model.UserSummary, error) {
	users, err := repo.GetByIDs(ctx, model.UniqueIDs(ids))
	if err != nil {
		return nil, fmt.Errorf("failed to load users: %w", err)
	}

	byID := make(map[primitive.ObjectID]*model.UserSummary, len(users))
	for _, u := range users {
		byID[u.ID] = &model.UserSummary{ID: u.ID, Name: u.Name}
	}
	return byID, nil
}

// itemDetails resolves order item ids to items with product and category
// populated. Each returned slice follows the order of its input id list.
func (s *orderService) itemDetails(ctx context.Context, itemLists [][]primitive.ObjectID) ([][]model.OrderItemDetail, error) {
	var allIDs []primitive.ObjectID
	for _, ids := range itemLists {
		allIDs = append(allIDs, ids...)
	}

	items, err := s.itemRepo.GetByIDs(ctx, model.UniqueIDs(allIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load order items: %w", err)
	}

	itemByID := make(map[primitive.ObjectID]model.OrderItem, len(items))
	productIDs := make([]primitive.ObjectID, 0, len(items))
	for _, item := range items {
		itemByID[item.ID] = item
		productIDs = append(productIDs, item.Product)
	}

	products, err := s.productRepo.GetByIDs(ctx, model.UniqueIDs(productIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}

	detailed, err := withCategories(ctx, s.categoryRepo, products)
	if err != nil {
		return nil, err
	}

	productByID := make(map[primitive.ObjectID]*model.ProductDetail, len(detailed))
	for i := range detailed {
		productByID[detailed[i].ID] = &detailed[i]
	}

	result := make([][]model.OrderItemDetail, len(itemLists))
	for i, ids := range itemLists {
		result[i] = make([]model.OrderItemDetail, 0, len(ids))
		for _, id := range ids {
			item, ok := itemByID[id]
			if !ok {
				s.logger.Warn().Str("order_item_id", id.Hex()).Msg("order references a missing item")
				continue
			}
			result[i] = append(result[i], model.OrderItemDetail{
				ID:       item.ID,
				Quantity: item.Quantity,
				Product:  productByID[item.Product],
			})
		}
	}
	return result, nil
}
