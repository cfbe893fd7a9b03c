package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eshop/internal/model"
	"eshop/internal/repository"
	"eshop/internal/validate"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/sync/errgroup"
)

// maxConcurrentWrites bounds the per-request fan-out against the database.
const maxConcurrentWrites = 16

// orderService implements OrderService.
type orderService struct {
	orderRepo    repository.OrderRepository
	itemRepo     repository.OrderItemRepository
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	userRepo     repository.UserRepository
	now          func() time.Time
	logger       zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(
	orderRepo repository.OrderRepository,
	itemRepo repository.OrderItemRepository,
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	userRepo repository.UserRepository,
	logger zerolog.Logger,
) OrderService {
	return &orderService{
		orderRepo:    orderRepo,
		itemRepo:     itemRepo,
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		userRepo:     userRepo,
		now:          time.Now,
		logger:       logger.With().Str("service", "order").Logger(),
	}
}

// CreateOrder persists one item per requested line, prices every item against
// the current product price, and persists the order with the summed total.
// If any step fails the items created so far are deleted again.
func (s *orderService) CreateOrder(ctx context.Context, req *model.OrderRequest) (*model.Order, error) {
	if req == nil {
		return nil, model.ErrInvalidBody
	}
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	userID, err := model.ParseID(req.User, "User")
	if err != nil {
		return nil, err
	}

	productIDs := make([]primitive.ObjectID, len(req.OrderItems))
	for i, item := range req.OrderItems {
		if productIDs[i], err = model.ParseID(item.Product, "Product"); err != nil {
			return nil, err
		}
	}

	itemIDs, err := s.createItems(ctx, req.OrderItems, productIDs)
	if err != nil {
		return nil, err
	}

	total, err := s.priceItems(ctx, req.OrderItems, productIDs)
	if err != nil {
		s.compensate(ctx, itemIDs)
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.DefaultOrderStatus
	}

	order := &model.Order{
		OrderItems:       itemIDs,
		ShippingAddress1: req.ShippingAddress1,
		ShippingAddress2: req.ShippingAddress2,
		City:             req.City,
		Zip:              req.Zip,
		Country:          req.Country,
		Phone:            req.Phone,
		Status:           status,
		TotalPrice:       total.InexactFloat64(),
		User:             userID,
		DateOrdered:      s.now().UTC(),
	}

	if err := s.orderRepo.Create(ctx, order); err != nil {
		s.compensate(ctx, itemIDs)
		return nil, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.Hex()).
		Str("user_id", userID.Hex()).
		Int("item_count", len(itemIDs)).
		Str("total_price", total.String()).
		Msg("order created successfully")

	return order, nil
}

// createItems persists the items concurrently. The returned ids follow the
// request order. On failure every item that was created is removed.
func (s *orderService) createItems(ctx context.Context, items []model.OrderItemRequest, productIDs []primitive.ObjectID) ([]primitive.ObjectID, error) {
	ids := make([]primitive.ObjectID, len(items))
	created := make([]bool, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)

	for i := range items {
		g.Go(func() error {
			item := &model.OrderItem{Quantity: items[i].Quantity, Product: productIDs[i]}
			if err := s.itemRepo.Create(gctx, item); err != nil {
				return err
			}
			ids[i] = item.ID
			created[i] = true
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		var done []primitive.ObjectID
		for i, ok := range created {
			if ok {
				done = append(done, ids[i])
			}
		}
		s.compensate(ctx, done)
		return nil, fmt.Errorf("failed to create order items: %w", err)
	}

	return ids, nil
}

// priceItems looks up every product concurrently and sums quantity × price.
func (s *orderService) priceItems(ctx context.Context, items []model.OrderItemRequest, productIDs []primitive.ObjectID) (decimal.Decimal, error) {
	subtotals := make([]decimal.Decimal, len(items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentWrites)

	for i := range items {
		g.Go(func() error {
			product, err := s.productRepo.GetByID(gctx, productIDs[i])
			if err != nil {
				return fmt.Errorf("failed to price order item: %w", err)
			}
			if product == nil {
				s.logger.Warn().Str("product_id", productIDs[i].Hex()).Msg("order references unknown product")
				return model.ErrInvalidProduct
			}
			subtotals[i] = decimal.NewFromFloat(product.Price).Mul(decimal.NewFromInt(int64(items[i].Quantity)))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return decimal.Zero, err
	}

	return decimal.Sum(decimal.Zero, subtotals...), nil
}

// compensate deletes order items that belong to an order that was never created.
func (s *orderService) compensate(ctx context.Context, itemIDs []primitive.ObjectID) {
	if len(itemIDs) == 0 {
		return
	}

	// The request may already be cancelled; cleanup must still run.
	ctx = context.WithoutCancel(ctx)
	for _, id := range itemIDs {
		if err := s.itemRepo.Delete(ctx, id); err != nil {
			s.logger.Error().Err(err).Str("order_item_id", id.Hex()).Msg("failed to remove orphaned order item")
		}
	}

	s.logger.Warn().Int("item_count", len(itemIDs)).Msg("order creation rolled back")
}

func (s *orderService) GetAll(ctx context.Context) ([]model.OrderSummary, error) {
	orders, err := s.orderRepo.GetAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}

	userIDs := make([]primitive.ObjectID, len(orders))
	for i, o := range orders {
		userIDs[i] = o.User
	}

	users, err := usersByID(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, err
	}

	summaries := make([]model.OrderSummary, len(orders))
	for i, o := range orders {
		summaries[i] = model.OrderSummary{Order: o, User: users[o.User]}
	}
	return summaries, nil
}

func (s *orderService) GetByID(ctx context.Context, id primitive.ObjectID) (*model.OrderDetail, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	if order == nil {
		return nil, model.ErrOrderNotFound
	}

	details, err := s.details(ctx, []model.Order{*order})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *orderService) GetByUser(ctx context.Context, userID primitive.ObjectID) ([]model.OrderDetail, error) {
	orders, err := s.orderRepo.GetByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list user orders: %w", err)
	}
	return s.details(ctx, orders)
}

// details populates user, items, products and categories for each order.
func (s *orderService) details(ctx context.Context, orders []model.Order) ([]model.OrderDetail, error) {
	userIDs := make([]primitive.ObjectID, len(orders))
	itemLists := make([][]primitive.ObjectID, len(orders))
	for i, o := range orders {
		userIDs[i] = o.User
		itemLists[i] = o.OrderItems
	}

	users, err := usersByID(ctx, s.userRepo, userIDs)
	if err != nil {
		return nil, err
	}

	items, err := s.itemDetails(ctx, itemLists)
	if err != nil {
		return nil, err
	}

	details := make([]model.OrderDetail, len(orders))
	for i, o := range orders {
		details[i] = model.OrderDetail{Order: o, User: users[o.User], OrderItems: items[i]}
	}
	return details, nil
}

// UpdateStatus overwrites only the status; every other field is immutable after creation.
func (s *orderService) UpdateStatus(ctx context.Context, id primitive.ObjectID, req *model.OrderStatusRequest) (*model.Order, error) {
	if err := validate.Struct(req); err != nil {
		return nil, err
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, req.Status)
	if err != nil {
		return nil, fmt.Errorf("failed to update order: %w", err)
	}
	if updated == nil {
		return nil, model.ErrOrderNotFound
	}

	s.logger.Info().Str("order_id", id.Hex()).Str("status", req.Status).Msg("order status updated")
	return updated, nil
}

// Delete removes the order, then its items. Item removal is best-effort: a
// failure is logged and the order deletion still succeeds.
func (s *orderService) Delete(ctx context.Context, id primitive.ObjectID) error {
	order, err := s.orderRepo.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to delete order: %w", err)
	}
	if order == nil {
		return model.ErrOrderNotFound
	}

	var failed []error
	for _, itemID := range order.OrderItems {
		if err := s.itemRepo.Delete(ctx, itemID); err != nil {
			failed = append(failed, err)
			s.logger.Error().
				Err(err).
				Str("order_id", id.Hex()).
				Str("order_item_id", itemID.Hex()).
				Msg("failed to delete order item")
		}
	}

	s.logger.Info().
		Str("order_id", id.Hex()).
		Int("item_count", len(order.OrderItems)).
		AnErr("item_errors", errors.Join(failed...)).
		Msg("order deleted")
	return nil
}

func (s *orderService) TotalSales(ctx context.Context) (float64, error) {
	total, err := s.orderRepo.TotalSales(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to compute total sales: %w", err)
	}
	return total, nil
}

func (s *orderService) Count(ctx context.Context) (int64, error) {
	n, err := s.orderRepo.Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}
