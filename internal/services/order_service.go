package services

import (
	"context"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/internal/repositories"
	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/RajaSunrise/toko/pkg/metrics"
	"github.com/RajaSunrise/toko/pkg/money"
)

// OrderService materializes carts into orders and serves order lookups.
type OrderService struct {
	orderRepo repositories.OrderRepository
	carts     *CartService
	addresses repositories.AddressRepository
	publisher EventPublisher
	metrics   *metrics.Checkout
	log       *logger.Logger
	currency  string
}

// NewOrderService creates a new OrderService. publisher may be nil.
func NewOrderService(
	orderRepo repositories.OrderRepository,
	carts *CartService,
	addresses repositories.AddressRepository,
	publisher EventPublisher,
	m *metrics.Checkout,
	log *logger.Logger,
	currency string,
) *OrderService {
	return &OrderService{
		orderRepo: orderRepo,
		carts:     carts,
		addresses: addresses,
		publisher: publisher,
		metrics:   m,
		log:       log,
		currency:  currency,
	}
}

// CreateOrder snapshots the user's cart and the chosen address into a pending, unpaid
// order. The order and its lines are written together or not at all. The cart is left
// untouched until the payment is confirmed.
func (s *OrderService) CreateOrder(ctx context.Context, userID string, addressID uint) (*models.Order, error) {
	cartID, err := s.carts.GetOrCreateCart(ctx, userID)
	if err != nil {
		return nil, err
	}
	summary, err := s.carts.LoadWithTotals(ctx, cartID)
	if err != nil {
		return nil, err
	}
	if len(summary.Lines) == 0 {
		return nil, ErrEmptyCart
	}

	address, err := s.addresses.GetForUser(ctx, userID, addressID)
	if err != nil {
		return nil, storeError("load address", err, ErrAddressNotFound)
	}

	lines := make([]models.OrderLine, 0, len(summary.Lines))
	for _, l := range summary.Lines {
		lines = append(lines, models.OrderLine{
			ProductID: l.ProductID,
			Name:      lineName(l),
			Price:     money.Round(l.Price),
			Qty:       l.Qty,
			Subtotal:  l.Subtotal,
		})
	}

	// The order is charged the total the cart showed at checkout.
	order := &models.Order{
		UserID:          userID,
		Total:           summary.Total,
		Currency:        s.currency,
		Status:          models.OrderStatusPending,
		PaymentStatus:   models.PaymentStatusUnpaid,
		PaymentMethod:   models.PaymentMethodPagadito,
		AddressSnapshot: models.SnapshotOf(*address),
		Lines:           lines,
	}
	if err := s.orderRepo.CreateWithLines(ctx, order); err != nil {
		return nil, &RemoteStoreError{Op: "create order", Err: err}
	}

	s.metrics.IncOrdersCreated()
	ctx = s.log.WithField(ctx, "order_id", order.ID)
	s.log.Info(ctx, "order created")
	publishOrderEvent(ctx, s.publisher, s.log, EventOrderCreated, order)
	return order, nil
}

// ListForUser returns the user's orders, newest first.
func (s *OrderService) ListForUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, &RemoteStoreError{Op: "list orders", Err: err}
	}
	return orders, nil
}

// ListAll returns every order, newest first.
func (s *OrderService) ListAll(ctx context.Context) ([]models.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		return nil, &RemoteStoreError{Op: "list orders", Err: err}
	}
	return orders, nil
}

func (s *OrderService) GetWithLines(ctx context.Context, id uint) (*models.Order, error) {
	o, err := s.orderRepo.GetWithLines(ctx, id)
	if err != nil {
		return nil, storeError("get order", err, ErrOrderNotFound)
	}
	return o, nil
}

func (s *OrderService) GetForUser(ctx context.Context, userID string, id uint) (*models.Order, error) {
	o, err := s.orderRepo.GetForUser(ctx, userID, id)
	if err != nil {
		return nil, storeError("get order", err, ErrOrderNotFound)
	}
	return o, nil
}

// UpdateFulfilmentStatus sets the order status from the back-office. Payment status is
// owned by the reconciler and is never changed here.
func (s *OrderService) UpdateFulfilmentStatus(ctx context.Context, id uint, status string) error {
	if !models.IsFulfilmentStatus(status) {
		return ErrInvalidOrderStatus
	}
	if err := s.orderRepo.UpdateStatus(ctx, id, status); err != nil {
		return storeError("update order status", err, ErrOrderNotFound)
	}
	return nil
}

func (s *OrderService) Count(ctx context.Context) (int64, error) {
	n, err := s.orderRepo.Count(ctx)
	if err != nil {
		return 0, &RemoteStoreError{Op: "count orders", Err: err}
	}
	return n, nil
}
