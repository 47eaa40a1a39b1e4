package repositories

import (
	"context"

	"github.com/RajaSunrise/toko/internal/models"
)

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// CreateWithLines inserts the order and all of order.Lines in one transaction.
	CreateWithLines(ctx context.Context, order *models.Order) error
	GetByID(ctx context.Context, id uint) (*models.Order, error)
	GetWithLines(ctx context.Context, id uint) (*models.Order, error)
	GetForUser(ctx context.Context, userID string, id uint) (*models.Order, error)
	ListByUser(ctx context.Context, userID string) ([]models.Order, error)
	ListAll(ctx context.Context) ([]models.Order, error)
	// UpdateStatus sets the fulfilment status only. It never touches payment_status.
	UpdateStatus(ctx context.Context, id uint, status string) error
	// MarkPaid moves an unpaid order to (paid, paid) and empties the owner's cart in the
	// same transaction. It reports false when the order was already paid.
	MarkPaid(ctx context.Context, id uint, gatewayRef *string) (bool, error)
	// MarkPaymentFailed moves the order to (pending, failed) unless it is already paid,
	// in which case it reports false.
	MarkPaymentFailed(ctx context.Context, id uint, gatewayRef *string) (bool, error)
	Count(ctx context.Context) (int64, error)
}
