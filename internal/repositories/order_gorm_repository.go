package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/RajaSunrise/toko/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMOrderRepository is a GORM implementation of OrderRepository.
type GORMOrderRepository struct {
	db *gorm.DB
}

// NewGORMOrderRepository creates a new instance of GORMOrderRepository.
func NewGORMOrderRepository(db *gorm.DB) *GORMOrderRepository {
	return &GORMOrderRepository{
		db: db,
	}
}

func (r *GORMOrderRepository) CreateWithLines(ctx context.Context, order *models.Order) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(order).Error; err != nil {
			return fmt.Errorf("failed to create order: %w", err)
		}
		if len(order.Lines) == 0 {
			return nil
		}
		for i := range order.Lines {
			order.Lines[i].OrderID = order.ID
		}
		if err := tx.Create(&order.Lines).Error; err != nil {
			return fmt.Errorf("failed to create order lines: %w", err)
		}
		return nil
	})
}

func (r *GORMOrderRepository) GetByID(ctx context.Context, id uint) (*models.Order, error) {
	return r.first(r.db.WithContext(ctx), "id = ?", id)
}

func (r *GORMOrderRepository) GetWithLines(ctx context.Context, id uint) (*models.Order, error) {
	q := r.db.WithContext(ctx).Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("id")
	})
	return r.first(q, "id = ?", id)
}

func (r *GORMOrderRepository) GetForUser(ctx context.Context, userID string, id uint) (*models.Order, error) {
	return r.first(r.db.WithContext(ctx), "id = ? AND user_id = ?", id, userID)
}

func (r *GORMOrderRepository) first(q *gorm.DB, query string, args ...any) (*models.Order, error) {
	var order models.Order
	if err := q.Where(query, args...).First(&order).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order %v: %w", args[0], ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get order %v: %w", args[0], err)
	}
	return &order, nil
}

func (r *GORMOrderRepository) ListByUser(ctx context.Context, userID string) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders of user %s: %w", userID, err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) ListAll(ctx context.Context) ([]models.Order, error) {
	orders := []models.Order{}
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&orders).Error; err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (r *GORMOrderRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	res := r.db.WithContext(ctx).Model(&models.Order{}).Where("id = ?", id).Update("status", status)
	if res.Error != nil {
		return fmt.Errorf("failed to update status of order %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMOrderRepository) MarkPaid(ctx context.Context, id uint, gatewayRef *string) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := transitionUnlessPaid(tx, id, models.OrderStatusPaid, models.PaymentStatusPaid, gatewayRef)
		if err != nil || !ok {
			return err
		}
		var order models.Order
		if err := tx.Select("user_id").First(&order, "id = ?", id).Error; err != nil {
			return fmt.Errorf("failed to load owner of order %d: %w", id, err)
		}
		if err := clearUserCart(tx, order.UserID); err != nil {
			return err
		}
		applied = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

func (r *GORMOrderRepository) MarkPaymentFailed(ctx context.Context, id uint, gatewayRef *string) (bool, error) {
	applied := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		ok, err := transitionUnlessPaid(tx, id, models.OrderStatusPending, models.PaymentStatusFailed, gatewayRef)
		applied = ok
		return err
	})
	if err != nil {
		return false, err
	}
	return applied, nil
}

// transitionUnlessPaid writes the new state only while payment_status is not paid, so a
// paid order never moves again whatever order the callbacks arrive in.
func transitionUnlessPaid(tx *gorm.DB, id uint, status, paymentStatus string, gatewayRef *string) (bool, error) {
	fields := map[string]any{
		"status":         status,
		"payment_status": paymentStatus,
	}
	if gatewayRef != nil {
		fields["gateway_ref"] = *gatewayRef
	}

	res := tx.Model(&models.Order{}).
		Where("id = ? AND payment_status <> ?", id, models.PaymentStatusPaid).
		Updates(fields)
	if res.Error != nil {
		return false, fmt.Errorf("failed to set order %d to %s/%s: %w", id, status, paymentStatus, res.Error)
	}
	if res.RowsAffected > 0 {
		return true, nil
	}

	var n int64
	if err := tx.Model(&models.Order{}).Where("id = ?", id).Count(&n).Error; err != nil {
		return false, fmt.Errorf("failed to look up order %d: %w", id, err)
	}
	if n == 0 {
		return false, fmt.Errorf("order %d: %w", id, ErrNotFound)
	}
	return false, nil
}

func (r *GORMOrderRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Order{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count orders: %w", err)
	}
	return n, nil
}
