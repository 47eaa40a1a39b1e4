package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GORMCartRepository is a GORM implementation of CartRepository.
type GORMCartRepository struct {
	db *gorm.DB
}

func NewGORMCartRepository(db *gorm.DB) *GORMCartRepository {
	return &GORMCartRepository{db: db}
}

// GetOrCreate relies on the unique user_id constraint: a concurrent insert loses the
// conflict and both callers read back the same row.
func (r *GORMCartRepository) GetOrCreate(ctx context.Context, userID string) (*models.Cart, error) {
	db := r.db.WithContext(ctx)

	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to get cart of user %s: %w", userID, err)
	}

	if err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&models.Cart{UserID: userID}).Error; err != nil {
		return nil, fmt.Errorf("failed to create cart of user %s: %w", userID, err)
	}

	cart = models.Cart{}
	if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
		return nil, fmt.Errorf("failed to reload cart of user %s: %w", userID, err)
	}
	return &cart, nil
}

func (r *GORMCartRepository) Lines(ctx context.Context, cartID uint) ([]models.CartLine, error) {
	lines := []models.CartLine{}
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Order("id").Find(&lines).Error; err != nil {
		return nil, fmt.Errorf("failed to load lines of cart %d: %w", cartID, err)
	}
	return lines, nil
}

func (r *GORMCartRepository) AddLine(ctx context.Context, cartID, productID uint, qty int, price decimal.Decimal) error {
	line := models.CartLine{CartID: cartID, ProductID: productID, Qty: qty, PriceAtAdd: price}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]any{
			"qty": gorm.Expr("cart_items.qty + excluded.qty"),
		}),
	}).Create(&line).Error
	if err != nil {
		return fmt.Errorf("failed to add product %d to cart %d: %w", productID, cartID, err)
	}
	return nil
}

func (r *GORMCartRepository) UpdateQty(ctx context.Context, cartID, lineID uint, qty int) (bool, error) {
	res := r.db.WithContext(ctx).Model(&models.CartLine{}).
		Where("id = ? AND cart_id = ?", lineID, cartID).
		Update("qty", qty)
	if res.Error != nil {
		return false, fmt.Errorf("failed to update cart line %d: %w", lineID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GORMCartRepository) RemoveLine(ctx context.Context, cartID, lineID uint) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND cart_id = ?", lineID, cartID).
		Delete(&models.CartLine{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to remove cart line %d: %w", lineID, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *GORMCartRepository) Clear(ctx context.Context, cartID uint) error {
	if err := r.db.WithContext(ctx).Where("cart_id = ?", cartID).Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart %d: %w", cartID, err)
	}
	return nil
}

func (r *GORMCartRepository) CountLines(ctx context.Context, cartID uint) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.CartLine{}).Where("cart_id = ?", cartID).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count lines of cart %d: %w", cartID, err)
	}
	return n, nil
}

// clearUserCart empties the cart owned by userID, if any. Used inside the paid transition.
func clearUserCart(tx *gorm.DB, userID string) error {
	sub := tx.Model(&models.Cart{}).Select("id").Where("user_id = ?", userID)
	if err := tx.Where("cart_id IN (?)", sub).Delete(&models.CartLine{}).Error; err != nil {
		return fmt.Errorf("failed to clear cart of user %s: %w", userID, err)
	}
	return nil
}
