package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/RajaSunrise/toko/internal/models"
	"gorm.io/gorm"
)

// GORMAddressRepository is a GORM implementation of AddressRepository.
type GORMAddressRepository struct {
	db *gorm.DB
}

func NewGORMAddressRepository(db *gorm.DB) *GORMAddressRepository {
	return &GORMAddressRepository{db: db}
}

func (r *GORMAddressRepository) ListByUser(ctx context.Context, userID string, defaultFirst bool) ([]models.Address, error) {
	addresses := []models.Address{}
	q := r.db.WithContext(ctx).Where("user_id = ?", userID)
	if defaultFirst {
		q = q.Order("is_default DESC")
	}
	if err := q.Order("created_at").Order("id").Find(&addresses).Error; err != nil {
		return nil, fmt.Errorf("failed to list addresses of user %s: %w", userID, err)
	}
	return addresses, nil
}

func (r *GORMAddressRepository) GetForUser(ctx context.Context, userID string, id uint) (*models.Address, error) {
	var address models.Address
	if err := r.db.WithContext(ctx).First(&address, "id = ? AND user_id = ?", id, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("address %d of user %s: %w", id, userID, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get address %d: %w", id, err)
	}
	return &address, nil
}

func (r *GORMAddressRepository) Create(ctx context.Context, address *models.Address) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if address.IsDefault {
			if err := tx.Model(&models.Address{}).
				Where("user_id = ? AND is_default = ?", address.UserID, true).
				Update("is_default", false).Error; err != nil {
				return fmt.Errorf("failed to clear default address: %w", err)
			}
		}
		if err := tx.Create(address).Error; err != nil {
			return fmt.Errorf("failed to create address: %w", err)
		}
		return nil
	})
}

func (r *GORMAddressRepository) DeleteForUser(ctx context.Context, userID string, id uint) (bool, error) {
	res := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&models.Address{})
	if res.Error != nil {
		return false, fmt.Errorf("failed to delete address %d: %w", id, res.Error)
	}
	return res.RowsAffected > 0, nil
}
