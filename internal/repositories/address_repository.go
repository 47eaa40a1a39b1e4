package repositories

import (
	"context"

	"github.com/RajaSunrise/toko/internal/models"
)

// AddressRepository defines the interface for shipping address data access.
type AddressRepository interface {
	// ListByUser returns the user's addresses in creation order, or default first when defaultFirst is set.
	ListByUser(ctx context.Context, userID string, defaultFirst bool) ([]models.Address, error)
	GetForUser(ctx context.Context, userID string, id uint) (*models.Address, error)
	// Create inserts the address; when it is the default every other default of the user is cleared first.
	Create(ctx context.Context, address *models.Address) error
	DeleteForUser(ctx context.Context, userID string, id uint) (bool, error)
}
