package repositories

import (
	"context"

	"github.com/RajaSunrise/toko/internal/models"
)

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	List(ctx context.Context) ([]models.Category, error)
	GetByID(ctx context.Context, id uint) (*models.Category, error)
	GetBySlug(ctx context.Context, slug string) (*models.Category, error)
	Create(ctx context.Context, category *models.Category) error
	Update(ctx context.Context, category *models.Category) error
	// Delete removes the category and its product links in one transaction.
	Delete(ctx context.Context, id uint) error
	Count(ctx context.Context) (int64, error)
}
