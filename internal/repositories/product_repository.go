package repositories

import (
	"context"

	"github.com/RajaSunrise/toko/internal/models"
)

// ProductFilter narrows List. A nil IDs slice means no id filter; an empty one matches nothing.
type ProductFilter struct {
	Query      string
	IDs        []uint
	ActiveOnly bool
}

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	List(ctx context.Context, filter ProductFilter) ([]models.Product, error)
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error)
	// Create inserts the product and its category links in one transaction.
	Create(ctx context.Context, product *models.Product, categoryIDs []uint) error
	// Update saves the product fields and reconciles its category links in one transaction.
	Update(ctx context.Context, product *models.Product, categoryIDs []uint) error
	Delete(ctx context.Context, id uint) error
	SetImagePath(ctx context.Context, id uint, path string) error
	CategoryIDs(ctx context.Context, productID uint) ([]uint, error)
	IDsInCategory(ctx context.Context, categoryID uint) ([]uint, error)
	Count(ctx context.Context) (int64, error)
}
