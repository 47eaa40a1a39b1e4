package repositories

import (
	"context"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/shopspring/decimal"
)

// CartRepository defines the interface for cart data access.
type CartRepository interface {
	// GetOrCreate returns the user's cart, inserting it on first access.
	GetOrCreate(ctx context.Context, userID string) (*models.Cart, error)
	Lines(ctx context.Context, cartID uint) ([]models.CartLine, error)
	// AddLine inserts a line priced at price, or adds qty to the existing line for the product.
	AddLine(ctx context.Context, cartID, productID uint, qty int, price decimal.Decimal) error
	// UpdateQty reports false when no line with lineID belongs to cartID.
	UpdateQty(ctx context.Context, cartID, lineID uint, qty int) (bool, error)
	// RemoveLine reports false when no line with lineID belongs to cartID.
	RemoveLine(ctx context.Context, cartID, lineID uint) (bool, error)
	Clear(ctx context.Context, cartID uint) error
	CountLines(ctx context.Context, cartID uint) (int64, error)
}
