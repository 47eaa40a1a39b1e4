package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Cart is the single shopping cart of a user.
type Cart struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"user_id" gorm:"uniqueIndex;type:varchar(36);not null"`
	CreatedAt time.Time `json:"created_at"`
}

// CartLine is one product in a cart. (cart_id, product_id) is unique.
type CartLine struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	CartID     uint            `json:"cart_id" gorm:"not null;uniqueIndex:idx_cart_items_cart_product"`
	ProductID  uint            `json:"product_id" gorm:"not null;uniqueIndex:idx_cart_items_cart_product"`
	Qty        int             `json:"qty" gorm:"not null"`
	PriceAtAdd decimal.Decimal `json:"price_at_add" gorm:"type:numeric(12,2);not null"`
}

func (CartLine) TableName() string { return "cart_items" }

// CartLineDetail is a cart line joined with live product data and priced at the
// product's current price.
type CartLineDetail struct {
	CartLine
	Product  *Product        `json:"product,omitempty"`
	ImageURL string          `json:"image_url,omitempty"`
	Price    decimal.Decimal `json:"price"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// Name returns the product name, or empty when the product no longer exists.
func (d CartLineDetail) Name() string {
	if d.Product == nil {
		return ""
	}
	return d.Product.Name
}
