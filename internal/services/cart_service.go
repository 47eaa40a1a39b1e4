package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/internal/repositories"
	"github.com/RajaSunrise/toko/pkg/money"
	"github.com/RajaSunrise/toko/pkg/storage"
	"github.com/shopspring/decimal"
)

// CartSummary is a cart priced at current product prices.
type CartSummary struct {
	CartID uint                    `json:"cart_id"`
	Lines  []models.CartLineDetail `json:"lines"`
	Total  decimal.Decimal         `json:"total"`
}

// CartService accumulates the line items of a user's cart.
type CartService struct {
	carts    repositories.CartRepository
	products repositories.ProductRepository
	bucket   storage.Bucket
}

func NewCartService(carts repositories.CartRepository, products repositories.ProductRepository, bucket storage.Bucket) *CartService {
	return &CartService{
		carts:    carts,
		products: products,
		bucket:   bucket,
	}
}

// ParseQty reads a quantity form field. Anything that is not a positive integer counts as 1.
func ParseQty(raw string) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return 1
	}
	return n
}

func clampQty(qty int) int {
	if qty < 1 {
		return 1
	}
	return qty
}

func (s *CartService) GetOrCreateCart(ctx context.Context, userID string) (uint, error) {
	if userID == "" {
		return 0, ErrUnauthenticated
	}
	cart, err := s.carts.GetOrCreate(ctx, userID)
	if err != nil {
		return 0, &RemoteStoreError{Op: "get cart", Err: err}
	}
	return cart.ID, nil
}

// AddLine adds qty of the product. An existing line keeps its captured price.
// Products hidden from the catalog cannot be added.
func (s *CartService) AddLine(ctx context.Context, cartID, productID uint, qty int) error {
	product, err := s.products.GetByID(ctx, productID)
	if err != nil {
		return storeError("add to cart", err, ErrProductNotFound)
	}
	if !product.Active {
		return ErrProductNotFound
	}
	if err := s.carts.AddLine(ctx, cartID, product.ID, clampQty(qty), product.Price); err != nil {
		return &RemoteStoreError{Op: "add to cart", Err: err}
	}
	return nil
}

// UpdateLineQty is a no-op for lines that do not belong to cartID.
func (s *CartService) UpdateLineQty(ctx context.Context, cartID, lineID uint, qty int) error {
	if _, err := s.carts.UpdateQty(ctx, cartID, lineID, clampQty(qty)); err != nil {
		return &RemoteStoreError{Op: "update cart line", Err: err}
	}
	return nil
}

// RemoveLine is a no-op for lines that do not belong to cartID.
func (s *CartService) RemoveLine(ctx context.Context, cartID, lineID uint) error {
	if _, err := s.carts.RemoveLine(ctx, cartID, lineID); err != nil {
		return &RemoteStoreError{Op: "remove cart line", Err: err}
	}
	return nil
}

// LoadWithTotals prices every line at the product's current price. Line subtotals are
// rounded individually; the total rounds the exact sum once.
func (s *CartService) LoadWithTotals(ctx context.Context, cartID uint) (*CartSummary, error) {
	lines, err := s.carts.Lines(ctx, cartID)
	if err != nil {
		return nil, &RemoteStoreError{Op: "load cart", Err: err}
	}

	ids := make([]uint, 0, len(lines))
	for _, l := range lines {
		ids = append(ids, l.ProductID)
	}
	products, err := s.products.GetByIDs(ctx, ids)
	if err != nil {
		return nil, &RemoteStoreError{Op: "load cart products", Err: err}
	}
	byID := make(map[uint]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	summary := &CartSummary{CartID: cartID, Lines: make([]models.CartLineDetail, 0, len(lines))}
	exact := make([]decimal.Decimal, 0, len(lines))
	for _, l := range lines {
		d := models.CartLineDetail{CartLine: l, Price: l.PriceAtAdd}
		if p, ok := byID[l.ProductID]; ok {
			d.Product = p
			d.Price = p.Price
			if p.ImagePath != nil && s.bucket != nil {
				d.ImageURL = s.bucket.PublicURL(*p.ImagePath)
			}
		}
		line := money.LineTotal(d.Price, l.Qty)
		d.Subtotal = money.Round(line)
		exact = append(exact, line)
		summary.Lines = append(summary.Lines, d)
	}
	summary.Total = money.Sum(exact...)
	return summary, nil
}

func (s *CartService) Count(ctx context.Context, cartID uint) (int64, error) {
	n, err := s.carts.CountLines(ctx, cartID)
	if err != nil {
		return 0, &RemoteStoreError{Op: "count cart", Err: err}
	}
	return n, nil
}

// Clear empties the cart. The paid transition of an order empties the owner's cart on its own.
func (s *CartService) Clear(ctx context.Context, cartID uint) error {
	if err := s.carts.Clear(ctx, cartID); err != nil {
		return &RemoteStoreError{Op: "clear cart", Err: err}
	}
	return nil
}

func lineName(d models.CartLineDetail) string {
	if name := d.Name(); name != "" {
		return name
	}
	return fmt.Sprintf("product %d", d.ProductID)
}
