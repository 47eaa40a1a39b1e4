package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/RajaSunrise/toko/internal/models"
	"gorm.io/gorm"
)

// GORMProductRepository is a GORM implementation of ProductRepository.
type GORMProductRepository struct {
	db *gorm.DB
}

// NewGORMProductRepository creates a new instance of GORMProductRepository.
func NewGORMProductRepository(db *gorm.DB) *GORMProductRepository {
	return &GORMProductRepository{
		db: db,
	}
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// List retrieves products ordered by name.
func (r *GORMProductRepository) List(ctx context.Context, filter ProductFilter) ([]models.Product, error) {
	products := []models.Product{}
	if filter.IDs != nil && len(filter.IDs) == 0 {
		return products, nil
	}

	q := r.db.WithContext(ctx).Model(&models.Product{})
	if s := strings.TrimSpace(filter.Query); s != "" {
		q = q.Where(`LOWER(name) LIKE ? ESCAPE '\'`, "%"+likeEscaper.Replace(strings.ToLower(s))+"%")
	}
	if filter.IDs != nil {
		q = q.Where("id IN ?", filter.IDs)
	}
	if filter.ActiveOnly {
		q = q.Where("active = ?", true)
	}
	if err := q.Order("name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a single product by its ID from the database.
func (r *GORMProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("failed to get product by ID %d: %w", id, err)
	}
	return &product, nil
}

// GetByIDs retrieves the products that still exist among ids.
func (r *GORMProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	products := []models.Product{}
	if len(ids) == 0 {
		return products, nil
	}
	if err := r.db.WithContext(ctx).Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to get products by IDs: %w", err)
	}
	return products, nil
}

// Create creates a new product and links it to categoryIDs.
func (r *GORMProductRepository) Create(ctx context.Context, product *models.Product, categoryIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(product).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("product slug %s: %w", product.Slug, ErrDuplicate)
			}
			return fmt.Errorf("failed to create product: %w", err)
		}
		toAdd, _ := diffIDs(nil, categoryIDs)
		return linkCategories(tx, product.ID, toAdd)
	})
}

// Update writes the editable fields and applies the category diff.
func (r *GORMProductRepository) Update(ctx context.Context, product *models.Product, categoryIDs []uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.Product{ID: product.ID}).
			Select("name", "slug", "description", "price", "stock", "active", "updated_at").
			Updates(product)
		if res.Error != nil {
			if errors.Is(res.Error, gorm.ErrDuplicatedKey) {
				return fmt.Errorf("product slug %s: %w", product.Slug, ErrDuplicate)
			}
			return fmt.Errorf("failed to update product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %d: %w", product.ID, ErrNotFound)
		}

		var current []uint
		if err := tx.Model(&models.ProductCategory{}).
			Where("product_id = ?", product.ID).
			Pluck("category_id", &current).Error; err != nil {
			return fmt.Errorf("failed to load product categories: %w", err)
		}

		toAdd, toDel := diffIDs(current, categoryIDs)
		if err := linkCategories(tx, product.ID, toAdd); err != nil {
			return err
		}
		if len(toDel) > 0 {
			if err := tx.Where("product_id = ? AND category_id IN ?", product.ID, toDel).
				Delete(&models.ProductCategory{}).Error; err != nil {
				return fmt.Errorf("failed to unlink categories: %w", err)
			}
		}
		return nil
	})
}

// Delete deletes a product and its category links.
func (r *GORMProductRepository) Delete(ctx context.Context, id uint) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", id).Delete(&models.ProductCategory{}).Error; err != nil {
			return fmt.Errorf("failed to unlink product categories: %w", err)
		}
		res := tx.Delete(&models.Product{}, "id = ?", id)
		if res.Error != nil {
			return fmt.Errorf("failed to delete product: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
		}
		return nil
	})
}

func (r *GORMProductRepository) SetImagePath(ctx context.Context, id uint, path string) error {
	res := r.db.WithContext(ctx).Model(&models.Product{}).Where("id = ?", id).Update("image_path", path)
	if res.Error != nil {
		return fmt.Errorf("failed to set image of product %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("product with ID %d: %w", id, ErrNotFound)
	}
	return nil
}

func (r *GORMProductRepository) CategoryIDs(ctx context.Context, productID uint) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.ProductCategory{}).
		Where("product_id = ?", productID).
		Order("category_id").
		Pluck("category_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load categories of product %d: %w", productID, err)
	}
	return ids, nil
}

func (r *GORMProductRepository) IDsInCategory(ctx context.Context, categoryID uint) ([]uint, error) {
	ids := []uint{}
	if err := r.db.WithContext(ctx).Model(&models.ProductCategory{}).
		Where("category_id = ?", categoryID).
		Pluck("product_id", &ids).Error; err != nil {
		return nil, fmt.Errorf("failed to load products of category %d: %w", categoryID, err)
	}
	return ids, nil
}

func (r *GORMProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return n, nil
}

func linkCategories(tx *gorm.DB, productID uint, categoryIDs []uint) error {
	if len(categoryIDs) == 0 {
		return nil
	}
	links := make([]models.ProductCategory, 0, len(categoryIDs))
	for _, cid := range categoryIDs {
		links = append(links, models.ProductCategory{ProductID: productID, CategoryID: cid})
	}
	if err := tx.Create(&links).Error; err != nil {
		return fmt.Errorf("failed to link categories: %w", err)
	}
	return nil
}

// diffIDs returns the ids in want but not in have, and the ones in have but not in want.
func diffIDs(have, want []uint) (toAdd, toDel []uint) {
	haveSet := make(map[uint]struct{}, len(have))
	for _, id := range have {
		haveSet[id] = struct{}{}
	}
	wantSet := make(map[uint]struct{}, len(want))
	for _, id := range want {
		if _, dup := wantSet[id]; dup {
			continue
		}
		wantSet[id] = struct{}{}
		if _, ok := haveSet[id]; !ok {
			toAdd = append(toAdd, id)
		}
	}
	for _, id := range have {
		if _, ok := wantSet[id]; !ok {
			toDel = append(toDel, id)
		}
	}
	return toAdd, toDel
}
