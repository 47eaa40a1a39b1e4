package services

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/internal/repositories"
	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/RajaSunrise/toko/pkg/money"
	"github.com/RajaSunrise/toko/pkg/storage"
	"github.com/shopspring/decimal"
)

// ProductInput carries the editable fields of a product.
type ProductInput struct {
	Name        string
	Slug        string
	Description string
	Price       decimal.Decimal
	Stock       int
	Active      bool
	CategoryIDs []uint
}

// Catalog is the storefront listing.
type Catalog struct {
	Products   []models.ProductView `json:"products"`
	Categories []models.Category    `json:"categories"`
	Query      string               `json:"q"`
	Category   string               `json:"category"`
}

// ProductEdit is a product with every category and the ids it is assigned to.
type ProductEdit struct {
	Product     models.ProductView `json:"product"`
	Categories  []models.Category  `json:"categories"`
	CategoryIDs []uint             `json:"category_ids"`
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo       repositories.ProductRepository
	categories repositories.CategoryRepository
	bucket     storage.Bucket
	log        *logger.Logger
}

// NewProductService creates a new ProductService.
func NewProductService(repo repositories.ProductRepository, categories repositories.CategoryRepository, bucket storage.Bucket, log *logger.Logger) *ProductService {
	return &ProductService{
		repo:       repo,
		categories: categories,
		bucket:     bucket,
		log:        log,
	}
}

func (s *ProductService) view(p models.Product) models.ProductView {
	v := models.ProductView{Product: p}
	if p.ImagePath != nil && s.bucket != nil {
		v.ImageURL = s.bucket.PublicURL(*p.ImagePath)
	}
	return v
}

func (s *ProductService) views(products []models.Product) []models.ProductView {
	out := make([]models.ProductView, 0, len(products))
	for _, p := range products {
		out = append(out, s.view(p))
	}
	return out
}

// Catalog lists active products matching query, restricted to the category with
// categorySlug when one is given. An unknown category yields no products.
func (s *ProductService) Catalog(ctx context.Context, query, categorySlug string) (*Catalog, error) {
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, &RemoteStoreError{Op: "list categories", Err: err}
	}

	filter := repositories.ProductFilter{Query: strings.TrimSpace(query), ActiveOnly: true}
	if categorySlug != "" {
		filter.IDs = []uint{}
		c, err := s.categories.GetBySlug(ctx, categorySlug)
		switch {
		case err == nil:
			ids, err := s.repo.IDsInCategory(ctx, c.ID)
			if err != nil {
				return nil, &RemoteStoreError{Op: "filter by category", Err: err}
			}
			filter.IDs = ids
		case !errors.Is(err, repositories.ErrNotFound):
			return nil, &RemoteStoreError{Op: "filter by category", Err: err}
		}
	}

	products, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, &RemoteStoreError{Op: "list products", Err: err}
	}
	return &Catalog{
		Products:   s.views(products),
		Categories: categories,
		Query:      filter.Query,
		Category:   categorySlug,
	}, nil
}

// List returns every product, active or not, for the back-office.
func (s *ProductService) List(ctx context.Context) ([]models.ProductView, error) {
	products, err := s.repo.List(ctx, repositories.ProductFilter{})
	if err != nil {
		return nil, &RemoteStoreError{Op: "list products", Err: err}
	}
	return s.views(products), nil
}

func (s *ProductService) Get(ctx context.Context, id uint) (*models.ProductView, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get product", err, ErrProductNotFound)
	}
	v := s.view(*p)
	return &v, nil
}

func (s *ProductService) Edit(ctx context.Context, id uint) (*ProductEdit, error) {
	v, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	categories, err := s.categories.List(ctx)
	if err != nil {
		return nil, &RemoteStoreError{Op: "list categories", Err: err}
	}
	ids, err := s.repo.CategoryIDs(ctx, id)
	if err != nil {
		return nil, &RemoteStoreError{Op: "product categories", Err: err}
	}
	return &ProductEdit{Product: *v, Categories: categories, CategoryIDs: ids}, nil
}

func (in ProductInput) apply(p *models.Product) {
	p.Name = strings.TrimSpace(in.Name)
	p.Slug = slugOr(in.Slug, in.Name)
	p.Description = strings.TrimSpace(in.Description)
	p.Price = money.Round(in.Price)
	p.Stock = in.Stock
	p.Active = in.Active
}

// Create stores a product with its categories.
func (s *ProductService) Create(ctx context.Context, in ProductInput) (*models.Product, error) {
	p := &models.Product{}
	in.apply(p)
	if err := s.repo.Create(ctx, p, in.CategoryIDs); err != nil {
		return nil, productWriteError("create product", err)
	}
	return p, nil
}

// Update saves the fields and replaces the category assignment.
func (s *ProductService) Update(ctx context.Context, id uint, in ProductInput) (*models.Product, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("update product", err, ErrProductNotFound)
	}
	in.apply(p)
	if err := s.repo.Update(ctx, p, in.CategoryIDs); err != nil {
		return nil, productWriteError("update product", err)
	}
	return p, nil
}

// Delete removes the product and its category links, then its image.
func (s *ProductService) Delete(ctx context.Context, id uint) error {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return storeError("delete product", err, ErrProductNotFound)
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return storeError("delete product", err, ErrProductNotFound)
	}
	if p.ImagePath != nil && s.bucket != nil {
		if err := s.bucket.Delete(ctx, *p.ImagePath); err != nil {
			s.log.Warn(s.log.WithField(ctx, "product_id", id), "failed to delete product image", err)
		}
	}
	return nil
}

// UploadImage stores r as the product image under products/<slug>.<ext>, replacing any
// previous object, and returns its public URL.
func (s *ProductService) UploadImage(ctx context.Context, id uint, r io.Reader) (string, error) {
	p, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return "", storeError("upload image", err, ErrProductNotFound)
	}
	img, err := storage.ReadImage(r)
	if err != nil {
		return "", err
	}

	path := storage.ProductImagePath(p.Slug, img.Extension)
	if p.ImagePath != nil && *p.ImagePath != path {
		if err := s.bucket.Delete(ctx, *p.ImagePath); err != nil {
			s.log.Warn(s.log.WithField(ctx, "product_id", id), "failed to delete previous product image", err)
		}
	}
	if err := s.bucket.Upload(ctx, path, bytes.NewReader(img.Data), img.ContentType); err != nil {
		return "", &RemoteStoreError{Op: "upload image", Err: err}
	}
	if err := s.repo.SetImagePath(ctx, id, path); err != nil {
		return "", storeError("upload image", err, ErrProductNotFound)
	}
	return s.bucket.PublicURL(path), nil
}

func (s *ProductService) Count(ctx context.Context) (int64, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return 0, &RemoteStoreError{Op: "count products", Err: err}
	}
	return n, nil
}

func productWriteError(op string, err error) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return ErrSlugTaken
	}
	return storeError(op, err, ErrProductNotFound)
}
