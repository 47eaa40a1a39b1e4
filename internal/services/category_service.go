package services

import (
	"context"
	"errors"
	"strings"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/internal/repositories"
	"github.com/RajaSunrise/toko/pkg/slug"
)

// CategoryService is the back-office side of categories.
type CategoryService struct {
	categories repositories.CategoryRepository
}

func NewCategoryService(categories repositories.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]models.Category, error) {
	list, err := s.categories.List(ctx)
	if err != nil {
		return nil, &RemoteStoreError{Op: "list categories", Err: err}
	}
	return list, nil
}

func (s *CategoryService) Get(ctx context.Context, id uint) (*models.Category, error) {
	c, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, storeError("get category", err, ErrCategoryNotFound)
	}
	return c, nil
}

// Create stores a category. An empty slug is derived from the name.
func (s *CategoryService) Create(ctx context.Context, name, categorySlug string) (*models.Category, error) {
	c := &models.Category{Name: strings.TrimSpace(name), Slug: slugOr(categorySlug, name)}
	if err := s.categories.Create(ctx, c); err != nil {
		return nil, categoryWriteError("create category", err)
	}
	return c, nil
}

func (s *CategoryService) Update(ctx context.Context, id uint, name, categorySlug string) (*models.Category, error) {
	c := &models.Category{ID: id, Name: strings.TrimSpace(name), Slug: slugOr(categorySlug, name)}
	if err := s.categories.Update(ctx, c); err != nil {
		return nil, categoryWriteError("update category", err)
	}
	return c, nil
}

// Delete removes the category and its product links.
func (s *CategoryService) Delete(ctx context.Context, id uint) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return storeError("delete category", err, ErrCategoryNotFound)
	}
	return nil
}

func (s *CategoryService) Count(ctx context.Context) (int64, error) {
	n, err := s.categories.Count(ctx)
	if err != nil {
		return 0, &RemoteStoreError{Op: "count categories", Err: err}
	}
	return n, nil
}

func categoryWriteError(op string, err error) error {
	if errors.Is(err, repositories.ErrDuplicate) {
		return ErrSlugTaken
	}
	return storeError(op, err, ErrCategoryNotFound)
}

func slugOr(explicit, name string) string {
	if s := slug.Make(explicit); s != "" {
		return s
	}
	return slug.Make(name)
}
