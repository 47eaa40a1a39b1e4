package services_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/internal/repositories"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/RajaSunrise/toko/internal/testutil"
	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/RajaSunrise/toko/pkg/storage"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProductRepository is a mock implementation of repositories.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) List(ctx context.Context, filter repositories.ProductFilter) ([]models.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Product), args.Error(1)
}

func (m *MockProductRepository) GetByIDs(ctx context.Context, ids []uint) ([]models.Product, error) {
	args := m.Called(ctx, ids)
	return args.Get(0).([]models.Product), args.Error(1)
}

func (m *MockProductRepository) Create(ctx context.Context, product *models.Product, categoryIDs []uint) error {
	args := m.Called(ctx, product, categoryIDs)
	return args.Error(0)
}

func (m *MockProductRepository) Update(ctx context.Context, product *models.Product, categoryIDs []uint) error {
	args := m.Called(ctx, product, categoryIDs)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uint) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) SetImagePath(ctx context.Context, id uint, path string) error {
	args := m.Called(ctx, id, path)
	return args.Error(0)
}

func (m *MockProductRepository) CategoryIDs(ctx context.Context, productID uint) ([]uint, error) {
	args := m.Called(ctx, productID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockProductRepository) IDsInCategory(ctx context.Context, categoryID uint) ([]uint, error) {
	args := m.Called(ctx, categoryID)
	return args.Get(0).([]uint), args.Error(1)
}

func (m *MockProductRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

func TestProductService_WriteErrors(t *testing.T) {
	mockRepo := new(MockProductRepository)
	service := services.NewProductService(mockRepo, nil, storage.NewMemoryBucket("https://cdn.test"), logger.Nop())
	ctx := context.Background()
	in := services.ProductInput{Name: "Café de Olla", Price: decimal.RequireFromString("12.345")}

	mockRepo.On("Create", ctx, mock.MatchedBy(func(p *models.Product) bool {
		return p.Slug == "cafe-de-olla" && p.Price.Equal(decimal.RequireFromString("12.35"))
	}), []uint(nil)).Return(fmt.Errorf("x: %w", repositories.ErrDuplicate)).Once()
	_, err := service.Create(ctx, in)
	assert.ErrorIs(t, err, services.ErrSlugTaken)

	mockRepo.On("GetByID", ctx, uint(9)).Return(nil, fmt.Errorf("product: %w", repositories.ErrNotFound)).Once()
	_, err = service.Update(ctx, 9, in)
	assert.ErrorIs(t, err, services.ErrProductNotFound)

	mockRepo.On("Count", ctx).Return(int64(0), errors.New("connection reset")).Once()
	_, err = service.Count(ctx)
	var storeErr *services.RemoteStoreError
	require.ErrorAs(t, err, &storeErr)
	assert.Equal(t, "count products", storeErr.Op)
	mockRepo.AssertExpectations(t)
}

func TestProductService_UploadImageReplacesPrevious(t *testing.T) {
	mockRepo := new(MockProductRepository)
	bucket := storage.NewMemoryBucket("https://cdn.test")
	service := services.NewProductService(mockRepo, nil, bucket, logger.Nop())
	ctx := context.Background()

	old := "products/mug.jpg"
	require.NoError(t, bucket.Upload(ctx, old, bytes.NewReader([]byte("old")), "image/jpeg"))

	mockRepo.On("GetByID", ctx, uint(3)).Return(&models.Product{ID: 3, Slug: "mug", ImagePath: &old}, nil).Once()
	mockRepo.On("SetImagePath", ctx, uint(3), "products/mug.png").Return(nil).Once()

	url, err := service.UploadImage(ctx, 3, bytes.NewReader(pngHeader))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.test/products/mug.png", url)
	_, ok := bucket.Object(old)
	assert.False(t, ok)
	obj, ok := bucket.Object("products/mug.png")
	require.True(t, ok)
	assert.Equal(t, "image/png", obj.ContentType)

	mockRepo.On("GetByID", ctx, uint(3)).Return(&models.Product{ID: 3, Slug: "mug"}, nil).Once()
	_, err = service.UploadImage(ctx, 3, bytes.NewReader([]byte("plain text, not an image")))
	assert.ErrorIs(t, err, storage.ErrUnsupportedImage)
	mockRepo.AssertExpectations(t)
}

func TestProductService_Catalog(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	productRepo := repositories.NewGORMProductRepository(conn)
	categoryRepo := repositories.NewGORMCategoryRepository(conn)
	service := services.NewProductService(productRepo, categoryRepo, storage.NewMemoryBucket("https://cdn.test"), logger.Nop())
	categories := services.NewCategoryService(categoryRepo)

	drinks, err := categories.Create(ctx, "Bebidas Frías", "")
	require.NoError(t, err)
	assert.Equal(t, "bebidas-frias", drinks.Slug)

	tea, err := service.Create(ctx, services.ProductInput{Name: "Iced Tea", Price: decimal.RequireFromString("2.50"), Active: true, CategoryIDs: []uint{drinks.ID}})
	require.NoError(t, err)
	_, err = service.Create(ctx, services.ProductInput{Name: "Hot Tea", Price: decimal.RequireFromString("2.00"), Active: true})
	require.NoError(t, err)
	_, err = service.Create(ctx, services.ProductInput{Name: "Iced Coffee", Price: decimal.RequireFromString("3.00"), Active: false, CategoryIDs: []uint{drinks.ID}})
	require.NoError(t, err)

	all, err := service.Catalog(ctx, "", "")
	require.NoError(t, err)
	require.Len(t, all.Products, 2)
	assert.Equal(t, "Hot Tea", all.Products[0].Name)
	assert.Len(t, all.Categories, 1)

	byCategory, err := service.Catalog(ctx, "", drinks.Slug)
	require.NoError(t, err)
	require.Len(t, byCategory.Products, 1)
	assert.Equal(t, tea.ID, byCategory.Products[0].ID)

	byQuery, err := service.Catalog(ctx, "  ICED ", "")
	require.NoError(t, err)
	require.Len(t, byQuery.Products, 1)
	assert.Equal(t, "ICED", byQuery.Query)

	unknown, err := service.Catalog(ctx, "", "does-not-exist")
	require.NoError(t, err)
	assert.Empty(t, unknown.Products)

	noMatch, err := service.Catalog(ctx, "100%_", "")
	require.NoError(t, err)
	assert.Empty(t, noMatch.Products)

	edit, err := service.Edit(ctx, tea.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{drinks.ID}, edit.CategoryIDs)

	_, err = service.Update(ctx, tea.ID, services.ProductInput{Name: "Iced Tea", Price: decimal.RequireFromString("2.75"), Active: true})
	require.NoError(t, err)
	edit, err = service.Edit(ctx, tea.ID)
	require.NoError(t, err)
	assert.Empty(t, edit.CategoryIDs)
	assert.True(t, decimal.RequireFromString("2.75").Equal(edit.Product.Price))

	require.NoError(t, categories.Delete(ctx, drinks.ID))
	assert.ErrorIs(t, categories.Delete(ctx, drinks.ID), services.ErrCategoryNotFound)
}

func TestProductService_DeleteRemovesImage(t *testing.T) {
	conn := testutil.NewDB(t)
	ctx := context.Background()
	bucket := storage.NewMemoryBucket("https://cdn.test")
	service := services.NewProductService(repositories.NewGORMProductRepository(conn), repositories.NewGORMCategoryRepository(conn), bucket, logger.Nop())

	p := testutil.SeedProduct(t, conn, "Mug", "8.00")
	url, err := service.UploadImage(ctx, p.ID, bytes.NewReader(pngHeader))
	require.NoError(t, err)

	view, err := service.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, url, view.ImageURL)

	require.NoError(t, service.Delete(ctx, p.ID))
	_, ok := bucket.Object(*view.ImagePath)
	assert.False(t, ok)

	_, err = service.Get(ctx, p.ID)
	assert.ErrorIs(t, err, services.ErrProductNotFound)
	assert.ErrorIs(t, service.Delete(ctx, p.ID), services.ErrProductNotFound)
}
