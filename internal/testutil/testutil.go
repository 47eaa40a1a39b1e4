// Package testutil builds throwaway stores for tests in other packages.
package testutil

import (
	"fmt"
	"testing"

	"github.com/RajaSunrise/toko/internal/models"
	"github.com/RajaSunrise/toko/pkg/db"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// NewDB opens a private in-memory sqlite database with every table migrated.
// A single connection is used so the shared-cache database never sees lock contention.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString())
	conn, err := db.Open(db.Config{Driver: "sqlite", DSN: dsn, MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(conn))
	t.Cleanup(func() { _ = db.Close(conn) })
	return conn
}

// SeedProduct inserts an active product priced at price.
func SeedProduct(t testing.TB, conn *gorm.DB, name, price string) *models.Product {
	t.Helper()
	p := &models.Product{
		Name:   name,
		Slug:   uuid.NewString(),
		Price:  decimal.RequireFromString(price),
		Stock:  100,
		Active: true,
	}
	require.NoError(t, conn.Create(p).Error)
	return p
}

// SeedUser inserts a user with a throwaway password hash.
func SeedUser(t testing.TB, conn *gorm.DB) *models.User {
	t.Helper()
	u := &models.User{ID: uuid.NewString(), Email: uuid.NewString() + "@example.com", Password: "x"}
	require.NoError(t, conn.Create(u).Error)
	return u
}

// SeedAddress inserts an address owned by userID.
func SeedAddress(t testing.TB, conn *gorm.DB, userID string) *models.Address {
	t.Helper()
	a := &models.Address{UserID: userID, FullName: "Ana López", Line1: "4a Avenida 12-30", City: "Guatemala", Country: "GT"}
	require.NoError(t, conn.Create(a).Error)
	return a
}
