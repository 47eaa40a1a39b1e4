package migrate

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrationsAreEmbedded(t *testing.T) {
	entries, err := fs.ReadDir(migrations, dir)
	require.NoError(t, err)
	require.NotEmpty(t, entries)

	body, err := fs.ReadFile(migrations, dir+"/"+entries[0].Name())
	require.NoError(t, err)
	sql := string(body)
	assert.Contains(t, sql, "-- +goose Up")
	assert.Contains(t, sql, "-- +goose Down")
	// one cart per user and one line per product are enforced by the schema
	assert.True(t, strings.Contains(sql, "UNIQUE (user_id)"))
	assert.True(t, strings.Contains(sql, "UNIQUE (cart_id, product_id)"))
}
