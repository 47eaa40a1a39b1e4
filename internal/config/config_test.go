package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newViper(overrides map[string]any) *viper.Viper {
	v := viper.New()
	SetDefaults(v)
	for k, val := range overrides {
		v.Set(k, val)
	}
	return v
}

func TestFromViperDefaults(t *testing.T) {
	cfg, err := FromViper(newViper(map[string]any{"JWT_SECRET": "s"}))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.App.Port)
	assert.Equal(t, 5*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, "GTQ", cfg.Payment.Currency)
	assert.False(t, cfg.Payment.Enabled())
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, "https://sandbox.pagadi.to/checkout", cfg.Payment.CheckoutURL)
}

func TestFromViperValidation(t *testing.T) {
	_, err := FromViper(newViper(nil))
	assert.ErrorContains(t, err, "JWT_SECRET")

	_, err = FromViper(newViper(map[string]any{"JWT_SECRET": "s", "PAYMENT_PROVIDER": "pagadito"}))
	assert.ErrorContains(t, err, "PAGADITO_UID")

	_, err = FromViper(newViper(map[string]any{"JWT_SECRET": "s", "CURRENCY": "quetzal"}))
	assert.ErrorContains(t, err, "CURRENCY")

	cfg, err := FromViper(newViper(map[string]any{
		"JWT_SECRET":       "s",
		"PAYMENT_PROVIDER": "Pagadito",
		"PAGADITO_UID":     "uid",
		"PAGADITO_WKEY":    "key",
		"CURRENCY":         "usd",
	}))
	require.NoError(t, err)
	assert.True(t, cfg.Payment.Enabled())
	assert.Equal(t, "USD", cfg.Payment.Currency)
}

func TestLoadReadsEnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("TOKO_TEST_ONLY=1\n"), 0o600))

	t.Setenv("JWT_SECRET", "from-env")
	t.Setenv("APP_BASE_URL", "https://shop.example/")
	t.Cleanup(func() { os.Unsetenv("TOKO_TEST_ONLY") })

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.JWT.Secret)
	assert.Equal(t, "https://shop.example", cfg.App.BaseURL)
	assert.Equal(t, "1", os.Getenv("TOKO_TEST_ONLY"))
}

func TestLoadWithoutEnvFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "x")
	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
}
