package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config is the typed view over the environment.
type Config struct {
	App      AppConfig
	Log      LogConfig
	DB       DBConfig
	JWT      JWTConfig
	RabbitMQ RabbitMQConfig
	Redis    RedisConfig
	Payment  PaymentConfig
	Storage  StorageConfig
}

type AppConfig struct {
	Port           string
	Env            string
	Locale         string
	BaseURL        string
	RequestTimeout time.Duration
}

func (a AppConfig) IsProd() bool {
	return strings.EqualFold(a.Env, "production")
}

type LogConfig struct {
	Level  string
	Format string
}

type DBConfig struct {
	Driver          string
	DSN             string
	AutoMigrate     bool
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type JWTConfig struct {
	Secret string
	TTL    time.Duration
}

type RabbitMQConfig struct {
	URL string
}

type RedisConfig struct {
	URL            string
	IdempotencyTTL time.Duration
}

type PaymentConfig struct {
	Provider    string
	Currency    string
	UID         string
	WKey        string
	CheckoutURL string
}

// Enabled reports whether checkout can redirect to the gateway.
func (p PaymentConfig) Enabled() bool {
	return strings.EqualFold(p.Provider, "pagadito")
}

type StorageConfig struct {
	Driver          string // "gcs" or "memory"
	Bucket          string
	CredentialsFile string
	PublicBaseURL   string
}

// SetDefaults registers every key with its default on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("APP_LOCALE", "es")
	v.SetDefault("APP_BASE_URL", "http://localhost:8080")
	v.SetDefault("REQUEST_TIMEOUT", "5s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("DB_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=toko port=5432 sslmode=disable")
	v.SetDefault("DB_AUTO_MIGRATE", false)
	v.SetDefault("DB_MAX_OPEN_CONNS", 20)
	v.SetDefault("DB_MAX_IDLE_CONNS", 10)
	v.SetDefault("DB_CONN_MAX_LIFETIME", "1h")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("JWT_TTL", "168h")
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("NOTIFY_IDEMPOTENCY_TTL", "24h")
	v.SetDefault("PAYMENT_PROVIDER", "")
	v.SetDefault("CURRENCY", "GTQ")
	v.SetDefault("PAGADITO_UID", "")
	v.SetDefault("PAGADITO_WKEY", "")
	v.SetDefault("PAGADITO_CHECKOUT_URL", "https://sandbox.pagadi.to/checkout")
	v.SetDefault("STORAGE_DRIVER", "gcs")
	v.SetDefault("GCS_BUCKET", "products")
	v.SetDefault("GCS_CREDENTIALS_FILE", "")
	v.SetDefault("GCS_PUBLIC_BASE_URL", "https://storage.googleapis.com")
}

// Load reads an optional .env file into the process environment and then the
// environment into a Config.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("loading env file: %w", err)
	}

	v := viper.New()
	SetDefaults(v)
	v.AutomaticEnv()
	return FromViper(v)
}

// FromViper builds a Config from an already populated viper instance.
func FromViper(v *viper.Viper) (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Port:           v.GetString("APP_PORT"),
			Env:            v.GetString("APP_ENV"),
			Locale:         v.GetString("APP_LOCALE"),
			BaseURL:        strings.TrimRight(v.GetString("APP_BASE_URL"), "/"),
			RequestTimeout: v.GetDuration("REQUEST_TIMEOUT"),
		},
		Log: LogConfig{
			Level:  v.GetString("LOG_LEVEL"),
			Format: v.GetString("LOG_FORMAT"),
		},
		DB: DBConfig{
			Driver:          v.GetString("DB_DRIVER"),
			DSN:             v.GetString("DATABASE_DSN"),
			AutoMigrate:     v.GetBool("DB_AUTO_MIGRATE"),
			MaxOpenConns:    v.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    v.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: v.GetDuration("DB_CONN_MAX_LIFETIME"),
		},
		JWT: JWTConfig{
			Secret: v.GetString("JWT_SECRET"),
			TTL:    v.GetDuration("JWT_TTL"),
		},
		RabbitMQ: RabbitMQConfig{URL: v.GetString("RABBITMQ_URL")},
		Redis: RedisConfig{
			URL:            v.GetString("REDIS_URL"),
			IdempotencyTTL: v.GetDuration("NOTIFY_IDEMPOTENCY_TTL"),
		},
		Payment: PaymentConfig{
			Provider:    v.GetString("PAYMENT_PROVIDER"),
			Currency:    strings.ToUpper(v.GetString("CURRENCY")),
			UID:         v.GetString("PAGADITO_UID"),
			WKey:        v.GetString("PAGADITO_WKEY"),
			CheckoutURL: v.GetString("PAGADITO_CHECKOUT_URL"),
		},
		Storage: StorageConfig{
			Driver:          v.GetString("STORAGE_DRIVER"),
			Bucket:          v.GetString("GCS_BUCKET"),
			CredentialsFile: v.GetString("GCS_CREDENTIALS_FILE"),
			PublicBaseURL:   v.GetString("GCS_PUBLIC_BASE_URL"),
		},
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.JWT.Secret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.App.RequestTimeout <= 0 {
		return errors.New("REQUEST_TIMEOUT must be positive")
	}
	if c.Payment.Enabled() && (c.Payment.UID == "" || c.Payment.WKey == "") {
		return errors.New("PAGADITO_UID and PAGADITO_WKEY are required when PAYMENT_PROVIDER=pagadito")
	}
	if len(c.Payment.Currency) != 3 {
		return fmt.Errorf("CURRENCY must be a 3 letter code, got %q", c.Payment.Currency)
	}
	return nil
}
