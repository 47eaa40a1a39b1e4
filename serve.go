package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/RajaSunrise/toko/internal/config"
	"github.com/RajaSunrise/toko/internal/server"
	"github.com/RajaSunrise/toko/internal/services"
	"github.com/RajaSunrise/toko/pkg/db"
	"github.com/RajaSunrise/toko/pkg/logger"
	"github.com/RajaSunrise/toko/pkg/rabbitmq"
	"github.com/RajaSunrise/toko/pkg/redis"
	"github.com/RajaSunrise/toko/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

func serveCmd(load configLoader) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := load()
			if err != nil {
				return err
			}
			return runServe(cmd.Context(), cfg)
		},
	}
}

func runServe(parent context.Context, cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := logger.New(logger.Options{
		ServiceName: "toko",
		Level:       cfg.Log.Level,
		Format:      cfg.Log.Format,
	})

	// --- Database ---
	conn, err := openDB(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(conn); err != nil {
			log.Warn(ctx, "failed to close database", err)
		}
	}()

	// --- RabbitMQ ---
	// Events are best effort; the shop keeps selling without a broker.
	var publisher services.EventPublisher
	if cfg.RabbitMQ.URL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL})
		if err != nil {
			log.Warn(ctx, "order events disabled", err)
		} else {
			defer mqClient.Close()
			publisher = mqClient
		}
	}

	// --- Redis ---
	var guard services.IdempotencyStore
	if cfg.Redis.URL != "" {
		rdb, err := redis.New(ctx, cfg.Redis.URL)
		if err != nil {
			log.Warn(ctx, "notification idempotency guard disabled", err)
		} else {
			defer rdb.Close()
			guard = rdb
		}
	}

	bucket, err := newBucket(ctx, cfg)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	app := server.New(server.Deps{
		Config:    cfg,
		DB:        conn,
		Log:       log,
		Publisher: publisher,
		Guard:     guard,
		Bucket:    bucket,
		Registry:  registry,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info(ctx, "starting server on "+cfg.App.Port)
		errCh <- app.Listen(cfg.App.Port)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info(context.Background(), "shutting down server")
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		log.Error(context.Background(), "error during shutdown", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	log.Info(context.Background(), "server gracefully stopped")
	return nil
}

func newBucket(ctx context.Context, cfg *config.Config) (storage.Bucket, error) {
	if cfg.Storage.Driver == "memory" {
		return storage.NewMemoryBucket(cfg.App.BaseURL + "/static"), nil
	}
	return storage.NewGCSBucket(ctx, storage.GCSConfig{
		Bucket:          cfg.Storage.Bucket,
		CredentialsFile: cfg.Storage.CredentialsFile,
		PublicBaseURL:   cfg.Storage.PublicBaseURL,
	})
}
