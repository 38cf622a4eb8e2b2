// ingestd consumes crawled pages from Kafka into the Postgres page store
// and publishes index-refresh notifications for searchd.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/AKNosov/InfSearch/internal/ingestion/consumer"
	"github.com/AKNosov/InfSearch/internal/ingestion/store"
	"github.com/AKNosov/InfSearch/pkg/config"
	"github.com/AKNosov/InfSearch/pkg/kafka"
	"github.com/AKNosov/InfSearch/pkg/logger"
	"github.com/AKNosov/InfSearch/pkg/metrics"
	"github.com/AKNosov/InfSearch/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)
	slog.Info("starting ingestion service",
		"brokers", cfg.Kafka.Brokers,
		"topic", cfg.Kafka.Topics.Pages,
	)

	m := metrics.New()

	pg, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pageStore := store.New(pg)
	if err := pageStore.EnsureSchema(ctx); err != nil {
		slog.Error("failed to ensure schema", "error", err)
		os.Exit(1)
	}

	notifier := kafka.NewProducer(cfg.Kafka, cfg.Kafka.Topics.IndexRefresh)
	defer notifier.Close()

	pages := consumer.New(
		func(h kafka.MessageHandler) *kafka.Consumer {
			return kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.Pages, h)
		},
		notifier,
		pageStore,
		m,
		cfg.Indexer.NotifyEvery,
	)

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return pages.Start(ctx)
	})
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port)
		g.Go(func() error {
			return metricsServer.Run(ctx)
		})
	}

	if err := g.Wait(); err != nil && err != context.Canceled {
		slog.Error("ingestion service error", "error", err)
		os.Exit(1)
	}
	slog.Info("ingestion service stopped")
}
