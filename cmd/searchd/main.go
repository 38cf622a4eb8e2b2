// searchd builds the boolean index from the page store and serves the
// HTTP search API. Index rebuilds are triggered by refresh events from
// the ingestion pipeline; queries always run against the last finalized
// snapshot.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/AKNosov/InfSearch/internal/ingestion/store"
	"github.com/AKNosov/InfSearch/internal/searcher"
	"github.com/AKNosov/InfSearch/internal/searcher/cache"
	"github.com/AKNosov/InfSearch/internal/searcher/handler"
	"github.com/AKNosov/InfSearch/pkg/config"
	"github.com/AKNosov/InfSearch/pkg/health"
	"github.com/AKNosov/InfSearch/pkg/kafka"
	"github.com/AKNosov/InfSearch/pkg/logger"
	"github.com/AKNosov/InfSearch/pkg/metrics"
	"github.com/AKNosov/InfSearch/pkg/middleware"
	"github.com/AKNosov/InfSearch/pkg/postgres"
	pkgredis "github.com/AKNosov/InfSearch/pkg/redis"
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
	slog.Info("starting search service", "port", cfg.Server.Port)

	m := metrics.New()

	pg, err := postgres.New(cfg.Postgres)
	if err != nil {
		slog.Error("failed to connect to postgres", "error", err)
		os.Exit(1)
	}
	defer pg.Close()

	pageStore := store.New(pg)
	service := searcher.New(pageStore, cfg.Indexer, m)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := service.Rebuild(ctx); err != nil {
		slog.Error("initial index build failed", "error", err)
		os.Exit(1)
	}

	var queryCache *cache.QueryCache
	redisClient, err := pkgredis.NewClient(cfg.Redis)
	if err != nil {
		slog.Warn("redis unavailable, query caching disabled", "error", err)
	} else {
		defer redisClient.Close()
		queryCache = cache.New(redisClient, cfg.Redis)
		slog.Info("query cache enabled", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.CacheTTL)
	}

	// Refresh events from ingestd: invalidate the cache, rebuild, swap.
	refreshConsumer := kafka.NewConsumer(cfg.Kafka, cfg.Kafka.Topics.IndexRefresh,
		func(ctx context.Context, _ []byte, _ []byte) error {
			if queryCache != nil {
				if err := queryCache.Invalidate(ctx); err != nil {
					slog.Error("cache invalidation before rebuild failed", "error", err)
				}
			}
			return service.Rebuild(ctx)
		})

	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if stats, ok := service.Stats(); ok {
			return health.ComponentHealth{
				Status:  health.StatusUp,
				Message: fmt.Sprintf("%d docs, %d terms", stats.Docs, stats.Terms),
			}
		}
		return health.ComponentHealth{Status: health.StatusDown, Message: "no snapshot"}
	})
	checker.Register("postgres", func(ctx context.Context) health.ComponentHealth {
		if err := pageStore.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})
	checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
		if redisClient == nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: "not configured"}
		}
		if err := redisClient.Ping(ctx); err != nil {
			return health.ComponentHealth{Status: health.StatusDegraded, Message: err.Error()}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	h := handler.New(service, queryCache, m, cfg.Search.DefaultLimit, cfg.Search.MaxResults)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/v1/search", h.Search)
	mux.HandleFunc("GET /api/v1/index/stats", h.Stats)
	mux.HandleFunc("POST /api/v1/cache/invalidate", h.CacheInvalidate)
	mux.HandleFunc("GET /health/live", checker.LiveHandler())
	mux.HandleFunc("GET /health/ready", checker.ReadyHandler())

	var chain http.Handler = mux
	chain = middleware.Metrics(m)(chain)
	chain = middleware.Timeout(cfg.Server.WriteTimeout)(chain)
	chain = middleware.RequestID(chain)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      chain,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		return refreshConsumer.Start(ctx)
	})
	if cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics.Port)
		g.Go(func() error {
			return metricsServer.Run(ctx)
		})
	}
	g.Go(func() error {
		slog.Info("search service listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		slog.Info("shutdown signal received")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil && err != context.Canceled {
		slog.Error("search service error", "error", err)
		os.Exit(1)
	}
	slog.Info("search service stopped")
}
