package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/shoepoint/shoepoint/internal/analytics"
	"github.com/shoepoint/shoepoint/internal/app"
	"github.com/shoepoint/shoepoint/internal/catalog"
	"github.com/shoepoint/shoepoint/internal/orders"
	"github.com/shoepoint/shoepoint/internal/platform/cache"
	"github.com/shoepoint/shoepoint/internal/platform/db"
	"github.com/shoepoint/shoepoint/internal/platform/store"
	"github.com/shoepoint/shoepoint/internal/sales"
	"github.com/shoepoint/shoepoint/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	docStore, cleanup, err := buildStore(ctx, cfg, logger)
	if err != nil {
		logger.Error("init store", slog.Any("error", err))
		os.Exit(1)
	}
	defer cleanup()

	redisClient, err := cache.New(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	catalogService := catalog.NewService(docStore, nil, catalog.ServiceConfig{LowStockThreshold: cfg.LowStockThreshold})
	salesService := sales.NewService(docStore, catalogService, nil, sales.ServiceConfig{LogCap: cfg.SalesLogCap})
	ordersService := orders.NewService(docStore, catalogService, salesService)

	analyticsCache := analytics.NewCache(redisClient, cfg.AnalyticsCacheTTL)
	analyticsService := analytics.NewService(ordersService, analyticsCache)

	scanJob := jobs.NewStockScanJob(catalogService, docStore, logger)
	warmupJob := jobs.NewAnalyticsWarmupJob(analyticsService, logger)

	scanTask, err := jobs.NewStockScanTask(jobs.StockScanPayload{})
	if err != nil {
		logger.Error("build scan task", slog.Any("error", err))
		os.Exit(1)
	}
	warmupTask, err := jobs.NewAnalyticsWarmupTask(jobs.AnalyticsWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskTypeStockScan, Handler: scanJob.Handle},
			{Type: jobs.TaskTypeAnalyticsWarmup, Handler: warmupJob.Handle},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "*/30 * * * *", Task: scanTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
			{Spec: "15 1 * * *", Task: warmupTask, Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}

func buildStore(ctx context.Context, cfg *app.Config, logger *slog.Logger) (store.Store, func(), error) {
	switch cfg.StoreBackend {
	case app.StoreBackendPostgres:
		pool, err := db.New(ctx, cfg.PGDSN)
		if err != nil {
			return nil, nil, err
		}
		st, err := store.NewPostgres(ctx, pool)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return st, pool.Close, nil
	case app.StoreBackendRedis:
		client, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			return nil, nil, err
		}
		cleanup := func() {
			if err := client.Close(); err != nil {
				logger.Warn("redis close", slog.Any("error", err))
			}
		}
		return store.NewRedis(client), cleanup, nil
	default:
		return store.NewMemory(), func() {}, nil
	}
}
