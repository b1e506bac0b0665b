package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shoepoint/shoepoint/internal/analytics"
	analytichttp "github.com/shoepoint/shoepoint/internal/analytics/http"
	"github.com/shoepoint/shoepoint/internal/app"
	"github.com/shoepoint/shoepoint/internal/catalog"
	"github.com/shoepoint/shoepoint/internal/orders"
	"github.com/shoepoint/shoepoint/internal/platform/cache"
	"github.com/shoepoint/shoepoint/internal/platform/db"
	"github.com/shoepoint/shoepoint/internal/platform/store"
	"github.com/shoepoint/shoepoint/internal/returns"
	"github.com/shoepoint/shoepoint/internal/sales"
	"github.com/shoepoint/shoepoint/internal/shared"
	"github.com/shoepoint/shoepoint/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	var analyticsCache *analytics.Cache
	if cfg.StoreBackend == app.StoreBackendRedis || cfg.StoreBackend == app.StoreBackendPostgres {
		redisClient, err := cache.New(ctx, cfg.RedisAddr)
		if err != nil {
			logger.Warn("analytics cache disabled", slog.Any("error", err))
		} else {
			defer func() {
				if err := redisClient.Close(); err != nil {
					logger.Warn("redis close", slog.Any("error", err))
				}
			}()
			analyticsCache = analytics.NewCache(redisClient, cfg.AnalyticsCacheTTL)
			if err := analyticsCache.ListenForInvalidation(ctx, ""); err != nil {
				logger.Warn("cache invalidation listener", slog.Any("error", err))
			}
		}
	}

	bus := shared.NewBus()

	catalogService := catalog.NewService(docStore, bus, catalog.ServiceConfig{LowStockThreshold: cfg.LowStockThreshold})
	salesService := sales.NewService(docStore, catalogService, bus, sales.ServiceConfig{LogCap: cfg.SalesLogCap})
	returnsService := returns.NewService(docStore, salesService, catalogService, bus)
	ordersService := orders.NewService(docStore, catalogService, salesService)
	analyticsService := analytics.NewService(ordersService, analyticsCache)

	var jobClient *jobs.Client
	if analyticsCache != nil {
		jobClient, err = jobs.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		if err != nil {
			logger.Warn("job client disabled", slog.Any("error", err))
		} else {
			defer func() {
				if err := jobClient.Close(); err != nil {
					logger.Warn("job client close", slog.Any("error", err))
				}
			}()
		}
	}

	// Any write that changes revenue or stock invalidates the analytics
	// caches; the warmup job refills them off the request path.
	invalidate := func(ctx context.Context, event shared.Event) {
		if err := analyticsService.Invalidate(ctx); err != nil {
			logger.Warn("cache invalidate", slog.String("event", event.EventName()), slog.Any("error", err))
		}
		if jobClient != nil {
			if _, err := jobClient.EnqueueAnalyticsWarmup(ctx, jobs.AnalyticsWarmupPayload{}); err != nil {
				logger.Warn("enqueue warmup", slog.Any("error", err))
			}
		}
	}
	bus.Subscribe(shared.SaleRecorded{}.EventName(), invalidate)
	bus.Subscribe(shared.ReturnProcessed{}.EventName(), invalidate)
	bus.Subscribe(shared.InventoryChanged{}.EventName(), func(ctx context.Context, event shared.Event) {
		if jobClient == nil {
			return
		}
		if _, err := jobClient.EnqueueStockScan(ctx, jobs.StockScanPayload{}); err != nil {
			logger.Warn("enqueue stock scan", slog.Any("error", err))
		}
	})

	catalogHandler := catalog.NewHandler(logger, catalogService)
	salesHandler := sales.NewHandler(logger, salesService)
	returnsHandler := returns.NewHandler(logger, returnsService)
	ordersHandler := orders.NewHandler(logger, ordersService)
	analyticsHandler := analytichttp.NewHandler(logger, analyticsService)

	var jobHandler *jobs.Handler
	if jobClient != nil {
		inspector := asynq.NewInspector(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
		defer func() {
			if err := inspector.Close(); err != nil {
				logger.Warn("inspector close", slog.Any("error", err))
			}
		}()
		jobHandler = jobs.NewHandler(inspector, logger)
	}

	router := app.NewRouter(app.RouterParams{
		Logger:           logger,
		Config:           cfg,
		CatalogHandler:   catalogHandler,
		SalesHandler:     salesHandler,
		ReturnsHandler:   returnsHandler,
		OrdersHandler:    ordersHandler,
		AnalyticsHandler: analyticsHandler,
		JobHandler:       jobHandler,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr), slog.String("store", cfg.StoreBackend))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
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
