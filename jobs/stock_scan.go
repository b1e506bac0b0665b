package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/shoepoint/shoepoint/internal/catalog"
	"github.com/shoepoint/shoepoint/internal/platform/store"
)

// StockAlert flags one product at or below the low-stock threshold.
type StockAlert struct {
	ProductID int64               `json:"product_id"`
	Name      string              `json:"name"`
	Category  string              `json:"category"`
	Stock     int                 `json:"stock"`
	Status    catalog.StockStatus `json:"status"`
}

// StockAlertReport is the document the scan writes for the back office.
type StockAlertReport struct {
	GeneratedAt time.Time    `json:"generated_at"`
	Threshold   int          `json:"threshold"`
	Alerts      []StockAlert `json:"alerts"`
}

// StockScanJob walks the inventory ledger and persists a low-stock report.
type StockScanJob struct {
	Catalog *catalog.Service
	Store   store.Store
	Logger  *slog.Logger
	clock   func() time.Time
}

// NewStockScanJob wires dependencies for the scan handler.
func NewStockScanJob(catalogSvc *catalog.Service, st store.Store, logger *slog.Logger) *StockScanJob {
	return &StockScanJob{
		Catalog: catalogSvc,
		Store:   st,
		Logger:  logger,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

// Handle processes stock scan tasks.
func (j *StockScanJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Catalog == nil || j.Store == nil {
		return errors.New("stock scan: handler not configured")
	}
	var payload StockScanPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	threshold := payload.Threshold
	if threshold <= 0 {
		threshold = j.Catalog.LowStockThreshold()
	}

	products, err := j.Catalog.Inventory(ctx)
	if err != nil {
		return err
	}

	report := StockAlertReport{GeneratedAt: j.clock(), Threshold: threshold}
	for _, p := range products {
		status := catalog.StatusOf(p.Stock, threshold)
		if status == catalog.StockStatusIn {
			continue
		}
		report.Alerts = append(report.Alerts, StockAlert{
			ProductID: p.ID,
			Name:      p.Name,
			Category:  p.Category,
			Stock:     p.Stock,
			Status:    status,
		})
	}

	if err := j.Store.Save(ctx, store.CollectionStockAlerts, report); err != nil {
		return err
	}
	j.logger().Info("stock scan complete",
		slog.Int("products", len(products)),
		slog.Int("alerts", len(report.Alerts)),
	)
	return nil
}

func (j *StockScanJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}
