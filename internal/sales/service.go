package sales

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shoepoint/shoepoint/internal/catalog"
	"github.com/shoepoint/shoepoint/internal/platform/store"
	"github.com/shoepoint/shoepoint/internal/shared"
)

// InventoryPort abstracts the inventory ledger operations the sales log needs.
type InventoryPort interface {
	ApplyDelta(ctx context.Context, productID int64, delta int) (catalog.Product, error)
	Inventory(ctx context.Context) ([]catalog.Product, error)
	Status(p catalog.Product) catalog.StockStatus
}

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	// LogCap bounds the sales log. Zero or negative falls back to DefaultLogCap.
	LogCap int
}

// Service records sales against the inventory ledger and serves the log.
type Service struct {
	store     store.Store
	inventory InventoryPort
	bus       *shared.Bus
	logCap    int
}

// NewService builds Service. bus may be nil when no subscribers exist.
func NewService(st store.Store, inventory InventoryPort, bus *shared.Bus, cfg ServiceConfig) *Service {
	logCap := cfg.LogCap
	if logCap <= 0 {
		logCap = DefaultLogCap
	}
	return &Service{store: st, inventory: inventory, bus: bus, logCap: logCap}
}

// RecordSale decrements inventory and appends a sale record as one logical
// operation: when the decrement is rejected, no sale is written; when the log
// write fails, the decrement is compensated.
func (s *Service) RecordSale(ctx context.Context, input RecordSaleInput) (SaleRecord, error) {
	if input.Quantity <= 0 {
		return SaleRecord{}, ErrInvalidQuantity
	}

	product, err := s.inventory.ApplyDelta(ctx, input.ProductID, -input.Quantity)
	if err != nil {
		return SaleRecord{}, err
	}

	now := time.Now().UTC()
	sale := SaleRecord{
		ID:          uuid.NewString(),
		ProductID:   product.ID,
		ProductName: product.Name,
		Quantity:    input.Quantity,
		UnitPrice:   product.Price,
		Total:       product.Price * float64(input.Quantity),
		Size:        input.Size,
		Color:       input.Color,
		Timestamp:   now,
		NetQuantity: input.Quantity,
	}
	sale.NetAmount = sale.Total

	log, err := s.SalesLog(ctx)
	if err != nil {
		s.compensate(ctx, input.ProductID, input.Quantity)
		return SaleRecord{}, err
	}
	log = append([]SaleRecord{sale}, log...)
	if len(log) > s.logCap {
		log = log[:s.logCap]
	}
	if err := s.store.Save(ctx, store.CollectionSalesLog, log); err != nil {
		s.compensate(ctx, input.ProductID, input.Quantity)
		return SaleRecord{}, err
	}

	s.bus.Publish(ctx, shared.SaleRecorded{
		SaleID:    sale.ID,
		ProductID: sale.ProductID,
		Quantity:  sale.Quantity,
		Total:     sale.Total,
		At:        now,
	})
	return sale, nil
}

// compensate restores stock after a failed log write. Best effort: the
// follow-up failure is surfaced through the original error path.
func (s *Service) compensate(ctx context.Context, productID int64, quantity int) {
	_, _ = s.inventory.ApplyDelta(ctx, productID, quantity)
}

// SalesLog returns the sales log, most recent first.
func (s *Service) SalesLog(ctx context.Context) ([]SaleRecord, error) {
	var log []SaleRecord
	if _, err := s.store.Load(ctx, store.CollectionSalesLog, &log); err != nil {
		return nil, err
	}
	return log, nil
}

// Sale returns the sale record with the given id.
func (s *Service) Sale(ctx context.Context, id string) (SaleRecord, error) {
	log, err := s.SalesLog(ctx)
	if err != nil {
		return SaleRecord{}, err
	}
	for _, sale := range log {
		if sale.ID == id {
			return sale, nil
		}
	}
	return SaleRecord{}, fmt.Errorf("%w: id %s", ErrSaleNotFound, id)
}

// ApplyReturn appends a return reference to the originating sale and
// recomputes its net quantity and amount.
func (s *Service) ApplyReturn(ctx context.Context, saleID string, ref ReturnRef) (SaleRecord, error) {
	log, err := s.SalesLog(ctx)
	if err != nil {
		return SaleRecord{}, err
	}
	for i := range log {
		if log[i].ID != saleID {
			continue
		}
		log[i].AppendReturn(ref)
		if err := s.store.Save(ctx, store.CollectionSalesLog, log); err != nil {
			return SaleRecord{}, err
		}
		return log[i], nil
	}
	return SaleRecord{}, fmt.Errorf("%w: id %s", ErrSaleNotFound, saleID)
}

// FilterByDate returns log entries whose timestamp falls within [from, to].
// Zero bounds are open.
func (s *Service) FilterByDate(ctx context.Context, from, to time.Time) ([]SaleRecord, error) {
	log, err := s.SalesLog(ctx)
	if err != nil {
		return nil, err
	}
	filtered := make([]SaleRecord, 0, len(log))
	for _, sale := range log {
		if !from.IsZero() && sale.Timestamp.Before(from) {
			continue
		}
		if !to.IsZero() && sale.Timestamp.After(to) {
			continue
		}
		filtered = append(filtered, sale)
	}
	return filtered, nil
}

// DeleteSale removes one sale record. This is the explicit admin purge; it
// does not touch inventory or returns.
func (s *Service) DeleteSale(ctx context.Context, id string) error {
	log, err := s.SalesLog(ctx)
	if err != nil {
		return err
	}
	for i := range log {
		if log[i].ID == id {
			log = append(log[:i], log[i+1:]...)
			return s.store.Save(ctx, store.CollectionSalesLog, log)
		}
	}
	return fmt.Errorf("%w: id %s", ErrSaleNotFound, id)
}

// Clear drops the whole sales log.
func (s *Service) Clear(ctx context.Context) error {
	return s.store.Delete(ctx, store.CollectionSalesLog)
}

// Summarize computes the physical-sales dashboard cards.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	log, err := s.SalesLog(ctx)
	if err != nil {
		return Summary{}, err
	}
	products, err := s.inventory.Inventory(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{TotalTransactions: len(log)}
	for _, sale := range log {
		summary.TotalRevenue += sale.Total
	}
	for _, p := range products {
		summary.TotalStock += p.Stock
		switch s.inventory.Status(p) {
		case catalog.StockStatusOut:
			summary.OutOfStock++
		case catalog.StockStatusLow:
			summary.LowStock++
		}
	}
	return summary, nil
}

// Export assembles the downloadable sales bundle.
func (s *Service) Export(ctx context.Context) (ExportBundle, error) {
	log, err := s.SalesLog(ctx)
	if err != nil {
		return ExportBundle{}, err
	}
	products, err := s.inventory.Inventory(ctx)
	if err != nil {
		return ExportBundle{}, err
	}
	bundle := ExportBundle{
		Sales:      log,
		Inventory:  make([]InventoryLine, 0, len(products)),
		ExportDate: time.Now().UTC(),
	}
	for _, sale := range log {
		bundle.Summary.TotalSales += sale.Total
	}
	bundle.Summary.TotalTransactions = len(log)
	for _, p := range products {
		bundle.Inventory = append(bundle.Inventory, InventoryLine{
			ID:       p.ID,
			Name:     p.Name,
			Price:    p.Price,
			Stock:    p.Stock,
			Category: p.Category,
		})
		bundle.Summary.TotalStock += p.Stock
	}
	return bundle, nil
}
