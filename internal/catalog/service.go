package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shoepoint/shoepoint/internal/platform/store"
	"github.com/shoepoint/shoepoint/internal/shared"
)

// ServiceConfig groups optional settings.
type ServiceConfig struct {
	// LowStockThreshold separates LOW_STOCK from IN_STOCK. Zero or negative
	// falls back to DefaultLowStockThreshold.
	LowStockThreshold int
}

// Service coordinates catalog and inventory ledger operations. Every call
// re-reads the inventory collection; the store is the single source of truth.
type Service struct {
	store     store.Store
	bus       *shared.Bus
	threshold int
}

// NewService builds Service. bus may be nil when no subscribers exist.
func NewService(st store.Store, bus *shared.Bus, cfg ServiceConfig) *Service {
	threshold := cfg.LowStockThreshold
	if threshold <= 0 {
		threshold = DefaultLowStockThreshold
	}
	return &Service{store: st, bus: bus, threshold: threshold}
}

// LowStockThreshold exposes the configured threshold for read models.
func (s *Service) LowStockThreshold() int {
	return s.threshold
}

// Inventory loads the current catalog snapshot. On first run, when the
// collection is absent, it seeds the default catalog and returns it.
func (s *Service) Inventory(ctx context.Context) ([]Product, error) {
	var products []Product
	found, err := s.store.Load(ctx, store.CollectionInventory, &products)
	if err != nil {
		return nil, err
	}
	if !found {
		products = DefaultCatalog()
		if err := s.store.Save(ctx, store.CollectionInventory, products); err != nil {
			return nil, err
		}
	}
	return products, nil
}

// Product returns the catalog entry for id.
func (s *Service) Product(ctx context.Context, id int64) (Product, error) {
	products, err := s.Inventory(ctx)
	if err != nil {
		return Product{}, err
	}
	for _, p := range products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
}

// ApplyDelta adds delta to the product's stock: negative for a sale, positive
// for a return or restock. A sale exceeding current stock is rejected before
// any mutation; stock is never clamped to zero.
func (s *Service) ApplyDelta(ctx context.Context, productID int64, delta int) (Product, error) {
	if delta == 0 {
		return Product{}, ErrInvalidQuantity
	}
	products, err := s.Inventory(ctx)
	if err != nil {
		return Product{}, err
	}
	idx := indexOf(products, productID)
	if idx < 0 {
		return Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, productID)
	}
	next := products[idx].Stock + delta
	if next < 0 {
		return Product{}, fmt.Errorf("%w: only %d available", ErrInsufficientStock, products[idx].Stock)
	}
	products[idx].Stock = next
	products[idx].UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, store.CollectionInventory, products); err != nil {
		return Product{}, err
	}
	return products[idx], nil
}

// Add creates a new catalog entry.
func (s *Service) Add(ctx context.Context, input ProductInput) (Product, error) {
	if input.Price <= 0 || input.Stock < 0 {
		return Product{}, ErrInvalidQuantity
	}
	products, err := s.Inventory(ctx)
	if err != nil {
		return Product{}, err
	}
	var maxID int64
	for _, p := range products {
		if p.ID > maxID {
			maxID = p.ID
		}
	}
	product := Product{
		ID:          maxID + 1,
		Name:        input.Name,
		Price:       input.Price,
		Stock:       input.Stock,
		Image:       input.Image,
		Category:    input.Category,
		Description: input.Description,
		Sizes:       input.Sizes,
		Colors:      input.Colors,
		UpdatedAt:   time.Now().UTC(),
	}
	products = append(products, product)
	if err := s.store.Save(ctx, store.CollectionInventory, products); err != nil {
		return Product{}, err
	}
	s.bus.Publish(ctx, shared.InventoryChanged{ProductID: product.ID, At: product.UpdatedAt})
	return product, nil
}

// Update replaces the editable fields of an existing product.
func (s *Service) Update(ctx context.Context, id int64, input ProductInput) (Product, error) {
	if input.Price <= 0 || input.Stock < 0 {
		return Product{}, ErrInvalidQuantity
	}
	products, err := s.Inventory(ctx)
	if err != nil {
		return Product{}, err
	}
	idx := indexOf(products, id)
	if idx < 0 {
		return Product{}, fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	p := &products[idx]
	p.Name = input.Name
	p.Price = input.Price
	p.Stock = input.Stock
	p.Category = input.Category
	p.Description = input.Description
	p.Sizes = input.Sizes
	p.Colors = input.Colors
	if input.Image != "" {
		p.Image = input.Image
	}
	p.UpdatedAt = time.Now().UTC()
	if err := s.store.Save(ctx, store.CollectionInventory, products); err != nil {
		return Product{}, err
	}
	s.bus.Publish(ctx, shared.InventoryChanged{ProductID: id, At: p.UpdatedAt})
	return *p, nil
}

// Delete removes a product from the inventory collection only. Historical
// sales and returns referencing it keep their denormalized snapshots.
func (s *Service) Delete(ctx context.Context, id int64) error {
	products, err := s.Inventory(ctx)
	if err != nil {
		return err
	}
	idx := indexOf(products, id)
	if idx < 0 {
		return fmt.Errorf("%w: id %d", ErrProductNotFound, id)
	}
	products = append(products[:idx], products[idx+1:]...)
	if err := s.store.Save(ctx, store.CollectionInventory, products); err != nil {
		return err
	}
	s.bus.Publish(ctx, shared.InventoryChanged{ProductID: id, At: time.Now().UTC()})
	return nil
}

// Reset restores the default catalog, discarding all edits and stock levels.
func (s *Service) Reset(ctx context.Context) ([]Product, error) {
	products := DefaultCatalog()
	if err := s.store.Save(ctx, store.CollectionInventory, products); err != nil {
		return nil, err
	}
	s.bus.Publish(ctx, shared.InventoryChanged{At: time.Now().UTC()})
	return products, nil
}

// Search filters the catalog by a case-insensitive term over name and
// description and an optional exact category.
func (s *Service) Search(ctx context.Context, term, category string) ([]Product, error) {
	products, err := s.Inventory(ctx)
	if err != nil {
		return nil, err
	}
	term = strings.ToLower(strings.TrimSpace(term))
	matched := make([]Product, 0, len(products))
	for _, p := range products {
		if term != "" &&
			!strings.Contains(strings.ToLower(p.Name), term) &&
			!strings.Contains(strings.ToLower(p.Description), term) {
			continue
		}
		if category != "" && p.Category != category {
			continue
		}
		matched = append(matched, p)
	}
	return matched, nil
}

// Status classifies a product's current stock level.
func (s *Service) Status(p Product) StockStatus {
	return StatusOf(p.Stock, s.threshold)
}

// Summarize computes the stock summary over the current catalog.
func (s *Service) Summarize(ctx context.Context) (Summary, error) {
	products, err := s.Inventory(ctx)
	if err != nil {
		return Summary{}, err
	}
	summary := Summary{ProductCount: len(products)}
	for _, p := range products {
		summary.TotalStock += p.Stock
		switch s.Status(p) {
		case StockStatusOut:
			summary.OutOfStock++
		case StockStatusLow:
			summary.LowStock++
		}
	}
	return summary, nil
}

func indexOf(products []Product, id int64) int {
	for i, p := range products {
		if p.ID == id {
			return i
		}
	}
	return -1
}
