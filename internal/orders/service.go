package orders

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shoepoint/shoepoint/internal/catalog"
	"github.com/shoepoint/shoepoint/internal/platform/store"
	"github.com/shoepoint/shoepoint/internal/sales"
)

// InventoryPort provides the catalog figures folded into store stats.
type InventoryPort interface {
	Inventory(ctx context.Context) ([]catalog.Product, error)
	Status(p catalog.Product) catalog.StockStatus
}

// SalesPort provides the physical sales log for net revenue accounting.
type SalesPort interface {
	SalesLog(ctx context.Context) ([]sales.SaleRecord, error)
}

// Service aggregates raw storefront orders into customer and store read
// models. All aggregates are recomputed from the store on every call.
type Service struct {
	store     store.Store
	inventory InventoryPort
	sales     SalesPort
}

// NewService builds Service.
func NewService(st store.Store, inventory InventoryPort, salesPort SalesPort) *Service {
	return &Service{store: st, inventory: inventory, sales: salesPort}
}

// Orders returns all real orders, synthetic/test records filtered out.
func (s *Service) Orders(ctx context.Context) ([]Order, error) {
	raw, err := s.rawOrders(ctx)
	if err != nil {
		return nil, err
	}
	return FilterReal(raw), nil
}

// DeleteOrder removes one raw order record.
func (s *Service) DeleteOrder(ctx context.Context, id string) error {
	raw, err := s.rawOrders(ctx)
	if err != nil {
		return err
	}
	for i := range raw {
		if raw[i].ID == id {
			raw = append(raw[:i], raw[i+1:]...)
			return s.store.Save(ctx, store.CollectionOrders, raw)
		}
	}
	return fmt.Errorf("%w: id %s", ErrOrderNotFound, id)
}

func (s *Service) rawOrders(ctx context.Context) ([]Order, error) {
	var raw []Order
	if _, err := s.store.Load(ctx, store.CollectionOrders, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// AggregateByCustomer groups orders by customer email into per-customer
// profiles. Orders without customer info are skipped; category preference is
// a frequency count with ties broken by first-encountered category.
func AggregateByCustomer(orders []Order) map[string]*CustomerAggregate {
	aggregates := make(map[string]*CustomerAggregate)
	categoryCounts := make(map[string]map[string]int)
	categorySeen := make(map[string][]string)

	for _, order := range orders {
		if order.Customer == nil || order.Customer.Email == "" {
			continue
		}
		email := order.Customer.Email
		agg, ok := aggregates[email]
		if !ok {
			agg = &CustomerAggregate{
				Name:       order.Customer.Name,
				Email:      email,
				Phone:      order.Customer.Phone,
				Address:    formatAddress(order.Customer.Address),
				FirstOrder: order.CreatedAt,
				LastOrder:  order.CreatedAt,
			}
			aggregates[email] = agg
			categoryCounts[email] = make(map[string]int)
		}
		agg.TotalOrders++
		agg.TotalSpent += order.Payment.Amount
		if order.CreatedAt.Before(agg.FirstOrder) {
			agg.FirstOrder = order.CreatedAt
		}
		if order.CreatedAt.After(agg.LastOrder) {
			agg.LastOrder = order.CreatedAt
		}
		for _, item := range order.Items {
			category := item.Category
			if category == "" {
				category = "Uncategorized"
			}
			if categoryCounts[email][category] == 0 {
				categorySeen[email] = append(categorySeen[email], category)
			}
			categoryCounts[email][category]++
		}
	}

	for email, agg := range aggregates {
		agg.AverageOrderValue = agg.TotalSpent / float64(agg.TotalOrders)
		agg.Segment = SegmentFor(agg.TotalOrders)
		best, bestCount := "None", 0
		for _, category := range categorySeen[email] {
			if count := categoryCounts[email][category]; count > bestCount {
				best, bestCount = category, count
			}
		}
		agg.PreferredCategory = best
	}
	return aggregates
}

// Customers returns the customer aggregates sorted by total spent, highest
// first.
func (s *Service) Customers(ctx context.Context) ([]CustomerAggregate, error) {
	orders, err := s.Orders(ctx)
	if err != nil {
		return nil, err
	}
	byEmail := AggregateByCustomer(orders)
	customers := make([]CustomerAggregate, 0, len(byEmail))
	for _, agg := range byEmail {
		customers = append(customers, *agg)
	}
	sort.SliceStable(customers, func(i, j int) bool {
		if customers[i].TotalSpent != customers[j].TotalSpent {
			return customers[i].TotalSpent > customers[j].TotalSpent
		}
		return customers[i].Email < customers[j].Email
	})
	return customers, nil
}

// ComputeStats derives the store-wide dashboard figures. Physical revenue is
// net of returns: it sums each sale's net amount, not its gross total.
func (s *Service) ComputeStats(ctx context.Context) (StoreStats, error) {
	orders, err := s.Orders(ctx)
	if err != nil {
		return StoreStats{}, err
	}
	log, err := s.sales.SalesLog(ctx)
	if err != nil {
		return StoreStats{}, err
	}
	products, err := s.inventory.Inventory(ctx)
	if err != nil {
		return StoreStats{}, err
	}

	stats := StoreStats{
		OrderCount:   len(orders),
		ProductCount: len(products),
	}
	seen := make(map[string]struct{})
	for _, order := range orders {
		stats.OnlineRevenue += order.Payment.Amount
		if order.Customer != nil && order.Customer.Email != "" {
			seen[order.Customer.Email] = struct{}{}
		}
	}
	stats.CustomerCount = len(seen)
	for _, sale := range log {
		stats.PhysicalRevenue += sale.NetAmount
	}
	stats.TotalRevenue = stats.OnlineRevenue + stats.PhysicalRevenue
	for _, p := range products {
		switch s.inventory.Status(p) {
		case catalog.StockStatusOut:
			stats.OutOfStockCount++
		case catalog.StockStatusLow:
			stats.LowStockCount++
		}
	}
	return stats, nil
}

func formatAddress(a Address) string {
	parts := make([]string, 0, 5)
	for _, part := range []string{a.Street, a.City, a.State, a.PostalCode, a.Country} {
		if strings.TrimSpace(part) != "" {
			parts = append(parts, part)
		}
	}
	return strings.Join(parts, ", ")
}
