package analytics

import (
	"context"
	"fmt"
	"time"

	"github.com/shoepoint/shoepoint/internal/orders"
)

// DefaultRankLimit bounds ranked views when the caller does not ask for a
// specific size.
const DefaultRankLimit = 10

// OrdersPort supplies the filtered order set the engine runs over.
type OrdersPort interface {
	Orders(ctx context.Context) ([]orders.Order, error)
}

// Service coordinates engine computation with the cache layer. Every view is
// cached under a versioned key; a version bump after each sale or return
// invalidates the whole set at once.
type Service struct {
	orders OrdersPort
	cache  *Cache
	now    func() time.Time
}

// NewService wires the order source with a Cache helper.
func NewService(port OrdersPort, cache *Cache) *Service {
	return &Service{orders: port, cache: cache, now: time.Now}
}

// WithNow overrides the service clock for testing.
func (s *Service) WithNow(fn func() time.Time) {
	if fn != nil {
		s.now = fn
	}
}

// Invalidate bumps the cache version. Call after any write that changes the
// order set or the sales ledger.
func (s *Service) Invalidate(ctx context.Context) error {
	return s.cache.Bump(ctx)
}

// Overview returns the headline metrics.
func (s *Service) Overview(ctx context.Context) (Overview, error) {
	var ov Overview
	err := s.cached(ctx, keyOverview(), &ov, func(ctx context.Context) (interface{}, error) {
		list, err := s.orders.Orders(ctx)
		if err != nil {
			return nil, err
		}
		return OverviewMetrics(list, s.now()), nil
	})
	return ov, err
}

// Revenue returns revenue bucketed by day and month.
func (s *Service) Revenue(ctx context.Context) (Revenue, error) {
	var rev Revenue
	err := s.cached(ctx, keyRevenue(), &rev, func(ctx context.Context) (interface{}, error) {
		list, err := s.orders.Orders(ctx)
		if err != nil {
			return nil, err
		}
		return RevenueBuckets(list), nil
	})
	return rev, err
}

// Trend returns the fixed 30-day order trend.
func (s *Service) Trend(ctx context.Context) ([]TrendPoint, error) {
	var points []TrendPoint
	err := s.cached(ctx, keyTrend(), &points, func(ctx context.Context) (interface{}, error) {
		list, err := s.orders.Orders(ctx)
		if err != nil {
			return nil, err
		}
		return DailyOrderTrend(list, s.now()), nil
	})
	return points, err
}

// Products returns the top products by revenue.
func (s *Service) Products(ctx context.Context, limit int) ([]RankedItem, error) {
	limit = normalizeLimit(limit)
	var ranked []RankedItem
	err := s.cached(ctx, keyRanking("products", limit), &ranked, func(ctx context.Context) (interface{}, error) {
		list, err := s.orders.Orders(ctx)
		if err != nil {
			return nil, err
		}
		return TopProducts(list, limit), nil
	})
	return ranked, err
}

// Categories returns the top categories by revenue.
func (s *Service) Categories(ctx context.Context, limit int) ([]RankedItem, error) {
	limit = normalizeLimit(limit)
	var ranked []RankedItem
	err := s.cached(ctx, keyRanking("categories", limit), &ranked, func(ctx context.Context) (interface{}, error) {
		list, err := s.orders.Orders(ctx)
		if err != nil {
			return nil, err
		}
		return TopCategories(list, limit), nil
	})
	return ranked, err
}

// Customers returns the top customers by lifetime spend.
func (s *Service) Customers(ctx context.Context, limit int) ([]RankedCustomer, error) {
	limit = normalizeLimit(limit)
	var ranked []RankedCustomer
	err := s.cached(ctx, keyRanking("customers", limit), &ranked, func(ctx context.Context) (interface{}, error) {
		list, err := s.orders.Orders(ctx)
		if err != nil {
			return nil, err
		}
		return TopCustomers(list, limit), nil
	})
	return ranked, err
}

// Geography returns the city and state breakdown.
func (s *Service) Geography(ctx context.Context, limit int) (Geographic, error) {
	limit = normalizeLimit(limit)
	var geo Geographic
	err := s.cached(ctx, keyRanking("geography", limit), &geo, func(ctx context.Context) (interface{}, error) {
		list, err := s.orders.Orders(ctx)
		if err != nil {
			return nil, err
		}
		return GeographicBreakdown(list, limit), nil
	})
	return geo, err
}

// Segments returns counts of payment methods and customer segments. These
// come from one pass over the orders so they share a loader.
func (s *Service) Segments(ctx context.Context) (map[string]int, map[orders.Segment]int, error) {
	type pair struct {
		Payments map[string]int         `json:"payments"`
		Segments map[orders.Segment]int `json:"segments"`
	}
	var p pair
	err := s.cached(ctx, keyRanking("segments", 0), &p, func(ctx context.Context) (interface{}, error) {
		list, err := s.orders.Orders(ctx)
		if err != nil {
			return nil, err
		}
		return pair{
			Payments: PaymentMethodCounts(list),
			Segments: SegmentCounts(list),
		}, nil
	})
	if err != nil {
		return nil, nil, err
	}
	return p.Payments, p.Segments, nil
}

func (s *Service) cached(ctx context.Context, parts []string, dest interface{}, loader func(context.Context) (interface{}, error)) error {
	key, err := s.cache.BuildKey(ctx, parts...)
	if err != nil {
		return fmt.Errorf("analytics: build cache key: %w", err)
	}
	return s.cache.FetchJSON(ctx, key, dest, loader)
}

func normalizeLimit(limit int) int {
	if limit <= 0 {
		return DefaultRankLimit
	}
	return limit
}
