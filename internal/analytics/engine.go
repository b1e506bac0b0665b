package analytics

import (
	"sort"
	"time"

	"github.com/shoepoint/shoepoint/internal/orders"
)

const (
	dayKeyFormat   = "2006-01-02"
	monthKeyFormat = "2006-01"

	growthWindow = 30 * 24 * time.Hour
	trendDays    = 30
)

// OverviewMetrics computes the headline numbers. Growth compares the trailing
// 30 days against the 30 days before that and reports 0 when the earlier
// window had no revenue, so an empty baseline never yields NaN or Inf.
func OverviewMetrics(list []orders.Order, now time.Time) Overview {
	var ov Overview
	ov.TotalOrders = len(list)

	cutRecent := now.Add(-growthWindow)
	cutPrevious := now.Add(-2 * growthWindow)

	var recentRevenue, previousRevenue float64
	customers := make(map[string]struct{})

	for _, o := range list {
		ov.TotalRevenue += o.Totals.Total
		if o.Customer != nil && o.Customer.Email != "" {
			customers[o.Customer.Email] = struct{}{}
		}
		switch {
		case !o.CreatedAt.Before(cutRecent):
			ov.RecentOrders++
			recentRevenue += o.Totals.Total
		case !o.CreatedAt.Before(cutPrevious):
			ov.PreviousOrders++
			previousRevenue += o.Totals.Total
		}
	}

	ov.UniqueCustomers = len(customers)
	if ov.TotalOrders > 0 {
		ov.AverageOrderValue = ov.TotalRevenue / float64(ov.TotalOrders)
	}
	if previousRevenue > 0 {
		ov.RevenueGrowthPct = (recentRevenue - previousRevenue) / previousRevenue * 100
	}
	return ov
}

// RevenueBuckets groups order revenue by day and by month. Days and months
// with no orders are absent from the maps.
func RevenueBuckets(list []orders.Order) Revenue {
	rev := Revenue{
		ByDay:   make(map[string]float64),
		ByMonth: make(map[string]float64),
	}
	for _, o := range list {
		at := o.CreatedAt.UTC()
		rev.ByDay[at.Format(dayKeyFormat)] += o.Totals.Total
		rev.ByMonth[at.Format(monthKeyFormat)] += o.Totals.Total
	}
	return rev
}

// DailyOrderTrend returns exactly 30 points, one per day of the trailing
// window, zero-filled so charts render gap-free. Days outside the window are
// ignored.
func DailyOrderTrend(list []orders.Order, now time.Time) []TrendPoint {
	start := now.UTC().AddDate(0, 0, -trendDays)

	counts := make(map[string]int, trendDays)
	points := make([]TrendPoint, 0, trendDays)
	for i := 0; i < trendDays; i++ {
		key := start.AddDate(0, 0, i).Format(dayKeyFormat)
		counts[key] = 0
		points = append(points, TrendPoint{Day: key})
	}
	for _, o := range list {
		key := o.CreatedAt.UTC().Format(dayKeyFormat)
		if _, ok := counts[key]; ok {
			counts[key]++
		}
	}
	for i := range points {
		points[i].Orders = counts[points[i].Day]
	}
	return points
}

// TopProducts ranks products by revenue across all order items, stable on
// ties, truncated to limit.
func TopProducts(list []orders.Order, limit int) []RankedItem {
	agg := make(map[string]*RankedItem)
	var names []string
	for _, o := range list {
		for _, it := range o.Items {
			r, ok := agg[it.Name]
			if !ok {
				r = &RankedItem{Name: it.Name}
				agg[it.Name] = r
				names = append(names, it.Name)
			}
			r.Quantity += it.Quantity
			r.Revenue += it.Price * float64(it.Quantity)
			r.Orders++
		}
	}
	return rankItems(agg, names, limit)
}

// TopCategories ranks product categories by revenue.
func TopCategories(list []orders.Order, limit int) []RankedItem {
	agg := make(map[string]*RankedItem)
	var names []string
	for _, o := range list {
		for _, it := range o.Items {
			cat := it.Category
			if cat == "" {
				cat = "Uncategorized"
			}
			r, ok := agg[cat]
			if !ok {
				r = &RankedItem{Name: cat}
				agg[cat] = r
				names = append(names, cat)
			}
			r.Quantity += it.Quantity
			r.Revenue += it.Price * float64(it.Quantity)
			r.Orders++
		}
	}
	return rankItems(agg, names, limit)
}

func rankItems(agg map[string]*RankedItem, names []string, limit int) []RankedItem {
	ranked := make([]RankedItem, 0, len(names))
	for _, name := range names {
		ranked = append(ranked, *agg[name])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue > ranked[j].Revenue
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// TopCustomers ranks customers by lifetime spend, segment attached.
func TopCustomers(list []orders.Order, limit int) []RankedCustomer {
	aggs := orders.AggregateByCustomer(list)
	ranked := make([]RankedCustomer, 0, len(aggs))
	for _, a := range aggs {
		ranked = append(ranked, RankedCustomer{
			Email:             a.Email,
			Name:              a.Name,
			Orders:            a.TotalOrders,
			TotalSpent:        a.TotalSpent,
			AverageOrderValue: a.AverageOrderValue,
			Segment:           a.Segment,
		})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].TotalSpent != ranked[j].TotalSpent {
			return ranked[i].TotalSpent > ranked[j].TotalSpent
		}
		return ranked[i].Email < ranked[j].Email
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// GeographicBreakdown ranks shipping cities and states by revenue. Orders
// without an address are skipped.
func GeographicBreakdown(list []orders.Order, limit int) Geographic {
	cities := make(map[string]*RankedPlace)
	states := make(map[string]*RankedPlace)
	var cityNames, stateNames []string

	add := func(agg map[string]*RankedPlace, names *[]string, name string, total float64) {
		if name == "" {
			return
		}
		p, ok := agg[name]
		if !ok {
			p = &RankedPlace{Name: name}
			agg[name] = p
			*names = append(*names, name)
		}
		p.Orders++
		p.Revenue += total
	}

	for _, o := range list {
		if o.Customer == nil {
			continue
		}
		add(cities, &cityNames, o.Customer.Address.City, o.Totals.Total)
		add(states, &stateNames, o.Customer.Address.State, o.Totals.Total)
	}

	return Geographic{
		TopCities: rankPlaces(cities, cityNames, limit),
		TopStates: rankPlaces(states, stateNames, limit),
	}
}

func rankPlaces(agg map[string]*RankedPlace, names []string, limit int) []RankedPlace {
	ranked := make([]RankedPlace, 0, len(names))
	for _, name := range names {
		ranked = append(ranked, *agg[name])
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Revenue > ranked[j].Revenue
	})
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// PaymentMethodCounts tallies orders per payment method.
func PaymentMethodCounts(list []orders.Order) map[string]int {
	counts := make(map[string]int)
	for _, o := range list {
		method := o.Payment.Method
		if method == "" {
			method = "unknown"
		}
		counts[method]++
	}
	return counts
}

// SegmentCounts tallies customers per loyalty segment.
func SegmentCounts(list []orders.Order) map[orders.Segment]int {
	counts := map[orders.Segment]int{
		orders.SegmentVIP:       0,
		orders.SegmentReturning: 0,
		orders.SegmentNew:       0,
	}
	for _, a := range orders.AggregateByCustomer(list) {
		counts[a.Segment]++
	}
	return counts
}
