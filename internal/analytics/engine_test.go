package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shoepoint/shoepoint/internal/orders"
)

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func order(id, email string, total float64, at time.Time, items ...orders.Item) orders.Order {
	if len(items) == 0 {
		items = []orders.Item{{ProductID: 1, Name: "Air Jordan 5 Retro", Category: "Basketball", Quantity: 1, Price: total}}
	}
	return orders.Order{
		ID: id,
		Customer: &orders.CustomerInfo{
			Name:  "Customer " + id,
			Email: email,
			Phone: "555-0100",
			Address: orders.Address{
				Street: "1 Main St",
				City:   "Austin",
				State:  "TX",
			},
		},
		Items:     items,
		Totals:    orders.Totals{Total: total},
		Payment:   orders.Payment{Method: "card", Amount: total},
		CreatedAt: at,
	}
}

func TestOverviewMetricsEmpty(t *testing.T) {
	ov := OverviewMetrics(nil, testNow)
	require.Zero(t, ov.TotalRevenue)
	require.Zero(t, ov.TotalOrders)
	require.Zero(t, ov.AverageOrderValue)
	require.Zero(t, ov.RevenueGrowthPct)
}

func TestOverviewMetricsBasics(t *testing.T) {
	list := []orders.Order{
		order("o1", "a@x.example", 100, testNow.AddDate(0, 0, -1)),
		order("o2", "a@x.example", 300, testNow.AddDate(0, 0, -2)),
		order("o3", "b@x.example", 200, testNow.AddDate(0, 0, -3)),
	}
	ov := OverviewMetrics(list, testNow)
	require.Equal(t, 600.0, ov.TotalRevenue)
	require.Equal(t, 3, ov.TotalOrders)
	require.Equal(t, 200.0, ov.AverageOrderValue)
	require.Equal(t, 2, ov.UniqueCustomers)
	require.Equal(t, 3, ov.RecentOrders)
	require.Equal(t, 0, ov.PreviousOrders)
}

func TestOverviewGrowthComparesWindows(t *testing.T) {
	list := []orders.Order{
		order("recent", "a@x.example", 300, testNow.AddDate(0, 0, -5)),
		order("previous", "b@x.example", 200, testNow.AddDate(0, 0, -35)),
		order("ancient", "c@x.example", 999, testNow.AddDate(0, 0, -90)),
	}
	ov := OverviewMetrics(list, testNow)
	require.Equal(t, 1, ov.RecentOrders)
	require.Equal(t, 1, ov.PreviousOrders)
	require.InDelta(t, 50.0, ov.RevenueGrowthPct, 0.0001)
}

func TestOverviewGrowthZeroBaseline(t *testing.T) {
	list := []orders.Order{
		order("recent", "a@x.example", 300, testNow.AddDate(0, 0, -5)),
	}
	ov := OverviewMetrics(list, testNow)
	require.Equal(t, 0.0, ov.RevenueGrowthPct)
}

func TestRevenueBucketsTouchedOnly(t *testing.T) {
	day := time.Date(2026, time.March, 10, 8, 0, 0, 0, time.UTC)
	list := []orders.Order{
		order("o1", "a@x.example", 100, day),
		order("o2", "a@x.example", 50, day.Add(3*time.Hour)),
		order("o3", "b@x.example", 70, day.AddDate(0, -1, 0)),
	}
	rev := RevenueBuckets(list)
	require.Len(t, rev.ByDay, 2)
	require.Equal(t, 150.0, rev.ByDay["2026-03-10"])
	require.Equal(t, 70.0, rev.ByDay["2026-02-10"])
	require.Equal(t, 150.0, rev.ByMonth["2026-03"])
	require.Equal(t, 70.0, rev.ByMonth["2026-02"])
}

func TestDailyOrderTrendSpansThirtyZeroedDays(t *testing.T) {
	list := []orders.Order{
		order("o1", "a@x.example", 100, testNow.AddDate(0, 0, -2)),
		order("o2", "a@x.example", 100, testNow.AddDate(0, 0, -2)),
		order("outside", "b@x.example", 100, testNow.AddDate(0, 0, -45)),
	}
	points := DailyOrderTrend(list, testNow)
	require.Len(t, points, 30)

	total := 0
	byDay := make(map[string]int, len(points))
	for _, p := range points {
		total += p.Orders
		byDay[p.Day] = p.Orders
	}
	require.Equal(t, 2, total)
	require.Equal(t, 2, byDay[testNow.AddDate(0, 0, -2).Format("2006-01-02")])

	// Days are consecutive and ascending.
	for i := 1; i < len(points); i++ {
		prev, err := time.Parse("2006-01-02", points[i-1].Day)
		require.NoError(t, err)
		require.Equal(t, prev.AddDate(0, 0, 1).Format("2006-01-02"), points[i].Day)
	}
}

func TestTopProductsRankedByRevenue(t *testing.T) {
	list := []orders.Order{
		order("o1", "a@x.example", 0, testNow, orders.Item{Name: "Sneaker A", Category: "Running", Quantity: 2, Price: 100}),
		order("o2", "a@x.example", 0, testNow, orders.Item{Name: "Sneaker B", Category: "Tennis", Quantity: 1, Price: 500}),
		order("o3", "b@x.example", 0, testNow, orders.Item{Name: "Sneaker A", Category: "Running", Quantity: 1, Price: 100}),
	}
	ranked := TopProducts(list, 10)
	require.Len(t, ranked, 2)
	require.Equal(t, "Sneaker B", ranked[0].Name)
	require.Equal(t, 500.0, ranked[0].Revenue)
	require.Equal(t, "Sneaker A", ranked[1].Name)
	require.Equal(t, 300.0, ranked[1].Revenue)
	require.Equal(t, 3, ranked[1].Quantity)
	require.Equal(t, 2, ranked[1].Orders)
}

func TestTopProductsTruncatesAndKeepsTieOrder(t *testing.T) {
	list := []orders.Order{
		order("o1", "a@x.example", 0, testNow, orders.Item{Name: "First", Quantity: 1, Price: 100}),
		order("o2", "a@x.example", 0, testNow, orders.Item{Name: "Second", Quantity: 1, Price: 100}),
		order("o3", "a@x.example", 0, testNow, orders.Item{Name: "Third", Quantity: 1, Price: 100}),
	}
	ranked := TopProducts(list, 2)
	require.Len(t, ranked, 2)
	require.Equal(t, "First", ranked[0].Name)
	require.Equal(t, "Second", ranked[1].Name)
}

func TestTopCategoriesDefaultsUncategorized(t *testing.T) {
	list := []orders.Order{
		order("o1", "a@x.example", 0, testNow, orders.Item{Name: "X", Category: "", Quantity: 1, Price: 50}),
		order("o2", "a@x.example", 0, testNow, orders.Item{Name: "Y", Category: "Soccer", Quantity: 1, Price: 200}),
	}
	ranked := TopCategories(list, 10)
	require.Len(t, ranked, 2)
	require.Equal(t, "Soccer", ranked[0].Name)
	require.Equal(t, "Uncategorized", ranked[1].Name)
}

func TestTopCustomers(t *testing.T) {
	list := []orders.Order{
		order("o1", "big@x.example", 500, testNow),
		order("o2", "small@x.example", 100, testNow),
		order("o3", "small@x.example", 100, testNow),
	}
	ranked := TopCustomers(list, 10)
	require.Len(t, ranked, 2)
	require.Equal(t, "big@x.example", ranked[0].Email)
	require.Equal(t, 500.0, ranked[0].TotalSpent)
	require.Equal(t, orders.SegmentNew, ranked[0].Segment)
	require.Equal(t, "small@x.example", ranked[1].Email)
	require.Equal(t, 2, ranked[1].Orders)
	require.Equal(t, orders.SegmentReturning, ranked[1].Segment)
}

func TestGeographicBreakdown(t *testing.T) {
	austin := order("o1", "a@x.example", 300, testNow)
	dallas := order("o2", "b@x.example", 100, testNow)
	dallas.Customer.Address.City = "Dallas"
	noAddr := order("o3", "c@x.example", 999, testNow)
	noAddr.Customer.Address = orders.Address{}

	geo := GeographicBreakdown([]orders.Order{austin, dallas, noAddr}, 10)
	require.Len(t, geo.TopCities, 2)
	require.Equal(t, "Austin", geo.TopCities[0].Name)
	require.Equal(t, 300.0, geo.TopCities[0].Revenue)
	require.Len(t, geo.TopStates, 1)
	require.Equal(t, "TX", geo.TopStates[0].Name)
	require.Equal(t, 400.0, geo.TopStates[0].Revenue)
	require.Equal(t, 2, geo.TopStates[0].Orders)
}

func TestPaymentMethodCounts(t *testing.T) {
	cod := order("o1", "a@x.example", 10, testNow)
	cod.Payment.Method = "cod"
	unknown := order("o2", "a@x.example", 10, testNow)
	unknown.Payment.Method = ""

	counts := PaymentMethodCounts([]orders.Order{order("o3", "a@x.example", 10, testNow), cod, unknown})
	require.Equal(t, 1, counts["card"])
	require.Equal(t, 1, counts["cod"])
	require.Equal(t, 1, counts["unknown"])
}

func TestSegmentCountsIncludesEmptyTiers(t *testing.T) {
	list := []orders.Order{
		order("o1", "a@x.example", 10, testNow),
		order("o2", "b@x.example", 10, testNow),
		order("o3", "b@x.example", 10, testNow),
	}
	counts := SegmentCounts(list)
	require.Equal(t, 1, counts[orders.SegmentNew])
	require.Equal(t, 1, counts[orders.SegmentReturning])
	require.Equal(t, 0, counts[orders.SegmentVIP])
}
