// Package analytics derives read-only revenue, product, customer and
// geographic views from the filtered order set. The engine is pure: no side
// effects, safe to call repeatedly; the service layer adds caching.
package analytics

import "github.com/shoepoint/shoepoint/internal/orders"

// Overview carries the headline dashboard metrics.
type Overview struct {
	TotalRevenue      float64 `json:"total_revenue"`
	TotalOrders       int     `json:"total_orders"`
	AverageOrderValue float64 `json:"average_order_value"`
	UniqueCustomers   int     `json:"unique_customers"`
	RevenueGrowthPct  float64 `json:"revenue_growth_pct"`
	RecentOrders      int     `json:"recent_orders"`
	PreviousOrders    int     `json:"previous_orders"`
}

// Revenue buckets revenue by calendar day and month. Only buckets touched by
// at least one order appear.
type Revenue struct {
	ByDay   map[string]float64 `json:"by_day"`
	ByMonth map[string]float64 `json:"by_month"`
}

// TrendPoint is one day of the fixed 30-day order trend.
type TrendPoint struct {
	Day    string `json:"day"`
	Orders int    `json:"orders"`
}

// RankedItem is a product or category ranked by revenue.
type RankedItem struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Revenue  float64 `json:"revenue"`
	Orders   int     `json:"orders"`
}

// RankedCustomer is a customer ranked by lifetime spend.
type RankedCustomer struct {
	Email             string         `json:"email"`
	Name              string         `json:"name"`
	Orders            int            `json:"orders"`
	TotalSpent        float64        `json:"total_spent"`
	AverageOrderValue float64        `json:"average_order_value"`
	Segment           orders.Segment `json:"segment"`
}

// RankedPlace is a city or state ranked by revenue.
type RankedPlace struct {
	Name    string  `json:"name"`
	Orders  int     `json:"orders"`
	Revenue float64 `json:"revenue"`
}

// Geographic breaks orders down by shipping destination.
type Geographic struct {
	TopCities []RankedPlace `json:"top_cities"`
	TopStates []RankedPlace `json:"top_states"`
}

// Dashboard bundles every analytics view for the admin dashboard.
type Dashboard struct {
	Overview       Overview                 `json:"overview"`
	Revenue        Revenue                  `json:"revenue"`
	DailyTrend     []TrendPoint             `json:"daily_trend"`
	TopProducts    []RankedItem             `json:"top_products"`
	TopCategories  []RankedItem             `json:"top_categories"`
	TopCustomers   []RankedCustomer         `json:"top_customers"`
	Geographic     Geographic               `json:"geographic"`
	PaymentMethods map[string]int           `json:"payment_methods"`
	SegmentCounts  map[orders.Segment]int   `json:"segment_counts"`
}
