// Package orders holds the storefront order model, the test-data filter, and
// the customer/store aggregation read models derived from raw orders.
package orders

import (
	"errors"
	"strings"
	"time"
)

// Order is a raw storefront order as persisted by the checkout flow.
type Order struct {
	ID         string        `json:"id"`
	CustomerID string        `json:"customer_id,omitempty"`
	Customer   *CustomerInfo `json:"customer_info,omitempty"`
	Items      []Item        `json:"items"`
	Totals     Totals        `json:"totals"`
	Payment    Payment       `json:"payment"`
	Status     string        `json:"status,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
}

// CustomerInfo identifies the purchaser.
type CustomerInfo struct {
	Name    string  `json:"name"`
	Email   string  `json:"email"`
	Phone   string  `json:"phone"`
	Address Address `json:"address"`
}

// Address is the shipping address captured at checkout.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}

// Item is one order line.
type Item struct {
	ProductID int64   `json:"product_id"`
	Name      string  `json:"name"`
	Category  string  `json:"category"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
	Size      string  `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
}

// Totals carries the checkout totals.
type Totals struct {
	Subtotal float64 `json:"subtotal"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

// Payment records how the order was paid.
type Payment struct {
	Method string  `json:"method"`
	Amount float64 `json:"amount"`
}

// Segment is the customer loyalty tier derived purely from lifetime order
// count. The cutoffs live in SegmentFor and nowhere else.
type Segment string

const (
	// SegmentNew is a customer with exactly one order.
	SegmentNew Segment = "New"
	// SegmentReturning is a customer with two to four orders.
	SegmentReturning Segment = "Returning"
	// SegmentVIP is a customer with five or more orders.
	SegmentVIP Segment = "VIP"
)

// SegmentFor classifies a lifetime order count.
func SegmentFor(orderCount int) Segment {
	switch {
	case orderCount >= 5:
		return SegmentVIP
	case orderCount >= 2:
		return SegmentReturning
	default:
		return SegmentNew
	}
}

// CustomerAggregate is the per-customer profile derived by grouping orders by
// email. It is recomputed on every read and never stored.
type CustomerAggregate struct {
	Name              string    `json:"name"`
	Email             string    `json:"email"`
	Phone             string    `json:"phone,omitempty"`
	Address           string    `json:"address,omitempty"`
	TotalOrders       int       `json:"total_orders"`
	TotalSpent        float64   `json:"total_spent"`
	AverageOrderValue float64   `json:"average_order_value"`
	FirstOrder        time.Time `json:"first_order"`
	LastOrder         time.Time `json:"last_order"`
	PreferredCategory string    `json:"preferred_category"`
	Segment           Segment   `json:"segment"`
}

// StoreStats is the store-wide dashboard read model.
type StoreStats struct {
	OnlineRevenue    float64 `json:"online_revenue"`
	PhysicalRevenue  float64 `json:"physical_revenue"`
	TotalRevenue     float64 `json:"total_revenue"`
	OrderCount       int     `json:"order_count"`
	ProductCount     int     `json:"product_count"`
	CustomerCount    int     `json:"customer_count"`
	LowStockCount    int     `json:"low_stock_count"`
	OutOfStockCount  int     `json:"out_of_stock_count"`
}

// ErrOrderNotFound indicates the referenced order id does not exist.
var ErrOrderNotFound = errors.New("order not found")

// Synthetic customer names excluded outright by the order filter.
var syntheticNames = map[string]struct{}{
	"guest":         {},
	"test customer": {},
	"vip customer":  {},
}

// IsReal reports whether the order positively proves it belongs to an actual
// customer. Orders must carry a name and an email free of test/demo markers,
// a syntactically plausible email, a phone number and a street address;
// ambiguous or incomplete records are dropped rather than counted.
func (o Order) IsReal() bool {
	if o.Customer == nil {
		return false
	}
	name := strings.ToLower(strings.TrimSpace(o.Customer.Name))
	email := strings.ToLower(strings.TrimSpace(o.Customer.Email))
	if name == "" || email == "" {
		return false
	}
	if _, synthetic := syntheticNames[name]; synthetic {
		return false
	}
	for _, marker := range []string{"test", "demo"} {
		if strings.Contains(name, marker) || strings.Contains(email, marker) {
			return false
		}
	}
	if !strings.Contains(email, "@") {
		return false
	}
	if strings.TrimSpace(o.Customer.Phone) == "" {
		return false
	}
	if strings.TrimSpace(o.Customer.Address.Street) == "" {
		return false
	}
	return true
}

// FilterReal drops synthetic and incomplete orders, keeping input order.
func FilterReal(orders []Order) []Order {
	real := make([]Order, 0, len(orders))
	for _, o := range orders {
		if o.IsReal() {
			real = append(real, o)
		}
	}
	return real
}
