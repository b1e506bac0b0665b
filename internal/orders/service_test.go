package orders

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/shoepoint/shoepoint/internal/catalog"
	"github.com/shoepoint/shoepoint/internal/platform/store"
	"github.com/shoepoint/shoepoint/internal/sales"
)

func realOrder(id, name, email string, amount float64) Order {
	return Order{
		ID:         id,
		CustomerID: "c-" + id,
		Customer: &CustomerInfo{
			Name:  name,
			Email: email,
			Phone: "555-0100",
			Address: Address{
				Street: "12 Laces Lane",
				City:   "Portland",
				State:  "OR",
			},
		},
		Items: []Item{
			{ProductID: 1, Name: "Air Jordan 5 Retro", Category: "Basketball", Quantity: 1, Price: amount},
		},
		Totals:    Totals{Subtotal: amount, Total: amount},
		Payment:   Payment{Method: "card", Amount: amount},
		Status:    "completed",
		CreatedAt: time.Now().UTC(),
	}
}

func seedOrders(t *testing.T, st store.Store, orders []Order) {
	t.Helper()
	require.NoError(t, st.Save(context.Background(), store.CollectionOrders, orders))
}

func newTestService(t *testing.T, orders []Order) (*Service, store.Store) {
	t.Helper()
	st := store.NewMemory()
	seedOrders(t, st, orders)
	inv := catalog.NewService(st, nil, catalog.ServiceConfig{})
	salesSvc := sales.NewService(st, inv, nil, sales.ServiceConfig{})
	return NewService(st, inv, salesSvc), st
}

func TestOrdersFiltersSynthetic(t *testing.T) {
	guest := realOrder("o2", "Guest", "guest@example.org", 100)
	tester := realOrder("o3", "Jane Tester", "jane@test.com", 100)
	noPhone := realOrder("o4", "Ana Ruiz", "ana@shop.example", 100)
	noPhone.Customer.Phone = ""
	noStreet := realOrder("o5", "Ben Cole", "ben@shop.example", 100)
	noStreet.Customer.Address.Street = ""
	badEmail := realOrder("o6", "Cam Diaz", "cam.example.org", 100)
	anonymous := realOrder("o7", "", "anon@shop.example", 100)

	svc, _ := newTestService(t, []Order{
		realOrder("o1", "Maria Silva", "maria@shop.example", 250),
		guest, tester, noPhone, noStreet, badEmail, anonymous,
	})

	orders, err := svc.Orders(context.Background())
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "o1", orders[0].ID)
}

func TestOrdersEmptyStore(t *testing.T) {
	st := store.NewMemory()
	inv := catalog.NewService(st, nil, catalog.ServiceConfig{})
	salesSvc := sales.NewService(st, inv, nil, sales.ServiceConfig{})
	svc := NewService(st, inv, salesSvc)

	orders, err := svc.Orders(context.Background())
	require.NoError(t, err)
	require.Empty(t, orders)
}

func TestDeleteOrder(t *testing.T) {
	svc, _ := newTestService(t, []Order{
		realOrder("o1", "Maria Silva", "maria@shop.example", 250),
		realOrder("o2", "Liam Chen", "liam@shop.example", 90),
	})
	ctx := context.Background()

	require.NoError(t, svc.DeleteOrder(ctx, "o1"))

	orders, err := svc.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	require.Equal(t, "o2", orders[0].ID)

	require.ErrorIs(t, svc.DeleteOrder(ctx, "o1"), ErrOrderNotFound)
}

func TestSegmentFor(t *testing.T) {
	require.Equal(t, SegmentNew, SegmentFor(1))
	require.Equal(t, SegmentReturning, SegmentFor(2))
	require.Equal(t, SegmentReturning, SegmentFor(4))
	require.Equal(t, SegmentVIP, SegmentFor(5))
	require.Equal(t, SegmentVIP, SegmentFor(12))
}

func TestAggregateByCustomer(t *testing.T) {
	var orders []Order
	for i := 0; i < 5; i++ {
		o := realOrder(fmt.Sprintf("v%d", i), "Vera Vip", "vera@shop.example", 100)
		o.Items[0].Category = "Running"
		orders = append(orders, o)
	}
	orders = append(orders,
		realOrder("r1", "Rob Return", "rob@shop.example", 80),
		realOrder("r2", "Rob Return", "rob@shop.example", 120),
		realOrder("n1", "Nina New", "nina@shop.example", 60),
	)

	aggs := AggregateByCustomer(orders)
	require.Len(t, aggs, 3)

	vera := aggs["vera@shop.example"]
	require.Equal(t, 5, vera.TotalOrders)
	require.Equal(t, 500.0, vera.TotalSpent)
	require.Equal(t, 100.0, vera.AverageOrderValue)
	require.Equal(t, SegmentVIP, vera.Segment)
	require.Equal(t, "Running", vera.PreferredCategory)

	rob := aggs["rob@shop.example"]
	require.Equal(t, SegmentReturning, rob.Segment)
	require.Equal(t, 200.0, rob.TotalSpent)

	nina := aggs["nina@shop.example"]
	require.Equal(t, SegmentNew, nina.Segment)
}

func TestAggregatePreferredCategoryTieBreak(t *testing.T) {
	a := realOrder("o1", "Ed Ford", "ed@shop.example", 50)
	a.Items[0].Category = "Hiking"
	b := realOrder("o2", "Ed Ford", "ed@shop.example", 50)
	b.Items[0].Category = "Tennis"

	aggs := AggregateByCustomer([]Order{a, b})
	require.Equal(t, "Hiking", aggs["ed@shop.example"].PreferredCategory)
}

func TestCustomersSortedBySpend(t *testing.T) {
	svc, _ := newTestService(t, []Order{
		realOrder("o1", "Low Spender", "low@shop.example", 50),
		realOrder("o2", "High Spender", "high@shop.example", 500),
		realOrder("o3", "Mid Spender", "mid@shop.example", 200),
	})

	customers, err := svc.Customers(context.Background())
	require.NoError(t, err)
	require.Len(t, customers, 3)
	require.Equal(t, "high@shop.example", customers[0].Email)
	require.Equal(t, "mid@shop.example", customers[1].Email)
	require.Equal(t, "low@shop.example", customers[2].Email)
}

func TestComputeStats(t *testing.T) {
	svc, st := newTestService(t, []Order{
		realOrder("o1", "Maria Silva", "maria@shop.example", 250),
		realOrder("o2", "Maria Silva", "maria@shop.example", 150),
		realOrder("o3", "Liam Chen", "liam@shop.example", 90),
		realOrder("t1", "Test Bot", "bot@test.com", 9999),
	})
	ctx := context.Background()

	inv := catalog.NewService(st, nil, catalog.ServiceConfig{})
	salesSvc := sales.NewService(st, inv, nil, sales.ServiceConfig{})
	sale, err := salesSvc.RecordSale(ctx, sales.RecordSaleInput{ProductID: 6, Quantity: 10})
	require.NoError(t, err)
	_, err = salesSvc.ApplyReturn(ctx, sale.ID, sales.ReturnRef{ReturnID: "r1", Quantity: 2, RefundAmount: 16000})
	require.NoError(t, err)

	stats, err := svc.ComputeStats(ctx)
	require.NoError(t, err)
	require.Equal(t, 490.0, stats.OnlineRevenue)
	require.Equal(t, 64000.0, stats.PhysicalRevenue)
	require.Equal(t, 64490.0, stats.TotalRevenue)
	require.Equal(t, 3, stats.OrderCount)
	require.Equal(t, 2, stats.CustomerCount)
	require.Equal(t, 6, stats.ProductCount)
	require.Equal(t, 1, stats.OutOfStockCount)
	require.Equal(t, 0, stats.LowStockCount)
}
