package analytics

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/shoepoint/shoepoint/internal/orders"
)

type stubOrders struct {
	list  []orders.Order
	calls int
}

func (s *stubOrders) Orders(ctx context.Context) ([]orders.Order, error) {
	s.calls++
	return s.list, nil
}

func newCachedService(t *testing.T, port OrdersPort) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	svc := NewService(port, NewCache(client, time.Minute))
	svc.WithNow(func() time.Time { return testNow })
	return svc
}

func TestServiceWithoutCache(t *testing.T) {
	stub := &stubOrders{list: []orders.Order{order("o1", "a@x.example", 100, testNow)}}
	svc := NewService(stub, nil)
	svc.WithNow(func() time.Time { return testNow })

	ov, err := svc.Overview(context.Background())
	require.NoError(t, err)
	require.Equal(t, 100.0, ov.TotalRevenue)
	require.Equal(t, 1, stub.calls)
}

func TestServiceCachesSecondRead(t *testing.T) {
	stub := &stubOrders{list: []orders.Order{order("o1", "a@x.example", 100, testNow)}}
	svc := newCachedService(t, stub)
	ctx := context.Background()

	first, err := svc.Overview(ctx)
	require.NoError(t, err)
	second, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Equal(t, 1, stub.calls)
}

func TestInvalidateBumpsVersion(t *testing.T) {
	stub := &stubOrders{list: []orders.Order{order("o1", "a@x.example", 100, testNow)}}
	svc := newCachedService(t, stub)
	ctx := context.Background()

	_, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.NoError(t, svc.Invalidate(ctx))

	stub.list = append(stub.list, order("o2", "b@x.example", 50, testNow))
	ov, err := svc.Overview(ctx)
	require.NoError(t, err)
	require.Equal(t, 150.0, ov.TotalRevenue)
	require.Equal(t, 2, stub.calls)
}

func TestRankedViewsCacheByLimit(t *testing.T) {
	stub := &stubOrders{list: []orders.Order{
		order("o1", "a@x.example", 100, testNow),
		order("o2", "b@x.example", 200, testNow),
	}}
	svc := newCachedService(t, stub)
	ctx := context.Background()

	one, err := svc.Customers(ctx, 1)
	require.NoError(t, err)
	require.Len(t, one, 1)

	two, err := svc.Customers(ctx, 2)
	require.NoError(t, err)
	require.Len(t, two, 2)
}

func TestSegmentsSharedLoader(t *testing.T) {
	stub := &stubOrders{list: []orders.Order{
		order("o1", "a@x.example", 100, testNow),
		order("o2", "a@x.example", 100, testNow),
	}}
	svc := newCachedService(t, stub)

	payments, segments, err := svc.Segments(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, payments["card"])
	require.Equal(t, 1, segments[orders.SegmentReturning])
	require.Equal(t, 1, stub.calls)
}
