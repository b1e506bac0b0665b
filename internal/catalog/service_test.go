package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/shoepoint/shoepoint/internal/platform/store"
	"github.com/shoepoint/shoepoint/internal/shared"
)

func newTestService() *Service {
	return NewService(store.NewMemory(), nil, ServiceConfig{})
}

func TestInventorySeedsDefaultCatalog(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	products, err := svc.Inventory(ctx)
	require.NoError(t, err)
	require.Len(t, products, 6)
	require.Equal(t, "Air Jordan 5 Retro", products[0].Name)
	require.Equal(t, 15, products[0].Stock)

	// A second read returns the persisted snapshot, not a fresh seed.
	again, err := svc.Inventory(ctx)
	require.NoError(t, err)
	require.Equal(t, products, again)
}

func TestApplyDeltaSale(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.ApplyDelta(ctx, 1, -3)
	require.NoError(t, err)
	require.Equal(t, 12, p.Stock)

	reloaded, err := svc.Product(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 12, reloaded.Stock)
}

func TestApplyDeltaRejectsOversell(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.ApplyDelta(ctx, 1, -16)
	require.ErrorIs(t, err, ErrInsufficientStock)

	// Rejection must leave stock untouched.
	p, err := svc.Product(ctx, 1)
	require.NoError(t, err)
	require.Equal(t, 15, p.Stock)
}

func TestApplyDeltaAllowsExactDrain(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.ApplyDelta(ctx, 1, -15)
	require.NoError(t, err)
	require.Equal(t, 0, p.Stock)
	require.Equal(t, StockStatusOut, svc.Status(p))

	_, err = svc.ApplyDelta(ctx, 1, -1)
	require.ErrorIs(t, err, ErrInsufficientStock)
}

func TestApplyDeltaRestock(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.ApplyDelta(ctx, 2, -19)
	require.NoError(t, err)

	p, err := svc.ApplyDelta(ctx, 2, 5)
	require.NoError(t, err)
	require.Equal(t, 6, p.Stock)
}

func TestApplyDeltaUnknownProduct(t *testing.T) {
	svc := newTestService()

	_, err := svc.ApplyDelta(context.Background(), 999, -1)
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestAddAssignsNextID(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.Add(ctx, ProductInput{Name: "Trail Runner", Price: 9900, Stock: 8, Category: "Running"})
	require.NoError(t, err)
	require.Equal(t, int64(7), p.ID)

	products, err := svc.Inventory(ctx)
	require.NoError(t, err)
	require.Len(t, products, 7)
}

func TestAddReusesHighestIDAfterDelete(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, 6))

	p, err := svc.Add(ctx, ProductInput{Name: "Court Classic", Price: 7000, Stock: 5, Category: "Tennis"})
	require.NoError(t, err)
	require.Equal(t, int64(6), p.ID)
}

func TestUpdateEditsFields(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	p, err := svc.Update(ctx, 3, ProductInput{Name: "High-Top Pro", Price: 9999, Stock: 2, Category: "Basketball"})
	require.NoError(t, err)
	require.Equal(t, "High-Top Pro", p.Name)
	require.Equal(t, 9999.0, p.Price)
	require.Equal(t, 2, p.Stock)
	require.Equal(t, StockStatusLow, svc.Status(p))
}

func TestUpdateUnknownProduct(t *testing.T) {
	svc := newTestService()

	_, err := svc.Update(context.Background(), 42, ProductInput{Name: "x", Price: 1, Stock: 1, Category: "c"})
	require.ErrorIs(t, err, ErrProductNotFound)
}

func TestDeleteRemovesOnlyCatalogEntry(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	require.NoError(t, svc.Delete(ctx, 4))

	_, err := svc.Product(ctx, 4)
	require.ErrorIs(t, err, ErrProductNotFound)

	products, err := svc.Inventory(ctx)
	require.NoError(t, err)
	require.Len(t, products, 5)
}

func TestResetRestoresDefaults(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.ApplyDelta(ctx, 1, -10)
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, 2))

	products, err := svc.Reset(ctx)
	require.NoError(t, err)
	require.Len(t, products, 6)
	require.Equal(t, 15, products[0].Stock)
}

func TestSearchByTermAndCategory(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	byTerm, err := svc.Search(ctx, "basketball", "")
	require.NoError(t, err)
	require.Len(t, byTerm, 2)

	byCategory, err := svc.Search(ctx, "", "Running")
	require.NoError(t, err)
	require.Len(t, byCategory, 1)
	require.Equal(t, "Lightweight Running Shoes", byCategory[0].Name)

	both, err := svc.Search(ctx, "high-top", "Basketball")
	require.NoError(t, err)
	require.Len(t, both, 1)

	none, err := svc.Search(ctx, "sandal", "")
	require.NoError(t, err)
	require.Empty(t, none)
}

func TestSummarize(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	_, err := svc.ApplyDelta(ctx, 1, -15)
	require.NoError(t, err)
	_, err = svc.ApplyDelta(ctx, 6, -9)
	require.NoError(t, err)

	summary, err := svc.Summarize(ctx)
	require.NoError(t, err)
	require.Equal(t, 6, summary.ProductCount)
	require.Equal(t, 76, summary.TotalStock)
	require.Equal(t, 1, summary.OutOfStock)
	require.Equal(t, 1, summary.LowStock)
}

func TestEditsPublishInventoryChanged(t *testing.T) {
	bus := shared.NewBus()
	var events []shared.InventoryChanged
	bus.Subscribe(shared.InventoryChanged{}.EventName(), func(ctx context.Context, e shared.Event) {
		events = append(events, e.(shared.InventoryChanged))
	})
	svc := NewService(store.NewMemory(), bus, ServiceConfig{})
	ctx := context.Background()

	_, err := svc.Add(ctx, ProductInput{Name: "n", Price: 1, Stock: 1, Category: "c"})
	require.NoError(t, err)
	require.Len(t, events, 1)
	require.Equal(t, int64(7), events[0].ProductID)
}
