package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type fixtureDoc struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

func TestMemoryLoadAbsent(t *testing.T) {
	st := NewMemory()

	var doc fixtureDoc
	found, err := st.Load(context.Background(), CollectionInventory, &doc)
	require.NoError(t, err)
	require.False(t, found)
}

func TestMemorySaveLoadRoundTrip(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, CollectionInventory, fixtureDoc{Name: "sneaker", Count: 3}))

	var doc fixtureDoc
	found, err := st.Load(ctx, CollectionInventory, &doc)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "sneaker", doc.Name)
	require.Equal(t, 3, doc.Count)
}

func TestMemorySaveOverwrites(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, CollectionSalesLog, fixtureDoc{Count: 1}))
	require.NoError(t, st.Save(ctx, CollectionSalesLog, fixtureDoc{Count: 2}))

	var doc fixtureDoc
	found, err := st.Load(ctx, CollectionSalesLog, &doc)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, 2, doc.Count)
}

func TestMemoryDelete(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, CollectionReturns, fixtureDoc{Count: 1}))
	require.NoError(t, st.Delete(ctx, CollectionReturns))

	var doc fixtureDoc
	found, err := st.Load(ctx, CollectionReturns, &doc)
	require.NoError(t, err)
	require.False(t, found)

	// Deleting an absent collection is a no-op.
	require.NoError(t, st.Delete(ctx, CollectionReturns))
}

func TestMemoryCollectionsAreIsolated(t *testing.T) {
	st := NewMemory()
	ctx := context.Background()

	require.NoError(t, st.Save(ctx, CollectionInventory, fixtureDoc{Name: "a"}))
	require.NoError(t, st.Save(ctx, CollectionOrders, fixtureDoc{Name: "b"}))

	var doc fixtureDoc
	found, err := st.Load(ctx, CollectionInventory, &doc)
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, "a", doc.Name)
}

func TestMemoryCanceledContext(t *testing.T) {
	st := NewMemory()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := st.Save(ctx, CollectionInventory, fixtureDoc{})
	require.Error(t, err)
}
