// Package store defines the persistence adapter shared by every core module.
//
// The adapter is a document store keyed by logical collection name. Each
// collection holds one JSON document (typically an array of records). All
// modules re-read their collections on every operation; the store is the only
// durability and consistency boundary in the system.
package store

import (
	"context"
	"errors"
)

// Collection names used by the core modules.
const (
	CollectionInventory   = "inventory"
	CollectionSalesLog    = "sales_log"
	CollectionReturns     = "returns"
	CollectionOrders      = "orders"
	CollectionStockAlerts = "stock_alerts"
)

// ErrUnavailable wraps backend read/write failures (network error, quota
// exceeded, serialization error). Callers log it and abort the operation;
// there is no fallback to a stale in-memory copy.
var ErrUnavailable = errors.New("store: unavailable")

// Store is the persistence adapter consumed by all core components.
type Store interface {
	// Load unmarshals the named collection into dest. It reports false with a
	// nil error when the collection does not exist; dest is left untouched.
	Load(ctx context.Context, collection string, dest any) (bool, error)

	// Save marshals value and replaces the named collection atomically.
	Save(ctx context.Context, collection string, value any) error

	// Delete removes the named collection. Deleting an absent collection is
	// not an error.
	Delete(ctx context.Context, collection string) error
}
