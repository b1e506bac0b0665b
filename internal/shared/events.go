// Package shared holds cross-module plumbing: the typed event bus that
// replaces ad hoc polling of store keys between back-office components.
package shared

import (
	"context"
	"sync"
	"time"
)

// Event is implemented by every bus payload.
type Event interface {
	EventName() string
}

// SaleRecorded is published after a sale has been written to the sales log
// and the inventory decrement committed.
type SaleRecorded struct {
	SaleID    string
	ProductID int64
	Quantity  int
	Total     float64
	At        time.Time
}

// EventName implements Event.
func (SaleRecorded) EventName() string { return "sale.recorded" }

// ReturnProcessed is published after a return record has been written, the
// inventory restocked and the originating sale updated.
type ReturnProcessed struct {
	ReturnID  string
	SaleID    string
	ProductID int64
	Quantity  int
	Refund    float64
	At        time.Time
}

// EventName implements Event.
func (ReturnProcessed) EventName() string { return "return.processed" }

// InventoryChanged is published when the catalog is edited directly
// (add/update/delete/reset), outside the sale and return flows.
type InventoryChanged struct {
	ProductID int64
	At        time.Time
}

// EventName implements Event.
func (InventoryChanged) EventName() string { return "inventory.changed" }

// Handler consumes one event. Dispatch is synchronous; handlers must not
// block on long work and should hand off to the job queue instead.
type Handler func(ctx context.Context, event Event)

// Bus is a constructor-injected publish/subscribe hub. Subscribers register
// once at composition time; publishers never check for subscriber presence.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
}

// NewBus constructs an empty bus.
func NewBus() *Bus {
	return &Bus{subs: make(map[string][]Handler)}
}

// Subscribe registers a handler for the named event.
func (b *Bus) Subscribe(name string, h Handler) {
	if h == nil {
		return
	}
	b.mu.Lock()
	b.subs[name] = append(b.subs[name], h)
	b.mu.Unlock()
}

// Publish dispatches the event to every subscriber in registration order.
// A nil bus is valid and drops all events, so services may treat the bus as
// an optional dependency resolved once at construction.
func (b *Bus) Publish(ctx context.Context, event Event) {
	if b == nil || event == nil {
		return
	}
	b.mu.RLock()
	handlers := b.subs[event.EventName()]
	b.mu.RUnlock()
	for _, h := range handlers {
		h(ctx, event)
	}
}
