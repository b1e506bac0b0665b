package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
)

// Memory is an in-process Store backend. It is the default backend for
// single-node deployments and the test double for every service test.
type Memory struct {
	mu   sync.RWMutex
	docs map[string][]byte
}

// NewMemory constructs an empty in-memory store.
func NewMemory() *Memory {
	return &Memory{docs: make(map[string][]byte)}
}

// Load implements Store.
func (m *Memory) Load(ctx context.Context, collection string, dest any) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	m.mu.RLock()
	raw, ok := m.docs[collection]
	m.mu.RUnlock()
	if !ok {
		return false, nil
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("%w: decode %s: %v", ErrUnavailable, collection, err)
	}
	return true, nil
}

// Save implements Store.
func (m *Memory) Save(ctx context.Context, collection string, value any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: encode %s: %v", ErrUnavailable, collection, err)
	}
	m.mu.Lock()
	m.docs[collection] = raw
	m.mu.Unlock()
	return nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, collection string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	m.mu.Lock()
	delete(m.docs, collection)
	m.mu.Unlock()
	return nil
}
