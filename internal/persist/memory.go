package persist

import (
	"context"
	"sync"
)

// MemoryGateway is an in-process gateway used in tests and when the service
// runs without Redis.
type MemoryGateway struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemoryGateway creates an empty in-memory gateway.
func NewMemoryGateway() *MemoryGateway {
	return &MemoryGateway{data: make(map[string][]byte)}
}

// Get returns the stored value or ErrNotFound.
func (g *MemoryGateway) Get(_ context.Context, key string) ([]byte, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	val, ok := g.data[key]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]byte, len(val))
	copy(out, val)
	return out, nil
}

// Set stores a copy of value under key.
func (g *MemoryGateway) Set(_ context.Context, key string, value []byte) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	stored := make([]byte, len(value))
	copy(stored, value)
	g.data[key] = stored
	return nil
}

// Remove deletes key.
func (g *MemoryGateway) Remove(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.data, key)
	return nil
}

// Clear removes all keys.
func (g *MemoryGateway) Clear(_ context.Context) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.data = make(map[string][]byte)
	return nil
}
