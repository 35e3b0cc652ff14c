// Package persist defines the key-value gateway the stores write their
// snapshots to, and the writer that executes those writes best-effort.
package persist

import (
	"context"
	"errors"
)

// Storage key namespaces. Each store owns exactly one key; no store reads
// another's.
const (
	KeyCart          = "storefront:cart"
	KeyFavorites     = "storefront:favorites"
	KeyProductsCache = "storefront:products_cache"
)

// ErrNotFound is returned by Get when a key has no value.
var ErrNotFound = errors.New("persist: key not found")

// Gateway is the persistence contract: an async byte store with
// JSON-encoded payloads. Write failures are swallowed by the Writer;
// read failures make loads fall back to defaults.
type Gateway interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Remove(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// Command is one pending snapshot write, emitted by a store mutation.
type Command struct {
	Key   string
	Value []byte
}
