package core

import "context"

// Repository defines the contract for a key-addressed blob store.
// Adhering to this interface allows the core to be independent of the
// underlying storage mechanism (memory, filesystem, browser storage, etc).
type Repository interface {
	// Get returns the bytes stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Set stores data under key, replacing any previous value.
	Set(ctx context.Context, key string, data []byte) error

	// Initialize ensures the underlying storage is ready (e.g., create directories).
	Initialize(ctx context.Context) error
}

// Watchable defines an interface for repositories that can report external changes.
type Watchable interface {
	// Watch emits the key of every changed blob whose key matches pattern.
	// Writes made through Set are reported too.
	// The channel is closed when ctx is done.
	Watch(ctx context.Context, pattern string) (<-chan string, error)
}
