// Package memory provides an in-memory core.Repository.
// It backs tests and ephemeral sessions; nothing survives the process.
package memory

import (
	"context"
	"sync"

	"github.com/aretw0/introspection"
	"github.com/bmatcuk/doublestar/v4"

	"github.com/aretw0/imdone/pkg/core"
)

// Store is a map-backed, concurrency-safe repository.
type Store struct {
	mu       sync.RWMutex
	data     map[string][]byte
	readOnly bool
	sets     int

	// GetErr and SetErr, when non-nil, are returned by Get and Set.
	// They let tests simulate a failing storage layer.
	GetErr error
	SetErr error

	watchMu  sync.Mutex
	watchers map[chan string]string
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		data:     make(map[string][]byte),
		watchers: make(map[chan string]string),
	}
}

// NewReadOnlyStore creates a store seeded with data that rejects writes.
func NewReadOnlyStore(seed map[string][]byte) *Store {
	s := NewStore()
	for k, v := range seed {
		s.data[k] = append([]byte(nil), v...)
	}
	s.readOnly = true
	return s
}

// Initialize implements core.Repository.
func (s *Store) Initialize(ctx context.Context) error { return nil }

// Get implements core.Repository.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.GetErr != nil {
		return nil, s.GetErr
	}
	data, ok := s.data[key]
	if !ok {
		return nil, core.ErrNotFound
	}
	return append([]byte(nil), data...), nil
}

// Set implements core.Repository.
func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	if s.readOnly {
		s.mu.Unlock()
		return core.ErrReadOnly
	}
	if s.SetErr != nil {
		err := s.SetErr
		s.mu.Unlock()
		return err
	}
	s.data[key] = append([]byte(nil), data...)
	s.sets++
	s.mu.Unlock()

	s.notify(key)
	return nil
}

// Sets returns how many successful writes the store has seen.
func (s *Store) Sets() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sets
}

// Watch implements core.Watchable. Every successful Set on a matching key is reported.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan string, error) {
	if _, err := doublestar.Match(pattern, ""); err != nil {
		return nil, err
	}
	ch := make(chan string, 16)

	s.watchMu.Lock()
	s.watchers[ch] = pattern
	s.watchMu.Unlock()

	go func() {
		<-ctx.Done()
		s.watchMu.Lock()
		delete(s.watchers, ch)
		close(ch)
		s.watchMu.Unlock()
	}()
	return ch, nil
}

func (s *Store) notify(key string) {
	s.watchMu.Lock()
	defer s.watchMu.Unlock()
	for ch, pattern := range s.watchers {
		if ok, _ := doublestar.Match(pattern, key); !ok {
			continue
		}
		select {
		case ch <- key:
		default:
		}
	}
}

// StoreState exposes internal state for observability.
type StoreState struct {
	Keys     int  `json:"keys"`
	Writes   int  `json:"writes"`
	ReadOnly bool `json:"read_only"`
	Watchers int  `json:"watchers"`
}

// State implements introspection.Introspectable.
func (s *Store) State() any {
	s.mu.RLock()
	state := StoreState{Keys: len(s.data), Writes: s.sets, ReadOnly: s.readOnly}
	s.mu.RUnlock()

	s.watchMu.Lock()
	state.Watchers = len(s.watchers)
	s.watchMu.Unlock()
	return state
}

// ComponentType implements introspection.Component.
func (s *Store) ComponentType() string {
	return "memory-store"
}

var _ core.Repository = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
var _ introspection.Introspectable = (*Store)(nil)
