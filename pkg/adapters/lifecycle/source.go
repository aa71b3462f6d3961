// Package lifecycle exposes note collection changes as a lifecycle.Source,
// so applications supervising several event sources can consume them uniformly.
package lifecycle

import (
	"context"
	"fmt"

	"github.com/aretw0/lifecycle"

	"github.com/aretw0/imdone/pkg/core"
)

// Watcher opens a stream of collection changes. *core.Service satisfies it.
type Watcher interface {
	Watch(ctx context.Context) (<-chan core.Event, error)
}

type noteSource struct {
	watcher Watcher
	out     chan lifecycle.Event
}

// NewSource creates a lifecycle.Source that emits the changes of a note collection.
// The subscription is opened by Start and lives as long as its context.
func NewSource(w Watcher) lifecycle.Source {
	return &noteSource{
		watcher: w,
		out:     make(chan lifecycle.Event),
	}
}

func (s *noteSource) Events() <-chan lifecycle.Event {
	return s.out
}

func (s *noteSource) Start(ctx context.Context) error {
	events, err := s.watcher.Watch(ctx)
	if err != nil {
		return fmt.Errorf("failed to subscribe to note changes: %w", err)
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer close(s.out)
		for {
			select {
			case <-ctx.Done():
				return nil
			case e, ok := <-events:
				if !ok {
					return nil
				}
				// core.Event satisfies lifecycle.Event through String.
				select {
				case s.out <- e:
				case <-ctx.Done():
					return nil
				}
			}
		}
	})
	return nil
}
