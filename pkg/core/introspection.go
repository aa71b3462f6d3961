package core

import (
	"github.com/aretw0/introspection"
)

// ServiceState exposes internal state for observability.
type ServiceState struct {
	Loaded         bool   `json:"loaded"`
	Total          int    `json:"total"`
	Active         int    `json:"active"`
	Trashed        int    `json:"trashed"`
	Codec          string `json:"codec"`
	StorageKey     string `json:"storage_key"`
	Subscribers    int    `json:"subscribers"`
	RepositoryType string `json:"repository_type"`
	LastError      string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Service) State() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	repoType := "unknown"
	if s.repo != nil {
		repoType = "repository"
		if comp, ok := s.repo.(introspection.Component); ok {
			repoType = comp.ComponentType()
		}
	}

	state := ServiceState{
		Loaded:         s.loaded,
		Total:          len(s.notes),
		Codec:          s.cfg.Codec.Name(),
		StorageKey:     s.cfg.Key,
		RepositoryType: repoType,
	}
	for _, n := range s.notes {
		if n.Trashed() {
			state.Trashed++
		} else {
			state.Active++
		}
	}
	if s.lastErr != nil {
		state.LastError = s.lastErr.Error()
	}

	s.subMu.Lock()
	state.Subscribers = len(s.subscribers)
	s.subMu.Unlock()

	return state
}

// ComponentType implements introspection.Component.
func (s *Service) ComponentType() string {
	return "service"
}

var _ introspection.Introspectable = (*Service)(nil)
var _ introspection.Component = (*Service)(nil)
