package transcript

import (
	"github.com/aretw0/introspection"
)

// SessionState exposes internal state for observability.
type SessionState struct {
	Available   bool   `json:"available"`
	Listening   bool   `json:"listening"`
	Language    string `json:"language"`
	LiveChars   int    `json:"live_chars"`
	PendingText string `json:"pending_text,omitempty"`
	Subscribers int    `json:"subscribers"`
	LastError   string `json:"last_error,omitempty"`
}

// State implements introspection.Introspectable.
func (s *Session) State() any {
	s.mu.Lock()
	defer s.mu.Unlock()

	state := SessionState{
		Available:   s.recognizer != nil,
		Listening:   s.state.Listening,
		Language:    s.settings.Language,
		LiveChars:   len([]rune(s.state.LiveText)),
		PendingText: s.state.PendingText,
		Subscribers: len(s.listeners),
	}
	if s.state.LastError != nil {
		state.LastError = s.state.LastError.Error()
	}
	return state
}

// ComponentType implements introspection.Component.
func (s *Session) ComponentType() string {
	return "transcript-session"
}

var _ introspection.Introspectable = (*Session)(nil)
var _ introspection.Component = (*Session)(nil)
