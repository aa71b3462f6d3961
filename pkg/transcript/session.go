package transcript

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
)

// Settings are handed to the recognizer when capture starts.
type Settings struct {
	Language   string // BCP 47 tag, e.g. "ja-JP"
	Continuous bool   // keep listening across pauses
	Interim    bool   // report partial results
}

// Sink receives recognizer pushes. *Session implements it.
type Sink interface {
	OnRecognitionUpdate(final, partial string)
	OnRecognitionError(err error)
	OnRecognitionEnd()
}

// Recognizer is a streaming speech-to-text backend.
//
// After Start returns nil the recognizer pushes results into sink from any
// goroutine until it ends on its own (OnRecognitionEnd), fails
// (OnRecognitionError) or Stop is called.
type Recognizer interface {
	Start(ctx context.Context, settings Settings, sink Sink) error
	Stop() error
}

// Option configures a Session.
type Option func(*Session)

// WithLanguage sets the recognition language. Defaults to "ja-JP".
func WithLanguage(lang string) Option {
	return func(s *Session) {
		s.settings.Language = lang
	}
}

// WithContinuous controls whether the recognizer keeps listening across pauses.
// Defaults to true.
func WithContinuous(enabled bool) Option {
	return func(s *Session) {
		s.settings.Continuous = enabled
	}
}

// WithInterimResults controls whether partial results are requested.
// Defaults to true.
func WithInterimResults(enabled bool) Option {
	return func(s *Session) {
		s.settings.Interim = enabled
	}
}

// WithLogger sets the logger for the session.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// Session is a transcript accumulation state machine bound to one recognizer.
// It is safe for concurrent use; recognizer pushes may arrive on any goroutine.
type Session struct {
	recognizer Recognizer
	settings   Settings
	logger     *slog.Logger

	mu        sync.Mutex
	state     State
	listeners map[int]func(State)
	nextID    int

	// run counts Start calls; stoppedRun is the run Stop last ended.
	run        int
	stoppedRun int
}

// NewSession creates a session. A nil recognizer makes capture unavailable
// for the lifetime of the session; this is reported once through LastError.
func NewSession(recognizer Recognizer, opts ...Option) *Session {
	s := &Session{
		recognizer: recognizer,
		settings: Settings{
			Language:   "ja-JP",
			Continuous: true,
			Interim:    true,
		},
		listeners: make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.New(slog.DiscardHandler)
	}
	if recognizer == nil {
		s.state.LastError = ErrCaptureUnavailable
		s.logger.Warn("speech recognition is not supported in this environment")
	}
	return s
}

// Available reports whether the session has a recognizer.
func (s *Session) Available() bool {
	return s.recognizer != nil
}

// Start begins continuous capture. Starting while listening is a no-op.
//
// Without a recognizer it returns ErrCaptureUnavailable. If the recognizer
// refuses to start, the error wraps ErrCaptureFailure and is kept in LastError.
func (s *Session) Start(ctx context.Context) error {
	if s.recognizer == nil {
		return ErrCaptureUnavailable
	}

	s.mu.Lock()
	if s.state.Listening {
		s.mu.Unlock()
		return nil
	}
	s.state = s.state.Apply(Event{Kind: EventStart})
	s.run++
	run := s.run
	s.mu.Unlock()

	s.logger.Debug("starting capture", "language", s.settings.Language)
	// Outside the lock: recognizers may push synchronously.
	if err := s.recognizer.Start(ctx, s.settings, s); err != nil {
		err = fmt.Errorf("%w: %w", ErrCaptureFailure, err)
		s.logger.Error("failed to start capture", "error", err)
		s.dispatch(Event{Kind: EventError, Err: err})
		return err
	}

	// A Stop that landed while the recognizer was starting reached it too early.
	s.mu.Lock()
	stopped := s.stoppedRun >= run
	s.mu.Unlock()
	if stopped {
		if err := s.recognizer.Stop(); err != nil {
			s.logger.Warn("recognizer did not stop cleanly", "error", err)
		}
		return nil
	}

	s.notify()
	return nil
}

// Stop ends capture and discards the pending partial text.
// Stopping an idle session is a no-op.
func (s *Session) Stop() {
	s.mu.Lock()
	if !s.state.Listening {
		s.mu.Unlock()
		return
	}
	s.state = s.state.Apply(Event{Kind: EventStop})
	s.stoppedRun = s.run
	s.mu.Unlock()

	if err := s.recognizer.Stop(); err != nil {
		s.logger.Warn("recognizer did not stop cleanly", "error", err)
	}
	s.notify()
}

// Toggle starts an idle session or stops a listening one.
func (s *Session) Toggle(ctx context.Context) error {
	if s.Listening() {
		s.Stop()
		return nil
	}
	return s.Start(ctx)
}

// OnRecognitionUpdate implements Sink: final is appended to the live text and
// partial replaces the pending text.
func (s *Session) OnRecognitionUpdate(final, partial string) {
	s.dispatch(Event{Kind: EventResult, Final: final, Partial: partial})
}

// OnRecognitionError implements Sink. Capture is considered dead; there is no
// automatic restart.
func (s *Session) OnRecognitionError(err error) {
	switch {
	case err == nil:
		err = ErrCaptureFailure
	case !errors.Is(err, ErrCaptureFailure):
		err = fmt.Errorf("%w: %w", ErrCaptureFailure, err)
	}
	s.logger.Error("speech recognition error", "error", err)
	s.dispatch(Event{Kind: EventError, Err: err})
}

// OnRecognitionEnd implements Sink for natural termination (e.g. silence timeout).
func (s *Session) OnRecognitionEnd() {
	s.logger.Debug("capture ended")
	s.dispatch(Event{Kind: EventEnd})
}

// Edit replaces the live text with a manual correction.
// Callers should only edit while Editable reports true.
func (s *Session) Edit(text string) {
	s.dispatch(Event{Kind: EventEdit, Text: text})
}

// Reset clears the live and pending text, typically after a save.
func (s *Session) Reset() {
	s.dispatch(Event{Kind: EventReset})
}

// DisplayText returns the text to render.
func (s *Session) DisplayText() string {
	return s.Snapshot().DisplayText()
}

// Snapshot returns a copy of the current state.
func (s *Session) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Listening reports whether capture is active.
func (s *Session) Listening() bool {
	return s.Snapshot().Listening
}

// LastError returns the last capture error, cleared by the next Start.
func (s *Session) LastError() error {
	return s.Snapshot().LastError
}

// CanSave reports whether the transcript can be turned into a note.
func (s *Session) CanSave() bool {
	return s.Snapshot().CanSave()
}

// Editable reports whether Edit can be offered to the user.
func (s *Session) Editable() bool {
	return s.Snapshot().Editable()
}

// Subscribe registers fn to be called with the new state after every change.
// The returned function removes the subscription.
func (s *Session) Subscribe(fn func(State)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

func (s *Session) dispatch(e Event) {
	s.mu.Lock()
	s.state = s.state.Apply(e)
	s.mu.Unlock()
	s.notify()
}

// notify runs listeners outside the lock so they may call back into the session.
func (s *Session) notify() {
	s.mu.Lock()
	state := s.state
	fns := make([]func(State), 0, len(s.listeners))
	for _, fn := range s.listeners {
		fns = append(fns, fn)
	}
	s.mu.Unlock()

	for _, fn := range fns {
		fn(state)
	}
}

var _ Sink = (*Session)(nil)
