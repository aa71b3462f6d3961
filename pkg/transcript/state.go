package transcript

import "strings"

// EventKind identifies what happened to a session.
type EventKind string

const (
	// Pushed by the recognizer.
	EventResult EventKind = "result"
	EventError  EventKind = "error"
	EventEnd    EventKind = "end"

	// Issued by the user.
	EventStart EventKind = "start"
	EventStop  EventKind = "stop"
	EventEdit  EventKind = "edit"
	EventReset EventKind = "reset"
)

// Event is one input to the session state machine.
type Event struct {
	Kind EventKind
	// Final is the newly finalized text of an EventResult (may be empty).
	Final string
	// Partial is the in-progress guess of an EventResult.
	Partial string
	// Text replaces LiveText on EventEdit.
	Text string
	// Err is the failure of an EventError.
	Err error
}

// State is the observable state of a session.
type State struct {
	LiveText    string
	PendingText string
	Listening   bool
	LastError   error
}

// Apply returns the state that follows e. It has no side effects.
func (s State) Apply(e Event) State {
	switch e.Kind {
	case EventStart:
		s.Listening = true
		s.PendingText = ""
		s.LastError = nil

	case EventStop, EventEnd:
		s.Listening = false
		s.PendingText = ""

	case EventResult:
		s.LiveText += e.Final
		// A result that arrives after capture stopped may still carry
		// finalized speech, but its guess has nothing left to describe.
		if s.Listening {
			s.PendingText = e.Partial
		}

	case EventError:
		s.LastError = e.Err
		s.Listening = false
		s.PendingText = ""

	case EventEdit:
		s.LiveText = e.Text

	case EventReset:
		s.LiveText = ""
		s.PendingText = ""
	}
	return s
}

// DisplayText is the text to render for the session.
func (s State) DisplayText() string {
	if s.Listening {
		return s.LiveText + s.PendingText
	}
	return s.LiveText
}

// CanSave reports whether the transcript holds text and capture is idle.
func (s State) CanSave() bool {
	return !s.Listening && strings.TrimSpace(s.LiveText) != ""
}

// Editable reports whether manual edits would not race with interim results.
func (s State) Editable() bool {
	return !(s.Listening && s.PendingText != "")
}
