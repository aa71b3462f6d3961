package core

import "fmt"

// EventType represents the type of change in the note collection.
type EventType string

const (
	EventCreate  EventType = "CREATE"
	EventTrash   EventType = "TRASH"
	EventRestore EventType = "RESTORE"
	EventDelete  EventType = "DELETE"
	EventPurge   EventType = "PURGE"
	EventReload  EventType = "RELOAD"
)

// Event represents a change in the note collection.
type Event struct {
	Type      EventType
	ID        string
	Timestamp int64 // Unix milliseconds
}

// String implements lifecycle.Event.
func (e Event) String() string {
	if e.ID == "" {
		return string(e.Type)
	}
	return fmt.Sprintf("%s %s", e.Type, e.ID)
}
