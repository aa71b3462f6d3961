package core

import "time"

// Note is the central entity of the domain.
// It is immutable after creation except for its Deleted field.
type Note struct {
	ID        string
	Content   string
	Timestamp time.Time
	Deleted   Deletion
}

// Trashed reports whether the note sits in the trash.
func (n Note) Trashed() bool {
	return n.Deleted.IsTrashed()
}

// Deletion records whether a note was moved to the trash and when.
// The zero value is an active note.
type Deletion struct {
	at      time.Time
	trashed bool
}

// Active returns the Deletion of a note that is not in the trash.
func Active() Deletion {
	return Deletion{}
}

// TrashedAt returns the Deletion of a note moved to the trash at t.
func TrashedAt(t time.Time) Deletion {
	return Deletion{at: t, trashed: true}
}

// IsTrashed reports whether a deletion time is present.
func (d Deletion) IsTrashed() bool {
	return d.trashed
}

// At returns the deletion time and whether one is present.
func (d Deletion) At() (time.Time, bool) {
	return d.at, d.trashed
}

// Equal compares two deletions by presence and instant.
func (d Deletion) Equal(other Deletion) bool {
	if d.trashed != other.trashed {
		return false
	}
	return !d.trashed || d.at.Equal(other.at)
}

// fromMillis converts the persisted Unix millisecond representation.
func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms)
}
