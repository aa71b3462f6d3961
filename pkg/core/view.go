package core

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// SortOrder controls the timestamp ordering of a view.
type SortOrder string

const (
	OrderDesc SortOrder = "desc"
	OrderAsc  SortOrder = "asc"
)

// Filter selects the notes returned by View.
type Filter struct {
	// Trash selects trashed notes instead of active ones.
	Trash bool
	// Query restricts to notes whose content contains it, ignoring case.
	Query string
	// Order defaults to OrderDesc.
	Order SortOrder
}

// Apply returns the notes matching f, sorted by timestamp.
// The input slice is not modified.
func (f Filter) Apply(notes []Note) []Note {
	fold := cases.Fold()
	query := fold.String(f.Query)

	out := make([]Note, 0, len(notes))
	for _, n := range notes {
		if n.Trashed() != f.Trash {
			continue
		}
		if query != "" && !strings.Contains(fold.String(n.Content), query) {
			continue
		}
		out = append(out, n)
	}

	sortNotes(out, f.Order)
	return out
}

func sortNotes(notes []Note, order SortOrder) {
	if order == OrderAsc {
		sort.SliceStable(notes, func(i, j int) bool {
			return notes[i].Timestamp.Before(notes[j].Timestamp)
		})
		return
	}
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].Timestamp.After(notes[j].Timestamp)
	})
}
