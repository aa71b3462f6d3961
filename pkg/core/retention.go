package core

import (
	"math"
	"time"
)

// RetentionWindow is how long a trashed note is kept before it is purged.
const RetentionWindow = 30 * 24 * time.Hour

// Expired reports whether a trashed note has outlived the retention window at now.
// Active notes never expire.
func Expired(n Note, now time.Time) bool {
	at, ok := n.Deleted.At()
	if !ok {
		return false
	}
	return now.Sub(at) >= RetentionWindow
}

// RemainingDays returns the whole days left before a trashed note is purged,
// rounded up and never negative. Active notes report 0.
func RemainingDays(n Note, now time.Time) int {
	at, ok := n.Deleted.At()
	if !ok {
		return 0
	}
	remaining := RetentionWindow - now.Sub(at)
	if remaining <= 0 {
		return 0
	}
	return int(math.Ceil(float64(remaining) / float64(24*time.Hour)))
}

// purge splits notes into the ones to keep and the number discarded.
// The relative order of kept notes is preserved.
func purge(notes []Note, now time.Time) ([]Note, int) {
	kept := make([]Note, 0, len(notes))
	for _, n := range notes {
		if Expired(n, now) {
			continue
		}
		kept = append(kept, n)
	}
	return kept, len(notes) - len(kept)
}
