package core

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/lifecycle"
	"github.com/google/uuid"
)

// StorageKey is the repository key holding the whole note collection.
const StorageKey = "imdone_memos"

const (
	defaultTimeout     = 5 * time.Second
	defaultEventBuffer = 100
)

// Config holds the configuration for a Service.
// Zero fields are replaced by defaults in NewService.
type Config struct {
	Logger      *slog.Logger
	Codec       Codec
	Key         string
	Clock       func() time.Time
	NewID       func() string
	Timeout     time.Duration // per storage call
	EventBuffer int           // per Watch subscriber
}

// Service owns the note collection and every lifecycle transition.
//
// Each mutation is applied in memory and then persisted before returning,
// so the in-memory and stored collections never diverge by more than one call.
// A failed write leaves the in-memory state authoritative and is reported
// through the returned error and LastError.
type Service struct {
	repo Repository
	cfg  Config

	mu          sync.RWMutex
	notes       []Note
	loaded      bool
	lastErr     error
	lastWritten []byte

	subMu       sync.Mutex
	subscribers map[chan Event]struct{}
}

// NewService creates a new Service on top of repo.
func NewService(repo Repository, cfg Config) *Service {
	if cfg.Logger == nil {
		cfg.Logger = slog.New(slog.DiscardHandler)
	}
	if cfg.Codec == nil {
		cfg.Codec = JSONCodec{}
	}
	if cfg.Key == "" {
		cfg.Key = StorageKey
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}
	if cfg.NewID == nil {
		cfg.NewID = uuid.NewString
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}
	return &Service{
		repo:        repo,
		cfg:         cfg,
		subscribers: make(map[chan Event]struct{}),
	}
}

// Load reads the persisted collection, purges notes that have been in the
// trash for the whole retention window and returns the rest, newest first.
// If anything was purged the reduced collection is written back immediately.
//
// A read failure leaves the service empty and returns an error wrapping
// ErrStorageRead. Unparsable data is treated as an empty collection.
func (s *Service) Load(ctx context.Context) ([]Note, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	purged, err := s.loadLocked(ctx)
	out := cloneNotes(s.notes)
	for _, id := range purged {
		s.publish(EventPurge, id)
	}
	return out, err
}

func (s *Service) loadLocked(ctx context.Context) ([]string, error) {
	s.loaded = true

	stored, err := s.readLocked(ctx)
	if err != nil {
		s.notes = nil
		s.lastErr = err
		return nil, err
	}

	kept, n := purge(stored, s.cfg.Clock())
	sortNotes(kept, OrderDesc)
	s.notes = kept
	s.lastErr = nil

	if n == 0 {
		return nil, nil
	}

	purged := make([]string, 0, n)
	keep := make(map[string]bool, len(kept))
	for _, k := range kept {
		keep[k.ID] = true
	}
	for _, note := range stored {
		if !keep[note.ID] {
			purged = append(purged, note.ID)
		}
	}

	s.cfg.Logger.Info("purged expired notes from trash", "purged", n, "remaining", len(kept))
	return purged, s.persistLocked(ctx)
}

// readLocked returns the stored notes in storage order.
func (s *Service) readLocked(ctx context.Context) ([]Note, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	data, err := s.repo.Get(ctx, s.cfg.Key)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			s.lastWritten = nil
			return nil, nil
		}
		s.cfg.Logger.Error("failed to load notes", "key", s.cfg.Key, "error", err)
		return nil, fmt.Errorf("%w: %w", ErrStorageRead, err)
	}
	s.lastWritten = data

	if len(bytes.TrimSpace(data)) == 0 {
		return nil, nil
	}

	notes, err := s.cfg.Codec.Unmarshal(data)
	if err != nil {
		// Corrupt data self-heals to an empty collection on the next write.
		s.cfg.Logger.Warn("stored notes are unreadable, starting empty", "key", s.cfg.Key, "codec", s.cfg.Codec.Name(), "error", err)
		return nil, nil
	}
	return notes, nil
}

// persistLocked writes the full in-memory collection.
func (s *Service) persistLocked(ctx context.Context) error {
	data, err := s.cfg.Codec.Marshal(s.notes)
	if err != nil {
		err = fmt.Errorf("%w: %w", ErrStorageWrite, err)
		s.lastErr = err
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	if err := s.repo.Set(ctx, s.cfg.Key, data); err != nil {
		s.cfg.Logger.Error("failed to save notes", "key", s.cfg.Key, "error", err)
		err = fmt.Errorf("%w: %w", ErrStorageWrite, err)
		s.lastErr = err
		return err
	}

	s.cfg.Logger.Debug("notes saved", "key", s.cfg.Key, "count", len(s.notes), "bytes", len(data))
	s.lastWritten = data
	s.lastErr = nil
	return nil
}

func (s *Service) ensureLoadedLocked(ctx context.Context) {
	if s.loaded {
		return
	}
	purged, _ := s.loadLocked(ctx)
	for _, id := range purged {
		s.publish(EventPurge, id)
	}
}

// Create stores a new note with the trimmed content.
// Blank content is ignored: ok is false and nothing is persisted.
func (s *Service) Create(ctx context.Context, content string) (note Note, ok bool, err error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return Note{}, false, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)

	note = Note{
		ID:        s.cfg.NewID(),
		Content:   content,
		Timestamp: s.now(),
	}
	s.notes = append([]Note{note}, s.notes...)

	err = s.persistLocked(ctx)
	s.publish(EventCreate, note.ID)
	return note, true, err
}

// SoftDelete moves a note to the trash, stamping it with the current time.
// Trashing a note again restarts its retention period. Unknown ids are left untouched.
func (s *Service) SoftDelete(ctx context.Context, id string) (bool, error) {
	return s.update(ctx, id, EventTrash, func(n *Note) bool {
		n.Deleted = TrashedAt(s.now())
		return true
	})
}

// Restore takes a note out of the trash.
// Unknown ids and active notes are left untouched.
func (s *Service) Restore(ctx context.Context, id string) (bool, error) {
	return s.update(ctx, id, EventRestore, func(n *Note) bool {
		if !n.Trashed() {
			return false
		}
		n.Deleted = Active()
		return true
	})
}

func (s *Service) update(ctx context.Context, id string, evt EventType, fn func(*Note) bool) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)

	idx := s.indexLocked(id)
	if idx < 0 {
		return false, nil
	}
	if !fn(&s.notes[idx]) {
		return false, nil
	}

	err := s.persistLocked(ctx)
	s.publish(evt, id)
	return true, err
}

// PermanentDelete removes a note from the collection.
// Unknown ids are ignored.
func (s *Service) PermanentDelete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ensureLoadedLocked(ctx)

	idx := s.indexLocked(id)
	if idx < 0 {
		return false, nil
	}
	s.notes = append(s.notes[:idx:idx], s.notes[idx+1:]...)

	err := s.persistLocked(ctx)
	s.publish(EventDelete, id)
	return true, err
}

// View returns the notes selected by f. It never touches storage.
func (s *Service) View(f Filter) []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return f.Apply(s.notes)
}

// Get returns the note with the given id.
func (s *Service) Get(id string) (Note, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(id)
	if idx < 0 {
		return Note{}, false
	}
	return s.notes[idx], true
}

// Notes returns a copy of the whole collection in storage order.
func (s *Service) Notes() []Note {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return cloneNotes(s.notes)
}

// RemainingDays reports the days left before a trashed note is purged.
func (s *Service) RemainingDays(n Note) int {
	return RemainingDays(n, s.cfg.Clock())
}

// LastError returns the last storage failure, or nil once a later storage
// operation succeeded.
func (s *Service) LastError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastErr
}

// Notice returns LastError as a message for the user.
func (s *Service) Notice() string {
	return Message(s.LastError())
}

func (s *Service) indexLocked(id string) int {
	for i := range s.notes {
		if s.notes[i].ID == id {
			return i
		}
	}
	return -1
}

// now returns the clock value at the millisecond precision used in storage.
func (s *Service) now() time.Time {
	return time.UnixMilli(s.cfg.Clock().UnixMilli())
}

// Watch subscribes to changes of the collection.
//
// Mutations made through this Service are always reported. If the repository
// is Watchable, changes written by someone else are picked up as well: the
// collection is reloaded and an EventReload is emitted. The channel is closed
// when ctx is done.
func (s *Service) Watch(ctx context.Context) (<-chan Event, error) {
	ch := make(chan Event, s.cfg.EventBuffer)

	s.subMu.Lock()
	s.subscribers[ch] = struct{}{}
	s.subMu.Unlock()

	var changes <-chan string
	if w, ok := s.repo.(Watchable); ok {
		var err error
		changes, err = w.Watch(ctx, s.cfg.Key)
		if err != nil {
			s.unsubscribe(ch)
			return nil, fmt.Errorf("failed to watch repository: %w", err)
		}
	}

	lifecycle.Go(ctx, func(ctx context.Context) error {
		defer s.unsubscribe(ch)
		for {
			select {
			case <-ctx.Done():
				return nil
			case _, ok := <-changes:
				if !ok {
					changes = nil
					continue
				}
				s.reload(ctx)
			}
		}
	}, lifecycle.WithErrorHandler(func(err error) {
		s.cfg.Logger.Error("watch loop failed", "error", err)
	}))

	return ch, nil
}

// reload re-reads the collection after an external change.
// Changes that match the last blob written or read are ignored.
func (s *Service) reload(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()

	getCtx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	data, err := s.repo.Get(getCtx, s.cfg.Key)
	cancel()
	if err == nil && bytes.Equal(data, s.lastWritten) {
		return
	}

	purged, _ := s.loadLocked(ctx)
	for _, id := range purged {
		s.publish(EventPurge, id)
	}
	s.publish(EventReload, "")
}

func (s *Service) publish(t EventType, id string) {
	e := Event{Type: t, ID: id, Timestamp: s.cfg.Clock().UnixMilli()}

	s.subMu.Lock()
	defer s.subMu.Unlock()
	for ch := range s.subscribers {
		select {
		case ch <- e:
		default:
			s.cfg.Logger.Debug("dropping event for slow subscriber", "event", e.String())
		}
	}
}

func (s *Service) unsubscribe(ch chan Event) {
	s.subMu.Lock()
	defer s.subMu.Unlock()
	if _, ok := s.subscribers[ch]; ok {
		delete(s.subscribers, ch)
		close(ch)
	}
}

func cloneNotes(notes []Note) []Note {
	out := make([]Note, len(notes))
	copy(out, notes)
	return out
}
