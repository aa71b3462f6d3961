package imdone

import (
	"log/slog"
	"time"

	"github.com/aretw0/imdone/internal/platform"
	"github.com/aretw0/imdone/pkg/core"
	"github.com/aretw0/imdone/pkg/transcript"
)

// --- Types ---

// Note is a public alias for a stored note.
type Note = core.Note

// Service is a public alias for the note lifecycle service.
type Service = core.Service

// Filter is a public alias for the note view selection.
type Filter = core.Filter

// Session is a public alias for the transcript session.
type Session = transcript.Session

// SessionState is a public alias for the observable transcript state.
type SessionState = transcript.State

// Recognizer is a public alias for a speech capture backend.
type Recognizer = transcript.Recognizer

// --- Configuration ---

// Option defines a functional option for configuring imdone.
type Option = platform.Option

// WithLogger sets the logger for the service.
func WithLogger(logger *slog.Logger) Option {
	return platform.WithLogger(logger)
}

// WithRepository allows injecting a custom storage adapter.
func WithRepository(repo core.Repository) Option {
	return platform.WithRepository(repo)
}

// WithAdapter allows specifying the storage adapter to use by name.
func WithAdapter(name string) Option {
	return platform.WithAdapter(name)
}

// WithFormat selects how the collection is encoded ("json" or "yaml").
func WithFormat(name string) Option {
	return platform.WithFormat(name)
}

// WithClock replaces the wall clock.
func WithClock(clock func() time.Time) Option {
	return platform.WithClock(clock)
}

// WithIDGenerator replaces the note id generator.
func WithIDGenerator(fn func() string) Option {
	return platform.WithIDGenerator(fn)
}

// WithStorageTimeout bounds every storage call.
func WithStorageTimeout(d time.Duration) Option {
	return platform.WithStorageTimeout(d)
}

// WithEventBuffer allows specifying the buffer size of each Watch subscription.
func WithEventBuffer(size int) Option {
	return platform.WithEventBuffer(size)
}

// WithForceTemp forces the use of a temporary directory (useful for testing).
func WithForceTemp(force bool) Option {
	return platform.WithForceTemp(force)
}

// WithMustExist ensures the vault directory must already exist.
func WithMustExist(must bool) Option {
	return platform.WithMustExist(must)
}

// WithSystemDir allows specifying the hidden directory name (e.g. ".imdone").
func WithSystemDir(name string) Option {
	return platform.WithSystemDir(name)
}

// WithReadOnly opens the vault without ever writing to it.
func WithReadOnly(enabled bool) Option {
	return platform.WithReadOnly(enabled)
}

// WithDevSafety controls the sandbox used under `go run` and `go test`.
func WithDevSafety(enabled bool) Option {
	return platform.WithDevSafety(enabled)
}

// WithWatcherErrorHandler registers a callback for file watcher failures.
func WithWatcherErrorHandler(fn func(error)) Option {
	return platform.WithWatcherErrorHandler(fn)
}

// --- Factory ---

// New creates a note service and loads the collection, purging expired trash.
func New(path string, opts ...Option) (*core.Service, error) {
	return platform.New(path, opts...)
}

// Init initializes a repository explicitly.
func Init(path string, opts ...Option) (core.Repository, error) {
	return platform.Init(path, opts...)
}

// NewSession creates a transcript session on top of a recognizer.
// A nil recognizer yields a session that reports speech capture as unavailable.
func NewSession(rec transcript.Recognizer, opts ...transcript.Option) *transcript.Session {
	return transcript.NewSession(rec, opts...)
}

// WithLanguage sets the recognition language of a session (default "ja-JP").
func WithLanguage(lang string) transcript.Option {
	return transcript.WithLanguage(lang)
}

// --- Safety & Utils ---

// ResolveVaultPath determines the actual path for the vault based on safety rules.
func ResolveVaultPath(userPath string, forceTemp bool) string {
	return platform.ResolveVaultPath(userPath, forceTemp)
}

// IsDevRun checks if the current process is running via `go run` or `go test`.
func IsDevRun() bool {
	return platform.IsDevRun()
}

// FindVaultRoot recursively looks upwards for a vault root indicator.
func FindVaultRoot(startDir string) (string, error) {
	return platform.FindRoot(startDir)
}

// ResolveDir picks the vault directory from a flag value, $IMDONE_DIR,
// the nearest vault or ~/.imdone.
func ResolveDir(explicit string) (string, error) {
	return platform.ResolveDir(explicit)
}
