package fs

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/aretw0/imdone/pkg/core"
)

// DefaultExtension is appended to keys to form file names.
const DefaultExtension = ".json"

// Config holds the configuration for the filesystem store.
type Config struct {
	Path         string
	MustExist    bool
	ReadOnly     bool
	Extension    string // e.g. ".json" or ".yaml"
	SystemDir    string // e.g. ".imdone", marks the vault root
	Logger       *slog.Logger
	ErrorHandler func(error) // receives watcher runtime errors
}

// Store implements core.Repository with one file per key inside a vault directory.
type Store struct {
	Path   string
	config Config

	mu            sync.RWMutex
	watcherActive bool
	lastWrite     *time.Time
	writes        int
}

// NewStore creates a new filesystem-backed store.
func NewStore(config Config) *Store {
	if config.Extension == "" {
		config.Extension = DefaultExtension
	}
	if !strings.HasPrefix(config.Extension, ".") {
		config.Extension = "." + config.Extension
	}
	if config.Logger == nil {
		config.Logger = slog.New(slog.DiscardHandler)
	}
	return &Store{
		Path:   config.Path,
		config: config,
	}
}

// Initialize makes sure the vault directory exists.
// In read-only mode nothing is created.
func (s *Store) Initialize(ctx context.Context) error {
	if s.config.MustExist || s.config.ReadOnly {
		info, err := os.Stat(s.Path)
		if os.IsNotExist(err) {
			return fmt.Errorf("vault path does not exist: %s", s.Path)
		}
		if err != nil {
			return fmt.Errorf("failed to stat vault path: %w", err)
		}
		if !info.IsDir() {
			return fmt.Errorf("vault path is not a directory: %s", s.Path)
		}
		return nil
	}

	if err := os.MkdirAll(s.Path, 0755); err != nil {
		return fmt.Errorf("failed to create vault directory: %w", err)
	}
	if s.config.SystemDir != "" {
		if err := os.MkdirAll(filepath.Join(s.Path, s.config.SystemDir), 0755); err != nil {
			return fmt.Errorf("failed to create system directory: %w", err)
		}
	}
	return nil
}

// Get reads the blob stored under key.
func (s *Store) Get(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	path, err := s.filename(key)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, core.ErrNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return data, nil
}

// Set writes the blob atomically, replacing the previous file.
func (s *Store) Set(ctx context.Context, key string, data []byte) error {
	if s.config.ReadOnly {
		return core.ErrReadOnly
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.filename(key)
	if err != nil {
		return err
	}

	s.config.Logger.Debug("writing blob to disk", "key", key, "path", path, "bytes", len(data))
	if err := writeFileAtomic(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write file: %w", err)
	}

	s.mu.Lock()
	now := time.Now()
	s.lastWrite = &now
	s.writes++
	s.mu.Unlock()
	return nil
}

// filename maps a key to its file. Keys are flat names.
func (s *Store) filename(key string) (string, error) {
	if key == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.ContainsAny(key, `/\`) || key == "." || key == ".." {
		return "", fmt.Errorf("invalid key %q", key)
	}
	return filepath.Join(s.Path, key+s.config.Extension), nil
}

// resolveKey maps a file path back to its key.
// ok is false for files that do not belong to the store.
func (s *Store) resolveKey(path string) (key string, ok bool) {
	if filepath.Dir(filepath.Clean(path)) != filepath.Clean(s.Path) {
		return "", false
	}
	base := filepath.Base(path)
	if strings.HasPrefix(base, TempFilePrefix) {
		return "", false
	}
	if filepath.Ext(base) != s.config.Extension {
		return "", false
	}
	return strings.TrimSuffix(base, s.config.Extension), true
}

// Watch reports changes to the files of keys matching pattern.
// The returned channel is closed once ctx is done.
func (s *Store) Watch(ctx context.Context, pattern string) (<-chan string, error) {
	events := make(chan string, 16)
	w := newWatchWorker(s, pattern, events)
	if err := w.Start(ctx); err != nil {
		return nil, err
	}
	return events, nil
}

var _ core.Repository = (*Store)(nil)
var _ core.Watchable = (*Store)(nil)
