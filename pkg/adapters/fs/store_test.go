package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/imdone/pkg/adapters/fs"
	"github.com/aretw0/imdone/pkg/core"
)

func newStore(t *testing.T, cfg fs.Config) *fs.Store {
	t.Helper()
	if cfg.Path == "" {
		cfg.Path = t.TempDir()
	}
	store := fs.NewStore(cfg)
	require.NoError(t, store.Initialize(context.Background()))
	return store
}

func TestStore_Initialize(t *testing.T) {
	ctx := context.Background()

	t.Run("Creates vault and system dir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "vault")
		store := fs.NewStore(fs.Config{Path: path, SystemDir: ".imdone"})
		require.NoError(t, store.Initialize(ctx))
		assert.DirExists(t, filepath.Join(path, ".imdone"))
	})

	t.Run("MustExist fails on a missing dir", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing")
		store := fs.NewStore(fs.Config{Path: path, MustExist: true})
		assert.Error(t, store.Initialize(ctx))
		assert.NoDirExists(t, path)
	})

	t.Run("ReadOnly never creates anything", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "missing")
		store := fs.NewStore(fs.Config{Path: path, ReadOnly: true, SystemDir: ".imdone"})
		assert.Error(t, store.Initialize(ctx))
		assert.NoDirExists(t, path)
	})

	t.Run("Path must be a directory", func(t *testing.T) {
		file := filepath.Join(t.TempDir(), "file")
		require.NoError(t, os.WriteFile(file, nil, 0644))
		store := fs.NewStore(fs.Config{Path: file, MustExist: true})
		assert.Error(t, store.Initialize(ctx))
	})
}

func TestStore_GetSet(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, fs.Config{})

	_, err := store.Get(ctx, core.StorageKey)
	assert.ErrorIs(t, err, core.ErrNotFound)

	require.NoError(t, store.Set(ctx, core.StorageKey, []byte(`[{"id":"1"}]`)))
	assert.FileExists(t, filepath.Join(store.Path, core.StorageKey+".json"))

	data, err := store.Get(ctx, core.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"1"}]`, string(data))

	require.NoError(t, store.Set(ctx, core.StorageKey, []byte(`[]`)))
	data, err = store.Get(ctx, core.StorageKey)
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	state := store.State().(fs.StoreState)
	assert.Equal(t, 2, state.Writes)
	assert.NotNil(t, state.LastWrite)
	assert.Equal(t, "fs-store", store.ComponentType())
}

func TestStore_Extension(t *testing.T) {
	store := newStore(t, fs.Config{Extension: "yaml"})
	require.NoError(t, store.Set(context.Background(), "notes", []byte("[]\n")))
	assert.FileExists(t, filepath.Join(store.Path, "notes.yaml"))
}

func TestStore_InvalidKeys(t *testing.T) {
	ctx := context.Background()
	store := newStore(t, fs.Config{})

	for _, key := range []string{"", ".", "..", "a/b", `a\b`, "../escape"} {
		assert.Error(t, store.Set(ctx, key, []byte("x")), key)
		_, err := store.Get(ctx, key)
		assert.Error(t, err, key)
	}
}

func TestStore_ReadOnly(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.json"), []byte(`[]`), 0644))

	store := newStore(t, fs.Config{Path: dir, ReadOnly: true})

	data, err := store.Get(ctx, "notes")
	require.NoError(t, err)
	assert.Equal(t, `[]`, string(data))

	assert.ErrorIs(t, store.Set(ctx, "notes", []byte(`[1]`)), core.ErrReadOnly)
	data, _ = os.ReadFile(filepath.Join(dir, "notes.json"))
	assert.Equal(t, `[]`, string(data))
}

func TestStore_CanceledContext(t *testing.T) {
	store := newStore(t, fs.Config{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.ErrorIs(t, store.Set(ctx, "notes", []byte("x")), context.Canceled)
	_, err := store.Get(ctx, "notes")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestStore_Watch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	store := newStore(t, fs.Config{SystemDir: ".imdone"})
	events, err := store.Watch(ctx, core.StorageKey)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return store.State().(fs.StoreState).WatcherActive
	}, time.Second, 10*time.Millisecond)

	// Another process replaces the collection.
	target := filepath.Join(store.Path, core.StorageKey+".json")
	require.NoError(t, os.WriteFile(target, []byte(`[]`), 0644))
	expectKey(t, events, core.StorageKey)

	// Own atomic writes are reported once per burst.
	require.NoError(t, store.Set(context.Background(), core.StorageKey, []byte(`[{"id":"x"}]`)))
	expectKey(t, events, core.StorageKey)

	// Unrelated files are ignored.
	require.NoError(t, os.WriteFile(filepath.Join(store.Path, "other.json"), []byte(`{}`), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(store.Path, "readme.txt"), []byte(`hi`), 0644))
	select {
	case key := <-events:
		t.Fatalf("unexpected change for %q", key)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	require.Eventually(t, func() bool {
		select {
		case _, ok := <-events:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, 10*time.Millisecond)
	assert.False(t, store.State().(fs.StoreState).WatcherActive)
}

func TestStore_WatchInvalidPattern(t *testing.T) {
	store := newStore(t, fs.Config{})
	_, err := store.Watch(context.Background(), "[")
	assert.Error(t, err)
}

func expectKey(t *testing.T, events <-chan string, want string) {
	t.Helper()
	select {
	case got := <-events:
		assert.Equal(t, want, got)
	case <-time.After(2 * time.Second):
		t.Fatalf("timed out waiting for change of %q", want)
	}
	// Drain the rest of the burst.
	for {
		select {
		case <-events:
		case <-time.After(150 * time.Millisecond):
			return
		}
	}
}
