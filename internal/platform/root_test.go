package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindRoot(t *testing.T) {
	// /tmp/
	//   vault/ (.imdone)
	//     subdir/
	//       nested/
	//   empty/
	baseDir := t.TempDir()
	vaultDir := filepath.Join(baseDir, "vault")
	subDir := filepath.Join(vaultDir, "subdir")
	nestedDir := filepath.Join(subDir, "nested")
	emptyDir := filepath.Join(baseDir, "empty")

	require.NoError(t, os.MkdirAll(nestedDir, 0755))
	require.NoError(t, os.MkdirAll(emptyDir, 0755))
	require.NoError(t, os.Mkdir(filepath.Join(vaultDir, DefaultSystemDir), 0755))

	tests := []struct {
		name      string
		startPath string
		wantRoot  string
		wantErr   bool
	}{
		{name: "Start at Root", startPath: vaultDir, wantRoot: vaultDir},
		{name: "Start in Subdir", startPath: subDir, wantRoot: vaultDir},
		{name: "Start Nested Deeply", startPath: nestedDir, wantRoot: vaultDir},
		{name: "No Root Found", startPath: emptyDir, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.startPath)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrRootNotFound)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, filepath.Clean(tt.wantRoot), filepath.Clean(got))
		})
	}
}

func TestResolveDir(t *testing.T) {
	t.Run("Explicit wins", func(t *testing.T) {
		t.Setenv(EnvDir, "/from/env")
		got, err := ResolveDir("/explicit")
		require.NoError(t, err)
		assert.Equal(t, "/explicit", got)
	})

	t.Run("Environment", func(t *testing.T) {
		t.Setenv(EnvDir, "/from/env")
		got, err := ResolveDir("")
		require.NoError(t, err)
		assert.Equal(t, "/from/env", got)
	})

	t.Run("Nearest vault", func(t *testing.T) {
		t.Setenv(EnvDir, "")
		vaultDir := t.TempDir()
		require.NoError(t, os.Mkdir(filepath.Join(vaultDir, DefaultSystemDir), 0755))
		t.Chdir(vaultDir)

		got, err := ResolveDir("")
		require.NoError(t, err)
		want, _ := filepath.EvalSymlinks(vaultDir)
		gotReal, _ := filepath.EvalSymlinks(got)
		assert.Equal(t, want, gotReal)
	})

	t.Run("Home fallback", func(t *testing.T) {
		t.Setenv(EnvDir, "")
		home := t.TempDir()
		t.Setenv("HOME", home)
		t.Chdir(t.TempDir())

		got, err := ResolveDir("")
		require.NoError(t, err)
		assert.Equal(t, filepath.Join(home, DefaultSystemDir), got)
	})
}

func TestExpandHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	assert.Equal(t, home, expandHome("~"))
	assert.Equal(t, filepath.Join(home, "notes"), expandHome("~/notes"))
	assert.Equal(t, "/abs/notes", expandHome("/abs/notes"))
	assert.Equal(t, "~other", expandHome("~other"))
}
