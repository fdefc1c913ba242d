package paths

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ziyyanmart/localstore/internal/apperr"
)

type staticDir struct {
	dir string
	err error
}

func (s staticDir) AppDataDir() (string, error) { return s.dir, s.err }

func TestNewResolver_NilProvider(t *testing.T) {
	_, err := NewResolver(nil)
	assert.Error(t, err)
}

func TestResolver_Resolve(t *testing.T) {
	base := filepath.Join(t.TempDir(), "com.ziyyanmart.app")
	r, err := NewResolver(staticDir{dir: base})
	require.NoError(t, err)

	path, err := r.Resolve("settings.json")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(base, "settings.json"), path)

	// resolution alone must not create anything
	_, statErr := os.Stat(base)
	assert.True(t, errors.Is(statErr, os.ErrNotExist))
}

func TestResolver_Resolve_Deterministic(t *testing.T) {
	r, err := NewResolver(staticDir{dir: t.TempDir()})
	require.NoError(t, err)

	a, err := r.Resolve("database.json")
	require.NoError(t, err)
	b, err := r.Resolve("database.json")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestResolver_Resolve_InvalidFileName(t *testing.T) {
	r, err := NewResolver(staticDir{dir: t.TempDir()})
	require.NoError(t, err)

	for _, name := range []string{"", ".", "..", "../settings.json", "sub/settings.json", `sub\settings.json`} {
		_, err := r.Resolve(name)
		assert.True(t, apperr.Is(err, apperr.KindPathResolution), "name %q", name)
	}
}

func TestResolver_Dir_ProviderFailure(t *testing.T) {
	r, err := NewResolver(staticDir{err: errors.New("$HOME is not defined")})
	require.NoError(t, err)

	_, err = r.Dir()
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindPathResolution))
	assert.Contains(t, err.Error(), "$HOME is not defined")

	_, err = r.Resolve("settings.json")
	assert.True(t, apperr.Is(err, apperr.KindPathResolution))
}

func TestResolver_Dir_RejectsRelative(t *testing.T) {
	r, err := NewResolver(staticDir{dir: "relative/dir"})
	require.NoError(t, err)

	_, err = r.Dir()
	assert.True(t, apperr.Is(err, apperr.KindPathResolution))

	r, err = NewResolver(staticDir{dir: ""})
	require.NoError(t, err)
	_, err = r.Dir()
	assert.True(t, apperr.Is(err, apperr.KindPathResolution))
}

func TestEnsureDir_CreatesAncestors(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b", "com.ziyyanmart.app")

	require.NoError(t, EnsureDir(dir))
	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// second call is a no-op
	assert.NoError(t, EnsureDir(dir))
}

func TestEnsureDir_FailureIsIOError(t *testing.T) {
	base := t.TempDir()
	blocker := filepath.Join(base, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o644))

	err := EnsureDir(filepath.Join(blocker, "child"))
	require.Error(t, err)
	assert.True(t, apperr.Is(err, apperr.KindIO))
}

func TestEnsureDir_PermissionDenied(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	base := t.TempDir()
	locked := filepath.Join(base, "locked")
	require.NoError(t, os.Mkdir(locked, 0o500))
	t.Cleanup(func() { _ = os.Chmod(locked, 0o755) })

	err := EnsureDir(filepath.Join(locked, "app"))
	assert.True(t, apperr.Is(err, apperr.KindIO))
}
