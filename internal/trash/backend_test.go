package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestXDGBackendPutRestoreRoundTrip(t *testing.T) {
	dataHome := t.TempDir()
	backend := NewXDGBackend(dataHome)

	marker := filepath.Join(t.TempDir(), "proj", ".claude")
	require.NoError(t, os.MkdirAll(marker, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(marker, "settings.json"), []byte("{}"), 0o644))

	require.NoError(t, backend.Put(marker))

	_, err := os.Lstat(marker)
	assert.True(t, os.IsNotExist(err), "original should be gone after Put")

	trashed := filepath.Join(dataHome, "Trash", "files", ".claude")
	_, err = os.Stat(trashed)
	require.NoError(t, err, "trashed copy should exist")

	require.NoError(t, backend.Restore(marker))

	data, err := os.ReadFile(filepath.Join(marker, "settings.json"))
	require.NoError(t, err)
	assert.Equal(t, "{}", string(data))

	infos, err := os.ReadDir(filepath.Join(dataHome, "Trash", "info"))
	require.NoError(t, err)
	assert.Empty(t, infos, "info file should be removed after restore")
}

func TestXDGBackendPutUniquifiesNameCollisions(t *testing.T) {
	dataHome := t.TempDir()
	backend := NewXDGBackend(dataHome)

	for i := 0; i < 3; i++ {
		marker := filepath.Join(t.TempDir(), ".claude")
		require.NoError(t, os.Mkdir(marker, 0o755))
		require.NoError(t, backend.Put(marker))
	}

	files, err := os.ReadDir(filepath.Join(dataHome, "Trash", "files"))
	require.NoError(t, err)
	names := make([]string, 0, len(files))
	for _, f := range files {
		names = append(names, f.Name())
	}
	assert.ElementsMatch(t, []string{".claude", ".claude.2", ".claude.3"}, names)
}

func TestXDGBackendRestoreRefusesExistingTarget(t *testing.T) {
	backend := NewXDGBackend(t.TempDir())

	marker := filepath.Join(t.TempDir(), ".claude")
	require.NoError(t, os.Mkdir(marker, 0o755))
	require.NoError(t, backend.Put(marker))

	// Recreate the original path before restoring.
	require.NoError(t, os.Mkdir(marker, 0o755))

	err := backend.Restore(marker)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
}

func TestXDGBackendRestoreUnknownPath(t *testing.T) {
	backend := NewXDGBackend(t.TempDir())

	err := backend.Restore(filepath.Join(t.TempDir(), ".claude"))
	assert.ErrorIs(t, err, ErrManualRestore)
}

func TestXDGBackendRestorePicksNewestEntry(t *testing.T) {
	dataHome := t.TempDir()
	backend := NewXDGBackend(dataHome)

	marker := filepath.Join(t.TempDir(), ".claude")

	require.NoError(t, os.Mkdir(marker, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(marker, "gen"), []byte("1"), 0o644))
	require.NoError(t, backend.Put(marker))

	require.NoError(t, os.Mkdir(marker, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(marker, "gen"), []byte("2"), 0o644))
	require.NoError(t, backend.Put(marker))

	require.NoError(t, backend.Restore(marker))

	data, err := os.ReadFile(filepath.Join(marker, "gen"))
	require.NoError(t, err)
	assert.Equal(t, "2", string(data))
}

func TestXDGBackendRestorePrefersNewerDeletionDate(t *testing.T) {
	dataHome := t.TempDir()
	backend := NewXDGBackend(dataHome)
	target := filepath.Join(t.TempDir(), ".claude")

	filesDir := filepath.Join(dataHome, "Trash", "files")
	infoDir := filepath.Join(dataHome, "Trash", "info")
	require.NoError(t, os.MkdirAll(filesDir, 0o700))
	require.NoError(t, os.MkdirAll(infoDir, 0o700))

	writeEntry := func(name, date, content string) {
		require.NoError(t, os.Mkdir(filepath.Join(filesDir, name), 0o755))
		require.NoError(t, os.WriteFile(filepath.Join(filesDir, name, "gen"), []byte(content), 0o644))
		info := fmt.Sprintf("[Trash Info]\nPath=%s\nDeletionDate=%s\n", target, date)
		require.NoError(t, os.WriteFile(filepath.Join(infoDir, name+".trashinfo"), []byte(info), 0o600))
	}

	// "zzz" sorts last lexically but was trashed first; the date decides.
	writeEntry("zzz", "2026-08-01T10:00:00", "old")
	writeEntry("aaa", "2026-08-02T10:00:00", "new")

	require.NoError(t, backend.Restore(target))

	data, err := os.ReadFile(filepath.Join(target, "gen"))
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
}

func TestForPlatformVariants(t *testing.T) {
	assert.Equal(t, "xdg", ForPlatform("linux").Name())
	assert.Equal(t, "finder", ForPlatform("darwin").Name())
	assert.Equal(t, "unsupported", ForPlatform("windows").Name())
}

func TestUnsupportedBackend(t *testing.T) {
	backend := ForPlatform("windows")
	assert.False(t, backend.CanRestore())

	err := backend.Put("/tmp/.claude")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "permanent")

	assert.ErrorIs(t, backend.Restore("/tmp/.claude"), ErrManualRestore)
}
