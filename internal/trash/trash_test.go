package trash

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeBackend records Put calls and fails on configured paths.
type fakeBackend struct {
	puts     []string
	restores []string
	failOn   map[string]error
}

func (b *fakeBackend) Name() string     { return "fake" }
func (b *fakeBackend) CanRestore() bool { return true }

func (b *fakeBackend) Put(path string) error {
	if err := b.failOn[path]; err != nil {
		return err
	}
	b.puts = append(b.puts, path)
	return nil
}

func (b *fakeBackend) Restore(path string) error {
	if err := b.failOn[path]; err != nil {
		return err
	}
	b.restores = append(b.restores, path)
	return nil
}

func TestMoveToTrashStopsAtFirstError(t *testing.T) {
	boom := errors.New("disk full")
	backend := &fakeBackend{failOn: map[string]error{"/b/.claude": boom}}

	err := MoveToTrash(backend, []string{"/a/.claude", "/b/.claude", "/c/.claude"})
	require.Error(t, err)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "/b/.claude")

	// The path after the failure is never attempted.
	assert.Equal(t, []string{"/a/.claude"}, backend.puts)
}

func TestDeleteDispatchesOnMethod(t *testing.T) {
	backend := &fakeBackend{}
	require.NoError(t, Delete(backend, []string{"/a/.claude"}, MethodTrash))
	assert.Equal(t, []string{"/a/.claude"}, backend.puts)

	dir := filepath.Join(t.TempDir(), ".claude")
	require.NoError(t, os.Mkdir(dir, 0o755))
	require.NoError(t, Delete(backend, []string{dir}, MethodPermanent))

	_, err := os.Lstat(dir)
	assert.True(t, os.IsNotExist(err))
	// Permanent deletion must not touch the trash backend.
	assert.Len(t, backend.puts, 1)
}

func TestPermanentDeleteRemovesTrees(t *testing.T) {
	dir := filepath.Join(t.TempDir(), ".claude")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "nested"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "nested", "f"), []byte("x"), 0o644))

	require.NoError(t, PermanentDelete([]string{dir}))

	_, err := os.Lstat(dir)
	assert.True(t, os.IsNotExist(err))
}

func TestPermanentDeleteMissingPathIsNoError(t *testing.T) {
	assert.NoError(t, PermanentDelete([]string{filepath.Join(t.TempDir(), "gone")}))
}
