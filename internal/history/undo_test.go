package history

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/entro314-labs/claudesweep/internal/trash"
)

type fakeBackend struct {
	restored []string
	failOn   map[string]error
}

func (b *fakeBackend) Name() string          { return "fake" }
func (b *fakeBackend) CanRestore() bool      { return true }
func (b *fakeBackend) Put(path string) error { return nil }

func (b *fakeBackend) Restore(path string) error {
	if err := b.failOn[path]; err != nil {
		return err
	}
	b.restored = append(b.restored, path)
	return nil
}

func loadedLog(t *testing.T) *Log {
	t.Helper()
	log, err := Load(filepath.Join(t.TempDir(), "history.json"))
	require.NoError(t, err)
	return log
}

func TestUndoLastNothingToUndo(t *testing.T) {
	log := loadedLog(t)
	log.Add(NewRecord([]string{"/a/.claude"}, 1, trash.MethodPermanent))

	result := UndoLast(log, &fakeBackend{})
	assert.True(t, result.NothingToUndo)
	assert.Len(t, log.Records, 1)
}

func TestUndoLastRestoresAndRemovesRecord(t *testing.T) {
	log := loadedLog(t)
	log.Add(NewRecord([]string{"/a/.claude", "/b/.claude"}, 2, trash.MethodTrash))

	backend := &fakeBackend{}
	result := UndoLast(log, backend)

	assert.False(t, result.NothingToUndo)
	assert.Equal(t, []string{"/a/.claude", "/b/.claude"}, result.Restored)
	assert.Empty(t, result.Failures)
	assert.NoError(t, result.SaveErr)
	assert.Empty(t, log.Records)
}

func TestUndoLastPartialSuccessStillRemovesRecord(t *testing.T) {
	log := loadedLog(t)
	log.Add(NewRecord([]string{"/a/.claude", "/b/.claude"}, 2, trash.MethodTrash))

	boom := errors.New("trash entry gone")
	backend := &fakeBackend{failOn: map[string]error{"/a/.claude": boom}}
	result := UndoLast(log, backend)

	assert.Equal(t, []string{"/b/.claude"}, result.Restored)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "/a/.claude", result.Failures[0].Path)
	assert.ErrorIs(t, result.Failures[0].Err, boom)
	assert.Empty(t, log.Records)
}

func TestUndoLastAllFailuresKeepsRecord(t *testing.T) {
	log := loadedLog(t)
	log.Add(NewRecord([]string{"/a/.claude"}, 1, trash.MethodTrash))

	backend := &fakeBackend{failOn: map[string]error{"/a/.claude": errors.New("nope")}}
	result := UndoLast(log, backend)

	assert.Empty(t, result.Restored)
	assert.Len(t, result.Failures, 1)
	// The record survives so the operator can retry.
	assert.Len(t, log.Records, 1)
}
