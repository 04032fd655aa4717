package history

import (
	"github.com/entro314-labs/claudesweep/internal/trash"
)

// Failure is one path that could not be restored, kept as a warning.
type Failure struct {
	Path string
	Err  error
}

// Result reports what an undo accomplished.
type Result struct {
	// NothingToUndo is set when no trash-method record exists; this is
	// a handled condition, not an error.
	NothingToUndo bool
	// Restored lists the paths put back in place.
	Restored []string
	// Failures lists the paths needing manual restoration.
	Failures []Failure
	// SaveErr carries a history persistence failure; the restore itself
	// still counts.
	SaveErr error
}

// UndoLast restores the most recent trash-method record. Every path is
// attempted independently; partial success is expected. If at least one
// path was restored the record is removed from the log and the log saved.
func UndoLast(log *Log, backend trash.Backend) Result {
	record, ok := log.LastUndoable()
	if !ok {
		return Result{NothingToUndo: true}
	}

	var result Result
	for _, path := range record.Paths {
		if err := backend.Restore(path); err != nil {
			result.Failures = append(result.Failures, Failure{Path: path, Err: err})
			continue
		}
		result.Restored = append(result.Restored, path)
	}

	if len(result.Restored) > 0 {
		log.RemoveLastUndoable()
		result.SaveErr = log.Save()
	}
	return result
}
