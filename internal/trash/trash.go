// Package trash holds the deletion safety validator, the deletion
// executor, and the platform trash backends.
package trash

import (
	"fmt"
	"os"
)

// Method selects how a batch is removed.
type Method string

const (
	// MethodTrash routes removal through the platform trash and is
	// reversible.
	MethodTrash Method = "trash"
	// MethodPermanent removes directory trees with no recovery path.
	MethodPermanent Method = "permanent"
)

// Delete removes every path in the batch with the given method. Paths are
// processed sequentially; the first error aborts and is surfaced with the
// failing path, so a partially completed batch is reported as failed.
// Callers append to history only on full success; Delete itself never
// touches history.
func Delete(backend Backend, paths []string, method Method) error {
	if method == MethodPermanent {
		return PermanentDelete(paths)
	}
	return MoveToTrash(backend, paths)
}

// MoveToTrash moves each path into the platform trash.
func MoveToTrash(backend Backend, paths []string) error {
	for _, path := range paths {
		if err := backend.Put(path); err != nil {
			return fmt.Errorf("move to trash %s: %w", path, err)
		}
	}
	return nil
}

// PermanentDelete recursively removes each path.
func PermanentDelete(paths []string) error {
	for _, path := range paths {
		if err := os.RemoveAll(path); err != nil {
			return fmt.Errorf("delete %s: %w", path, err)
		}
	}
	return nil
}
