package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"

	"github.com/entro314-labs/claudesweep/internal/history"
	"github.com/entro314-labs/claudesweep/internal/trash"
)

// runUndo restores the most recent trash-based deletion batch. Partial
// restoration is reported path by path; "nothing to undo" is a handled
// condition, not an error.
func runUndo(logger zerolog.Logger) error {
	path, err := history.DefaultPath()
	if err != nil {
		return err
	}

	log, loadErr := history.Load(path)
	if loadErr != nil {
		logger.Warn().Err(loadErr).Msg("history unreadable; treating as empty")
	}

	result := history.UndoLast(log, trash.Default())

	if result.NothingToUndo {
		fmt.Println("No undoable deletion found.")
		fmt.Println("Note: only trash-based deletions can be undone.")
		return nil
	}

	if len(result.Restored) > 0 {
		fmt.Printf("Restored %d folder(s):\n", len(result.Restored))
		for _, restored := range result.Restored {
			fmt.Println("  " + restored)
		}
	} else {
		fmt.Println("No folders could be restored.")
	}

	if len(result.Failures) > 0 {
		fmt.Fprintln(os.Stderr, "Some folders could not be restored:")
		for _, failure := range result.Failures {
			fmt.Fprintf(os.Stderr, "  %s: %v\n", failure.Path, failure.Err)
		}
	}

	if result.SaveErr != nil {
		logger.Warn().Err(result.SaveErr).Msg("failed to save history after undo")
	}
	return nil
}
