package cmd

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/rs/zerolog"

	"github.com/entro314-labs/claudesweep/internal/history"
	"github.com/entro314-labs/claudesweep/internal/scanner"
)

const historyDisplayLimit = 20

// runHistory prints the most recent deletion batches, newest first.
func runHistory(logger zerolog.Logger) error {
	path, err := history.DefaultPath()
	if err != nil {
		return err
	}

	log, loadErr := history.Load(path)
	if loadErr != nil {
		logger.Warn().Err(loadErr).Msg("history unreadable; treating as empty")
	}

	if len(log.Records) == 0 {
		fmt.Println("No deletion history.")
		return nil
	}

	fmt.Println("Deletion history (most recent first):")
	shown := 0
	for i := len(log.Records) - 1; i >= 0 && shown < historyDisplayLimit; i-- {
		record := log.Records[i]
		marker := ""
		if record.CanUndo() {
			marker = " [undoable]"
		}
		fmt.Printf("%s (%s)  %4d folder(s)  %10s  (%s)%s\n",
			record.Timestamp.Local().Format("2006-01-02 15:04"),
			humanize.Time(record.Timestamp),
			len(record.Paths),
			scanner.FormatSize(record.TotalSize),
			record.Method,
			marker)
		shown++
	}

	if remaining := len(log.Records) - historyDisplayLimit; remaining > 0 {
		fmt.Printf("... and %d more entries\n", remaining)
	}
	return nil
}
