package cmd

import (
	"fmt"
	"os"

	"github.com/entro314-labs/claudesweep/internal/report"
	"github.com/entro314-labs/claudesweep/internal/scanner"
)

// runReport scans synchronously and prints or exports the space analysis.
func runReport(sc *scanner.Scanner, exportFormat string) error {
	fmt.Fprintln(os.Stderr, "Scanning:", sc.Root)

	folders := collectFolders(sc)
	rep := report.Generate(folders)

	switch exportFormat {
	case "":
		rep.WriteSummary(os.Stdout)
	case "json":
		out, err := rep.JSON()
		if err != nil {
			return fmt.Errorf("export report: %w", err)
		}
		fmt.Println(out)
	case "csv":
		out, err := rep.CSV()
		if err != nil {
			return fmt.Errorf("export report: %w", err)
		}
		fmt.Print(out)
	default:
		fmt.Fprintf(os.Stderr, "Unknown export format: %s. Use 'json' or 'csv'.\n", exportFormat)
	}
	return nil
}
