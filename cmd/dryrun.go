package cmd

import (
	"fmt"
	"sort"
	"strings"

	"github.com/entro314-labs/claudesweep/internal/scanner"
)

// runDryRun scans synchronously and lists every match, largest first.
// Nothing is deleted.
func runDryRun(sc *scanner.Scanner) error {
	fmt.Println("Scanning:", sc.Root)
	fmt.Println()

	folders := collectFolders(sc)

	if len(folders) == 0 {
		fmt.Printf("No %s folders found.\n", scanner.MarkerName)
		return nil
	}

	sort.SliceStable(folders, func(i, j int) bool {
		return folders[i].SizeBytes > folders[j].SizeBytes
	})

	fmt.Printf("Found %d %s folder(s):\n\n", len(folders), scanner.MarkerName)
	fmt.Printf("%10s  %-50s  PROJECT\n", "SIZE", "PATH")
	fmt.Println(strings.Repeat("-", 80))

	var total uint64
	for _, folder := range folders {
		display := folder.Path
		if len(display) > 50 {
			display = "..." + display[len(display)-47:]
		}
		fmt.Printf("%10s  %-50s  %s\n", folder.SizeDisplay(), display, folder.ProjectType)
		total += folder.SizeBytes
	}

	fmt.Println(strings.Repeat("-", 80))
	fmt.Printf("%10s  Total\n", scanner.FormatSize(total))
	return nil
}
