// Package report aggregates scan results into a space analysis report with
// JSON and CSV export.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/entro314-labs/claudesweep/internal/scanner"
)

// TypeStats aggregates folders of one project type.
type TypeStats struct {
	Count     int    `json:"count"`
	TotalSize uint64 `json:"total_size"`
	AvgSize   uint64 `json:"avg_size"`
}

// AgeBreakdown buckets folders by the age of their last modification.
type AgeBreakdown struct {
	Under1Week   int `json:"under_1_week"`
	Under1Month  int `json:"under_1_month"`
	Under3Months int `json:"under_3_months"`
	Over3Months  int `json:"over_3_months"`
}

// FolderSummary is one folder row in the report.
type FolderSummary struct {
	Path        string `json:"path"`
	Size        uint64 `json:"size"`
	SizeHuman   string `json:"size_human"`
	ProjectType string `json:"project_type"`
}

// Report is the complete space analysis.
type Report struct {
	TotalFolders   int                  `json:"total_folders"`
	TotalSize      uint64               `json:"total_size"`
	TotalSizeHuman string               `json:"total_size_human"`
	ByProjectType  map[string]TypeStats `json:"by_project_type"`
	AgeBreakdown   AgeBreakdown         `json:"age_breakdown"`
	Top10Largest   []FolderSummary      `json:"top_10_largest"`
}

// Generate builds a report over already-scanned folders.
func Generate(folders []scanner.Folder) *Report {
	var totalSize uint64
	for _, folder := range folders {
		totalSize += folder.SizeBytes
	}

	byType := map[string]TypeStats{}
	for _, folder := range folders {
		stats := byType[folder.ProjectType]
		stats.Count++
		stats.TotalSize += folder.SizeBytes
		byType[folder.ProjectType] = stats
	}
	for name, stats := range byType {
		stats.AvgSize = stats.TotalSize / uint64(stats.Count)
		byType[name] = stats
	}

	sorted := make([]scanner.Folder, len(folders))
	copy(sorted, folders)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].SizeBytes > sorted[j].SizeBytes
	})
	top := sorted
	if len(top) > 10 {
		top = top[:10]
	}
	summaries := make([]FolderSummary, 0, len(top))
	for _, folder := range top {
		summaries = append(summaries, FolderSummary{
			Path:        folder.Path,
			Size:        folder.SizeBytes,
			SizeHuman:   folder.SizeDisplay(),
			ProjectType: folder.ProjectType,
		})
	}

	return &Report{
		TotalFolders:   len(folders),
		TotalSize:      totalSize,
		TotalSizeHuman: scanner.FormatSize(totalSize),
		ByProjectType:  byType,
		AgeBreakdown:   ageBreakdown(folders, time.Now()),
		Top10Largest:   summaries,
	}
}

func ageBreakdown(folders []scanner.Folder, now time.Time) AgeBreakdown {
	const (
		week    = 7 * 24 * time.Hour
		month   = 30 * 24 * time.Hour
		quarter = 90 * 24 * time.Hour
	)

	var breakdown AgeBreakdown
	for _, folder := range folders {
		if folder.ModifiedAt == nil {
			continue
		}
		age := now.Sub(*folder.ModifiedAt)
		switch {
		case age < week:
			breakdown.Under1Week++
		case age < month:
			breakdown.Under1Month++
		case age < quarter:
			breakdown.Under3Months++
		default:
			breakdown.Over3Months++
		}
	}
	return breakdown
}

// JSON renders the report as an indented document.
func (r *Report) JSON() (string, error) {
	content, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return "", err
	}
	return string(content), nil
}

// CSV renders the largest folders as CSV rows.
func (r *Report) CSV() (string, error) {
	var buf strings.Builder
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{"Path", "Size (bytes)", "Size (human)", "Project Type"}); err != nil {
		return "", err
	}
	for _, folder := range r.Top10Largest {
		record := []string{
			folder.Path,
			strconv.FormatUint(folder.Size, 10),
			folder.SizeHuman,
			folder.ProjectType,
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}

// WriteSummary prints the human-readable report.
func (r *Report) WriteSummary(w io.Writer) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, "=== Space Analysis ===")
	fmt.Fprintln(w)
	fmt.Fprintf(w, "Total Folders: %d\n", r.TotalFolders)
	fmt.Fprintf(w, "Total Size:    %s\n", r.TotalSizeHuman)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "By Project Type:")
	type namedStats struct {
		name  string
		stats TypeStats
	}
	types := make([]namedStats, 0, len(r.ByProjectType))
	for name, stats := range r.ByProjectType {
		types = append(types, namedStats{name, stats})
	}
	sort.Slice(types, func(i, j int) bool {
		return types[i].stats.TotalSize > types[j].stats.TotalSize
	})
	for _, entry := range types {
		fmt.Fprintf(w, "  %-15s %4d folder(s)  %10s  (avg: %s)\n",
			entry.name,
			entry.stats.Count,
			scanner.FormatSize(entry.stats.TotalSize),
			scanner.FormatSize(entry.stats.AvgSize))
	}
	fmt.Fprintln(w)

	fmt.Fprintln(w, "By Age:")
	fmt.Fprintf(w, "  < 1 week:   %4d folder(s)\n", r.AgeBreakdown.Under1Week)
	fmt.Fprintf(w, "  < 1 month:  %4d folder(s)\n", r.AgeBreakdown.Under1Month)
	fmt.Fprintf(w, "  < 3 months: %4d folder(s)\n", r.AgeBreakdown.Under3Months)
	fmt.Fprintf(w, "  > 3 months: %4d folder(s)\n", r.AgeBreakdown.Over3Months)

	if len(r.Top10Largest) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Top %d Largest:\n", len(r.Top10Largest))
		for i, folder := range r.Top10Largest {
			fmt.Fprintf(w, "  %2d. %10s  %s\n", i+1, folder.SizeHuman, folder.Path)
		}
	}
	fmt.Fprintln(w)
}
