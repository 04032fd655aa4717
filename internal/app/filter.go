package app

import (
	"slices"
	"strings"
	"time"

	"github.com/entro314-labs/claudesweep/internal/scanner"
)

// Filter narrows the visible folder list.
type Filter struct {
	// Query matches case-insensitively against the path.
	Query string
	// ProjectTypes restricts to the listed labels; empty means all.
	ProjectTypes []string
	// MinSize hides folders below the threshold.
	MinSize uint64
	// MaxAge hides folders modified more recently than now-MaxAge.
	MaxAge time.Duration
}

// Matches reports whether the folder passes every active criterion.
func (f *Filter) Matches(folder scanner.Folder) bool {
	if f.Query != "" &&
		!strings.Contains(strings.ToLower(folder.Path), strings.ToLower(f.Query)) {
		return false
	}

	if len(f.ProjectTypes) > 0 && !slices.Contains(f.ProjectTypes, folder.ProjectType) {
		return false
	}

	if folder.SizeBytes < f.MinSize {
		return false
	}

	if f.MaxAge > 0 && folder.ModifiedAt != nil {
		if time.Since(*folder.ModifiedAt) < f.MaxAge {
			return false
		}
	}

	return true
}

// Active reports whether any criterion is set.
func (f *Filter) Active() bool {
	return f.Query != "" || len(f.ProjectTypes) > 0 || f.MinSize > 0 || f.MaxAge > 0
}

// Clear resets every criterion.
func (f *Filter) Clear() {
	*f = Filter{}
}

// SortOrder selects the visible list ordering.
type SortOrder int

const (
	SortSizeDesc SortOrder = iota
	SortSizeAsc
	SortNameAsc
	SortNameDesc
	SortDateDesc
	SortDateAsc
)

// Next cycles to the following sort order.
func (s SortOrder) Next() SortOrder {
	switch s {
	case SortSizeDesc:
		return SortSizeAsc
	case SortSizeAsc:
		return SortNameAsc
	case SortNameAsc:
		return SortNameDesc
	case SortNameDesc:
		return SortDateDesc
	case SortDateDesc:
		return SortDateAsc
	default:
		return SortSizeDesc
	}
}

// Label is the human-readable name shown in the status bar.
func (s SortOrder) Label() string {
	switch s {
	case SortSizeAsc:
		return "Size ↑"
	case SortNameAsc:
		return "Name A-Z"
	case SortNameDesc:
		return "Name Z-A"
	case SortDateDesc:
		return "Newest"
	case SortDateAsc:
		return "Oldest"
	default:
		return "Size ↓"
	}
}

// ParseSortOrder maps a config string to a sort order, defaulting to
// size-descending.
func ParseSortOrder(value string) SortOrder {
	switch value {
	case "size_asc":
		return SortSizeAsc
	case "name_asc":
		return SortNameAsc
	case "name_desc":
		return SortNameDesc
	case "date_desc":
		return SortDateDesc
	case "date_asc":
		return SortDateAsc
	default:
		return SortSizeDesc
	}
}
