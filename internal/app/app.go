// Package app owns the consumer-side state: the discovered folder set,
// selection flags, filter, and sort order. All mutation goes through named
// transitions so invariants can be asserted per transition.
package app

import (
	"sort"
	"strings"
	"time"

	"github.com/entro314-labs/claudesweep/internal/scanner"
)

// State is the single-owner application state. It lives on the foreground
// side of the scan channel; the scanner never touches it.
type State struct {
	Folders      []scanner.Folder
	ScanningPath string
	ScanComplete bool

	Filter Filter
	Sort   SortOrder
}

// NewState builds state with the given default sort order.
func NewState(sort SortOrder) *State {
	return &State{Sort: sort}
}

// AddFolder records a discovery.
func (s *State) AddFolder(folder scanner.Folder) {
	s.Folders = append(s.Folders, folder)
}

// SetScanning records the directory currently being sized, for progress
// display.
func (s *State) SetScanning(path string) {
	s.ScanningPath = path
}

// CompleteScan marks the stream as finished.
func (s *State) CompleteScan() {
	s.ScanComplete = true
	s.ScanningPath = ""
}

// VisibleIndices returns indices into Folders that pass the filter, in the
// current sort order.
func (s *State) VisibleIndices() []int {
	indices := make([]int, 0, len(s.Folders))
	for i := range s.Folders {
		if s.Filter.Matches(s.Folders[i]) {
			indices = append(indices, i)
		}
	}

	sort.SliceStable(indices, func(a, b int) bool {
		left, right := s.Folders[indices[a]], s.Folders[indices[b]]
		switch s.Sort {
		case SortSizeAsc:
			return left.SizeBytes < right.SizeBytes
		case SortNameAsc:
			return strings.ToLower(left.Path) < strings.ToLower(right.Path)
		case SortNameDesc:
			return strings.ToLower(left.Path) > strings.ToLower(right.Path)
		case SortDateDesc:
			return modTime(left).After(modTime(right))
		case SortDateAsc:
			return modTime(left).Before(modTime(right))
		default:
			return left.SizeBytes > right.SizeBytes
		}
	})

	return indices
}

func modTime(folder scanner.Folder) time.Time {
	if folder.ModifiedAt == nil {
		return time.Time{}
	}
	return *folder.ModifiedAt
}

// VisibleCount is the filtered folder count.
func (s *State) VisibleCount() int {
	return len(s.VisibleIndices())
}

// ToggleSelectAt flips the selection of the folder at a visible-list
// position.
func (s *State) ToggleSelectAt(visibleIdx int) {
	indices := s.VisibleIndices()
	if visibleIdx < 0 || visibleIdx >= len(indices) {
		return
	}
	folder := &s.Folders[indices[visibleIdx]]
	folder.Selected = !folder.Selected
}

// SelectAll marks every folder.
func (s *State) SelectAll() {
	for i := range s.Folders {
		s.Folders[i].Selected = true
	}
}

// SelectNone clears every selection.
func (s *State) SelectNone() {
	for i := range s.Folders {
		s.Folders[i].Selected = false
	}
}

// SelectedFolders returns the current batch.
func (s *State) SelectedFolders() []scanner.Folder {
	var selected []scanner.Folder
	for _, folder := range s.Folders {
		if folder.Selected {
			selected = append(selected, folder)
		}
	}
	return selected
}

// SelectedCount counts the batch.
func (s *State) SelectedCount() int {
	count := 0
	for _, folder := range s.Folders {
		if folder.Selected {
			count++
		}
	}
	return count
}

// SelectedSize sums the batch.
func (s *State) SelectedSize() uint64 {
	var total uint64
	for _, folder := range s.Folders {
		if folder.Selected {
			total += folder.SizeBytes
		}
	}
	return total
}

// TotalSize sums every discovered folder.
func (s *State) TotalSize() uint64 {
	var total uint64
	for _, folder := range s.Folders {
		total += folder.SizeBytes
	}
	return total
}

// RemoveDeleted drops folders whose paths were confirmed deleted.
func (s *State) RemoveDeleted(paths []string) {
	deleted := make(map[string]struct{}, len(paths))
	for _, path := range paths {
		deleted[path] = struct{}{}
	}
	kept := s.Folders[:0]
	for _, folder := range s.Folders {
		if _, gone := deleted[folder.Path]; !gone {
			kept = append(kept, folder)
		}
	}
	s.Folders = kept
}

// SetSearch applies a search query.
func (s *State) SetSearch(query string) {
	s.Filter.Query = query
}

// CycleSort advances to the next sort order.
func (s *State) CycleSort() {
	s.Sort = s.Sort.Next()
}

// ClearFilters resets the filter.
func (s *State) ClearFilters() {
	s.Filter.Clear()
}
