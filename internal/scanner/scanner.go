// Package scanner walks a directory tree looking for marker directories,
// sizes them, classifies their owning project, and streams results to a
// single consumer.
package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/entro314-labs/claudesweep/internal/project"
)

// MarkerName is the directory name this tool searches for and deletes.
const MarkerName = ".claude"

// Folder is one discovered marker directory. Immutable after discovery
// except Selected, which is owned by the consumer.
type Folder struct {
	Path        string
	SizeBytes   uint64
	ProjectType string
	Selected    bool
	ModifiedAt  *time.Time
}

// SizeDisplay formats the folder size for display (e.g. "156.2 MB").
func (f Folder) SizeDisplay() string {
	return FormatSize(f.SizeBytes)
}

// FormatSize renders a byte count in binary units.
func FormatSize(size uint64) string {
	if size < 1024 {
		return fmt.Sprintf("%d B", size)
	}

	units := []string{"KB", "MB", "GB", "TB", "PB"}
	value := float64(size)
	for _, unit := range units {
		value /= 1024
		if value < 1024 {
			return fmt.Sprintf("%.1f %s", value, unit)
		}
	}
	return fmt.Sprintf("%.1f %s", value, units[len(units)-1])
}

// Event is one item on the scan stream.
type Event interface {
	scanEvent()
}

// ScanningEvent signals that a marker directory was found and is being sized.
type ScanningEvent struct {
	Path string
}

// FoundEvent carries a fully sized and classified folder.
type FoundEvent struct {
	Folder Folder
}

// CompleteEvent signals that no more events will be produced.
type CompleteEvent struct{}

func (ScanningEvent) scanEvent() {}
func (FoundEvent) scanEvent()    {}
func (CompleteEvent) scanEvent() {}

// Scanner finds marker directories beneath Root.
type Scanner struct {
	Root            string
	IncludeGlobal   bool
	ExcludePatterns []string

	// GlobalMarker is the marker directory in the user's home, skipped
	// unless IncludeGlobal is set. Exposed so tests can pin it.
	GlobalMarker string
}

// New builds a Scanner rooted at root. The global marker path resolves to
// the home directory joined with the marker name; if the home directory is
// unresolvable the global test simply never matches.
func New(root string, includeGlobal bool, excludePatterns []string) *Scanner {
	global := ""
	if home, err := os.UserHomeDir(); err == nil {
		global = filepath.Join(home, MarkerName)
	}
	return &Scanner{
		Root:            root,
		IncludeGlobal:   includeGlobal,
		ExcludePatterns: excludePatterns,
		GlobalMarker:    global,
	}
}

// Scan walks the tree in a background worker and returns the event stream.
// The channel is closed after CompleteEvent. Events for one directory are
// ordered Scanning then Found; ordering across directories is undefined
// because sizing runs on a bounded worker group. Abandoning the consumer
// and cancelling ctx discards remaining events; the walk is not joined.
func (s *Scanner) Scan(ctx context.Context) <-chan Event {
	events := make(chan Event, 64)

	go func() {
		defer close(events)
		s.walk(ctx, events)
		send(ctx, events, CompleteEvent{})
	}()

	return events
}

func (s *Scanner) walk(ctx context.Context, events chan<- Event) {
	root := filepath.Clean(s.Root)

	var sizers errgroup.Group
	sizers.SetLimit(runtime.NumCPU())

	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if err != nil {
			// Unreadable entries are skipped, never fatal.
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.IsDir() {
			return nil
		}

		name := entry.Name()
		if name == MarkerName {
			if s.shouldReport(path) {
				if !send(ctx, events, ScanningEvent{Path: path}) {
					return filepath.SkipAll
				}
				matched := path
				sizers.Go(func() error {
					s.report(ctx, events, matched)
					return nil
				})
			}
			// The match is sized as a unit; nothing inside it is a
			// separate discovery.
			return filepath.SkipDir
		}

		// Prune hidden directories so the walk never descends into
		// large dot-caches. The root itself is never pruned.
		if path != root && strings.HasPrefix(name, ".") {
			return filepath.SkipDir
		}
		return nil
	})

	_ = sizers.Wait()
}

// shouldReport applies the global-directory and exclusion-pattern tests.
func (s *Scanner) shouldReport(path string) bool {
	if !s.IncludeGlobal && s.GlobalMarker != "" && filepath.Clean(path) == filepath.Clean(s.GlobalMarker) {
		return false
	}
	for _, pattern := range s.ExcludePatterns {
		if pattern != "" && strings.Contains(path, pattern) {
			return false
		}
	}
	return true
}

// report sizes, stats, and classifies one match, then emits Found.
func (s *Scanner) report(ctx context.Context, events chan<- Event, path string) {
	folder := Folder{
		Path:        path,
		SizeBytes:   dirSize(ctx, path),
		ProjectType: project.Detect(path),
	}
	if info, err := os.Stat(path); err == nil {
		modified := info.ModTime()
		folder.ModifiedAt = &modified
	}
	send(ctx, events, FoundEvent{Folder: folder})
}

// dirSize sums the sizes of every regular file under path. Hidden entries
// are counted; the total must reflect true disk usage. Unreadable entries
// are skipped.
func dirSize(ctx context.Context, path string) uint64 {
	var size uint64

	_ = filepath.WalkDir(path, func(_ string, entry fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return filepath.SkipAll
		}
		if err != nil {
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if !entry.Type().IsRegular() {
			return nil
		}
		info, infoErr := entry.Info()
		if infoErr != nil {
			return nil
		}
		size += uint64(info.Size())
		return nil
	})

	return size
}

func send(ctx context.Context, events chan<- Event, ev Event) bool {
	select {
	case events <- ev:
		return true
	case <-ctx.Done():
		return false
	}
}
