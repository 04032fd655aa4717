package scanner

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string, size int) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, make([]byte, size), 0o644))
}

func collect(t *testing.T, s *Scanner) (scanning []string, found []Folder, complete bool) {
	t.Helper()
	for ev := range s.Scan(context.Background()) {
		switch ev := ev.(type) {
		case ScanningEvent:
			scanning = append(scanning, ev.Path)
		case FoundEvent:
			require.False(t, complete, "event after Complete")
			found = append(found, ev.Folder)
		case CompleteEvent:
			complete = true
		}
	}
	return scanning, found, complete
}

func TestScanSkipsGlobalMarkerUnlessIncluded(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", ".claude", "transcript.json"), 1000)
	writeFile(t, filepath.Join(root, "a", ".claude", "settings.json"), 500)
	writeFile(t, filepath.Join(root, ".claude", "global.json"), 42)

	s := New(root, false, nil)
	s.GlobalMarker = filepath.Join(root, ".claude")

	scanning, found, complete := collect(t, s)
	require.True(t, complete)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(root, "a", ".claude"), found[0].Path)
	assert.Equal(t, uint64(1500), found[0].SizeBytes)

	// The skipped global directory must not be Scanning-emitted either.
	assert.Equal(t, []string{filepath.Join(root, "a", ".claude")}, scanning)
}

func TestScanIncludesGlobalMarkerWhenAsked(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", ".claude", "f"), 10)
	writeFile(t, filepath.Join(root, ".claude", "g"), 20)

	s := New(root, true, nil)
	s.GlobalMarker = filepath.Join(root, ".claude")

	_, found, complete := collect(t, s)
	require.True(t, complete)
	require.Len(t, found, 2)

	paths := []string{found[0].Path, found[1].Path}
	assert.Contains(t, paths, filepath.Join(root, ".claude"))
	assert.Contains(t, paths, filepath.Join(root, "a", ".claude"))
}

func TestScanPrunesHiddenDirectoriesExceptMarker(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".cache", "deep", ".claude", "f"), 10)
	writeFile(t, filepath.Join(root, "visible", ".claude", "f"), 10)

	s := New(root, true, nil)
	s.GlobalMarker = ""

	_, found, _ := collect(t, s)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(root, "visible", ".claude"), found[0].Path)
}

func TestScanSizingCountsHiddenFiles(t *testing.T) {
	root := t.TempDir()
	marker := filepath.Join(root, "proj", ".claude")
	writeFile(t, filepath.Join(marker, "visible.txt"), 100)
	writeFile(t, filepath.Join(marker, ".hidden"), 30)
	writeFile(t, filepath.Join(marker, ".cache", "blob"), 70)

	s := New(root, true, nil)
	s.GlobalMarker = ""

	_, found, _ := collect(t, s)
	require.Len(t, found, 1)
	assert.Equal(t, uint64(200), found[0].SizeBytes)
}

func TestScanExcludePatterns(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "keep", ".claude", "f"), 10)
	writeFile(t, filepath.Join(root, "skipme", "proj", ".claude", "f"), 10)

	s := New(root, true, []string{"skipme"})
	s.GlobalMarker = ""

	scanning, found, _ := collect(t, s)
	require.Len(t, found, 1)
	assert.Equal(t, filepath.Join(root, "keep", ".claude"), found[0].Path)
	assert.Len(t, scanning, 1)
}

func TestScanEmitsScanningBeforeFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", ".claude", "f"), 1)
	writeFile(t, filepath.Join(root, "b", ".claude", "f"), 1)

	s := New(root, true, nil)
	s.GlobalMarker = ""

	seen := map[string]bool{}
	var foundCount int
	for ev := range s.Scan(context.Background()) {
		switch ev := ev.(type) {
		case ScanningEvent:
			seen[ev.Path] = true
		case FoundEvent:
			assert.True(t, seen[ev.Folder.Path], "Found before Scanning for %s", ev.Folder.Path)
			foundCount++
		}
	}
	assert.Equal(t, 2, foundCount)
}

func TestScanSetsProjectTypeAndModifiedAt(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "proj", "Cargo.toml"), 1)
	writeFile(t, filepath.Join(root, "proj", ".claude", "f"), 1)

	s := New(root, true, nil)
	s.GlobalMarker = ""

	_, found, _ := collect(t, s)
	require.Len(t, found, 1)
	assert.Equal(t, "Rust", found[0].ProjectType)
	require.NotNil(t, found[0].ModifiedAt)
	assert.False(t, found[0].ModifiedAt.IsZero())
}

func TestScanEmptyTreeStillCompletes(t *testing.T) {
	s := New(t.TempDir(), false, nil)
	_, found, complete := collect(t, s)
	assert.Empty(t, found)
	assert.True(t, complete)
}

func TestFormatSize(t *testing.T) {
	assert.Equal(t, "512 B", FormatSize(512))
	assert.Equal(t, "1.5 KB", FormatSize(1536))
	assert.Equal(t, "156.2 MB", FormatSize(163787572))
	assert.Equal(t, "2.0 GB", FormatSize(2*1024*1024*1024))
}
