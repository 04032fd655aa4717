package trash

import (
	"bufio"
	"errors"
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"time"
)

// ErrManualRestore marks restore failures where the file is (or may be) in
// the platform trash but has to be restored by hand.
var ErrManualRestore = errors.New("manual restoration required")

// Backend abstracts the platform trash facility. Variants are regular
// values selected at runtime, so every platform path is testable against a
// fake and the unsupported case is an ordinary variant.
type Backend interface {
	Name() string
	// Put moves the path into the trash.
	Put(path string) error
	// Restore moves a previously trashed path back to its original
	// location.
	Restore(path string) error
	// CanRestore reports whether this backend has any restore path at
	// all. Backends returning false still describe how to recover in
	// their Restore error.
	CanRestore() bool
}

// Default returns the backend for the running platform.
func Default() Backend {
	return ForPlatform(runtime.GOOS)
}

// ForPlatform selects the backend variant for a GOOS value.
func ForPlatform(goos string) Backend {
	switch goos {
	case "linux":
		return NewXDGBackend("")
	case "darwin":
		return &finderBackend{}
	default:
		return &unsupportedBackend{goos: goos}
	}
}

// XDGBackend implements the freedesktop.org trash layout: trashed entries
// live under Trash/files with a matching Trash/info/<name>.trashinfo
// recording the original path.
type XDGBackend struct {
	dataHome string
}

// NewXDGBackend builds the backend rooted at dataHome. An empty dataHome
// resolves from $XDG_DATA_HOME, falling back to ~/.local/share.
func NewXDGBackend(dataHome string) *XDGBackend {
	if dataHome == "" {
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			dataHome = xdg
		} else if home, err := os.UserHomeDir(); err == nil {
			dataHome = filepath.Join(home, ".local", "share")
		}
	}
	return &XDGBackend{dataHome: dataHome}
}

func (b *XDGBackend) Name() string     { return "xdg" }
func (b *XDGBackend) CanRestore() bool { return true }

func (b *XDGBackend) filesDir() string { return filepath.Join(b.dataHome, "Trash", "files") }
func (b *XDGBackend) infoDir() string  { return filepath.Join(b.dataHome, "Trash", "info") }

func (b *XDGBackend) Put(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(b.filesDir(), 0o700); err != nil {
		return err
	}
	if err := os.MkdirAll(b.infoDir(), 0o700); err != nil {
		return err
	}

	name, infoFile, err := b.reserve(filepath.Base(abs), abs)
	if err != nil {
		return err
	}

	if err := os.Rename(abs, filepath.Join(b.filesDir(), name)); err != nil {
		_ = os.Remove(infoFile)
		return err
	}
	return nil
}

// reserve picks an unused trash name and claims it by exclusively creating
// the info file.
func (b *XDGBackend) reserve(base, original string) (string, string, error) {
	escaped := (&url.URL{Path: original}).EscapedPath()
	stamp := time.Now().Format("2006-01-02T15:04:05")

	for attempt := 0; attempt < 1000; attempt++ {
		name := base
		if attempt > 0 {
			name = fmt.Sprintf("%s.%d", base, attempt+1)
		}
		infoFile := filepath.Join(b.infoDir(), name+".trashinfo")

		f, err := os.OpenFile(infoFile, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o600)
		if errors.Is(err, os.ErrExist) {
			continue
		}
		if err != nil {
			return "", "", err
		}

		_, err = fmt.Fprintf(f, "[Trash Info]\nPath=%s\nDeletionDate=%s\n", escaped, stamp)
		if closeErr := f.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			_ = os.Remove(infoFile)
			return "", "", err
		}
		return name, infoFile, nil
	}
	return "", "", fmt.Errorf("trash: no free slot for %s", base)
}

func (b *XDGBackend) Restore(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	name, infoFile, err := b.find(abs)
	if err != nil {
		return err
	}

	if _, err := os.Lstat(abs); err == nil {
		return fmt.Errorf("restore target already exists: %s", abs)
	}
	if err := os.MkdirAll(filepath.Dir(abs), 0o755); err != nil {
		return err
	}
	if err := os.Rename(filepath.Join(b.filesDir(), name), abs); err != nil {
		return err
	}
	_ = os.Remove(infoFile)
	return nil
}

// find locates the newest trash entry whose recorded original path matches.
// Directory listing order is lexical (".claude.2" sorts before ".claude"),
// so recency is decided by the recorded DeletionDate, with the numeric name
// suffix breaking ties within the same second.
func (b *XDGBackend) find(original string) (string, string, error) {
	entries, err := os.ReadDir(b.infoDir())
	if err != nil {
		return "", "", fmt.Errorf("%w: no trash entry for %s", ErrManualRestore, original)
	}

	var (
		bestName string
		bestInfo string
		bestDate string
		bestSeq  int
	)
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".trashinfo") {
			continue
		}
		infoFile := filepath.Join(b.infoDir(), entry.Name())
		info, ok := readTrashInfo(infoFile)
		if !ok || info.path != original {
			continue
		}
		name := strings.TrimSuffix(entry.Name(), ".trashinfo")
		seq := nameSeq(name)
		if bestName == "" || info.deletionDate > bestDate ||
			(info.deletionDate == bestDate && seq > bestSeq) {
			bestName, bestInfo, bestDate, bestSeq = name, infoFile, info.deletionDate, seq
		}
	}
	if bestName == "" {
		return "", "", fmt.Errorf("%w: no trash entry for %s", ErrManualRestore, original)
	}
	return bestName, bestInfo, nil
}

// nameSeq extracts the uniquifier from a trash name: ".claude.3" is
// sequence 3, an unsuffixed name is sequence 1.
func nameSeq(name string) int {
	if dot := strings.LastIndex(name, "."); dot > 0 {
		if n, err := strconv.Atoi(name[dot+1:]); err == nil {
			return n
		}
	}
	return 1
}

type trashInfo struct {
	path         string
	deletionDate string
}

func readTrashInfo(infoFile string) (trashInfo, bool) {
	f, err := os.Open(infoFile)
	if err != nil {
		return trashInfo{}, false
	}
	defer f.Close()

	var info trashInfo
	lines := bufio.NewScanner(f)
	for lines.Scan() {
		line := lines.Text()
		switch {
		case strings.HasPrefix(line, "Path="):
			decoded, err := url.PathUnescape(strings.TrimPrefix(line, "Path="))
			if err != nil {
				return trashInfo{}, false
			}
			info.path = decoded
		case strings.HasPrefix(line, "DeletionDate="):
			info.deletionDate = strings.TrimPrefix(line, "DeletionDate=")
		}
	}
	return info, info.path != ""
}

// finderBackend trashes through the macOS Finder. Putting prefers the
// `trash` CLI and falls back to an osascript Finder delete; restoring is
// only possible when the CLI is installed.
type finderBackend struct{}

func (b *finderBackend) Name() string     { return "finder" }
func (b *finderBackend) CanRestore() bool { return true }

func (b *finderBackend) Put(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return err
	}

	if _, err := exec.LookPath("trash"); err == nil {
		if out, err := exec.Command("trash", abs).CombinedOutput(); err == nil {
			return nil
		} else if len(out) > 0 {
			return fmt.Errorf("trash: %s", strings.TrimSpace(string(out)))
		}
	}

	script := fmt.Sprintf("tell application \"Finder\" to delete (POSIX file %q)", abs)
	if out, err := exec.Command("osascript", "-e", script).CombinedOutput(); err != nil {
		return fmt.Errorf("osascript: %v: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

func (b *finderBackend) Restore(path string) error {
	if _, err := exec.LookPath("trash"); err == nil {
		if err := exec.Command("trash", "-r", path).Run(); err == nil {
			return nil
		}
	}
	return fmt.Errorf("%w: restore %s from the Trash", ErrManualRestore, path)
}

// unsupportedBackend covers windows and any other platform without a
// programmatic trash path in this design.
type unsupportedBackend struct {
	goos string
}

func (b *unsupportedBackend) Name() string     { return "unsupported" }
func (b *unsupportedBackend) CanRestore() bool { return false }

func (b *unsupportedBackend) Put(path string) error {
	return fmt.Errorf("trash is not supported on %s; use permanent deletion for %s", b.goos, path)
}

func (b *unsupportedBackend) Restore(path string) error {
	return fmt.Errorf("%w: restore %s by hand on %s", ErrManualRestore, path, b.goos)
}
