package trash

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/entro314-labs/claudesweep/internal/scanner"
)

// Rule names the safety check a path failed.
type Rule string

const (
	RuleSystemPath   Rule = "system directory"
	RuleNotMarker    Rule = "not a " + scanner.MarkerName + " directory"
	RuleMissing      Rule = "path does not exist"
	RuleNotDirectory Rule = "not a directory"
)

// ValidationError reports which path failed which rule.
type ValidationError struct {
	Path string
	Rule Rule
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("refusing to delete %s: %s", e.Path, e.Rule)
}

// ValidateBatch checks every path in the batch; a single failure rejects
// the whole batch. It has no side effects and must be re-run immediately
// before every execution because the filesystem can change between
// selection and confirmation.
func ValidateBatch(paths []string) error {
	return validateBatch(paths, runtime.GOOS)
}

func validateBatch(paths []string, goos string) error {
	for _, path := range paths {
		if err := validatePath(path, goos); err != nil {
			return err
		}
	}
	return nil
}

func validatePath(path, goos string) error {
	if isForbidden(path, goos) {
		return &ValidationError{Path: path, Rule: RuleSystemPath}
	}

	// The single most important invariant: the executor is never handed
	// a path that isn't provably a marker directory.
	if filepath.Base(path) != scanner.MarkerName {
		return &ValidationError{Path: path, Rule: RuleNotMarker}
	}

	info, err := os.Stat(path)
	if err != nil {
		return &ValidationError{Path: path, Rule: RuleMissing}
	}
	if !info.IsDir() {
		return &ValidationError{Path: path, Rule: RuleNotDirectory}
	}
	return nil
}

func isForbidden(path, goos string) bool {
	var forbidden []string
	if goos == "windows" {
		forbidden = []string{
			`C:\`,
			`C:\Windows`,
			`C:\Program Files`,
			`C:\Program Files (x86)`,
			`C:\Users`,
		}
	} else {
		forbidden = []string{"/", "/Users", "/System", "/Library", "/Applications"}
	}

	// Windows and macOS filesystems are case-insensitive by default.
	caseInsensitive := goos == "windows" || goos == "darwin"

	for _, deny := range forbidden {
		if path == deny {
			return true
		}
		if caseInsensitive && strings.EqualFold(path, deny) {
			return true
		}
	}
	return false
}
