// Package history persists a bounded ledger of completed deletion batches
// and replays the most recent reversible one.
package history

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/entro314-labs/claudesweep/internal/trash"
)

// MaxEntries bounds the ledger; the oldest records are evicted first.
const MaxEntries = 100

// Record describes one fully completed deletion batch. Immutable once
// created.
type Record struct {
	Timestamp time.Time    `json:"timestamp"`
	Paths     []string     `json:"paths"`
	TotalSize uint64       `json:"total_size_bytes"`
	Method    trash.Method `json:"method"`
}

// NewRecord stamps a record with the current time.
func NewRecord(paths []string, totalSize uint64, method trash.Method) Record {
	return Record{
		Timestamp: time.Now().UTC(),
		Paths:     paths,
		TotalSize: totalSize,
		Method:    method,
	}
}

// CanUndo reports whether the batch went through the trash and can be
// restored.
func (r Record) CanUndo() bool {
	return r.Method == trash.MethodTrash
}

// Log is the in-memory form of the persisted ledger.
type Log struct {
	Records []Record `json:"records"`

	path string
}

// DefaultPath is the history location under the platform cache directory.
func DefaultPath() (string, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		return "", fmt.Errorf("resolve cache directory: %w", err)
	}
	return filepath.Join(cache, "claudesweep", "history.json"), nil
}

// Load reads the ledger at path. A missing file yields an empty log and no
// error. A read or parse failure yields an empty, usable log together with
// the error; callers treat it as "no history available", not fatal.
func Load(path string) (*Log, error) {
	log := &Log{path: path}

	content, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return log, nil
	}
	if err != nil {
		return log, fmt.Errorf("read history %s: %w", path, err)
	}

	if err := json.Unmarshal(content, log); err != nil {
		return &Log{path: path}, fmt.Errorf("parse history %s: %w", path, err)
	}
	return log, nil
}

// Save persists the whole log atomically: the document is written to a
// temp file in the target directory and renamed over the old one, so a
// crash mid-write leaves either the previous file or an unparseable temp,
// never a silently truncated ledger.
func (l *Log) Save() error {
	if l.path == "" {
		return errors.New("history: no path configured")
	}
	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("create history directory: %w", err)
	}

	content, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(l.path), ".history-*.json")
	if err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	_, err = tmp.Write(content)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write history: %w", err)
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace history: %w", err)
	}
	return nil
}

// Add appends a record and enforces the entry cap by dropping the oldest
// records, preserving the relative order of the rest.
func (l *Log) Add(record Record) {
	l.Records = append(l.Records, record)
	if len(l.Records) > MaxEntries {
		l.Records = l.Records[len(l.Records)-MaxEntries:]
	}
}

// LastUndoable returns the most recent trash-method record, skipping any
// newer permanent records.
func (l *Log) LastUndoable() (Record, bool) {
	for i := len(l.Records) - 1; i >= 0; i-- {
		if l.Records[i].CanUndo() {
			return l.Records[i], true
		}
	}
	return Record{}, false
}

// RemoveLastUndoable deletes the most recent trash-method record. No-op
// when none exists.
func (l *Log) RemoveLastUndoable() {
	for i := len(l.Records) - 1; i >= 0; i-- {
		if l.Records[i].CanUndo() {
			l.Records = append(l.Records[:i], l.Records[i+1:]...)
			return
		}
	}
}
