package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"
)

// RunLogTimeFormat is the fixed-width timestamp used to name run logs.
// Fixed width means a lexicographic sort of filenames is a chronological
// sort of runs.
const RunLogTimeFormat = "2006-01-02-15-04-05"

// NewRunLog creates a fresh run log named after now in dir, creating the
// directory if needed. The caller owns the returned file.
func NewRunLog(dir string, now time.Time) (*os.File, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create runs directory %s: %w", dir, err)
	}

	path := filepath.Join(dir, now.Format(RunLogTimeFormat)+".txt")
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log %s: %w", path, err)
	}
	return f, nil
}

// ListRunLogs returns the persisted run logs in dir sorted by filename,
// oldest first. A missing directory yields an empty slice, not an error.
func ListRunLogs(dir string) ([]string, error) {
	logs, err := filepath.Glob(filepath.Join(dir, "*.txt"))
	if err != nil {
		return nil, fmt.Errorf("failed to list run logs in %s: %w", dir, err)
	}
	sort.Strings(logs)
	return logs, nil
}
