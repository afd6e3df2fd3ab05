// Package preflight verifies no conflicting pachctl instance is running
// before the harness touches any state.
package preflight

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/v4/process"
)

// ProcessInfo is the subset of process-table data the check needs.
type ProcessInfo struct {
	PID     int32
	Name    string
	Cmdline string
}

// Lister returns a snapshot of the process table. It is a parameter so
// tests can supply a fixed table.
type Lister func() ([]ProcessInfo, error)

// SystemLister reads the live process table. Processes that disappear
// mid-scan are skipped.
func SystemLister() ([]ProcessInfo, error) {
	procs, err := process.Processes()
	if err != nil {
		return nil, fmt.Errorf("failed to list processes: %w", err)
	}

	infos := make([]ProcessInfo, 0, len(procs))
	for _, p := range procs {
		name, err := p.Name()
		if err != nil {
			continue
		}
		cmdline, _ := p.Cmdline()
		infos = append(infos, ProcessInfo{PID: p.Pid, Name: name, Cmdline: cmdline})
	}
	return infos, nil
}

// Conflicts filters procs down to entries that look like a running target
// binary, excluding selfPID (the harness itself shows up in its own scan
// because the gateway args name the target on the command line).
func Conflicts(target string, selfPID int32, procs []ProcessInfo) []ProcessInfo {
	var conflicts []ProcessInfo
	for _, p := range procs {
		if p.PID == selfPID {
			continue
		}
		if p.Name == target || strings.Contains(p.Cmdline, target) {
			conflicts = append(conflicts, p)
		}
	}
	return conflicts
}

// Check scans the process table for a running target instance and returns
// an error naming the conflicting processes if any are found.
func Check(target string, lister Lister) error {
	// The target may be configured as a full path.
	target = filepath.Base(target)

	if lister == nil {
		lister = SystemLister
	}

	procs, err := lister()
	if err != nil {
		return err
	}

	conflicts := Conflicts(target, int32(os.Getpid()), procs)
	if len(conflicts) == 0 {
		return nil
	}

	names := make([]string, 0, len(conflicts))
	for _, p := range conflicts {
		names = append(names, fmt.Sprintf("%s (pid %d)", p.Name, p.PID))
	}
	return fmt.Errorf("it looks like `%s` is already running (%s); please kill it before running conformance tests",
		target, strings.Join(names, ", "))
}
