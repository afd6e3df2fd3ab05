// Package reporting extracts summary statistics and failure causes from
// persisted run logs.
package reporting

import (
	"bufio"
	"fmt"
	"os"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/acarl005/stripansi"
)

// TracebackHeader is the exact line that opens a traceback block in the
// suite's stderr output.
const TracebackHeader = "Traceback (most recent call last):"

var (
	ranPattern    = regexp.MustCompile(`^Ran (\d+) tests in [\d\.]+s`)
	failedPattern = regexp.MustCompile(`^FAILED \(SKIP=(\d+), errors=(\d+), failures=(\d+)\)`)
)

// Stats is one run's summary, derived from the log text on demand.
type Stats struct {
	Passed    int // ran - skipped - errored - failed
	Attempted int // ran - skipped
}

func (s Stats) String() string {
	return fmt.Sprintf("%d/%d", s.Passed, s.Attempted)
}

// ComputeStats scans a run log for the summary line pair. The last match
// of each pattern wins. The result is non-zero only when all four
// counters (ran, skipped, errored, failed) are non-zero; any other shape,
// including absent patterns, degrades to (0, 0). A run with genuinely
// zero skips or failures is therefore reported as (0, 0) — historical
// comparisons depend on this, so it stays.
func ComputeStats(path string) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("failed to open run log %s: %w", path, err)
	}
	defer f.Close()

	var ran, skipped, errored, failed int

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := stripansi.Strip(scanner.Text())

		if m := ranPattern.FindStringSubmatch(line); m != nil {
			ran, _ = strconv.Atoi(m[1])
			continue
		}
		if m := failedPattern.FindStringSubmatch(line); m != nil {
			skipped, _ = strconv.Atoi(m[1])
			errored, _ = strconv.Atoi(m[2])
			failed, _ = strconv.Atoi(m[3])
		}
	}
	if err := scanner.Err(); err != nil {
		return Stats{}, fmt.Errorf("failed to read run log %s: %w", path, err)
	}

	if ran != 0 && skipped != 0 && errored != 0 && failed != 0 {
		return Stats{Passed: ran - skipped - errored - failed, Attempted: ran - skipped}, nil
	}
	return Stats{}, nil
}

// Cause is one distinct failure-cause line and how often it occurred.
type Cause struct {
	Line  string
	Count int
}

// TallyCauses scans a run log for traceback blocks and tallies their
// terminal cause lines: the first line after a traceback header that is
// not indented by at least two spaces ends the block and is its cause.
// Causes are returned sorted by count descending; ties keep first-seen
// order. A log with no tracebacks yields an empty tally.
func TallyCauses(path string) ([]Cause, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open run log %s: %w", path, err)
	}
	defer f.Close()

	counts := make(map[string]int)
	var order []string
	inTraceback := false

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := stripansi.Strip(scanner.Text())

		if line == TracebackHeader {
			inTraceback = true
		} else if inTraceback {
			if !strings.HasPrefix(line, "  ") {
				cause := strings.TrimRight(line, " \t\r\n\v\f")
				if _, seen := counts[cause]; !seen {
					order = append(order, cause)
				}
				counts[cause]++
				inTraceback = false
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run log %s: %w", path, err)
	}

	causes := make([]Cause, 0, len(order))
	for _, line := range order {
		causes = append(causes, Cause{Line: line, Count: counts[line]})
	}
	sort.SliceStable(causes, func(i, j int) bool {
		return causes[i].Count > causes[j].Count
	})
	return causes, nil
}
