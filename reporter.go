package conformance

import (
	"fmt"
	"log/slog"

	"github.com/KI-labs/pachyderm/logging"
	"github.com/KI-labs/pachyderm/metrics"
	"github.com/KI-labs/pachyderm/reporting"
)

// report compares the two most recent run logs and tallies failure
// causes from the current one. Having no run logs at all is an error;
// malformed logs degrade to zero stats instead.
func (h *Harness) report(log *slog.Logger) error {
	logs, err := logging.ListRunLogs(h.cfg.RunsDir)
	if err != nil {
		return NewRuntimeError(err)
	}
	if len(logs) == 0 {
		return NewFailureError("No log files found")
	}

	current := logs[len(logs)-1]
	stats, err := reporting.ComputeStats(current)
	if err != nil {
		return NewRuntimeError(err)
	}

	var baseline *reporting.Stats
	if len(logs) > 1 {
		old, err := reporting.ComputeStats(logs[len(logs)-2])
		if err != nil {
			return NewRuntimeError(err)
		}
		baseline = &old
	}

	if baseline != nil {
		fmt.Printf("Overall results: %s (vs last run: %s)\n", stats, *baseline)
	} else {
		fmt.Printf("Overall results: %s\n", stats)
	}

	causes, err := reporting.TallyCauses(current)
	if err != nil {
		return NewRuntimeError(err)
	}
	for _, c := range causes {
		fmt.Printf("%s: %d\n", c.Line, c.Count)
	}

	h.printResultsTable(current, stats, baseline, causes)

	metrics.RecordReport(h.runID, stats.Passed, stats.Attempted, len(causes))
	log.Debug("report complete",
		"current", current,
		"passed", stats.Passed,
		"attempted", stats.Attempted,
		"causes", len(causes))
	return nil
}
