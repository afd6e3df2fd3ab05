package metrics

import (
	"regexp"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	MetricsNamespace = "s3gw_conformance"
)

var (
	nonAlphanumericRegex = regexp.MustCompile(`[^a-zA-Z ]+`)

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "errors_total",
		Help:      "Count of errors",
	}, []string{
		"error",
	})

	runsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricsNamespace,
		Name:      "runs_total",
		Help:      "Count of conformance suite invocations",
	}, []string{
		"run_id",
	})

	pollAttempts = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "readiness_poll_attempts",
		Help:      "Poll attempts before the gateway became ready",
	}, []string{
		"run_id",
	})

	suiteExitCode = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_exit_code",
		Help:      "Exit code of the conformance suite",
	}, []string{
		"run_id",
	})

	testsPassed = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_passed",
		Help:      "Passed test count extracted from the current run log",
	}, []string{
		"run_id",
	})

	testsAttempted = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "tests_attempted",
		Help:      "Attempted test count extracted from the current run log",
	}, []string{
		"run_id",
	})

	distinctCauses = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "distinct_failure_causes",
		Help:      "Distinct failure-cause lines in the current run log",
	}, []string{
		"run_id",
	})

	suiteDuration = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: MetricsNamespace,
		Name:      "suite_duration_seconds",
		Help:      "Wall-clock duration of the conformance suite",
	}, []string{
		"run_id",
	})
)

// errToLabel tries to make the error string a more valid Prometheus label
func errToLabel(err error) string {
	if err == nil {
		return "nil"
	}
	errClean := nonAlphanumericRegex.ReplaceAllString(err.Error(), "")
	errClean = strings.ReplaceAll(errClean, " ", "_")
	errClean = strings.ReplaceAll(errClean, "__", "_")
	return errClean
}

func RecordError(error string) {
	errorsTotal.WithLabelValues(error).Inc()
}

// RecordErrorDetails concats the error message to the label
// and also tries to clean the label to be a valid Prometheus label
func RecordErrorDetails(label string, err error) {
	if err == nil {
		return
	}
	RecordError(label + "." + errToLabel(err))
}

func RecordRun(runID string, exitCode int, duration time.Duration) {
	runsTotal.WithLabelValues(runID).Inc()
	suiteExitCode.WithLabelValues(runID).Set(float64(exitCode))
	suiteDuration.WithLabelValues(runID).Set(duration.Seconds())
}

func RecordPollAttempts(runID string, attempts int) {
	pollAttempts.WithLabelValues(runID).Set(float64(attempts))
}

func RecordReport(runID string, passed, attempted, causes int) {
	testsPassed.WithLabelValues(runID).Set(float64(passed))
	testsAttempted.WithLabelValues(runID).Set(float64(attempted))
	distinctCauses.WithLabelValues(runID).Set(float64(causes))
}
