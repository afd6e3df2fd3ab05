package flags

import (
	"fmt"
	"time"

	"github.com/urfave/cli/v2"
)

const EnvVarPrefix = "S3GW_CONFORMANCE"

func prefixEnvVars(name string) []string {
	return []string{EnvVarPrefix + "_" + name}
}

var (
	NoRun = &cli.BoolFlag{
		Name:    "no-run",
		Value:   false,
		EnvVars: prefixEnvVars("NO_RUN"),
		Usage:   "Disables the test run; report on existing run logs only",
	}
	NoPersist = &cli.BoolFlag{
		Name:    "no-persist",
		Value:   false,
		EnvVars: prefixEnvVars("NO_PERSIST"),
		Usage:   "Streams suite output live instead of writing a run log, and skips reporting",
	}
	NoseArgs = &cli.StringFlag{
		Name:    "nose-args",
		Value:   "",
		EnvVars: prefixEnvVars("NOSE_ARGS"),
		Usage:   "Arguments to be passed into `nosetests`",
	}
	HarnessConfig = &cli.StringFlag{
		Name:    "config",
		Value:   "",
		EnvVars: prefixEnvVars("CONFIG"),
		Usage:   "Path to an optional harness config file (eg. 'conformance.yaml')",
	}
	GatewayAddr = &cli.StringFlag{
		Name:    "gateway-addr",
		Value:   "localhost:30600",
		EnvVars: prefixEnvVars("GATEWAY_ADDR"),
		Usage:   "host:port the gateway listens on once initialized",
	}
	PollAttempts = &cli.IntFlag{
		Name:    "poll-attempts",
		Value:   10,
		EnvVars: prefixEnvVars("POLL_ATTEMPTS"),
		Usage:   "Maximum number of readiness poll attempts",
	}
	PollInterval = &cli.DurationFlag{
		Name:    "poll-interval",
		Value:   time.Second,
		EnvVars: prefixEnvVars("POLL_INTERVAL"),
		Usage:   "Delay between readiness poll attempts",
	}
	RunsDir = &cli.StringFlag{
		Name:    "runs-dir",
		Value:   "",
		EnvVars: prefixEnvVars("RUNS_DIR"),
		Usage:   "Directory run logs are written to (defaults to etc/testing/s3gateway/runs)",
	}
	S3Probe = &cli.BoolFlag{
		Name:    "s3-probe",
		Value:   false,
		EnvVars: prefixEnvVars("S3_PROBE"),
		Usage:   "After HTTP readiness, verify the gateway answers a ListBuckets call",
	}
	MetricsAddr = &cli.StringFlag{
		Name:    "metrics-addr",
		Value:   "",
		EnvVars: prefixEnvVars("METRICS_ADDR"),
		Usage:   "host:port to serve /metrics and /healthz on (disabled when empty)",
	}
	LogLevel = &cli.StringFlag{
		Name:    "log-level",
		Value:   "info",
		EnvVars: prefixEnvVars("LOG_LEVEL"),
		Usage:   "Log level (debug, info, warn, error)",
	}
)

var requiredFlags = []cli.Flag{}

var optionalFlags = []cli.Flag{
	NoRun,
	NoPersist,
	NoseArgs,
	HarnessConfig,
	GatewayAddr,
	PollAttempts,
	PollInterval,
	RunsDir,
	S3Probe,
	MetricsAddr,
	LogLevel,
}

var Flags []cli.Flag

func init() {
	Flags = append(requiredFlags, optionalFlags...)
}

func CheckRequired(ctx *cli.Context) error {
	for _, f := range requiredFlags {
		if !ctx.IsSet(f.Names()[0]) {
			return fmt.Errorf("flag %s is required", f.Names()[0])
		}
	}
	return nil
}
