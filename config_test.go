package conformance

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/KI-labs/pachyderm/flags"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func buildConfig(t *testing.T, args ...string) (*Config, error) {
	t.Helper()

	var cfg *Config
	var cfgErr error

	app := cli.NewApp()
	app.Flags = flags.Flags
	app.Action = func(ctx *cli.Context) error {
		cfg, cfgErr = NewConfig(ctx, testLogger())
		return nil
	}
	require.NoError(t, app.Run(append([]string{"s3gateway-conformance"}, args...)))
	return cfg, cfgErr
}

func TestNewConfig_Defaults(t *testing.T) {
	cfg, err := buildConfig(t)
	require.NoError(t, err)

	assert.Equal(t, "pachctl", cfg.Pachctl)
	assert.Equal(t, []string{"s3gateway", "-v"}, cfg.GatewayArgs)
	assert.Equal(t, "localhost:30600", cfg.GatewayAddr)
	assert.Equal(t, 10, cfg.PollAttempts)
	assert.Equal(t, time.Second, cfg.PollInterval)
	assert.Equal(t, DefaultSuiteBinary, cfg.SuiteBinary)
	assert.Equal(t, DefaultSuiteWorkDir, cfg.SuiteWorkDir)
	assert.Equal(t, DefaultSuiteConf, cfg.SuiteConf)
	assert.Equal(t, DefaultRunsDir, cfg.RunsDir)
	assert.False(t, cfg.NoRun)
	assert.False(t, cfg.NoPersist)
	assert.Empty(t, cfg.NoseArgs)
	assert.False(t, cfg.S3Probe)
	assert.Empty(t, cfg.MetricsAddr)
}

func TestNewConfig_Flags(t *testing.T) {
	cfg, err := buildConfig(t,
		"--no-run",
		"--no-persist",
		"--nose-args", "-a '!fails_on_s3gateway'",
		"--gateway-addr", "localhost:31600",
		"--poll-attempts", "5",
		"--poll-interval", "250ms",
		"--s3-probe",
		"--metrics-addr", "127.0.0.1:7300",
	)
	require.NoError(t, err)

	assert.True(t, cfg.NoRun)
	assert.True(t, cfg.NoPersist)
	assert.Equal(t, "-a '!fails_on_s3gateway'", cfg.NoseArgs)
	assert.Equal(t, "localhost:31600", cfg.GatewayAddr)
	assert.Equal(t, 5, cfg.PollAttempts)
	assert.Equal(t, 250*time.Millisecond, cfg.PollInterval)
	assert.True(t, cfg.S3Probe)
	assert.Equal(t, "127.0.0.1:7300", cfg.MetricsAddr)
}

func TestNewConfig_HarnessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conformance.yaml")
	content := `
pachctl: /opt/pachyderm/bin/pachctl
gateway:
  addr: localhost:31600
  args: [s3gateway]
suite:
  binary: /opt/nose/bin/nosetests
  workdir: /srv/s3-tests
  conf: /srv/s3gateway.conf
runs_dir: /var/log/conformance-runs
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := buildConfig(t, "--config", path)
	require.NoError(t, err)

	assert.Equal(t, "/opt/pachyderm/bin/pachctl", cfg.Pachctl)
	assert.Equal(t, "localhost:31600", cfg.GatewayAddr)
	assert.Equal(t, []string{"s3gateway"}, cfg.GatewayArgs)
	assert.Equal(t, "/opt/nose/bin/nosetests", cfg.SuiteBinary)
	assert.Equal(t, "/srv/s3-tests", cfg.SuiteWorkDir)
	assert.Equal(t, "/srv/s3gateway.conf", cfg.SuiteConf)
	assert.Equal(t, "/var/log/conformance-runs", cfg.RunsDir)
}

func TestNewConfig_RunsDirFlagWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conformance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("runs_dir: /from/file\n"), 0o644))

	cfg, err := buildConfig(t, "--config", path, "--runs-dir", "/from/flag")
	require.NoError(t, err)
	assert.Equal(t, "/from/flag", cfg.RunsDir)
}

func TestNewConfig_MissingHarnessFile(t *testing.T) {
	_, err := buildConfig(t, "--config", filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestNewConfig_MalformedHarnessFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conformance.yaml")
	require.NoError(t, os.WriteFile(path, []byte("pachctl: [unclosed\n"), 0o644))

	_, err := buildConfig(t, "--config", path)
	require.Error(t, err)
}

func TestNewConfig_InvalidPollSettings(t *testing.T) {
	_, err := buildConfig(t, "--poll-attempts", "0")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll attempts")

	_, err = buildConfig(t, "--poll-interval", "0s")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "poll interval")
}
