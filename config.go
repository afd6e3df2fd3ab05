package conformance

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/urfave/cli/v2"
	"gopkg.in/yaml.v3"

	"github.com/KI-labs/pachyderm/flags"
)

// Defaults matching the layout of a pachyderm checkout.
var (
	DefaultTestRoot     = filepath.Join("etc", "testing", "s3gateway")
	DefaultRunsDir      = filepath.Join(DefaultTestRoot, "runs")
	DefaultSuiteWorkDir = filepath.Join(DefaultTestRoot, "s3-tests")
	DefaultSuiteBinary  = filepath.Join("virtualenv", "bin", "nosetests")
	DefaultSuiteConf    = filepath.Join("..", "s3gateway.conf")
)

// Config holds the harness configuration
type Config struct {
	Pachctl      string        // Path to the pachctl binary
	GatewayArgs  []string      // pachctl subcommand that starts the gateway
	GatewayAddr  string        // host:port the gateway listens on
	PollAttempts int           // Maximum readiness poll attempts
	PollInterval time.Duration // Delay between poll attempts
	SuiteBinary  string        // Path to the nosetests binary
	SuiteWorkDir string        // Working directory for the suite
	SuiteConf    string        // Value for S3TEST_CONF, relative to SuiteWorkDir
	RunsDir      string        // Directory run logs are persisted under
	NoRun        bool          // Skip the execute phase
	NoPersist    bool          // Stream suite output live; skip reporting
	NoseArgs     string        // Opaque extra arguments for nosetests
	S3Probe      bool          // Verify readiness with a ListBuckets call
	MetricsAddr  string        // Address for the metrics server; empty disables it
	Log          *slog.Logger
}

// fileConfig is the YAML shape of the optional harness config file.
type fileConfig struct {
	Pachctl string `yaml:"pachctl"`
	Gateway struct {
		Addr string   `yaml:"addr"`
		Args []string `yaml:"args"`
	} `yaml:"gateway"`
	Suite struct {
		Binary  string `yaml:"binary"`
		WorkDir string `yaml:"workdir"`
		Conf    string `yaml:"conf"`
	} `yaml:"suite"`
	RunsDir string `yaml:"runs_dir"`
}

// NewConfig creates a new Config from cli context, applying the optional
// YAML harness config file on top of the defaults, then the CLI flags on
// top of that.
func NewConfig(ctx *cli.Context, log *slog.Logger) (*Config, error) {
	if err := flags.CheckRequired(ctx); err != nil {
		return nil, fmt.Errorf("missing required flags: %w", err)
	}

	cfg := &Config{
		Pachctl:      "pachctl",
		GatewayArgs:  []string{"s3gateway", "-v"},
		GatewayAddr:  ctx.String(flags.GatewayAddr.Name),
		PollAttempts: ctx.Int(flags.PollAttempts.Name),
		PollInterval: ctx.Duration(flags.PollInterval.Name),
		SuiteBinary:  DefaultSuiteBinary,
		SuiteWorkDir: DefaultSuiteWorkDir,
		SuiteConf:    DefaultSuiteConf,
		RunsDir:      DefaultRunsDir,
		NoRun:        ctx.Bool(flags.NoRun.Name),
		NoPersist:    ctx.Bool(flags.NoPersist.Name),
		NoseArgs:     ctx.String(flags.NoseArgs.Name),
		S3Probe:      ctx.Bool(flags.S3Probe.Name),
		MetricsAddr:  ctx.String(flags.MetricsAddr.Name),
		Log:          log,
	}

	if path := ctx.String(flags.HarnessConfig.Name); path != "" {
		if err := cfg.applyFile(path); err != nil {
			return nil, err
		}
	}

	// The flag wins over the config file when set explicitly.
	if ctx.IsSet(flags.RunsDir.Name) {
		cfg.RunsDir = ctx.String(flags.RunsDir.Name)
	}

	if cfg.PollAttempts <= 0 {
		return nil, fmt.Errorf("poll attempts must be positive, got %d", cfg.PollAttempts)
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}

	return cfg, nil
}

func (c *Config) applyFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read harness config %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("failed to parse harness config %s: %w", path, err)
	}

	if fc.Pachctl != "" {
		c.Pachctl = fc.Pachctl
	}
	if fc.Gateway.Addr != "" {
		c.GatewayAddr = fc.Gateway.Addr
	}
	if len(fc.Gateway.Args) > 0 {
		c.GatewayArgs = fc.Gateway.Args
	}
	if fc.Suite.Binary != "" {
		c.SuiteBinary = fc.Suite.Binary
	}
	if fc.Suite.WorkDir != "" {
		c.SuiteWorkDir = fc.Suite.WorkDir
	}
	if fc.Suite.Conf != "" {
		c.SuiteConf = fc.Suite.Conf
	}
	if fc.RunsDir != "" {
		c.RunsDir = fc.RunsDir
	}
	return nil
}
