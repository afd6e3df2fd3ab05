package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	conformance "github.com/KI-labs/pachyderm"
	"github.com/KI-labs/pachyderm/exitcodes"
	"github.com/KI-labs/pachyderm/flags"
	"github.com/KI-labs/pachyderm/logging"
	"github.com/KI-labs/pachyderm/service"
)

var (
	Version   = "v0.1.0"
	GitCommit = ""
	GitDate   = ""
)

func main() {
	app := cli.NewApp()
	app.Version = fmt.Sprintf("%s-%s-%s", Version, GitCommit, GitDate)
	app.Name = "s3gateway-conformance"
	app.Usage = "Runs conformance tests for the s3gateway"
	app.Flags = flags.Flags
	app.Action = run
	app.ExitErrHandler = func(c *cli.Context, err error) {
		var exitErr cli.ExitCoder
		if errors.As(err, &exitErr) {
			cli.HandleExitCoder(exitErr)
		} else if err != nil {
			if conformance.IsRuntimeError(err) {
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.RuntimeErr))
			} else {
				// Preflight conflicts and missing run logs land here.
				cli.HandleExitCoder(cli.Exit(err.Error(), exitcodes.Failure))
			}
		}
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitcodes.Failure)
	}
}

func run(ctx *cli.Context) error {
	log := logging.NewLogger(ctx.String(flags.LogLevel.Name))

	cfg, err := conformance.NewConfig(ctx, log)
	if err != nil {
		return conformance.NewRuntimeError(fmt.Errorf("failed to create config: %w", err))
	}

	if cfg.MetricsAddr != "" {
		svc := service.New(log)
		svc.Start(cfg.MetricsAddr)
		defer svc.Shutdown()
	}

	harness, err := conformance.New(cfg)
	if err != nil {
		return conformance.NewRuntimeError(fmt.Errorf("failed to create harness: %w", err))
	}

	return harness.Run(ctx.Context)
}
