// Package conformance orchestrates one conformance pass against the
// s3gateway: preflight, state reset, gateway supervision, readiness
// polling, the suite run, and the report over persisted run logs.
package conformance

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/KI-labs/pachyderm/gateway"
	"github.com/KI-labs/pachyderm/logging"
	"github.com/KI-labs/pachyderm/metrics"
	"github.com/KI-labs/pachyderm/preflight"
	"github.com/KI-labs/pachyderm/runner"
)

// Harness runs the conformance phases in order. Control flow is strictly
// sequential; the only concurrency is the gateway supervisor's background
// goroutine.
type Harness struct {
	cfg   *Config
	runID string

	// injectable for tests
	processLister preflight.Lister
}

func New(cfg *Config) (*Harness, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}
	return &Harness{
		cfg:   cfg,
		runID: uuid.New().String(),
	}, nil
}

// Run executes preflight, then the test pass (unless --no-run), then the
// report (unless --no-persist). The gateway never outlives the test pass,
// whatever the exit path.
func (h *Harness) Run(ctx context.Context) error {
	log := h.cfg.Log.With("run_id", h.runID)

	if err := preflight.Check(h.cfg.Pachctl, h.processLister); err != nil {
		metrics.RecordErrorDetails("preflight", err)
		return NewFailureError(err.Error())
	}
	log.Debug("preflight passed", "target", h.cfg.Pachctl)

	if !h.cfg.NoRun {
		if err := h.testPass(ctx, log); err != nil {
			return err
		}
	}

	if !h.cfg.NoPersist {
		if err := h.report(log); err != nil {
			return err
		}
	}
	return nil
}

// testPass resets state, brings up the gateway for the duration of the
// suite run, and records the suite's exit code without propagating it.
func (h *Harness) testPass(ctx context.Context, log *slog.Logger) error {
	if err := runner.ResetState(log, h.cfg.Pachctl); err != nil {
		metrics.RecordErrorDetails("reset", err)
		return NewRuntimeError(err)
	}

	gw := gateway.NewSupervisor(log, h.cfg.Pachctl, h.cfg.GatewayArgs...)
	gw.Start()
	defer gw.Stop()

	attempts, err := gateway.WaitReady(log, h.cfg.GatewayAddr, h.cfg.PollAttempts, h.cfg.PollInterval)
	metrics.RecordPollAttempts(h.runID, attempts)
	if err != nil {
		metrics.RecordErrorDetails("readiness", err)
		if errors.Is(err, gateway.ErrNeverReady) {
			return NewRuntimeError(err)
		}
		return err
	}

	if h.cfg.S3Probe {
		if err := gateway.ProbeS3(ctx, log, h.cfg.GatewayAddr); err != nil {
			metrics.RecordErrorDetails("s3_probe", err)
			return NewRuntimeError(err)
		}
	}

	suite := &runner.Suite{
		Binary:   h.cfg.SuiteBinary,
		WorkDir:  h.cfg.SuiteWorkDir,
		Conf:     h.cfg.SuiteConf,
		NoseArgs: h.cfg.NoseArgs,
		Log:      log,
	}

	var out io.Writer = os.Stderr
	if !h.cfg.NoPersist {
		f, err := logging.NewRunLog(h.cfg.RunsDir, time.Now())
		if err != nil {
			return NewRuntimeError(err)
		}
		defer f.Close()
		log.Debug("persisting suite output", "path", f.Name())
		out = f
	}

	start := time.Now()
	code, err := suite.Run(out)
	if err != nil {
		metrics.RecordErrorDetails("suite", err)
		return NewRuntimeError(err)
	}
	metrics.RecordRun(h.runID, code, time.Since(start))

	fmt.Printf("Test run exited with %d\n", code)
	return nil
}
