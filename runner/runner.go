// Package runner resets the target system and invokes the external
// conformance test suite.
package runner

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
)

// Suite describes one invocation of the external conformance suite.
type Suite struct {
	Binary   string // Path to the nosetests binary
	WorkDir  string // Directory the suite runs from
	Conf     string // Value for S3TEST_CONF, resolved relative to WorkDir
	NoseArgs string // Opaque extra arguments, forwarded as a single token
	Log      *slog.Logger
}

// Run invokes the suite synchronously, streaming its stderr to out (the
// run log, or the parent stderr when persistence is off). It returns the
// suite's exit code; a non-zero suite exit is not an error here, only a
// failure to invoke the suite at all is.
func (s *Suite) Run(out io.Writer) (int, error) {
	args := s.buildArgs()
	env := s.buildEnv()

	s.Log.Info("Running conformance suite",
		"binary", s.Binary,
		"workdir", s.WorkDir,
		"noseArgs", s.NoseArgs)

	cmd := exec.Command(s.Binary, args...)
	cmd.Dir = s.WorkDir
	cmd.Env = env
	cmd.Stdout = os.Stdout
	cmd.Stderr = out

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return exitErr.ExitCode(), nil
		}
		return 0, fmt.Errorf("failed to invoke conformance suite: %w", err)
	}
	return 0, nil
}

// buildArgs forwards the extra-args string as one token, matching how
// the suite has always been driven. The token is passed even when empty.
func (s *Suite) buildArgs() []string {
	return []string{s.NoseArgs}
}

// buildEnv inherits the parent environment and points the suite at its
// config file.
func (s *Suite) buildEnv() []string {
	return append(os.Environ(), "S3TEST_CONF="+s.Conf)
}
