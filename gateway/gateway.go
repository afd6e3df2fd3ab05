// Package gateway supervises the s3gateway child process and decides when
// it is ready to accept conformance traffic.
package gateway

import (
	"log/slog"
	"os"
	"os/exec"
	"sync"
)

// Supervisor manages one gateway process as a scoped resource: Start
// launches it on a background goroutine so the caller can proceed to
// polling, and Stop kills it on every exit path. There is no
// restart-on-crash; if the gateway dies, polling times out.
type Supervisor struct {
	log    *slog.Logger
	binary string
	args   []string

	mu   sync.Mutex
	proc *os.Process
}

// NewSupervisor creates a supervisor for `binary args...`.
func NewSupervisor(log *slog.Logger, binary string, args ...string) *Supervisor {
	return &Supervisor{
		log:    log,
		binary: binary,
		args:   args,
	}
}

// Start launches the gateway in the background and returns immediately.
// A failed launch is only logged; the readiness poller is the arbiter of
// whether the gateway came up.
func (s *Supervisor) Start() {
	go func() {
		cmd := exec.Command(s.binary, s.args...)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr

		if err := cmd.Start(); err != nil {
			s.log.Error("failed to start s3gateway", "binary", s.binary, "err", err)
			return
		}
		s.log.Debug("s3gateway started", "pid", cmd.Process.Pid)

		s.mu.Lock()
		s.proc = cmd.Process
		s.mu.Unlock()

		// Reap the child so a crashed gateway doesn't linger as a zombie
		// while the poller times out.
		_ = cmd.Wait()
	}()
}

// Stop kills the gateway if it was started. Safe to call when the launch
// never happened or already failed.
func (s *Supervisor) Stop() {
	s.mu.Lock()
	proc := s.proc
	s.proc = nil
	s.mu.Unlock()

	if proc == nil {
		return
	}
	if err := proc.Kill(); err != nil {
		s.log.Warn("failed to kill s3gateway", "pid", proc.Pid, "err", err)
		return
	}
	s.log.Debug("s3gateway killed", "pid", proc.Pid)
}
