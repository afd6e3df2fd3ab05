package gateway

import (
	"errors"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func waitForProcess(t *testing.T, s *Supervisor) *os.Process {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		s.mu.Lock()
		proc := s.proc
		s.mu.Unlock()
		if proc != nil {
			return proc
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("supervisor never recorded a process handle")
	return nil
}

func TestSupervisor_StartAndStop(t *testing.T) {
	s := NewSupervisor(testLogger(), "sleep", "60")
	s.Start()
	proc := waitForProcess(t, s)

	s.Stop()

	// The child is reaped by the supervisor goroutine after the kill.
	require.Eventually(t, func() bool {
		err := proc.Signal(syscall.Signal(0))
		if err == nil {
			return false
		}
		return errors.Is(err, os.ErrProcessDone) || err.Error() == "os: process already finished"
	}, 5*time.Second, 20*time.Millisecond)
}

func TestSupervisor_StopWithoutStart(t *testing.T) {
	s := NewSupervisor(testLogger(), "sleep", "60")
	s.Stop()
}

func TestSupervisor_StopIsIdempotent(t *testing.T) {
	s := NewSupervisor(testLogger(), "sleep", "60")
	s.Start()
	waitForProcess(t, s)
	s.Stop()
	s.Stop()
}

func TestSupervisor_FailedLaunchIsNonFatal(t *testing.T) {
	s := NewSupervisor(testLogger(), "definitely-not-a-binary-on-path")
	s.Start()

	// The launch fails in the background; Stop must still be safe.
	time.Sleep(100 * time.Millisecond)
	s.Stop()
}
