package preflight

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConflicts(t *testing.T) {
	procs := []ProcessInfo{
		{PID: 1, Name: "systemd", Cmdline: "/sbin/init"},
		{PID: 100, Name: "pachctl", Cmdline: "pachctl s3gateway -v"},
		{PID: 200, Name: "bash", Cmdline: "bash -c pachctl delete-all"},
		{PID: 300, Name: "vim", Cmdline: "vim notes.txt"},
	}

	conflicts := Conflicts("pachctl", 999, procs)
	require.Len(t, conflicts, 2)
	assert.Equal(t, int32(100), conflicts[0].PID)
	assert.Equal(t, int32(200), conflicts[1].PID)
}

func TestConflicts_ExcludesSelf(t *testing.T) {
	procs := []ProcessInfo{
		{PID: 42, Name: "s3gateway-conformance", Cmdline: "s3gateway-conformance --nose-args pachctl"},
	}

	// The harness itself mentions the target on its command line; its own
	// PID must never count as a conflict.
	assert.Empty(t, Conflicts("pachctl", 42, procs))
	assert.Len(t, Conflicts("pachctl", 999, procs), 1)
}

func TestConflicts_NoMatches(t *testing.T) {
	procs := []ProcessInfo{
		{PID: 1, Name: "systemd", Cmdline: "/sbin/init"},
	}
	assert.Empty(t, Conflicts("pachctl", 999, procs))
}

func TestCheck_ConflictFound(t *testing.T) {
	lister := func() ([]ProcessInfo, error) {
		return []ProcessInfo{
			{PID: 100, Name: "pachctl", Cmdline: "pachctl s3gateway -v"},
		}, nil
	}

	err := Check("pachctl", lister)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "pachctl")
	assert.Contains(t, err.Error(), "pid 100")
	assert.Contains(t, err.Error(), "please kill it")
}

func TestCheck_NoConflict(t *testing.T) {
	lister := func() ([]ProcessInfo, error) {
		return []ProcessInfo{
			{PID: 1, Name: "systemd", Cmdline: "/sbin/init"},
		}, nil
	}
	require.NoError(t, Check("pachctl", lister))
}

func TestCheck_ListerError(t *testing.T) {
	boom := errors.New("proc table unavailable")
	lister := func() ([]ProcessInfo, error) { return nil, boom }

	err := Check("pachctl", lister)
	require.ErrorIs(t, err, boom)
}

func TestSystemLister(t *testing.T) {
	procs, err := SystemLister()
	require.NoError(t, err)
	assert.NotEmpty(t, procs)
}
