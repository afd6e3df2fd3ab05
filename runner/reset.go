package runner

import (
	"fmt"
	"log/slog"
	"os"
	"os/exec"
)

// yesStream yields "yes\n" forever, standing in for `yes |` so that
// delete-all's interactive prompts are always confirmed.
type yesStream struct{}

func (yesStream) Read(p []byte) (int, error) {
	const answer = "yes\n"
	n := 0
	for n < len(p) {
		n += copy(p[n:], answer)
	}
	return n, nil
}

// ResetState wipes the target system with `pachctl delete-all` so every
// run starts from a clean slate. A non-zero exit is an error; there are
// no retries.
func ResetState(log *slog.Logger, pachctl string) error {
	log.Info("Resetting state", "cmd", pachctl+" delete-all")

	cmd := exec.Command(pachctl, "delete-all")
	cmd.Stdin = yesStream{}
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	if err := cmd.Run(); err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			return fmt.Errorf("delete-all exited with bad exit code: %d", exitErr.ExitCode())
		}
		return fmt.Errorf("failed to run delete-all: %w", err)
	}
	return nil
}
