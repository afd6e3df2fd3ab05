package gateway

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ErrNeverReady is returned when the gateway did not answer HTTP 200
// within the allowed number of poll attempts.
var ErrNeverReady = errors.New("s3gateway did not start")

var errNotReady = errors.New("s3gateway not ready")

// WaitReady polls http://addr/ until it answers 200, retrying up to
// attempts times with a fixed interval between attempts. Connection
// refusal and non-200 answers count as failed attempts; any other error
// aborts immediately. Each attempt uses a fresh connection. The number
// of attempts made is returned either way.
func WaitReady(log *slog.Logger, addr string, attempts int, interval time.Duration) (int, error) {
	client := &http.Client{
		Transport: &http.Transport{DisableKeepAlives: true},
	}
	url := fmt.Sprintf("http://%s/", addr)

	attempt := 0
	operation := func() error {
		attempt++

		resp, err := client.Get(url)
		if err != nil {
			if errors.Is(err, syscall.ECONNREFUSED) {
				log.Info("Waiting for s3gateway...", "attempt", attempt, "max", attempts)
				return errNotReady
			}
			// Anything other than a refused connection is fatal.
			return backoff.Permanent(err)
		}
		resp.Body.Close()

		if resp.StatusCode == http.StatusOK {
			log.Debug("s3gateway is ready", "attempt", attempt)
			return nil
		}
		log.Info("Waiting for s3gateway...", "attempt", attempt, "max", attempts, "status", resp.StatusCode)
		return errNotReady
	}

	bo := backoff.WithMaxRetries(backoff.NewConstantBackOff(interval), uint64(attempts-1))
	err := backoff.Retry(operation, bo)
	if err == nil {
		return attempt, nil
	}
	if errors.Is(err, errNotReady) {
		return attempt, fmt.Errorf("%w after %d attempts", ErrNeverReady, attempts)
	}
	return attempt, err
}
