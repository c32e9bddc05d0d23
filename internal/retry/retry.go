package retry

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"
)

// Do runs op until it succeeds or maxAttempts attempts have been made.
// The delay before the next attempt is base multiplied by the number of the
// attempt that just failed, so with a 10s base the waits are 10s, 20s, 30s.
// A canceled context aborts the chain between attempts and returns ctx.Err().
func Do(ctx context.Context, name string, maxAttempts int, base time.Duration, op func(attempt int) error) error {
	for attempt := 1; ; attempt++ {
		err := op(attempt)
		if err == nil {
			return nil
		}

		if attempt >= maxAttempts {
			log.Errorf("%s: giving up after %d attempts: %v", name, attempt, err)
			return fmt.Errorf("%s failed after %d attempts: %w", name, attempt, err)
		}

		delay := time.Duration(attempt) * base
		log.Warnf("%s: attempt %d failed: %v; retrying in %s", name, attempt, err, delay)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			log.Warnf("%s: retry interrupted", name)
			return ctx.Err()
		case <-timer.C:
		}
	}
}
