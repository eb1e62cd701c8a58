package retry

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
)

// EventPolicy is used for delivering session events to the broker.
func EventPolicy(log *zap.Logger, attempts int) Policy {
	if attempts <= 0 {
		attempts = 3
	}
	return Policy{
		Name:     "session_events",
		Attempts: attempts,
		Backoff:  ExpoJitter{Base: 200 * time.Millisecond, Max: 5 * time.Second, Jitter: 0.2},
		Retryable: func(err error) bool {
			return err != nil && !errors.Is(err, context.Canceled)
		},
		OnAttempt: func(i int, err error) {
			if log != nil {
				log.Warn("event publish retry", zap.Int("attempt", i+1), zap.Error(err))
			}
		},
		OnExhaust: func(err error) {
			if log != nil && !errors.Is(err, context.Canceled) {
				log.Error("event publish retries exhausted", zap.Error(err))
			}
		},
	}
}
