package usecase

import (
	"context"
	"math/rand"
	"time"

	"go.uber.org/zap"

	apperrors "agrolink/internal/errors"
	"agrolink/internal/infrastructure/mysql"
)

// Wait before each retry: 100ms after the first failure, 200ms after later ones.
var backoffs = []time.Duration{0, 100 * time.Millisecond, 200 * time.Millisecond}

type retrier struct {
	maxAttempts int
	logger      *zap.Logger
	sleep       func(context.Context, time.Duration) error
}

func newRetrier(maxAttempts int, logger *zap.Logger) retrier {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	return retrier{maxAttempts: maxAttempts, logger: logger, sleep: sleepCtx}
}

// do runs fn until it succeeds, fails with a non-retryable error, or the
// attempts run out. Deadlocks exhaust into DeadlockError, lock-wait timeouts
// into TimeoutError.
func (r retrier) do(ctx context.Context, op string, fn func() error) error {
	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}

		deadlock := mysql.IsDeadlock(err)
		lockWait := mysql.IsLockWaitTimeout(err)
		if !deadlock && !lockWait {
			return err
		}
		lastErr = err

		if attempt == r.maxAttempts {
			break
		}

		base := backoffs[min(attempt, len(backoffs)-1)]
		// jitter: ±20% of backoff base
		jitter := time.Duration(float64(base) * (rand.Float64()*0.4 - 0.2))
		r.logger.Warn("transient lock conflict, retrying",
			zap.String("operation", op),
			zap.Bool("deadlock", deadlock),
			zap.Int("attempt", attempt),
			zap.Int("maxAttempts", r.maxAttempts),
		)
		if err := r.sleep(ctx, base+jitter); err != nil {
			return apperrors.NewTimeoutError(op+" cancelled while retrying", err)
		}
	}

	if mysql.IsLockWaitTimeout(lastErr) {
		return apperrors.NewTimeoutError(op+": lock wait timeout, max retries exceeded", lastErr)
	}
	return apperrors.NewDeadlockError("max retries exceeded")
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
