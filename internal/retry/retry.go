package retry

import (
	"context"
	"time"

	"github.com/trimspace/backend/internal/apperrors"
	"go.uber.org/zap"
)

// Observer receives the classified outcome of every attempt. The connectivity
// monitor implements it to track backend reachability.
type Observer interface {
	Observe(err error)
	ObserveSuccess()
}

const (
	DefaultMaxAttempts    = 3
	DefaultBaseDelay      = time.Second
	DefaultAttemptTimeout = 10 * time.Second
)

// Executor wraps backend operations with bounded retry and linear backoff.
// Only connectivity-class errors are retried; everything else propagates on
// first occurrence. Every call starts a fresh attempt budget.
type Executor struct {
	maxAttempts    int
	baseDelay      time.Duration
	attemptTimeout time.Duration
	observer       Observer
	logger         *zap.Logger
}

// NewExecutor creates an Executor. observer may be nil. Non-positive
// maxAttempts/baseDelay fall back to the defaults; attemptTimeout <= 0
// disables the per-attempt deadline.
func NewExecutor(maxAttempts int, baseDelay, attemptTimeout time.Duration, observer Observer, logger *zap.Logger) *Executor {
	if maxAttempts <= 0 {
		maxAttempts = DefaultMaxAttempts
	}
	if baseDelay <= 0 {
		baseDelay = DefaultBaseDelay
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Executor{
		maxAttempts:    maxAttempts,
		baseDelay:      baseDelay,
		attemptTimeout: attemptTimeout,
		observer:       observer,
		logger:         logger,
	}
}

// Do runs op up to the attempt budget. After a retryable failure it waits
// baseDelay * attemptNumber (linear, no jitter) before the next attempt.
// Terminal errors and exhausted budgets return the last error unchanged.
func (e *Executor) Do(ctx context.Context, op func(ctx context.Context) error) error {
	var lastErr error
	for attempt := 1; attempt <= e.maxAttempts; attempt++ {
		lastErr = e.runAttempt(ctx, op)
		if lastErr == nil {
			if e.observer != nil {
				e.observer.ObserveSuccess()
			}
			return nil
		}
		if e.observer != nil {
			e.observer.Observe(lastErr)
		}
		if !apperrors.IsRetryable(lastErr) {
			return lastErr
		}
		if attempt == e.maxAttempts {
			break
		}
		delay := e.baseDelay * time.Duration(attempt)
		e.logger.Warn("retryable backend failure, backing off",
			zap.Int("attempt", attempt),
			zap.Duration("delay", delay),
			zap.Error(lastErr))
		if err := sleep(ctx, delay); err != nil {
			return apperrors.Wrap("retry.wait", err)
		}
	}
	return lastErr
}

func (e *Executor) runAttempt(ctx context.Context, op func(ctx context.Context) error) error {
	if e.attemptTimeout > 0 {
		actx, cancel := context.WithTimeout(ctx, e.attemptTimeout)
		defer cancel()
		return op(actx)
	}
	return op(ctx)
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
