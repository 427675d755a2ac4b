package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/trimspace/backend/internal/apperrors"
)

type recordingObserver struct {
	failures  int
	successes int
}

func (o *recordingObserver) Observe(err error) { o.failures++ }
func (o *recordingObserver) ObserveSuccess()   { o.successes++ }

func connectivityErr() error {
	return apperrors.E(apperrors.KindConnectivity, "ledger.mutate", errors.New("connection refused"))
}

func newTestExecutor(obs Observer) *Executor {
	return NewExecutor(3, time.Millisecond, 0, obs, nil)
}

func TestDo_SuccessFirstAttempt(t *testing.T) {
	obs := &recordingObserver{}
	attempts := 0
	err := newTestExecutor(obs).Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, attempts)
	assert.Equal(t, 1, obs.successes)
	assert.Equal(t, 0, obs.failures)
}

func TestDo_TerminalErrorNotRetried(t *testing.T) {
	terminal := apperrors.Validationf("ledger.toggle", "missing post id")
	attempts := 0
	err := newTestExecutor(nil).Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return terminal
	})
	assert.Equal(t, terminal, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_UnknownErrorNotRetried(t *testing.T) {
	attempts := 0
	err := newTestExecutor(nil).Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return errors.New("schema violation")
	})
	require.Error(t, err)
	assert.Equal(t, 1, attempts)
}

func TestDo_RetryableExhaustsBudget(t *testing.T) {
	obs := &recordingObserver{}
	attempts := 0
	err := newTestExecutor(obs).Do(context.Background(), func(ctx context.Context) error {
		attempts++
		return connectivityErr()
	})
	require.Error(t, err)
	assert.Equal(t, apperrors.KindConnectivity, apperrors.KindOf(err))
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 3, obs.failures)
	assert.Equal(t, 0, obs.successes)
}

func TestDo_RetryableThenSuccess(t *testing.T) {
	obs := &recordingObserver{}
	attempts := 0
	err := newTestExecutor(obs).Do(context.Background(), func(ctx context.Context) error {
		attempts++
		if attempts < 3 {
			return connectivityErr()
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, attempts)
	assert.Equal(t, 2, obs.failures)
	assert.Equal(t, 1, obs.successes)
}

func TestDo_FreshBudgetPerCall(t *testing.T) {
	exec := newTestExecutor(nil)
	for call := 0; call < 2; call++ {
		attempts := 0
		err := exec.Do(context.Background(), func(ctx context.Context) error {
			attempts++
			return connectivityErr()
		})
		require.Error(t, err)
		assert.Equal(t, 3, attempts)
	}
}

func TestDo_ContextCancelledDuringBackoff(t *testing.T) {
	exec := NewExecutor(3, time.Hour, 0, nil, nil)
	ctx, cancel := context.WithCancel(context.Background())
	attempts := 0
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()
	err := exec.Do(ctx, func(ctx context.Context) error {
		attempts++
		return connectivityErr()
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	assert.Equal(t, 1, attempts)
}

func TestDo_AttemptTimeoutAppliesDeadline(t *testing.T) {
	exec := NewExecutor(1, time.Millisecond, 5*time.Millisecond, nil, nil)
	err := exec.Do(context.Background(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(time.Second):
			return nil
		}
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.DeadlineExceeded))
}
