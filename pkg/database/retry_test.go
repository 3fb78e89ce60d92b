package database

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRetryBackoff_WithinJitterBounds(t *testing.T) {
	for attempt := 0; attempt < 3; attempt++ {
		base := defaultRetryBaseWait << attempt
		lo := time.Duration(float64(base) * (1 - retryJitterFraction))
		hi := time.Duration(float64(base) * (1 + retryJitterFraction))

		for i := 0; i < 20; i++ {
			d := retryBackoff(attempt)
			assert.GreaterOrEqual(t, d, lo)
			assert.LessOrEqual(t, d, hi)
		}
	}
}

func TestIsTransientError(t *testing.T) {
	assert.False(t, isTransientError(nil))
	assert.True(t, isTransientError(errors.New("database is locked (5) (SQLITE_BUSY)")))
	assert.True(t, isTransientError(errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")))
	assert.False(t, isTransientError(errors.New("SQL logic error: no such table: identity")))
	assert.False(t, isTransientError(errors.New("UNIQUE constraint failed")))
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), nil, "op", func() error {
		calls++
		return errors.New("no such table")
	})

	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestWithRetry_RecoversFromTransientError(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), nil, "op", func() error {
		calls++
		if calls == 1 {
			return errors.New("database is locked")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestWithRetry_ContextCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, nil, "op", func() error { return errors.New("connection refused") })
	assert.ErrorIs(t, err, context.Canceled)
}
