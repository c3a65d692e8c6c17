package utils

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errFlaky = errors.New("flaky")

func TestRetrySucceedsAfterFailures(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 3, BaseDelay: time.Millisecond, Logger: NewTestLogger(io.Discard)}

	calls := 0
	err := r.Do(context.Background(), "op", func() error {
		calls++
		if calls < 3 {
			return errFlaky
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryGivesUp(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, Logger: NewTestLogger(io.Discard)}

	calls := 0
	err := r.Do(context.Background(), "op", func() error {
		calls++
		return errFlaky
	})

	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 2, calls)
	assert.Contains(t, err.Error(), "failed after 2 attempts")
}

func TestRetrySkipsPermanentErrors(t *testing.T) {
	r := &RetryConfig{
		MaxAttempts: 5,
		BaseDelay:   time.Millisecond,
		Retryable:   func(err error) bool { return !errors.Is(err, errFlaky) },
	}

	calls := 0
	err := r.Do(context.Background(), "op", func() error {
		calls++
		return errFlaky
	})

	require.ErrorIs(t, err, errFlaky)
	assert.Equal(t, 1, calls)
}

func TestRetrySingleAttemptReturnsRawError(t *testing.T) {
	r := &RetryConfig{MaxAttempts: 0}

	err := r.Do(context.Background(), "op", func() error { return errFlaky })
	assert.Equal(t, errFlaky, err)
}
