package database

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/richxcame/salon-safety/pkg/resilience"
)

func TestResolveQueryTimeout(t *testing.T) {
	tests := []struct {
		name     string
		input    time.Duration
		expected time.Duration
	}{
		{name: "zero uses default", input: 0, expected: DefaultQueryTimeout},
		{name: "negative uses default", input: -time.Second, expected: DefaultQueryTimeout},
		{name: "positive value", input: 30 * time.Second, expected: 30 * time.Second},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, resolveQueryTimeout(tc.input))
		})
	}
}

func TestWithQueryTimeout_SetsDeadline(t *testing.T) {
	ctx, cancel := WithQueryTimeout(context.Background(), 0)
	defer cancel()

	deadline, ok := ctx.Deadline()
	require.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(DefaultQueryTimeout), deadline, time.Second)
}

// ============== Postgres Retryable Error Tests ==============

func TestIsPostgresRetryable_ContextErrors(t *testing.T) {
	assert.False(t, isPostgresRetryable(nil))
	assert.False(t, isPostgresRetryable(context.Canceled))
	assert.False(t, isPostgresRetryable(context.DeadlineExceeded))
	assert.False(t, isPostgresRetryable(fmt.Errorf("query: %w", context.DeadlineExceeded)))
}

func TestPgErrorCodes_AllRetryableCodes(t *testing.T) {
	for code := range retryablePgCodes {
		err := &pgconn.PgError{Code: code}
		assert.True(t, isPostgresRetryable(err), "code %s should be retryable", code)
		assert.True(t, isPostgresRetryable(fmt.Errorf("wrapped: %w", err)), "wrapped code %s should be retryable", code)
	}
}

func TestPgErrorCodes_AllNonRetryableCodes(t *testing.T) {
	nonRetryableCodes := []string{
		"53100", // disk_full
		"53200", // out_of_memory
		"23505", // unique_violation
		"22003", // numeric_value_out_of_range
		"42601", // syntax_error
		"42P01", // undefined_table
	}

	for _, code := range nonRetryableCodes {
		err := &pgconn.PgError{Code: code}
		assert.False(t, isPostgresRetryable(err), "code %s should NOT be retryable", code)
	}
}

func TestConnectionErrorMessages(t *testing.T) {
	for _, msg := range retryableMessages {
		assert.True(t, isPostgresRetryable(errors.New(msg)), "message %q should be retryable", msg)
		assert.True(t, isPostgresRetryable(errors.New(strings.ToUpper(msg))), "message %q should be retryable", strings.ToUpper(msg))
	}

	assert.False(t, isPostgresRetryable(errors.New("permission denied for view")))
}

// ============== RetryableQuery Tests ==============

func TestRetryableQuery_RetriesTransientErrors(t *testing.T) {
	cfg := RetryConfig("appointments", 3)
	cfg.InitialBackoff = time.Millisecond
	attempts := 0

	rows, err := RetryableQuery(context.Background(), cfg, func(ctx context.Context) ([]string, error) {
		attempts++
		if attempts < 3 {
			return nil, &pgconn.PgError{Code: "40001"}
		}
		return []string{"a", "b"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, rows)
	assert.Equal(t, 3, attempts)
}

func TestRetryableQuery_DoesNotRetryPermanentErrors(t *testing.T) {
	cfg := RetryConfig("appointments", 3)
	attempts := 0

	rows, err := RetryableQuery(context.Background(), cfg, func(ctx context.Context) ([]string, error) {
		attempts++
		return nil, &pgconn.PgError{Code: "42P01"}
	})

	assert.Error(t, err)
	assert.Nil(t, rows)
	assert.Equal(t, 1, attempts)
}

func TestRetryableQuery_NilSliceResult(t *testing.T) {
	rows, err := RetryableQuery(context.Background(), RetryConfig("empty", 1), func(ctx context.Context) ([]string, error) {
		return nil, nil
	})

	require.NoError(t, err)
	assert.Nil(t, rows)
}

func TestRetryableQueryWithBreaker_OpensAndFailsFast(t *testing.T) {
	cfg := RetryConfig("appointments", 3)
	cfg.InitialBackoff = time.Millisecond
	breaker := resilience.NewCircuitBreaker(resilience.Settings{
		Name:             "test-appointments",
		Timeout:          time.Minute,
		FailureThreshold: 2,
	}, nil)
	attempts := 0

	query := func(ctx context.Context) ([]string, error) {
		attempts++
		return nil, &pgconn.PgError{Code: "57P01"}
	}

	_, err := RetryableQueryWithBreaker(context.Background(), cfg, breaker, query)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Equal(t, 2, attempts)

	rows, err := RetryableQueryWithBreaker(context.Background(), cfg, breaker, query)
	assert.ErrorIs(t, err, resilience.ErrCircuitOpen)
	assert.Nil(t, rows)
	assert.Equal(t, 2, attempts, "open breaker must not reach the database")
}

func TestRetryableQueryWithBreaker_PassesResults(t *testing.T) {
	breaker := resilience.NewCircuitBreaker(resilience.Settings{Name: "test-pass"}, nil)

	rows, err := RetryableQueryWithBreaker(context.Background(), RetryConfig("pass", 1), breaker, func(ctx context.Context) ([]string, error) {
		return []string{"a"}, nil
	})

	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, rows)

	rows, err = RetryableQueryWithBreaker(context.Background(), RetryConfig("nil-breaker", 1), nil, func(ctx context.Context) ([]string, error) {
		return []string{"b"}, nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"b"}, rows)
}
