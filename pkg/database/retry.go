package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/richxcame/salon-safety/pkg/resilience"
)

// Postgres SQLSTATE codes worth retrying
var retryablePgCodes = map[string]struct{}{
	"40001": {}, // serialization_failure
	"40P01": {}, // deadlock_detected
	"55P03": {}, // lock_not_available
	"53000": {}, // insufficient_resources
	"53300": {}, // too_many_connections
	"53400": {}, // configuration_limit_exceeded
	"08000": {}, // connection_exception
	"08003": {}, // connection_does_not_exist
	"08006": {}, // connection_failure
	"57P01": {}, // admin_shutdown
	"57P02": {}, // crash_shutdown
	"57P03": {}, // cannot_connect_now
	"58000": {}, // system_error
	"XX000": {}, // internal_error
}

var retryableMessages = []string{
	"connection refused",
	"connection reset",
	"broken pipe",
	"no such host",
	"network is unreachable",
	"temporary failure",
	"timeout",
	"too many connections",
	"server closed",
	"unexpected eof",
}

func isPostgresRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		_, ok := retryablePgCodes[pgErr.Code]
		return ok
	}

	msg := strings.ToLower(err.Error())
	for _, fragment := range retryableMessages {
		if strings.Contains(msg, fragment) {
			return true
		}
	}
	return false
}

// RetryConfig returns a fetch retry policy that only retries transient Postgres failures
func RetryConfig(name string, attempts int) resilience.RetryConfig {
	cfg := resilience.FetchRetryConfig(name, attempts)
	cfg.RetryableChecker = isPostgresRetryable
	return cfg
}

// RetryableQuery runs a typed read query under the Postgres retry policy
func RetryableQuery[T any](ctx context.Context, cfg resilience.RetryConfig, op func(ctx context.Context) (T, error)) (T, error) {
	return RetryableQueryWithBreaker(ctx, cfg, nil, op)
}

// RetryableQueryWithBreaker is RetryableQuery with every attempt sent through breaker.
// An open breaker fails fast with resilience.ErrCircuitOpen. A nil breaker is ignored.
func RetryableQueryWithBreaker[T any](ctx context.Context, cfg resilience.RetryConfig, breaker *resilience.CircuitBreaker, op func(ctx context.Context) (T, error)) (T, error) {
	var zero T

	result, err := resilience.RetryWithBreaker(ctx, cfg, breaker, func(ctx context.Context) (interface{}, error) {
		return op(ctx)
	})
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%s: unexpected result type %T", cfg.Name, result)
	}
	return typed, nil
}
