package resilience

import (
	"context"

	"github.com/richxcame/salon-safety/pkg/logger"
	"go.uber.org/zap"
)

// FallbackFunc produces a replacement result when an operation fails.
type FallbackFunc func(ctx context.Context, err error) (interface{}, error)

// NoopFallback propagates the operation error unchanged.
func NoopFallback(ctx context.Context, err error) (interface{}, error) {
	return nil, err
}

// StaticFallback returns a fixed default value when the operation fails.
// Use this when a sensible default exists (e.g., empty list, zero value).
func StaticFallback(defaultValue interface{}) FallbackFunc {
	return func(ctx context.Context, err error) (interface{}, error) {
		logger.WithContext(ctx).Warn("operation failed, returning static fallback",
			zap.Error(err),
		)
		return defaultValue, nil
	}
}

// RetryWithFallback retries op and hands the final error to fallback.
// A nil fallback behaves like NoopFallback.
func RetryWithFallback(ctx context.Context, config RetryConfig, op Operation, fallback FallbackFunc) (interface{}, error) {
	result, err := Retry(ctx, config, op)
	if err == nil {
		return result, nil
	}
	if fallback == nil {
		return nil, err
	}

	name := config.Name
	if name == "" {
		name = "default"
	}
	recordFallback(name)
	return fallback(ctx, err)
}
