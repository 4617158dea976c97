package health

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"github.com/richxcame/salon-safety/pkg/common"
)

// Pinger is satisfied by *pgxpool.Pool
type Pinger interface {
	Ping(ctx context.Context) error
}

// DatabaseChecker returns a health check function for PostgreSQL
func DatabaseChecker(db Pinger) common.HealthCheckFunc {
	return func(ctx context.Context) error {
		if db == nil {
			return errors.New("database connection is nil")
		}
		return db.Ping(ctx)
	}
}

// RedisChecker returns a health check function for Redis
func RedisChecker(client *redis.Client) common.HealthCheckFunc {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("redis client is nil")
		}
		return client.Ping(ctx).Err()
	}
}

// NATSChecker returns a health check function for the NATS connection
func NATSChecker(conn *nats.Conn) common.HealthCheckFunc {
	return func(ctx context.Context) error {
		if conn == nil {
			return errors.New("nats connection is nil")
		}
		if status := conn.Status(); status != nats.CONNECTED {
			return fmt.Errorf("nats connection status %s", status)
		}
		return nil
	}
}
