package health

import (
	"context"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

type stubPinger struct {
	err error
}

func (s stubPinger) Ping(ctx context.Context) error {
	return s.err
}

func TestDatabaseChecker(t *testing.T) {
	ctx := context.Background()

	assert.EqualError(t, DatabaseChecker(nil)(ctx), "database connection is nil")
	assert.NoError(t, DatabaseChecker(stubPinger{})(ctx))
	assert.EqualError(t, DatabaseChecker(stubPinger{err: errors.New("refused")})(ctx), "refused")
}

func TestRedisChecker(t *testing.T) {
	ctx := context.Background()
	assert.EqualError(t, RedisChecker(nil)(ctx), "redis client is nil")

	db, mock := redismock.NewClientMock()
	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, RedisChecker(db)(ctx))

	mock.ExpectPing().SetErr(errors.New("connection reset"))
	assert.EqualError(t, RedisChecker(db)(ctx), "connection reset")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestNATSChecker_NilConnection(t *testing.T) {
	assert.EqualError(t, NATSChecker(nil)(context.Background()), "nats connection is nil")
}
