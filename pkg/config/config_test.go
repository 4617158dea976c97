package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("trust-safety")
	require.NoError(t, err)

	assert.Equal(t, "trust-safety", cfg.Server.ServiceName)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.Database.QueryTimeout)
	assert.Equal(t, time.Minute, cfg.Engine.SnapshotCacheTTL)
	assert.False(t, cfg.NATS.Enabled)
	assert.Equal(t, "localhost:6379", cfg.Redis.RedisAddr())
	assert.Equal(t, BreakerConfig{Enabled: true, IntervalSeconds: 60, TimeoutSeconds: 30, FailureThreshold: 5, SuccessThreshold: 1}, cfg.Breaker)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_QUERY_TIMEOUT", "750ms")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("OTEL_SAMPLE_RATIO", "0.5")
	t.Setenv("TUNING_FILE", "/etc/trustsafety/tuning.yaml")
	t.Setenv("FETCH_RETRY_ATTEMPTS", "not-a-number")
	t.Setenv("CB_ENABLED", "false")
	t.Setenv("CB_FAILURE_THRESHOLD", "3")

	cfg, err := Load("trust-safety")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, 750*time.Millisecond, cfg.Database.QueryTimeout)
	assert.True(t, cfg.NATS.Enabled)
	assert.InDelta(t, 0.5, cfg.Tracing.SampleRatio, 0.0001)
	assert.Equal(t, "/etc/trustsafety/tuning.yaml", cfg.Engine.TuningFile)
	assert.Equal(t, 2, cfg.Engine.FetchRetryAttempts)
	assert.False(t, cfg.Breaker.Enabled)
	assert.Equal(t, 3, cfg.Breaker.FailureThreshold)
}

func TestLoad_RequiresSecretInProduction(t *testing.T) {
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("JWT_SECRET", "")

	_, err := Load("trust-safety")
	assert.Error(t, err)
}

func TestDatabaseConfig_DSN(t *testing.T) {
	cfg := DatabaseConfig{Host: "db", Port: "5433", User: "u", Password: "p", DBName: "salons", SSLMode: "require"}
	assert.Equal(t, "host=db port=5433 user=u password=p dbname=salons sslmode=require", cfg.DSN())
}
