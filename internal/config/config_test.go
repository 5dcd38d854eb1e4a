package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, StoreDriverMySQL, cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Database.ConnMaxLifetime)
	assert.Equal(t, 5*time.Second, cfg.Order.ReservationTxTimeout)
	assert.Equal(t, 3, cfg.Order.MaxRetryAttempts)
	assert.Equal(t, NotifyDriverLog, cfg.Notification.Driver)
	assert.Equal(t, 10*time.Second, cfg.Notification.SendTimeout)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Notification.Kafka.Brokers)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 24*time.Hour, cfg.Redis.IdempotencyTTL)
	assert.Equal(t, time.Minute, cfg.Redis.PendingTTL)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DRIVER", "MEMORY")
	t.Setenv("ORDER_TX_TIMEOUT", "2s")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("NOTIFY_DRIVER", "kafka")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, StoreDriverMemory, cfg.Database.Driver)
	assert.Equal(t, 2*time.Second, cfg.Order.ReservationTxTimeout)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Notification.Kafka.Brokers)
	assert.Equal(t, NotifyDriverKafka, cfg.Notification.Driver)
}

func TestLoad_ConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("LOG_LEVEL: debug\nNOTIFY_WORKERS: 8\n"), 0o600))
	t.Setenv("CONFIG_FILE", path)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 8, cfg.Notification.Workers)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("ORDER_TX_TIMEOUT", "soon")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_RejectsUnknownDrivers(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	_, err := Load()
	assert.Error(t, err)
}

func TestLoad_EmailDriverRequiresKey(t *testing.T) {
	t.Setenv("NOTIFY_DRIVER", "email")
	_, err := Load()
	assert.Error(t, err)

	t.Setenv("EMAIL_API_KEY", "re_test")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "re_test", cfg.Notification.Email.APIKey)
}

func TestLoad_PendingTTLMustNotOutliveBinding(t *testing.T) {
	t.Setenv("REDIS_IDEMPOTENCY_TTL", "10m")
	t.Setenv("REDIS_IDEMPOTENCY_PENDING_TTL", "1h")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "REDIS_IDEMPOTENCY_PENDING_TTL")
}
