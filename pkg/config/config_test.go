package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/pkg/config"
)

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("LEDGER_STORE", "memory")
	t.Setenv("LEDGER_LOCK_TIMEOUT_MS", "250")
	t.Setenv("LEDGER_TIMEZONE", "UTC")
	t.Setenv("LINEAGE_MAX_DEPTH", "3")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("DB_AUTO_MIGRATE", "true")
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Ledger.Store)
	assert.Equal(t, 250*time.Millisecond, cfg.Ledger.LockTimeout())
	assert.Equal(t, 3, cfg.Lineage.MaxDepth)
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, 2, cfg.Redis.DB)
	assert.True(t, cfg.DB.AutoMigrate)
	assert.Equal(t, "debug", cfg.App.LogLevel)
	assert.Equal(t, "0.0.0.0:9090", cfg.HTTP.Addr())

	loc, err := cfg.Ledger.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}

func TestLoad_RejectsUnknownStore(t *testing.T) {
	t.Setenv("LEDGER_STORE", "mongo")

	_, err := config.Load()
	assert.ErrorContains(t, err, "LEDGER_STORE")
}

func TestLoad_RejectsUnknownTimezone(t *testing.T) {
	t.Setenv("LEDGER_STORE", "memory")
	t.Setenv("LEDGER_TIMEZONE", "Mars/Olympus")

	_, err := config.Load()
	assert.ErrorContains(t, err, "LEDGER_TIMEZONE")
}

func TestLoad_RejectsUnboundedLockTimeout(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"con unidad", "LEDGER_LOCK_TIMEOUT_MS", "5s"},
		{"cero", "LEDGER_LOCK_TIMEOUT_MS", "0"},
		{"negativo", "LEDGER_LOCK_TIMEOUT_MS", "-100"},
		{"ttl no numérico", "DOCUMENT_LOCK_TTL_MS", "30s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("LEDGER_STORE", "memory")
			t.Setenv("LEDGER_TIMEZONE", "UTC")
			t.Setenv(tt.key, tt.value)

			cfg, err := config.Load()
			assert.Nil(t, cfg)
			assert.ErrorContains(t, err, tt.key)
		})
	}
}

func TestLoad_DefaultLockTimeout(t *testing.T) {
	t.Setenv("LEDGER_STORE", "memory")
	t.Setenv("LEDGER_TIMEZONE", "UTC")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.Ledger.LockTimeout())
	assert.Equal(t, 30*time.Second, cfg.Ledger.DocumentLockTTLDuration())
}

func TestDBConfig_ConnectionString(t *testing.T) {
	c := config.DBConfig{Host: "db", Port: 5432, User: "app", Password: "p@ss:w/rd", DBName: "erp_ledger", SSLMode: "disable"}
	assert.Equal(t, "postgres://app:p%40ss%3Aw%2Frd@db:5432/erp_ledger?sslmode=disable", c.ConnectionString())

	c.DatabaseURL = "postgresql://u:p@host/db"
	assert.Equal(t, "postgresql://u:p@host/db", c.ConnectionString())
}

func TestLedgerConfig_Durations(t *testing.T) {
	c := config.LedgerConfig{LockTimeoutMS: 1500, DocumentLockTTL: 30000}
	assert.Equal(t, 1500*time.Millisecond, c.LockTimeout())
	assert.Equal(t, 30*time.Second, c.DocumentLockTTLDuration())

	loc, err := config.LedgerConfig{}.Location()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)
}
