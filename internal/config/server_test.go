package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultServerConfig_IsValid(t *testing.T) {
	require.NoError(t, DefaultServerConfig().Validate())
}

func TestLoadServerConfig(t *testing.T) {
	t.Setenv("SERVER_ADDR", ":9000")
	t.Setenv("VERSION", "1.4.0")
	t.Setenv("SERVER_REQUEST_TIMEOUT", "20s")
	t.Setenv("DB_MIGRATE_ON_START", "false")

	cfg := LoadServerConfig()
	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "1.4.0", cfg.Version)
	assert.Equal(t, 20*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.MigrateOnStart)
	assert.Equal(t, DefaultServerConfig().ShutdownTimeout, cfg.ShutdownTimeout)
}

func TestServerConfig_Validate(t *testing.T) {
	cfg := DefaultServerConfig()
	cfg.Addr = ""
	cfg.RequestTimeout = time.Hour
	cfg.MaxBodyBytes = 0

	err := cfg.Validate()
	assert.ErrorContains(t, err, "SERVER_ADDR is required")
	assert.ErrorContains(t, err, "invalid SERVER_REQUEST_TIMEOUT")
	assert.ErrorContains(t, err, "invalid SERVER_MAX_BODY_BYTES")
}
