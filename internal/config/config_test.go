package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8085", cfg.Server.Port)
	assert.Equal(t, 5*time.Second, cfg.Messaging.HandshakeTimeout)
	assert.Equal(t, 3*time.Second, cfg.Messaging.TypingTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.Positive(t, cfg.Messaging.SendBufferSize)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9100")
	t.Setenv("MESSAGING_HANDSHAKE_TIMEOUT", "2s")
	t.Setenv("MESSAGING_TYPING_TTL", "500ms")
	t.Setenv("REDIS_ENABLED", "true")
	t.Setenv("MYSQL_HOST", "db.internal")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9100", cfg.Server.Port)
	assert.Equal(t, 2*time.Second, cfg.Messaging.HandshakeTimeout)
	assert.Equal(t, 500*time.Millisecond, cfg.Messaging.TypingTTL)
	assert.True(t, cfg.Redis.Enabled)
	assert.Contains(t, cfg.DSN(), "db.internal")
}

func TestLoad_IgnoresMalformedValues(t *testing.T) {
	t.Setenv("MESSAGING_TYPING_TTL", "not-a-duration")
	t.Setenv("MYSQL_MAX_OPEN_CONNS", "many")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 3*time.Second, cfg.Messaging.TypingTTL)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestDSN_Format(t *testing.T) {
	cfg := &Config{
		Database: DatabaseConfig{
			Host:         "localhost",
			Port:         "3306",
			Username:     "app",
			Password:     "secret",
			DatabaseName: "marketplace_messaging",
		},
	}
	assert.Equal(t,
		"app:secret@tcp(localhost:3306)/marketplace_messaging?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.DSN())
}
