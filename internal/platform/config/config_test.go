package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.LedgerTxTimeout)
	assert.Equal(t, 3, cfg.LedgerMaxRetries)
	assert.Equal(t, 24*time.Hour, cfg.StaleSessionAfter)
	assert.Equal(t, "pos.ledger", cfg.EventsChannelPrefix)
	assert.Equal(t, []string{"http://localhost:3000"}, cfg.CORSAllowedOrigins)
	assert.NotEmpty(t, cfg.JWTSecret)
}

func TestLoadConfigFromEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("LEDGER_TX_TIMEOUT", "250ms")
	t.Setenv("LEDGER_MAX_RETRIES", "-2")
	t.Setenv("STALE_SESSION_AFTER", "not-a-duration")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://pos.example.com, https://admin.example.com ,")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, 250*time.Millisecond, cfg.LedgerTxTimeout)
	assert.Equal(t, 0, cfg.LedgerMaxRetries)
	assert.Equal(t, 24*time.Hour, cfg.StaleSessionAfter)
	assert.Equal(t, []string{"https://pos.example.com", "https://admin.example.com"}, cfg.CORSAllowedOrigins)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}
