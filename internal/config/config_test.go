package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "https://api.coinbase.com", cfg.Coinbase.BaseURL)
	assert.Equal(t, "BTC-USD", cfg.Trading.DefaultProduct)
	assert.True(t, cfg.Trading.UseTenPercent)
	assert.Equal(t, 500, cfg.Log.BufferSize)
	// Credentials default to absent; the gateway must still come up.
	assert.Empty(t, cfg.Coinbase.ApiKey)
	assert.Empty(t, cfg.Coinbase.KeyName)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("ALERTGATE_TRADING_DEFAULT_PRODUCT", "ETH-USD")
	t.Setenv("ALERTGATE_TRADING_USE_TEN_PERCENT", "false")
	t.Setenv("ALERTGATE_COINBASE_API_KEY", "k")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ETH-USD", cfg.Trading.DefaultProduct)
	assert.False(t, cfg.Trading.UseTenPercent)
	assert.Equal(t, "k", cfg.Coinbase.ApiKey)
}
