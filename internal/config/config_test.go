package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "LOG_LEVEL", "CACHE_ENABLED", "REDIS_ADDR", "REDIS_DB",
		"COINGECKO_URL", "DEXSCREENER_URL", "UPSTREAM_TIMEOUT_MS", "METRICS_NAMESPACE", "WARM_INTERVAL_MS"} {
		t.Setenv(k, "")
	}

	cfg := Load()
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
	assert.Equal(t, 0, cfg.RedisDB)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.CoinGeckoURL)
	assert.Equal(t, "https://api.dexscreener.com", cfg.DexScreenerURL)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
	assert.Equal(t, "screener", cfg.MetricsNamespace)
	assert.Equal(t, 30*time.Second, cfg.WarmInterval)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("CACHE_ENABLED", "false")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("COINGECKO_URL", "http://cg.local/api/v3/")
	t.Setenv("UPSTREAM_TIMEOUT_MS", "1500")
	t.Setenv("WARM_INTERVAL_MS", "250")

	cfg := Load()
	assert.Equal(t, "8080", cfg.Port)
	assert.False(t, cfg.CacheEnabled)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, "http://cg.local/api/v3", cfg.CoinGeckoURL)
	assert.Equal(t, 1500*time.Millisecond, cfg.UpstreamTimeout)
	assert.Equal(t, 250*time.Millisecond, cfg.WarmInterval)
}

func TestLoadIgnoresGarbage(t *testing.T) {
	t.Setenv("REDIS_DB", "two")
	t.Setenv("CACHE_ENABLED", "maybe")
	t.Setenv("UPSTREAM_TIMEOUT_MS", "-10")

	cfg := Load()
	assert.Equal(t, 0, cfg.RedisDB)
	assert.True(t, cfg.CacheEnabled)
	assert.Equal(t, 5*time.Second, cfg.UpstreamTimeout)
}
