package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port             string
	LogLevel         string
	CacheEnabled     bool
	RedisAddr        string
	RedisDB          int
	CoinGeckoURL     string
	DexScreenerURL   string
	UpstreamTimeout  time.Duration
	MetricsNamespace string
	WarmInterval     time.Duration
}

func get(name, def string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return def
}

func geti(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getb(name string, def bool) bool {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return b
		}
	}
	return def
}

// getd reads a millisecond count. Non-positive values fall back to def.
func getd(name string, def time.Duration) time.Duration {
	if ms := geti(name, 0); ms > 0 {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}

func Load() Config {
	return Config{
		Port:             get("PORT", "3000"),
		LogLevel:         get("LOG_LEVEL", "info"),
		CacheEnabled:     getb("CACHE_ENABLED", true),
		RedisAddr:        get("REDIS_ADDR", "localhost:6379"),
		RedisDB:          geti("REDIS_DB", 0),
		CoinGeckoURL:     strings.TrimRight(get("COINGECKO_URL", "https://api.coingecko.com/api/v3"), "/"),
		DexScreenerURL:   strings.TrimRight(get("DEXSCREENER_URL", "https://api.dexscreener.com"), "/"),
		UpstreamTimeout:  getd("UPSTREAM_TIMEOUT_MS", 5*time.Second),
		MetricsNamespace: get("METRICS_NAMESPACE", "screener"),
		WarmInterval:     getd("WARM_INTERVAL_MS", 30*time.Second),
	}
}
