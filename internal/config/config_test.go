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
	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, 4, cfg.ScrapeWorkers)
	assert.Equal(t, 10*time.Second, cfg.FetchTimeout)
	assert.Equal(t, time.Second, cfg.MinDelay)
	assert.Equal(t, 3*time.Second, cfg.MaxDelay)
	assert.Equal(t, int64(10<<20), cfg.MaxBodyBytes)
	assert.Empty(t, cfg.RedisAddr, "redis mirror is disabled by default")
	assert.Empty(t, cfg.PostgresURL, "postgres archive is disabled by default")
	assert.Empty(t, cfg.RegistryURL)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("SCRAPE_WORKERS", "16")
	t.Setenv("FETCH_TIMEOUT", "5s")
	t.Setenv("MAX_DELAY", "2500ms")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("POSTGRES_URL", "postgres://user:pass@db:5432/scraper")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "9090", cfg.ServerPort)
	assert.Equal(t, 16, cfg.ScrapeWorkers)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 2500*time.Millisecond, cfg.MaxDelay)
	assert.Equal(t, "redis:6379", cfg.RedisAddr)
	assert.Equal(t, "postgres://user:pass@db:5432/scraper", cfg.PostgresURL)
}

func TestLoad_RegistryURLFallback(t *testing.T) {
	t.Setenv("MCP_REST_API_URL", "http://directory:8001")

	cfg, err := Load()

	require.NoError(t, err)
	assert.Equal(t, "http://directory:8001", cfg.RegistryURL)
}
