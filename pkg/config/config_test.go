package config

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoad_SearchConfig(t *testing.T) {
	// Setup environment variables
	os.Setenv("SEARCH_CACHE_TTL_SECONDS", "60")
	os.Setenv("SEARCH_HISTORY_SIZE", "25")
	defer func() {
		os.Unsetenv("SEARCH_CACHE_TTL_SECONDS")
		os.Unsetenv("SEARCH_HISTORY_SIZE")
	}()

	// Load config
	cfg, err := Load()
	assert.NoError(t, err)

	// Verify search config
	assert.Equal(t, 60, cfg.Search.CacheTTLSeconds)
	assert.Equal(t, 25, cfg.Search.HistorySize)
}

func TestLoad_Defaults(t *testing.T) {
	// Ensure env vars are cleared
	os.Unsetenv("SEARCH_CACHE_TTL_SECONDS")
	os.Unsetenv("SEARCH_HISTORY_SIZE")
	os.Unsetenv("ANALYTICS_MAX_EVENTS")
	os.Unsetenv("REDIS_ENABLED")

	cfg, err := Load()
	assert.NoError(t, err)

	// Verify defaults
	assert.Equal(t, 300, cfg.Search.CacheTTLSeconds)
	assert.Equal(t, 100, cfg.Search.HistorySize)
	assert.Equal(t, 20, cfg.Search.DefaultLimit)
	assert.Equal(t, 10000, cfg.Analytics.MaxEvents)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.False(t, cfg.Redis.Enabled)
}

func TestLoad_DatabaseDSN(t *testing.T) {
	os.Setenv("DB_HOST", "db.internal")
	os.Setenv("DB_PASSWORD", "secret")
	defer func() {
		os.Unsetenv("DB_HOST")
		os.Unsetenv("DB_PASSWORD")
	}()

	cfg, err := Load()
	assert.NoError(t, err)

	dsn := cfg.Database.DatabaseDSN()
	assert.Contains(t, dsn, "host=db.internal")
	assert.Contains(t, dsn, "password=secret")
	assert.Contains(t, dsn, "sslmode=disable")
}
