package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "DB_DRIVER", "SCOUTING_DB_PATH", "JWT_SECRET", "REDIS_URL", "CRON_ENABLED", "LOOKUP_TIMEOUT"} {
		t.Setenv(key, "")
	}

	cfg, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 8000, cfg.Port)
	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, DefaultDBPath(), cfg.DBPath)
	assert.Empty(t, cfg.JWTSecret)
	assert.True(t, cfg.CronEnabled)
	assert.Equal(t, 10*time.Second, cfg.LookupTimeout)
}

func TestGetOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "Postgres")
	t.Setenv("SCOUTING_DB_PATH", "/tmp/scouting.db")
	t.Setenv("CRON_ENABLED", "false")
	t.Setenv("LOOKUP_TIMEOUT", "3s")
	t.Setenv("GO_ENV", "production")

	cfg, err := Get()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Port)
	assert.Equal(t, "postgres", cfg.DBDriver)
	assert.Equal(t, "/tmp/scouting.db", cfg.DBPath)
	assert.False(t, cfg.CronEnabled)
	assert.Equal(t, 3*time.Second, cfg.LookupTimeout)
	assert.True(t, cfg.IsProduction())
}

func TestClientSettingsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "settings.toml")

	defaults, err := LoadClientSettings(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultClientHost, defaults.Host)
	assert.Equal(t, DefaultClientPort, defaults.Port)
	assert.Equal(t, "http://127.0.0.1:8000", defaults.BaseURL())

	require.NoError(t, SaveClientSettings(path, ClientSettings{Host: "10.0.0.5", Port: 9001, Token: "abc"}))

	loaded, err := LoadClientSettings(path)
	require.NoError(t, err)
	assert.Equal(t, ClientSettings{Host: "10.0.0.5", Port: 9001, Token: "abc"}, loaded)
}
