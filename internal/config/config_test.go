package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "sqlite", cfg.DatabaseDriver)
	assert.Equal(t, "F95 France", cfg.AppName)
	assert.Equal(t, 6*time.Hour, cfg.ScrapeCacheTTL)
	assert.Equal(t, 90, cfg.LogRetentionDays)
	assert.Empty(t, cfg.CORSOrigins)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATABASE_DRIVER", "Postgres")
	t.Setenv("CORS_ORIGINS", "https://a.example, https://b.example")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres", cfg.DatabaseDriver)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSOrigins)
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "tracker.yaml")
	require.NoError(t, os.WriteFile(path, []byte("port: \"7000\"\nredis_addr: localhost:6379\n"), 0o600))

	cfg, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)

	_, err = LoadFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
