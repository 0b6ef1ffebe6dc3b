package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://library@localhost/library")
	t.Setenv("COOKIE_SECRET", "0123456789abcdef0123456789abcdef")

	cfg, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5, cfg.App.LoginAttemptsPerMinute)
	assert.Equal(t, 30*time.Second, cfg.App.RequestTimeout)
	assert.Equal(t, "schema_migrations", cfg.DB.MigrationsTable)
	assert.False(t, cfg.Redis.Enabled())
	assert.False(t, cfg.Resend.Enabled())
	assert.Equal(t, "base.html", cfg.Mailer.DefaultLayout)
}

func TestLoadConfigReadsDotEnv(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://library@localhost/library")
	t.Setenv("COOKIE_SECRET", "0123456789abcdef0123456789abcdef")

	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("ADDR=:9090\nREDIS_URL=redis://localhost:6379/0\n"), 0o600))
	t.Cleanup(func() {
		_ = os.Unsetenv("ADDR")
		_ = os.Unsetenv("REDIS_URL")
	})

	cfg, err := loadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Addr)
	assert.True(t, cfg.Redis.Enabled())
}

func TestLoadConfigRequiresDatabaseURL(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("COOKIE_SECRET", "0123456789abcdef0123456789abcdef")

	_, err := loadConfig(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
