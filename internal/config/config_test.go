package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, body string) {
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(body), 0644))
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "storage:\n  type: minio\n")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, 5*time.Second, cfg.Database.LockTimeout)
	assert.Equal(t, 24*time.Hour, cfg.JWT.ExpireTime)
	assert.Equal(t, 600, cfg.RateLimit.MaxRequests)
	assert.Equal(t, filepath.Join(dir, "config.yaml"), cfg.File)
}

func TestLoadConfig_DotEnvAndOverrides(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "database:\n  lock_timeout: 250ms\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("JWT_SECRET=from-dotenv\n"), 0644))
	t.Setenv("JWT_SECRET", "")
	os.Unsetenv("JWT_SECRET")
	t.Setenv("DATABASE_DRIVER", "mysql")

	cfg, err := LoadConfig(dir)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.JWT.Secret)
	assert.Equal(t, "mysql", cfg.Database.Driver)
	assert.Equal(t, 250*time.Millisecond, cfg.Database.LockTimeout)
}

func TestLoadConfig_ShortSecretInRelease(t *testing.T) {
	dir := t.TempDir()
	writeConfig(t, dir, "server:\n  mode: release\njwt:\n  secret: short\n")

	_, err := LoadConfig(dir)
	assert.ErrorContains(t, err, "JWT secret is too short")
}
