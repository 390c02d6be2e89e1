package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsFromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("HTTP_SERVER_ADDR", "9000")

	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)
	require.Equal(t, "s3cret", cfg.JWT.Secret)
	require.Equal(t, "9000", cfg.Server.Addr)
	require.Equal(t, time.Hour, cfg.JWT.ExpiresIn)
	require.Equal(t, 5*time.Second, cfg.Upstream.Timeout)
	require.Equal(t, "postgres", cfg.Database.Type)
	require.False(t, cfg.Redis.Enable)
}

func TestLoadFromFile(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	dir := t.TempDir()
	body := []byte(`
APP_ENV: production
JWT:
  SECRET: from-file
  EXPIRES_IN: 30m
UPSTREAM:
  AUTH_URL: http://auth:3000
  EVENT_URL: http://event:3000
DATABASE:
  TYPE: sqlite
  DBNAME: reward.db
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), body, 0o600))

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)
	require.Equal(t, "production", cfg.AppEnv)
	require.Equal(t, "from-file", cfg.JWT.Secret)
	require.Equal(t, 30*time.Minute, cfg.JWT.ExpiresIn)
	require.Equal(t, "http://auth:3000", cfg.Upstream.AuthURL)
	require.Equal(t, "sqlite", cfg.Database.Type)
}

func TestLoadRequiresSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")

	_, err := load(viper.New(), t.TempDir())
	require.Error(t, err)
}

func TestLoadRejectsTLSWithoutCertificate(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("TLS_ENABLE", "true")

	_, err := load(viper.New(), t.TempDir())
	require.Error(t, err)
}

func TestLoadDefersSecretToVault(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("VAULT_ENABLE", "true")

	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)
	require.True(t, cfg.Vault.Enable)
	require.Equal(t, "secret", cfg.Vault.Mount)
	require.Equal(t, "reward-platform/jwt", cfg.Vault.JWTPath)
}
