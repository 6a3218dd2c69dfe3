package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/nyumba-homes/storefront-api/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// inTempDir runs the test from an empty directory so no config.json or .env is picked up
func inTempDir(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })
}

func TestLoad_Defaults(t *testing.T) {
	inTempDir(t)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "memory", cfg.Storage.Mode)
	assert.Equal(t, 4, cfg.Recommend.Size)
	assert.Equal(t, 2*time.Second, cfg.Checkout.PaymentDelay())
	assert.Equal(t, 10*time.Minute, cfg.Queue.IdleTimeoutDuration())
	assert.Equal(t, 30*24*time.Hour, cfg.Auth.TokenTTLDuration())
	assert.Contains(t, cfg.CORS.AllowedHeaders, "Sec-CH-Prefers-Color-Scheme")
	assert.True(t, cfg.RateLimit.Enabled)
	assert.False(t, cfg.OrderArchive.Enabled)
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	inTempDir(t)
	t.Setenv("APP_PORT", "9191")
	t.Setenv("STORAGE_MODE", "redis")
	t.Setenv("SESSION_TOKEN_SECRET", "from-env-secret")
	t.Setenv("ORDER_ARCHIVE_ENABLED", "true")

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.App.Port)
	assert.Equal(t, "redis", cfg.Storage.Mode)
	assert.Equal(t, "from-env-secret", cfg.Auth.TokenSecret)
	assert.True(t, cfg.OrderArchive.Enabled)
}

func TestLoad_ConfigFile(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(".", "config.json"), []byte(`{"recommend":{"size":6},"storage":{"mode":"local"}}`), 0o600))

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, 6, cfg.Recommend.Size)
	assert.Equal(t, "local", cfg.Storage.Mode)
}

func TestDurations(t *testing.T) {
	assert.Equal(t, 90*time.Second, (&config.ServerConfig{ReadTimeout: 90}).ReadTimeoutDuration())
	assert.Equal(t, time.Minute, (&config.RedisConfig{TTL: 60}).TTLDuration())
	assert.Equal(t, 5*time.Second, (&config.OrderArchiveConfig{QueryTimeout: 5}).QueryTimeoutDuration())
	assert.Equal(t,
		"host=db port=5432 user=u password=p dbname=n sslmode=disable",
		(&config.DatabaseConfig{Host: "db", Port: 5432, User: "u", Password: "p", Name: "n", SSLMode: "disable"}).ConnectionString(),
	)
}
