package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mapLookup(values map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := values[key]
		return v, ok
	}
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(LoadOptions{Lookup: mapLookup(nil)})
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
	assert.Equal(t, "@every 5m", cfg.Refresh.Schedule)
	assert.False(t, cfg.IsProduction())
}

func TestLoadLayersFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "salesdash.yaml")
	require.NoError(t, os.WriteFile(file, []byte(`
environment: production
server:
  transport: fiber
  address: ":9000"
store:
  timeout: 30s
  offline: true
session:
  store: redis
log:
  level: debug
`), 0o600))

	cfg, err := Load(LoadOptions{
		File: file,
		Lookup: mapLookup(map[string]string{
			"SALESDASH_ADDR":        ":9100",
			"SALESDASH_SESSION_TTL": "2h",
			"SALESDASH_STORE_RPS":   "2.5",
			"SALESDASH_JWT_SECRET":  "s3cret-from-env",
		}),
	})
	require.NoError(t, err)

	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "fiber", cfg.Server.Transport)
	assert.Equal(t, ":9100", cfg.Server.Address)
	assert.Equal(t, 30*time.Second, cfg.Store.Timeout)
	assert.True(t, cfg.Store.Offline)
	assert.Equal(t, "redis", cfg.Session.Store)
	assert.Equal(t, 2*time.Hour, cfg.Session.TTL)
	assert.Equal(t, 2.5, cfg.Store.RequestsPerSecond)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "/admin", cfg.Server.BasePath)
	assert.Equal(t, "s3cret-from-env", cfg.Session.Secret)
}

func TestProductionRequiresSessionSecret(t *testing.T) {
	_, err := Load(LoadOptions{Lookup: mapLookup(map[string]string{"SALESDASH_ENV": "production"})})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInsecureSecret)

	cfg, err := Load(LoadOptions{Lookup: mapLookup(map[string]string{
		"SALESDASH_ENV":        "production",
		"SALESDASH_JWT_SECRET": "rotated-secret",
	})})
	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())

	cfg, err = Load(LoadOptions{Lookup: mapLookup(nil)})
	require.NoError(t, err)
	assert.Equal(t, DevSessionSecret, cfg.Session.Secret)
}

func TestLoadEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(envFile, []byte("SALESDASH_THEME=light\n"), 0o600))
	t.Setenv("SALESDASH_THEME", "")
	os.Unsetenv("SALESDASH_THEME")

	cfg, err := Load(LoadOptions{EnvFiles: []string{envFile, filepath.Join(dir, "missing.env")}})
	require.NoError(t, err)
	assert.Equal(t, "light", cfg.Theme)
}

func TestLoadReportsBadValues(t *testing.T) {
	_, err := Load(LoadOptions{Lookup: mapLookup(map[string]string{
		"SALESDASH_OFFLINE":       "maybe",
		"SALESDASH_STORE_TIMEOUT": "soon",
	})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SALESDASH_OFFLINE")
	assert.Contains(t, err.Error(), "SALESDASH_STORE_TIMEOUT")

	_, err = Load(LoadOptions{Lookup: mapLookup(map[string]string{"SALESDASH_TRANSPORT": "grpc"})})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown transport")

	_, err = Load(LoadOptions{File: "does-not-exist.yaml", Lookup: mapLookup(nil)})
	require.Error(t, err)
}
