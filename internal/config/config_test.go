package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BriteShop/internal/kv"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"SHOPPER_ADDR", "PORT", "LOG_LEVEL", "CATALOG_URL", "CATALOG_TIMEOUT",
		"STORAGE_DRIVER", "STORAGE_PATH", "DATABASE_URL", "PROFILE_PLATFORM",
		"LIST_KEY_PREFIX", "METRICS_ENABLED", "METRICS_TOKEN",
	} {
		t.Setenv(k, "")
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "https://brite-shopping-api.onrender.com", cfg.Catalog.URL)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, kv.DriverFile, cfg.Storage.Driver)
	assert.Equal(t, runtime.GOOS, cfg.Profile.Platform)
	assert.Equal(t, "brite_shopping_list", cfg.List.KeyPrefix)
	assert.False(t, cfg.Metrics.Enabled)
}

func TestLoad_MissingFileIsNotAnError(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_FileThenEnv(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "shopper.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":9000"
catalog:
  url: http://catalog.local
  timeout: 3s
storage:
  driver: sqlite
  path: /tmp/shopper.db
list:
  key_prefix: test_list
`), 0o600))

	t.Setenv("STORAGE_PATH", "/var/lib/shopper.db")
	t.Setenv("PROFILE_PLATFORM", "android")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, ":9000", cfg.Addr)
	assert.Equal(t, "http://catalog.local", cfg.Catalog.URL)
	assert.Equal(t, 3*time.Second, cfg.Catalog.Timeout)
	assert.Equal(t, kv.Options{Driver: "sqlite", Path: "/var/lib/shopper.db"}, cfg.KV())
	assert.Equal(t, "android", cfg.Profile.Platform)
	assert.Equal(t, "test_list", cfg.List.KeyPrefix)
}

func TestLoad_PortAndAddr(t *testing.T) {
	clearEnv(t)
	t.Setenv("PORT", "7070")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, ":7070", cfg.Addr)

	t.Setenv("SHOPPER_ADDR", "127.0.0.1:6000")
	cfg, err = Load("")
	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:6000", cfg.Addr)
}

func TestLoad_BadDurationFallsBack(t *testing.T) {
	clearEnv(t)
	t.Setenv("CATALOG_TIMEOUT", "soon")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, 10*time.Second, cfg.Catalog.Timeout)
}

func TestLoad_BadYAML(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: [unclosed"), 0o600))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_MetricsNeedToken(t *testing.T) {
	clearEnv(t)
	t.Setenv("METRICS_ENABLED", "true")

	_, err := Load("")
	require.Error(t, err)

	t.Setenv("METRICS_TOKEN", "s3cret")
	cfg, err := Load("")
	require.NoError(t, err)
	assert.True(t, cfg.Metrics.Enabled)
}
