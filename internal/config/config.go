// Package config resolves shopper settings from an optional YAML file and the
// environment. Environment variables win over the file.
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"BriteShop/internal/catalog"
	"BriteShop/internal/kv"
	"BriteShop/internal/shoppinglist"
)

type Config struct {
	Addr     string        `yaml:"addr"`
	LogLevel string        `yaml:"log_level"`
	Catalog  CatalogConfig `yaml:"catalog"`
	Storage  StorageConfig `yaml:"storage"`
	Profile  ProfileConfig `yaml:"profile"`
	List     ListConfig    `yaml:"list"`
	Metrics  MetricsConfig `yaml:"metrics"`
}

type CatalogConfig struct {
	URL     string        `yaml:"url"`
	Timeout time.Duration `yaml:"timeout"`
}

type StorageConfig struct {
	Driver string `yaml:"driver"`
	Path   string `yaml:"path"`
	DSN    string `yaml:"dsn"`
}

type ProfileConfig struct {
	Platform string `yaml:"platform"`
}

type ListConfig struct {
	KeyPrefix string `yaml:"key_prefix"`
}

type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Token   string `yaml:"token"`
}

func Default() Config {
	return Config{
		Addr:     ":8080",
		LogLevel: "info",
		Catalog: CatalogConfig{
			URL:     "https://brite-shopping-api.onrender.com",
			Timeout: catalog.DefaultTimeout,
		},
		Storage: StorageConfig{
			Driver: kv.DriverFile,
			Path:   "shopper.json",
		},
		Profile: ProfileConfig{Platform: runtime.GOOS},
		List:    ListConfig{KeyPrefix: shoppinglist.DefaultKeyPrefix},
	}
}

// Load starts from Default, overlays path when it names an existing file and
// applies environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, fmt.Errorf("read config: %w", err)
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse config %s: %w", path, err)
			}
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) applyEnv() {
	c.Addr = getenv("SHOPPER_ADDR", c.Addr)
	if port := os.Getenv("PORT"); port != "" && os.Getenv("SHOPPER_ADDR") == "" {
		c.Addr = ":" + port
	}
	c.LogLevel = getenv("LOG_LEVEL", c.LogLevel)

	c.Catalog.URL = getenv("CATALOG_URL", c.Catalog.URL)
	c.Catalog.Timeout = parseDuration(os.Getenv("CATALOG_TIMEOUT"), c.Catalog.Timeout)

	c.Storage.Driver = getenv("STORAGE_DRIVER", c.Storage.Driver)
	c.Storage.Path = getenv("STORAGE_PATH", c.Storage.Path)
	c.Storage.DSN = getenv("DATABASE_URL", c.Storage.DSN)

	c.Profile.Platform = getenv("PROFILE_PLATFORM", c.Profile.Platform)
	c.List.KeyPrefix = getenv("LIST_KEY_PREFIX", c.List.KeyPrefix)

	c.Metrics.Enabled = parseBool(os.Getenv("METRICS_ENABLED"), c.Metrics.Enabled)
	c.Metrics.Token = getenv("METRICS_TOKEN", c.Metrics.Token)
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Catalog.URL) == "" {
		return errors.New("catalog url is required")
	}
	if strings.TrimSpace(c.List.KeyPrefix) == "" {
		return errors.New("list key prefix is required")
	}
	if strings.TrimSpace(c.Profile.Platform) == "" {
		return errors.New("profile platform is required")
	}
	if c.Metrics.Enabled && c.Metrics.Token == "" {
		return errors.New("metrics token is required when metrics are enabled")
	}
	return nil
}

// KV maps the storage section onto kv.Open options.
func (c Config) KV() kv.Options {
	return kv.Options{
		Driver: c.Storage.Driver,
		Path:   c.Storage.Path,
		DSN:    c.Storage.DSN,
	}
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func parseDuration(v string, def time.Duration) time.Duration {
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseBool(v string, def bool) bool {
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}
