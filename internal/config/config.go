// Package config loads winmcp settings from file, environment, and
// defaults, and supports hot reload of the config file.
package config

import (
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// Config is the full winmcp configuration.
type Config struct {
	Capture   CaptureConfig   `mapstructure:"capture"`
	Server    ServerConfig    `mapstructure:"server"`
	Analytics AnalyticsConfig `mapstructure:"analytics"`
}

// CaptureConfig tunes the snapshot pipeline.
type CaptureConfig struct {
	PoolSize       int           `mapstructure:"pool_size"`
	WindowTimeout  time.Duration `mapstructure:"window_timeout"`
	MaxDepth       int           `mapstructure:"max_depth"`
	ChildRetries   int           `mapstructure:"child_retries"`
	DedupTolerance int           `mapstructure:"dedup_tolerance"`
}

// ServerConfig tunes the MCP server.
type ServerConfig struct {
	Transport string        `mapstructure:"transport"`
	Port      int           `mapstructure:"port"`
	CacheTTL  time.Duration `mapstructure:"cache_ttl"`
}

// AnalyticsConfig tunes the local event log.
type AnalyticsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("capture.pool_size", 8)
	v.SetDefault("capture.window_timeout", 5*time.Second)
	v.SetDefault("capture.max_depth", 50)
	v.SetDefault("capture.child_retries", 3)
	v.SetDefault("capture.dedup_tolerance", 0)
	v.SetDefault("server.transport", "stdio")
	v.SetDefault("server.port", 8931)
	v.SetDefault("server.cache_ttl", 2*time.Second)
	v.SetDefault("analytics.enabled", true)
	v.SetDefault("analytics.path", "")
}

// Load reads configuration from the optional config file plus WINMCP_*
// environment variables. A missing config file is not an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix("WINMCP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("winmcp")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.config/winmcp")
	}
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	watchConfig(v, &cfg)
	return &cfg, nil
}

var cfgMu sync.Mutex

// Snapshot returns a copy of the configuration taken under the reload lock,
// so field reads never race a concurrent hot reload.
func (c *Config) Snapshot() Config {
	cfgMu.Lock()
	defer cfgMu.Unlock()
	return *c
}

// watchConfig re-reads the file on change so long-running servers pick up
// tuning adjustments without a restart.
func watchConfig(v *viper.Viper, cfg *Config) {
	if v.ConfigFileUsed() == "" {
		return
	}
	v.OnConfigChange(func(e fsnotify.Event) {
		cfgMu.Lock()
		defer cfgMu.Unlock()
		var next Config
		if err := v.Unmarshal(&next); err != nil {
			slog.Warn("config reload failed", "file", e.Name, "error", err)
			return
		}
		*cfg = next
		slog.Info("config reloaded", "file", e.Name)
	})
	v.WatchConfig()
}
