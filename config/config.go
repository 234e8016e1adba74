// Package config loads operator-tunable settings: defaults, an optional
// config file, and CROWDWATCH_* environment overrides, in that order.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds user-configurable defaults.
type Config struct {
	Server          string `mapstructure:"server"`
	MetricsInterval int    `mapstructure:"metrics_interval_ms"`
	IncidentPoll    int    `mapstructure:"incident_interval_ms"`
	LogFile         string `mapstructure:"log_file"`
}

// MetricsEvery returns the metrics poll cadence as a duration.
func (c Config) MetricsEvery() time.Duration {
	return time.Duration(c.MetricsInterval) * time.Millisecond
}

// IncidentsEvery returns the incident poll cadence as a duration.
func (c Config) IncidentsEvery() time.Duration {
	return time.Duration(c.IncidentPoll) * time.Millisecond
}

// Default returns the built-in settings: local backend, 200ms metrics poll,
// 3s incident poll.
func Default() Config {
	return Config{
		Server:          "http://127.0.0.1:5000",
		MetricsInterval: 200,
		IncidentPoll:    3000,
		LogFile:         defaultLogFile(),
	}
}

func defaultLogFile() string {
	dir, err := os.UserCacheDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "crowdwatch", "crowdwatch.log")
}

// Path returns ~/.config/crowdwatch/config.yaml (or XDG_CONFIG_HOME).
// Returns empty string if the home directory cannot be determined.
func Path() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "crowdwatch", "config.yaml")
}

// Load reads the config file and environment; a missing file means defaults.
func Load() Config {
	cfg := Default()

	v := viper.New()
	v.SetDefault("server", cfg.Server)
	v.SetDefault("metrics_interval_ms", cfg.MetricsInterval)
	v.SetDefault("incident_interval_ms", cfg.IncidentPoll)
	v.SetDefault("log_file", cfg.LogFile)

	v.SetEnvPrefix("CROWDWATCH")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if p := Path(); p != "" {
		v.SetConfigFile(p)
		_ = v.ReadInConfig() // file is optional
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Default()
	}
	if cfg.MetricsInterval <= 0 {
		cfg.MetricsInterval = 200
	}
	if cfg.IncidentPoll <= 0 {
		cfg.IncidentPoll = 3000
	}
	return cfg
}
