// Package config loads tracker configuration from an optional YAML file and
// COMBAT_TRACKER_* environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g.
// COMBAT_TRACKER_STATE_PATH or COMBAT_TRACKER_LOGGING_LEVEL.
const EnvPrefix = "COMBAT_TRACKER"

// Config is the root configuration.
type Config struct {
	State   StateConfig   `mapstructure:"state"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// StateConfig controls where the encounter is persisted.
type StateConfig struct {
	Path       string `mapstructure:"path"`
	Archive    bool   `mapstructure:"archive"`
	ArchiveDir string `mapstructure:"archive_dir"`
}

// LoggingConfig controls the zap logger.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration. An empty path skips the config file and uses
// defaults plus environment overrides.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.normalize(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("state.path", DefaultStatePath())
	v.SetDefault("state.archive", true)
	v.SetDefault("state.archive_dir", "")
	v.SetDefault("logging.level", "warn")
	v.SetDefault("logging.format", "console")
}

func (c *Config) normalize() error {
	c.State.Path = strings.TrimSpace(c.State.Path)
	if c.State.Path == "" {
		return fmt.Errorf("state.path is required")
	}
	if c.State.ArchiveDir == "" {
		c.State.ArchiveDir = filepath.Join(filepath.Dir(c.State.Path), "archive")
	}

	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown logging.level %q", c.Logging.Level)
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("unknown logging.format %q", c.Logging.Format)
	}
	return nil
}

// DefaultStatePath returns the per-user state file location.
func DefaultStatePath() string {
	if dataHome := os.Getenv("XDG_DATA_HOME"); dataHome != "" {
		return filepath.Join(dataHome, "CombatTracker", "state.json")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "state.json"
	}
	return filepath.Join(home, ".local", "share", "CombatTracker", "state.json")
}
