// Package config provides tool settings management for vaultconfig using Viper.
package config

import (
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/viper"

	"github.com/thoreinstein/vaultconfig/internal/format"
	"github.com/thoreinstein/vaultconfig/internal/paths"
)

// Config represents the tool's own settings file. These are settings about
// the store (where it lives, which format it uses), not the configs inside
// it.
type Config struct {
	Version  int    `mapstructure:"version" yaml:"version"`
	StoreDir string `mapstructure:"store_dir" yaml:"store_dir"`
	Format   string `mapstructure:"format" yaml:"format"`
}

// Init initializes Viper with default settings.
// Call this once at application startup before accessing config values.
func Init() {
	viper.Reset()

	// Config file settings
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Search paths (in order of precedence)
	viper.AddConfigPath(".")
	viper.AddConfigPath(filepath.Join(paths.ConfigHome(), paths.AppName))

	// Environment variable support
	viper.SetEnvPrefix("VAULTCONFIG")
	viper.AutomaticEnv()

	// Defaults
	viper.SetDefault("version", 1)
	viper.SetDefault("store_dir", "")
	viper.SetDefault("format", "")
}

// Load reads the settings file.
// If path is provided, it reads from that specific file.
// If path is empty, it searches in the default locations and falls back to
// defaults when no file is found.
func Load(path string) (*Config, error) {
	if path != "" {
		viper.SetConfigFile(path)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			if path != "" {
				return nil, errors.Wrapf(err, "config file not found at %s", path)
			}
		} else {
			return nil, errors.Wrap(err, "reading config file")
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "unmarshaling config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "validating config")
	}
	return &cfg, nil
}

// LoadDefault loads settings from the default locations.
func LoadDefault() (*Config, error) {
	return Load("")
}

// Validate checks the settings for values the tool cannot act on.
func (c *Config) Validate() error {
	if c.Version != 0 && c.Version != 1 {
		return errors.Newf("unsupported config version: %d", c.Version)
	}
	if c.Format != "" {
		if _, err := format.Get(c.Format); err != nil {
			return errors.Newf("unsupported format: %q (known formats: %v)", c.Format, format.Names())
		}
	}
	return nil
}
