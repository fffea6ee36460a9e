package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	Log    LogConfig
	Engine EngineConfig
	Output OutputConfig
}

// LogConfig holds logger settings.
type LogConfig struct {
	Level string
}

// EngineConfig holds milestone engine settings.
type EngineConfig struct {
	Timezone string
}

// OutputConfig controls how the report is printed.
type OutputConfig struct {
	Indent bool
}

// Load reads configuration from file and env. Env var overrides use prefix MILESTONES_.
func Load() (Config, error) {
	v := viper.New()

	v.SetDefault("log.level", "info")
	v.SetDefault("engine.timezone", "UTC")
	v.SetDefault("output.indent", true)

	v.SetConfigType("toml")

	cfgPath := os.Getenv("MILESTONES_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "milestones"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("MILESTONES")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgPath != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	return c, nil
}

// Location resolves the configured timezone.
func (c EngineConfig) Location() (*time.Location, error) {
	if c.Timezone == "" {
		return time.UTC, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("load timezone %q: %w", c.Timezone, err)
	}
	return loc, nil
}
