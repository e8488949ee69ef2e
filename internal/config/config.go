// Package config loads hotelkeys settings from an optional YAML file, .env
// files and HOTELKEYS_* environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	herrors "git.home.luguber.info/inful/hotelkeys/internal/errors"
)

// DefaultConfigFile is looked up in the working directory.
const DefaultConfigFile = "hotelkeys.yaml"

// Environment variable overrides.
const (
	EnvDataFile   = "HOTELKEYS_DATA_FILE"
	EnvBackend    = "HOTELKEYS_BACKEND"
	EnvTotalRooms = "HOTELKEYS_TOTAL_ROOMS"
	EnvLogLevel   = "HOTELKEYS_LOG_LEVEL"
)

// Config represents the application configuration
type Config struct {
	Data    DataConfig    `yaml:"data"`
	Hotel   HotelConfig   `yaml:"hotel"`
	Logging LoggingConfig `yaml:"logging"`
	Metrics MetricsConfig `yaml:"metrics"`
	Watch   WatchConfig   `yaml:"watch"`
}

// DataConfig selects where room data is stored.
type DataConfig struct {
	File    string `yaml:"file" validate:"required"`
	Backend string `yaml:"backend" validate:"oneof=json sqlite"`
}

// HotelConfig describes the property.
type HotelConfig struct {
	// TotalRooms is only used to seed a fresh data file.
	TotalRooms int `yaml:"total_rooms" validate:"min=1,max=100000"`
}

// LoggingConfig controls the slog handler.
type LoggingConfig struct {
	Level  LogLevel  `yaml:"level"`
	Format LogFormat `yaml:"format"`
}

// MetricsConfig enables the Prometheus textfile export.
type MetricsConfig struct {
	Textfile string `yaml:"textfile,omitempty"`
}

// WatchConfig tunes the live status display.
type WatchConfig struct {
	RefreshInterval time.Duration `yaml:"refresh_interval" validate:"min=1s"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Data: DataConfig{
			File:    "hotel_data.json",
			Backend: "json",
		},
		Hotel: HotelConfig{TotalRooms: 20},
		Logging: LoggingConfig{
			Level:  LogLevelInfo,
			Format: LogFormatText,
		},
		Watch: WatchConfig{RefreshInterval: time.Minute},
	}
}

// Load builds the configuration: defaults, then the YAML file at configPath
// (skipped when it does not exist), then environment overrides.
func Load(configPath string) (*Config, error) {
	loadEnvFiles()

	cfg := Default()

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case os.IsNotExist(err):
			// Running without a config file is the common case.
		case err != nil:
			return nil, herrors.ConfigInvalid(configPath, fmt.Errorf("failed to read config file: %w", err))
		default:
			// Expand environment variables in the YAML content
			expanded := os.ExpandEnv(string(data))
			if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
				return nil, herrors.ConfigInvalid(configPath, fmt.Errorf("failed to unmarshal config: %w", err))
			}
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, herrors.ConfigInvalid(configPath, err)
	}
	cfg.normalize()

	if err := Validate(cfg); err != nil {
		return nil, herrors.ConfigInvalid(configPath, err)
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv(EnvDataFile); v != "" {
		cfg.Data.File = v
	}
	if v := os.Getenv(EnvBackend); v != "" {
		cfg.Data.Backend = v
	}
	if v := os.Getenv(EnvTotalRooms); v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s must be an integer: %w", EnvTotalRooms, err)
		}
		cfg.Hotel.TotalRooms = n
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Logging.Level = LogLevel(v)
	}
	return nil
}

func (c *Config) normalize() {
	c.Data.File = strings.TrimSpace(c.Data.File)
	c.Data.Backend = strings.ToLower(strings.TrimSpace(c.Data.Backend))
	c.Logging.Level = NormalizeLogLevel(string(c.Logging.Level))
	c.Logging.Format = NormalizeLogFormat(string(c.Logging.Format))
}

// exampleConfig is written by Init.
const exampleConfig = `# hotelkeys configuration
# Values may reference environment variables, e.g. file: ${HOME}/hotel_data.json

data:
  # json or sqlite
  backend: json
  file: hotel_data.json

hotel:
  # Only used when no data file exists yet.
  total_rooms: 20

logging:
  level: info   # debug, info, warn, error
  format: text  # text or json

metrics:
  # node_exporter textfile written after every command. Disabled when unset.
  # textfile: /var/lib/node_exporter/textfile/hotelkeys.prom

watch:
  refresh_interval: 1m
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(exampleConfig), 0o600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}
