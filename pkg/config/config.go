package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	// Log configuration
	Log LogConfig `mapstructure:"log"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Store configuration
	Store StoreConfig `mapstructure:"store"`

	// Search configuration
	Search SearchConfig `mapstructure:"search"`

	// Segmenter configuration
	Segmenter SegmenterConfig `mapstructure:"segmenter"`

	// Telemetry configuration
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // gin mode: debug, release, test
}

// StoreConfig holds document store configuration
type StoreConfig struct {
	Type string `mapstructure:"type"` // badger, memory
	Path string `mapstructure:"path"`
}

// SearchConfig holds search and optimizer configuration
type SearchConfig struct {
	// OptimizeInterval is the background optimizer period in seconds.
	// Zero disables the optimizer.
	OptimizeInterval int `mapstructure:"optimize_interval"`
}

// SegmenterConfig holds segmentation configuration
type SegmenterConfig struct {
	// EntityPatterns is an optional YAML file overriding the embedded
	// entity pattern table.
	EntityPatterns string `mapstructure:"entity_patterns"`
}

// TelemetryConfig holds telemetry configuration
type TelemetryConfig struct {
	ParquetPath string `mapstructure:"parquet_path"`
}

// Load loads configuration from file and environment variables
func Load() (*Config, error) {
	// Set defaults
	setDefaults()

	config := &Config{}
	if err := viper.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Override with environment variables if present
	overrideWithEnv(config)

	return config, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Log defaults
	viper.SetDefault("log.level", "info")
	viper.SetDefault("log.format", "text")

	// Server defaults
	viper.SetDefault("server.host", "localhost")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.mode", "debug")

	// Store defaults
	viper.SetDefault("store.type", "badger")
	viper.SetDefault("store.path", "./pincite_db")

	// Search defaults
	viper.SetDefault("search.optimize_interval", 300)

	// Telemetry defaults
	home, err := os.UserHomeDir()
	if err == nil {
		defaultPath := fmt.Sprintf("%s/.pincite/telemetry", home)
		viper.SetDefault("telemetry.parquet_path", defaultPath)
	}
}

// overrideWithEnv overrides config with environment variables
func overrideWithEnv(config *Config) {
	// Store settings
	if storeType := os.Getenv("STORE_TYPE"); storeType != "" {
		config.Store.Type = storeType
	}
	if storePath := os.Getenv("STORE_PATH"); storePath != "" {
		config.Store.Path = storePath
	}

	// Server settings
	if host := os.Getenv("SERVER_HOST"); host != "" {
		config.Server.Host = host
	}
	if port := os.Getenv("SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}

	// Log settings
	if level := os.Getenv("LOG_LEVEL"); level != "" {
		config.Log.Level = level
	}

	// Telemetry settings
	if path := os.Getenv("TELEMETRY_PARQUET_PATH"); path != "" {
		config.Telemetry.ParquetPath = path
	}
}
