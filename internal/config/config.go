package config

import (
	"fmt"
	"log"
	"strings"

	"github.com/spf13/viper"
)

// Config represents the main structure mapping the entire application configuration.
// This struct uses mapstructure tags to map YAML/JSON keys to Go struct fields.
type Config struct {
	// Server configuration section containing HTTP server settings
	Server struct {
		Port    int    `mapstructure:"port"`     // HTTP server port (default: 8080)
		BaseURL string `mapstructure:"base_url"` // Public base URL, used in notification links
	} `mapstructure:"server"`

	// Database configuration section for SQLite settings
	Database struct {
		Name string `mapstructure:"name"` // SQLite database file name
	} `mapstructure:"database"`

	// Notifications configuration for the asynchronous view-notification gate
	Notifications struct {
		BufferSize  int    `mapstructure:"buffer_size"`  // Size of the view-recorded channel buffer
		WorkerCount int    `mapstructure:"worker_count"` // Number of notification worker goroutines
		From        string `mapstructure:"from"`         // From header on notification emails
	} `mapstructure:"notifications"`

	// Geo configuration for the best-effort viewer geolocation lookup
	Geo struct {
		Endpoint       string `mapstructure:"endpoint"`        // ip-api.com compatible endpoint
		TimeoutSeconds int    `mapstructure:"timeout_seconds"` // Per-lookup budget
	} `mapstructure:"geo"`

	// Monitor configuration for outbound-link health checking
	Monitor struct {
		IntervalMinutes int `mapstructure:"interval_minutes"` // Interval in minutes between link checks
	} `mapstructure:"monitor"`
}

// LoadConfig loads the application configuration using Viper.
// It supports environment variable overrides and YAML configuration files.
// Returns a populated Config struct or an error if configuration loading fails.
func LoadConfig() (*Config, error) {
	// Enable automatic environment variable binding so any config value can
	// be overridden via the environment
	viper.AutomaticEnv()

	// Replace dots with underscores in environment variable names,
	// e.g. "server.port" becomes "SERVER_PORT"
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Look for an optional config file at ./configs/config.yaml
	viper.AddConfigPath("./configs")
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")

	// Defaults cover every key so the service runs without a config file
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.base_url", "http://localhost:8080")
	viper.SetDefault("database.name", "quickepk.db")
	viper.SetDefault("notifications.buffer_size", 1000)
	viper.SetDefault("notifications.worker_count", 2)
	viper.SetDefault("notifications.from", "QuickEPK <notifications@quickepk.local>")
	viper.SetDefault("geo.endpoint", "http://ip-api.com/json")
	viper.SetDefault("geo.timeout_seconds", 3)
	viper.SetDefault("monitor.interval_minutes", 30)

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			// Not fatal - the defaults above carry the service
			log.Println("Config file not found, using default values")
		} else {
			// Permissions, malformed YAML, etc. are fatal
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	log.Printf("Configuration loaded: Server Port=%d, DB Name=%s, Notification Buffer=%d, Monitor Interval=%dmin",
		cfg.Server.Port, cfg.Database.Name, cfg.Notifications.BufferSize, cfg.Monitor.IntervalMinutes)

	return &cfg, nil
}
