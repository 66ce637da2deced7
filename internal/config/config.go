package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"datagraph/internal"
	"datagraph/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Admin    AdminConfig
	Data     DataConfig
	Database DatabaseConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	LogLevel       string
	SessionMaxIdle time.Duration
}

// AdminConfig holds the health/profiling listener settings
type AdminConfig struct {
	Port    string
	Enabled bool
}

// DataConfig selects where the dataset registry is loaded from
type DataConfig struct {
	Sources         []string
	Dir             string
	ExcelFile       string
	ExcelBucketCol  string
	APIURL          string
	APIDataPath     string
	APIAuthMethod   string
	APIToken        string
	LoadConcurrency int64
	LoadTimeout     time.Duration
	Watch           bool
	WatchDebounce   time.Duration
}

// DatabaseConfig holds connection settings for the database data source
type DatabaseConfig struct {
	Driver string
	URL    string
}

// AnalysisConfig holds statistical policy settings
type AnalysisConfig struct {
	DegeneratePolicy string
}

// Data source names accepted in DATA_SOURCE
const (
	SourceEmbedded = "embedded"
	SourceDir      = "dir"
	SourceExcel    = "excel"
	SourceDatabase = "database"
	SourceAPI      = "api"
)

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:   *loadServerConfig(),
		Admin:    *loadAdminConfig(),
		Data:     *loadDataConfig(),
		Database: *loadDatabaseConfig(),
		Analysis: AnalysisConfig{
			DegeneratePolicy: getEnvOrDefault("DEGENERATE_POLICY", "zero"),
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "release"),
		LogLevel:       getEnvOrDefault("LOG_LEVEL", "INFO"),
		SessionMaxIdle: getEnvDurationOrDefault("SESSION_MAX_IDLE", 30*time.Minute),
	}
}

func loadAdminConfig() *AdminConfig {
	return &AdminConfig{
		Port:    getEnvOrDefault("ADMIN_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("ADMIN_ENABLED", true),
	}
}

func loadDataConfig() *DataConfig {
	return &DataConfig{
		Sources:         splitList(getEnvOrDefault("DATA_SOURCE", SourceEmbedded)),
		Dir:             getEnvOrDefault("DATA_DIR", "./data"),
		ExcelFile:       getEnvOrDefault("EXCEL_FILE", ""),
		ExcelBucketCol:  getEnvOrDefault("EXCEL_BUCKET_COLUMN", ""),
		APIURL:          getEnvOrDefault("DATA_API_URL", ""),
		APIDataPath:     getEnvOrDefault("DATA_API_PATH", ""),
		APIAuthMethod:   getEnvOrDefault("DATA_API_AUTH", ""),
		APIToken:        getEnvOrDefault("DATA_API_TOKEN", ""),
		LoadConcurrency: int64(getEnvIntOrDefault("LOAD_CONCURRENCY", 4)),
		LoadTimeout:     getEnvDurationOrDefault("LOAD_TIMEOUT", 30*time.Second),
		Watch:           getEnvBoolOrDefault("DATA_WATCH", false),
		WatchDebounce:   getEnvDurationOrDefault("DATA_WATCH_DEBOUNCE", 500*time.Millisecond),
	}
}

func loadDatabaseConfig() *DatabaseConfig {
	return &DatabaseConfig{
		Driver: getEnvOrDefault("DATABASE_DRIVER", "postgres"),
		URL:    getEnvOrDefault("DATABASE_URL", ""),
	}
}

func validateConfig(config *Config) error {
	if _, err := internal.ParseLogLevel(config.Server.LogLevel); err != nil {
		return errors.ConfigInvalid("LOG_LEVEL must be ERROR, WARN, INFO or DEBUG")
	}
	if len(config.Data.Sources) == 0 {
		return errors.ConfigInvalid("DATA_SOURCE must name at least one source")
	}
	for _, source := range config.Data.Sources {
		switch source {
		case SourceEmbedded, SourceDir:
		case SourceExcel:
			if config.Data.ExcelFile == "" {
				return errors.ConfigInvalid("EXCEL_FILE is required for the excel data source")
			}
		case SourceDatabase:
			if err := config.Database.Validate(); err != nil {
				return err
			}
		case SourceAPI:
			if config.Data.APIURL == "" {
				return errors.ConfigInvalid("DATA_API_URL is required for the api data source")
			}
			switch config.Data.APIAuthMethod {
			case "", "bearer", "api_key":
			default:
				return errors.ConfigInvalid("DATA_API_AUTH must be bearer or api_key")
			}
		default:
			return errors.ConfigInvalid("unknown data source: " + source)
		}
	}
	if config.Data.Watch && !config.Data.Uses(SourceDir) {
		return errors.ConfigInvalid("DATA_WATCH requires the dir data source")
	}
	if config.Data.LoadConcurrency < 1 {
		return errors.ConfigInvalid("LOAD_CONCURRENCY must be at least 1")
	}
	return nil
}

// Validate checks that the database settings are usable
func (d DatabaseConfig) Validate() error {
	if d.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required")
	}
	switch d.Driver {
	case "postgres", "sqlite3":
		return nil
	}
	return errors.ConfigInvalid("DATABASE_DRIVER must be postgres or sqlite3")
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.ToLower(strings.TrimSpace(part)); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// Uses reports whether source is one of the configured data sources
func (d DataConfig) Uses(source string) bool {
	for _, s := range d.Sources {
		if s == source {
			return true
		}
	}
	return false
}
