package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"goeda/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server    ServerConfig
	Storage   StorageConfig
	Catalog   CatalogConfig
	Analysis  AnalysisConfig
	Profiling ProfilingConfig
	LogLevel  string
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	GinMode        string
	RequestTimeout time.Duration
}

// StorageConfig holds the dataset directory settings
type StorageConfig struct {
	Dir         string
	MaxUploadMB int
}

// CatalogConfig selects the SQL database that records dataset metadata
type CatalogConfig struct {
	Driver string // "postgres" or "sqlite"
	URL    string
}

// AnalysisConfig holds analysis tuning
type AnalysisConfig struct {
	ScatterSeed int64 // 0 draws a new seed at startup
}

// ProfilingConfig holds performance profiling settings
type ProfilingConfig struct {
	Port    string
	Enabled bool
}

// MaxUploadBytes returns the upload limit in bytes
func (s StorageConfig) MaxUploadBytes() int64 {
	return int64(s.MaxUploadMB) * 1024 * 1024
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	config := &Config{
		Server:    *loadServerConfig(),
		Storage:   *loadStorageConfig(),
		Analysis:  AnalysisConfig{ScatterSeed: getEnvInt64OrDefault("SCATTER_SEED", 0)},
		Profiling: *loadProfilingConfig(),
		LogLevel:  strings.ToUpper(getEnvOrDefault("LOG_LEVEL", "INFO")),
	}
	config.Catalog = *loadCatalogConfig(config.Storage.Dir)

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

func loadServerConfig() *ServerConfig {
	return &ServerConfig{
		Port:           getEnvOrDefault("PORT", "8080"),
		GinMode:        getEnvOrDefault("GIN_MODE", "debug"),
		RequestTimeout: getEnvDurationOrDefault("REQUEST_TIMEOUT", 60*time.Second),
	}
}

func loadStorageConfig() *StorageConfig {
	return &StorageConfig{
		Dir:         getEnvOrDefault("DATASET_DIR", "dataset"),
		MaxUploadMB: getEnvIntOrDefault("MAX_UPLOAD_MB", 100),
	}
}

// loadCatalogConfig defaults to postgres when DATABASE_URL is set and to an
// SQLite file inside the dataset directory otherwise
func loadCatalogConfig(datasetDir string) *CatalogConfig {
	url := os.Getenv("DATABASE_URL")
	driver := strings.ToLower(os.Getenv("CATALOG_DRIVER"))
	if driver == "" {
		driver = "sqlite"
		if url != "" {
			driver = "postgres"
		}
	}
	if url == "" && driver == "sqlite" {
		url = filepath.Join(datasetDir, ".catalog.db")
	}
	return &CatalogConfig{Driver: driver, URL: url}
}

func loadProfilingConfig() *ProfilingConfig {
	return &ProfilingConfig{
		Port:    getEnvOrDefault("PPROF_PORT", "6060"),
		Enabled: getEnvBoolOrDefault("PPROF_ENABLED", false),
	}
}

func validateConfig(config *Config) error {
	if config.Storage.Dir == "" {
		return errors.ConfigInvalid("DATASET_DIR must not be empty")
	}
	if config.Storage.MaxUploadMB <= 0 {
		return errors.ConfigInvalid("MAX_UPLOAD_MB must be positive")
	}
	switch config.Catalog.Driver {
	case "postgres", "sqlite":
	default:
		return errors.ConfigInvalid("CATALOG_DRIVER must be postgres or sqlite")
	}
	if config.Catalog.URL == "" {
		return errors.ConfigInvalid("DATABASE_URL is required for the postgres catalog")
	}
	if config.Server.RequestTimeout <= 0 {
		return errors.ConfigInvalid("REQUEST_TIMEOUT must be positive")
	}
	return nil
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

func getEnvInt64OrDefault(key string, defaultValue int64) int64 {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.ParseInt(value, 10, 64); err == nil {
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
