package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/domain/stats"
	"github.com/eeko-kon/Statistical-analysis-of-non-targeted-LC-MSMS-data/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Server   ServerConfig
	Logging  LoggingConfig
	Data     DataConfig
	Analysis AnalysisConfig
}

// ServerConfig holds web server settings
type ServerConfig struct {
	Port           string
	MetricsEnabled bool
}

// LoggingConfig selects verbosity and encoding of the zap logger
type LoggingConfig struct {
	Level  string
	Format string
}

// DataConfig points at the tables loaded at startup
type DataConfig struct {
	FeatureTable  string
	MetadataTable string
	Transpose     bool
	Watch         bool
}

// AnalysisConfig holds test runner settings
type AnalysisConfig struct {
	Workers           int
	DefaultCorrection stats.CorrectionMethod
}

// Load reads configuration from the environment, after merging a .env file when present,
// and validates it
func Load() (*Config, error) {
	// a missing .env is normal outside development
	_ = godotenv.Load()

	correction, err := stats.ParseCorrectionMethod(getEnvOrDefault("DEFAULT_CORRECTION", string(stats.CorrectionFDRBH)))
	if err != nil {
		return nil, errors.Wrap(errors.ConfigInvalid(err.Error()), "failed to load analysis configuration")
	}

	config := &Config{
		Server: ServerConfig{
			Port:           getEnvOrDefault("PORT", "8080"),
			MetricsEnabled: getEnvBoolOrDefault("METRICS_ENABLED", true),
		},
		Logging: LoggingConfig{
			Level:  getEnvOrDefault("LOG_LEVEL", "INFO"),
			Format: getEnvOrDefault("LOG_FORMAT", "console"),
		},
		Data: DataConfig{
			FeatureTable:  getEnvOrDefault("FEATURE_TABLE", ""),
			MetadataTable: getEnvOrDefault("METADATA_TABLE", ""),
			Transpose:     getEnvBoolOrDefault("FEATURE_TABLE_TRANSPOSED", false),
			Watch:         getEnvBoolOrDefault("WATCH_DATA", true),
		},
		Analysis: AnalysisConfig{
			Workers:           getEnvIntOrDefault("ANALYSIS_WORKERS", runtime.GOMAXPROCS(0)),
			DefaultCorrection: correction,
		},
	}

	if err := validateConfig(config); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}
	return config, nil
}

// HasStartupData reports whether both startup tables are configured.
func (c *Config) HasStartupData() bool {
	return c.Data.FeatureTable != "" && c.Data.MetadataTable != ""
}

func validateConfig(config *Config) error {
	if _, err := strconv.Atoi(config.Server.Port); err != nil {
		return errors.ConfigInvalid("PORT must be numeric, got " + strconv.Quote(config.Server.Port))
	}
	if config.Analysis.Workers < 1 {
		return errors.ConfigInvalid("ANALYSIS_WORKERS must be at least 1")
	}
	if (config.Data.FeatureTable == "") != (config.Data.MetadataTable == "") {
		return errors.ConfigInvalid("FEATURE_TABLE and METADATA_TABLE must be set together")
	}
	switch strings.ToLower(config.Logging.Format) {
	case "console", "json":
	default:
		return errors.ConfigInvalid("LOG_FORMAT must be console or json")
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

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
