package common

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Rules     RulesConfig
	Recognize RecognizeConfig
	Importer  ImporterConfig
}

// RulesConfig holds rule-catalog configuration
type RulesConfig struct {
	SourceURL     string
	LocalPath     string
	CacheTTL      time.Duration
	CoverageRatio float64
	FetchTimeout  time.Duration
}

// RecognizeConfig holds recognition-service configuration
type RecognizeConfig struct {
	ServiceURL string
	Timeout    time.Duration
}

// ImporterConfig holds persistence-service configuration
type ImporterConfig struct {
	ServiceURL       string
	LocalDBPath      string
	Timeout          time.Duration
	DebounceInterval time.Duration
}

// LoadConfig loads configuration from environment variables
func LoadConfig() *Config {
	return &Config{
		Rules: RulesConfig{
			SourceURL:     getEnv("RULES_URL", ""),
			LocalPath:     getEnv("RULES_LOCAL_PATH", ""),
			CacheTTL:      getEnvAsDuration("RULES_CACHE_TTL", 5*time.Minute),
			CoverageRatio: getEnvAsFloat64("RULES_COVERAGE_RATIO", 0.5),
			FetchTimeout:  getEnvAsDuration("RULES_FETCH_TIMEOUT", 10*time.Second),
		},
		Recognize: RecognizeConfig{
			ServiceURL: getEnv("RECOGNIZE_URL", ""),
			Timeout:    getEnvAsDuration("RECOGNIZE_TIMEOUT", 30*time.Second),
		},
		Importer: ImporterConfig{
			ServiceURL:       getEnv("IMPORT_URL", ""),
			LocalDBPath:      getEnv("IMPORT_LOCAL_DB", ""),
			Timeout:          getEnvAsDuration("IMPORT_TIMEOUT", 15*time.Second),
			DebounceInterval: getEnvAsDuration("SUBMIT_DEBOUNCE", 100*time.Millisecond),
		},
	}
}

// Helper functions for environment variable parsing
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsFloat64(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

// Validate checks that the loaded configuration names at least one rule
// source and a recognition endpoint.
func (c *Config) Validate() error {
	if c.Rules.SourceURL == "" && c.Rules.LocalPath == "" {
		return NewAppError("CONFIG_ERROR", "RULES_URL or RULES_LOCAL_PATH is required", ErrInvalidInput)
	}
	if c.Recognize.ServiceURL == "" {
		return NewAppError("CONFIG_ERROR", "RECOGNIZE_URL is required", ErrInvalidInput)
	}
	if c.Rules.CoverageRatio <= 0 || c.Rules.CoverageRatio > 1 {
		return NewAppError("CONFIG_ERROR", "RULES_COVERAGE_RATIO must be in (0,1]", ErrInvalidInput)
	}
	return nil
}
