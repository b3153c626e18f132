// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Core tuning constants. These are contracts, not suggestions: the
// extraction threshold gates every AI merge, and the capability timeout is
// a hard upper bound on how long a turn may wait for either AI capability.
const (
	// ExtractionConfidenceThreshold is the minimum self-reported
	// confidence at which AI-extracted profile fields are accepted.
	ExtractionConfidenceThreshold = 0.6

	// CapabilityTimeout bounds every extraction and explanation call.
	CapabilityTimeout = 5 * time.Second

	// SessionIdleWindow is the inactivity window after which a session
	// is eligible for the idle sweep.
	SessionIdleWindow = 30 * time.Minute
)

// Config holds all configuration values for the application.
type Config struct {
	// Catalog
	SchemesPath   string
	CatalogFromDB bool

	// Database (optional catalog source)
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// AI
	GeminiAPIKey string
	GeminiModel  string

	// Sessions
	SweepInterval time.Duration

	// Application
	Port     string
	Stage    string
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// Catalog
		SchemesPath:   getEnv("SCHEMES_PATH", "data/schemes.json"),
		CatalogFromDB: getEnvBool("CATALOG_FROM_DB", false),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBName:     getEnv("DB_NAME", "scheme_assistant"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),

		// AI
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-pro"),

		// Sessions
		SweepInterval: getEnvDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),

		// Application
		Port:     getEnv("PORT", "8080"),
		Stage:    getEnv("STAGE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string for the catalog
// database.
func (c *Config) DatabaseURL() string {
	sslMode := "require"
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable"
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvBool retrieves an environment variable as bool or returns a default value.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

// getEnvDuration retrieves an environment variable as duration or returns a default value.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
