package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Auth     AuthConfig
	Workers  WorkersConfig
	Cache    CacheConfig
}

type ServerConfig struct {
	Port         string
	Mode         string
	ReadTimeout  int
	WriteTimeout int
}

type DatabaseConfig struct {
	Path string
}

type AuthConfig struct {
	JWTSecret          string
	JWTExpirationHours int
	AdminEmail         string
	AdminPassword      string
}

// WorkersConfig holds the intervals of the periodic jobs
type WorkersConfig struct {
	AlertScanIntervalMinutes int
	SweepIntervalHours       int
	NotificationCleanupHours int
}

type CacheConfig struct {
	Size       int
	TTLSeconds int
}

var AppConfig *Config

// Load loads configuration from .env file and environment variables
func Load() error {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	AppConfig = &Config{
		Server: ServerConfig{
			Port:         getEnv("PORT", "8080"),
			Mode:         getEnv("GIN_MODE", "release"),
			ReadTimeout:  getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout: getEnvAsInt("WRITE_TIMEOUT", 15),
		},
		Database: DatabaseConfig{
			Path: getEnv("DB_PATH", "./staffhub.db"),
		},
		Auth: AuthConfig{
			JWTSecret:          getEnv("JWT_SECRET", "default-secret-key"),
			JWTExpirationHours: getEnvAsInt("JWT_EXPIRATION_HOURS", 24),
			AdminEmail:         getEnv("ADMIN_EMAIL", "admin@example.com"),
			AdminPassword:      getEnv("ADMIN_PASSWORD", "admin@#123"),
		},
		Workers: WorkersConfig{
			AlertScanIntervalMinutes: getEnvAsInt("ALERT_SCAN_INTERVAL_MINUTES", 60),
			SweepIntervalHours:       getEnvAsInt("SWEEP_INTERVAL_HOURS", 24),
			NotificationCleanupHours: getEnvAsInt("NOTIFICATION_CLEANUP_HOURS", 24),
		},
		Cache: CacheConfig{
			Size:       getEnvAsInt("CACHE_SIZE", 512),
			TTLSeconds: getEnvAsInt("CACHE_TTL_SECONDS", 300),
		},
	}

	return nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt gets an environment variable as integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}
