// internal/config/config.go
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"

	"auction-listings/pkg/db" // Import db package for its Config struct
)

// MinJWTSecretBytes is the shortest HMAC key accepted for signing tokens.
const MinJWTSecretBytes = 32

// AppConfig holds all application-wide configurations.
type AppConfig struct {
	ServerPort string
	DB         db.Config
	JWTSecret  string
	TokenTTL   time.Duration
	// Location is the zone end times without an offset are interpreted in.
	Location *time.Location
	LogLevel string
}

// LoadDotEnv loads variables from .env.local or .env when present.
// Variables already set in the environment win.
func LoadDotEnv() {
	for _, name := range []string{".env.local", ".env"} {
		if _, err := os.Stat(name); err == nil {
			_ = godotenv.Load(name)
		}
	}
}

// LoadConfig loads configuration from environment variables.
// It returns an AppConfig instance or an error if any variable is invalid.
func LoadConfig() (*AppConfig, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	tokenTTL, err := time.ParseDuration(getEnv("TOKEN_TTL", "24h"))
	if err != nil {
		return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
	}
	if tokenTTL <= 0 {
		return nil, errors.New("invalid TOKEN_TTL: must be positive")
	}

	location, err := time.LoadLocation(getEnv("APP_TIMEZONE", "UTC"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if len(jwtSecret) < MinJWTSecretBytes {
		return nil, fmt.Errorf("invalid JWT_SECRET: must be set and at least %d bytes", MinJWTSecretBytes)
	}

	return &AppConfig{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		DB: db.Config{
			Host:     getEnv("DB_HOST", "localhost"), // Default to localhost for local development
			Port:     dbPort,
			User:     getEnv("DB_USER", "user"),
			Password: getEnv("DB_PASSWORD", "password"),
			DBName:   getEnv("DB_NAME", "auctions"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		JWTSecret: jwtSecret,
		TokenTTL:  tokenTTL,
		Location:  location,
		LogLevel:  getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
