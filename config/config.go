package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// This function will Load the ENVIRONMENT VARIABLES from .env if GO_ENV variable is not set
func LoadENV() error {
	goEnv := os.Getenv("GO_ENV")

	if goEnv == "" || goEnv == "development" {
		// A missing .env file is fine, the process environment still applies
		if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
			return err
		}
	}

	return nil
}

// Config is built once at process start and handed to every component that needs it
type Config struct {
	GoEnv string
	Port  int

	// Database
	DBDriver   string // "sqlite" or "postgres"
	DBPath     string // sqlite file
	DBUserName string
	DBPassword string
	DBName     string
	DBHost     string
	DBPort     string
	DBSSLMode  string

	// JWT write guard, disabled when JWTSecret is empty
	JWTSecret string
	JWTIssuer string
	JWTExpiry time.Duration

	// Redis lookup cache, disabled when RedisURL is empty
	RedisURL      string
	LookupTTL     time.Duration
	LookupTimeout time.Duration

	// External registries
	RORAPIURL       string
	CountriesAPIURL string
	RORDumpURL      string
	RORDumpPath     string

	CronEnabled    bool
	RORRefreshCron string

	// HTTP
	AllowedOrigins    string
	RateLimitRequests int
	RateLimitWindow   time.Duration
}

// DefaultDBPath is the per-user cache location used when SCOUTING_DB_PATH is unset
func DefaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".cache", "scouting_data", "app.db")
}

func Get() (*Config, error) {

	port, err := strconv.Atoi(os.Getenv("PORT"))
	if err != nil {
		port = 8000
	}

	cfg := &Config{
		GoEnv:      os.Getenv("GO_ENV"),
		Port:       port,
		DBDriver:   strings.ToLower(getEnvOrDefault("DB_DRIVER", "sqlite")),
		DBPath:     getEnvOrDefault("SCOUTING_DB_PATH", DefaultDBPath()),
		DBUserName: os.Getenv("DB_USER_NAME"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     os.Getenv("DB_NAME"),
		DBHost:     getEnvOrDefault("DB_HOST", "localhost"),
		DBPort:     getEnvOrDefault("DB_PORT", "5432"),
		DBSSLMode:  getEnvOrDefault("DB_SSL_MODE", "disable"),
		// JWT
		JWTSecret: os.Getenv("JWT_SECRET"),
		JWTIssuer: getEnvOrDefault("JWT_ISSUER", "scouting-db"),
		JWTExpiry: getDurationOrDefault("JWT_EXPIRY", 30*24*time.Hour),
		// Redis
		RedisURL:      os.Getenv("REDIS_URL"),
		LookupTTL:     getDurationOrDefault("LOOKUP_CACHE_TTL", 24*time.Hour),
		LookupTimeout: getDurationOrDefault("LOOKUP_TIMEOUT", 10*time.Second),
		// Registries
		RORAPIURL:       getEnvOrDefault("ROR_API_URL", "https://api.ror.org/organizations"),
		CountriesAPIURL: getEnvOrDefault("COUNTRIES_API_URL", "https://restcountries.com/v3.1/name"),
		RORDumpURL:      getEnvOrDefault("ROR_DUMP_URL", "https://zenodo.org/record/15298417/files/ror-data-v2.0.json?download=1"),
		RORDumpPath:     getEnvOrDefault("ROR_DUMP_PATH", filepath.Join("data", "ror_dump.json")),
		CronEnabled:     os.Getenv("CRON_ENABLED") != "false", // Default to enabled
		RORRefreshCron:  getEnvOrDefault("ROR_REFRESH_CRON", "0 0 3 * * 0"),
		// HTTP
		AllowedOrigins:    getEnvOrDefault("ALLOWED_ORIGINS", "*"),
		RateLimitRequests: getIntOrDefault("RATE_LIMIT_REQUESTS", 300),
		RateLimitWindow:   getDurationOrDefault("RATE_LIMIT_WINDOW", time.Minute),
	}

	return cfg, nil
}

// IsProduction reports whether GO_ENV selects production behaviour
func (c *Config) IsProduction() bool {
	return c.GoEnv == "production"
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntOrDefault(key string, defaultValue int) int {
	value, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}

func getDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(os.Getenv(key))
	if err != nil {
		return defaultValue
	}
	return value
}
