package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/joho/godotenv"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Store
	StoreDriver  string // "postgres" | "sqlite"
	DatabaseURL  string
	StoreTimeout time.Duration

	// Migrations (postgres only)
	MigrationsDir string

	// Redis (optional: cache + live session feed)
	RedisURL string

	// Stats
	StatsTimezone string

	// Content providers
	FreesoundAPIKey  string
	FreesoundBaseURL string
	ZenQuotesURL     string
	GeminiAPIKey     string

	// HTTP
	FrontendURL        string
	RateLimitPerMinute int
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	cfg := &Config{
		Port:               getEnvOrDefault("PORT", "3000"),
		Env:                getEnvOrDefault("ENV", "development"),
		StoreDriver:        getEnvOrDefault("STORE_DRIVER", "postgres"),
		DatabaseURL:        mustGetEnv("DATABASE_URL"),
		StoreTimeout:       time.Duration(getEnvAsIntOrDefault("STORE_TIMEOUT_SECONDS", 5)) * time.Second,
		MigrationsDir:      getEnvOrDefault("MIGRATIONS_DIR", "migrations"),
		RedisURL:           getEnvOrDefault("REDIS_URL", ""),
		StatsTimezone:      getEnvOrDefault("STATS_TIMEZONE", "UTC"),
		FreesoundAPIKey:    getEnvOrDefault("FREESOUND_API_KEY", ""),
		FreesoundBaseURL:   getEnvOrDefault("FREESOUND_BASE_URL", "https://freesound.org/apiv2"),
		ZenQuotesURL:       getEnvOrDefault("ZENQUOTES_URL", "https://zenquotes.io/api/today"),
		GeminiAPIKey:       getEnvOrDefault("GEMINI_API_KEY", ""),
		FrontendURL:        getEnvOrDefault("FRONTEND_URL", "*"),
		RateLimitPerMinute: getEnvAsIntOrDefault("RATE_LIMIT_PER_MINUTE", 60),
	}

	return cfg
}

// Location resolves StatsTimezone. Day buckets in the stats endpoint are
// computed in this zone.
func (c *Config) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.StatsTimezone)
	if err != nil {
		return nil, fmt.Errorf("invalid STATS_TIMEZONE %q: %w", c.StatsTimezone, err)
	}
	return loc, nil
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
