package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime configuration. Every tuning threshold lives here
// so deployments can adjust them without a rebuild.
type Config struct {
	Port     string
	DBPath   string
	RedisURL string
	LogPath  string

	// Tracking agent
	MovementThresholdM float64
	RetryBase          time.Duration
	RetryMax           time.Duration
	RetryLimit         int

	// Geofence evaluator
	DebounceWindow time.Duration

	// Route aggregation
	StopDistanceM float64
	StopDuration  time.Duration
	RouteBreak    time.Duration

	// Activity classification
	ActiveWindow time.Duration
	RecentWindow time.Duration
}

// Load reads configuration from .env (if present) and environment variables
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, relying on env vars")
	}

	return &Config{
		Port:     getEnv("PORT", ":8080"),
		DBPath:   getEnv("DB_PATH", "./data/locations.db"),
		RedisURL: getEnv("REDIS_URL", ""),
		LogPath:  getEnv("LOG_PATH", "./logs/app.log"),

		MovementThresholdM: getEnvFloat("MOVEMENT_THRESHOLD_M", 10),
		RetryBase:          getEnvSeconds("RETRY_BASE_S", 1),
		RetryMax:           getEnvSeconds("RETRY_MAX_S", 30),
		RetryLimit:         getEnvInt("RETRY_LIMIT", 3),

		DebounceWindow: getEnvSeconds("GEOFENCE_DEBOUNCE_S", 300),

		StopDistanceM: getEnvFloat("STOP_DISTANCE_M", 5),
		StopDuration:  getEnvSeconds("STOP_DURATION_S", 300),
		RouteBreak:    getEnvSeconds("ROUTE_BREAK_S", 1800),

		ActiveWindow: getEnvSeconds("ACTIVE_WINDOW_S", 600),
		RecentWindow: getEnvSeconds("RECENT_WINDOW_S", 3600),
	}
}

// getEnv reads an environment variable or returns the provided default
func getEnv(key, defaultValue string) string {
	if v, exists := os.LookupEnv(key); exists {
		return v
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if v, exists := os.LookupEnv(key); exists {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
		log.Printf("Warning: invalid value for %s, using default %d", key, defaultValue)
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if v, exists := os.LookupEnv(key); exists {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
		log.Printf("Warning: invalid value for %s, using default %f", key, defaultValue)
	}
	return defaultValue
}

func getEnvSeconds(key string, defaultValue int) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * time.Second
}
