package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration
type Config struct {
	Port        string
	DatabaseURL string // mongodb:// URI, mysql:// DSN, or SQLite file path
	RedisURL    string // empty disables Redis; gallery cache falls back to memory

	// Gemini configuration
	GeminiAPIKey     string // server default; requests may override per call
	GeminiImageModel string
	GeminiTextModel  string

	// Image storage
	ImageDir string

	// Gallery cache
	GalleryCacheTTL time.Duration

	// Simulator pools file (optional YAML override, hot-reloaded)
	PoolsFile string

	// Orphan image cleanup
	CleanupEnabled bool
	CleanupMinAge  time.Duration
}

// Load loads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		Port:        getEnv("PORT", "3001"),
		DatabaseURL: getEnv("DATABASE_URL", "pokaimon.db"),
		RedisURL:    getEnv("REDIS_URL", ""),

		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiImageModel: getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image-preview"),
		GeminiTextModel:  getEnv("GEMINI_TEXT_MODEL", "gemini-2.5-flash"),

		ImageDir: getEnv("IMAGE_DIR", "./public/images"),

		GalleryCacheTTL: time.Duration(getIntEnv("GALLERY_CACHE_TTL_SECONDS", 300)) * time.Second,

		PoolsFile: getEnv("SIMULATOR_POOLS_FILE", ""),

		CleanupEnabled: getBoolEnv("IMAGE_CLEANUP_ENABLED", true),
		CleanupMinAge:  time.Duration(getIntEnv("IMAGE_CLEANUP_MIN_AGE_HOURS", 24)) * time.Hour,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.ParseBool(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err == nil {
			return parsed
		}
	}
	return defaultValue
}
