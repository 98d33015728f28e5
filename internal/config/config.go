package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	HTTPPort     string
	LogLevel     string
	DatabasePath string
	MediaRoot    string

	JWTSecret    string
	GeminiAPIKey string

	// Inference endpoints for the in-house models.
	ClipServerURL    string
	CaptionServerURL string

	// Token blacklist; logout degrades to token validation when disabled.
	RedisEnabled  bool
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	ChunkSize     int
	ChunkOverlap  int
	BlurThreshold float64
}

// Load reads the environment (and a .env file if present) into a Config.
// Missing required secrets are fatal at startup.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, relying on environment variables")
	}

	cfg := Config{
		HTTPPort:     getEnv("HTTP_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		DatabasePath: getEnv("DATABASE_PATH", "snapfeed.db"),
		MediaRoot:    getEnv("MEDIA_ROOT", "uploads"),

		JWTSecret:    getEnv("JWT_SECRET", ""),
		GeminiAPIKey: getEnv("GEMINI_API_KEY", ""),

		ClipServerURL:    getEnv("CLIP_SERVER_URL", "http://localhost:9090"),
		CaptionServerURL: getEnv("CAPTION_SERVER_URL", "http://localhost:9091"),

		RedisEnabled:  getEnvAsBool("REDIS_ENABLED", false),
		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),

		ChunkSize:     getEnvAsInt("CONTEXT_CHUNK_SIZE", 512),
		ChunkOverlap:  getEnvAsInt("CONTEXT_CHUNK_OVERLAP", 64),
		BlurThreshold: getEnvAsFloat("BLUR_THRESHOLD", 100.0),
	}

	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET environment variable is required")
	}
	if cfg.GeminiAPIKey == "" {
		logrus.Fatal("GEMINI_API_KEY environment variable is required")
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		logrus.Fatal("CONTEXT_CHUNK_OVERLAP must be smaller than CONTEXT_CHUNK_SIZE")
	}

	return cfg
}

func getEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value, err := strconv.ParseFloat(getEnv(key, ""), 64); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return value
	}
	return defaultValue
}
