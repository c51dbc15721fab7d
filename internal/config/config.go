package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Port           string
	DatabaseURL    string
	RedisURL       string
	LogLevel       string
	Environment    string
	CORSOrigins    string
	YouTubeAPIKey  string
	GeminiAPIKey   string
	GeminiModel    string
	MaxVideos      int
	AnalyzeTimeout int // seconds
}

func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Port:           getEnv("PORT", "8080"),
		DatabaseURL:    getEnv("DATABASE_URL", ""),
		RedisURL:       getEnv("REDIS_URL", ""),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		CORSOrigins:    getEnv("CORS_ORIGINS", "*"),
		YouTubeAPIKey:  getEnv("YOUTUBE_API_KEY", ""),
		GeminiAPIKey:   getEnv("GEMINI_API_KEY", ""),
		GeminiModel:    getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		MaxVideos:      getEnvInt("MAX_VIDEOS", 5),
		AnalyzeTimeout: getEnvInt("ANALYZE_TIMEOUT_SECONDS", 20),
	}
}

// Configured reports whether the external-service credentials needed by the
// analysis pipeline are present. Missing credentials surface as
// SERVER_MISCONFIG at request time rather than a startup failure.
func (c *Config) Configured() bool {
	return c.YouTubeAPIKey != "" && c.GeminiAPIKey != ""
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}
