package config

import (
	"os"
	"strconv"
)

// Config holds process configuration loaded from the environment
type Config struct {
	MongoURI  string
	RedisAddr string
	HTTPPort  string

	// Answer pipeline bounds
	MaxIterations     int
	CritiqueThreshold float64

	// Follow-up chain bound per top-level question
	FollowUpMaxDepth int

	// Mock interview defaults
	MockQuestionCount int

	// Company research cache TTL in days (per field)
	ResearchCacheDays int
}

// Load reads configuration from environment variables with defaults
func Load() *Config {
	return &Config{
		MongoURI:          getEnv("MONGO_URI", "mongodb://localhost:27017"),
		RedisAddr:         getEnv("REDIS_ADDR", "localhost:6379"),
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		MaxIterations:     getEnvInt("MAX_ITERATIONS", 3),
		CritiqueThreshold: getEnvFloat("CRITIQUE_THRESHOLD", 7.0),
		FollowUpMaxDepth:  getEnvInt("FOLLOW_UP_DEPTH", 3),
		MockQuestionCount: getEnvInt("MOCK_QUESTION_COUNT", 15),
		ResearchCacheDays: getEnvInt("RESEARCH_CACHE_DAYS", 7),
	}
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			return n
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if val := os.Getenv(key); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
	}
	return defaultVal
}
