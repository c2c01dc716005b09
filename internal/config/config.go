package config

import "os"

// Config holds all service configuration loaded from environment variables.
type Config struct {
	Port          string
	PostgresDSN   string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	RedisPassword string
	TokenSecret   string
}

func Load() *Config {
	return &Config{
		Port:          getenv("PORT", "8080"),
		PostgresDSN:   getenv("POSTGRES_DSN", ""),
		MongoURI:      getenv("MONGO_URI", ""),
		MongoDB:       getenv("MONGO_DB", "schedulewise"),
		RedisAddr:     getenv("REDIS_ADDR", "redis:6379"),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		TokenSecret:   getenv("TOKEN_SECRET", ""),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
