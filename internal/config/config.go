package config

import (
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment variables.
// It is read once at startup and treated as immutable afterwards.
type Config struct {
	ServerPort string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string

	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int

	// Image URLs assigned to events by type at creation time.
	OnsiteImageURL  string
	VirtualImageURL string

	SwaggerHost string
}

// Load builds Config from environment with sensible defaults.
func Load() *Config {
	return &Config{
		ServerPort: getEnv("SERVER_PORT", "8080"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/eventhub?charset=utf8mb4&parseTime=True&loc=Local"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),

		JWTSecret:  getEnv("JWT_SECRET", "change-me"),
		TokenTTL:   time.Duration(getEnvInt("TOKEN_TTL_MINUTES", 30)) * time.Minute,
		BcryptCost: getEnvInt("BCRYPT_COST", 10),

		OnsiteImageURL:  getEnv("IMG_ONSITE", "https://eventhub.example.com/img/onsite.png"),
		VirtualImageURL: getEnv("IMG_VIRTUAL", "https://eventhub.example.com/img/virtual.png"),

		SwaggerHost: os.Getenv("SWAGGER_HOST"),
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}
