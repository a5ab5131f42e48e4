package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds everything main needs to wire the application.
type Config struct {
	Port         string
	DatabaseDSN  string
	JWTSecret    string
	JWTTTL       time.Duration
	RedisAddr    string
	RedisPass    string
	KafkaBrokers []string
	OrderTopic   string
	CORSOrigin   string
	GinMode      string
}

// Load reads a .env file when one exists and then the process environment.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("WARNING: Could not find or load .env file. Relying on system environment variables.")
	}

	ttl, err := time.ParseDuration(getEnv("JWT_TTL", "72h"))
	if err != nil {
		log.Printf("WARNING: invalid JWT_TTL, falling back to 72h: %v", err)
		ttl = 72 * time.Hour
	}

	return &Config{
		Port:         getEnv("PORT", "8080"),
		DatabaseDSN:  getEnv("DB_DSN_PRIMARY", "root:root@tcp(127.0.0.1:3306)/storefront?parseTime=true&multiStatements=true&clientFoundRows=true"),
		JWTSecret:    getEnv("JWT_SECRET", "change-me-in-production"),
		JWTTTL:       ttl,
		RedisAddr:    os.Getenv("REDIS_ADDR"),
		RedisPass:    os.Getenv("REDIS_PASSWORD"),
		KafkaBrokers: splitList(os.Getenv("KAFKA_BROKERS")),
		OrderTopic:   getEnv("KAFKA_ORDER_TOPIC", "order-events"),
		CORSOrigin:   getEnv("CORS_ORIGIN", "http://localhost:5173"),
		GinMode:      getEnv("GIN_MODE", "debug"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
