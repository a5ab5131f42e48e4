package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("PORT", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("KAFKA_BROKERS", "")
	t.Setenv("REDIS_ADDR", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
	assert.Empty(t, cfg.KafkaBrokers)
	assert.Empty(t, cfg.RedisAddr)
	assert.Equal(t, "order-events", cfg.OrderTopic)
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("JWT_TTL", "1h")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("REDIS_ADDR", "localhost:6379")

	cfg := Load()

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, time.Hour, cfg.JWTTTL)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaBrokers)
	assert.Equal(t, "localhost:6379", cfg.RedisAddr)
}

func TestLoad_InvalidTTLFallsBack(t *testing.T) {
	t.Setenv("JWT_TTL", "three days")

	cfg := Load()

	assert.Equal(t, 72*time.Hour, cfg.JWTTTL)
}
