package config

import (
	"fmt"
	"log"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the runtime settings of the API server.
type Config struct {
	AppPort string `validate:"required"`

	DatabaseDriver       string `validate:"oneof=postgres sqlite"`
	DatabaseDSN          string `validate:"required"`
	DatabaseMaxOpenConns int    `validate:"gte=1"`
	SeedData             bool

	// Empty URLs disable the corresponding event publisher.
	RabbitMQURL      string
	RabbitMQExchange string `validate:"required"`
	KafkaBrokers     string
	KafkaTopic       string `validate:"required"`

	// An empty RedisURL keeps idempotency keys in process memory.
	RedisURL       string
	IdempotencyTTL time.Duration `validate:"gt=0"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("APP_PORT", ":8080")
	v.SetDefault("DATABASE_DRIVER", "postgres")
	v.SetDefault("DATABASE_DSN", "host=127.0.0.1 user=postgres password=postgres dbname=lalastore port=5432 sslmode=disable")
	v.SetDefault("DATABASE_MAX_OPEN_CONNS", 20)
	v.SetDefault("SEED_DATA", true)
	v.SetDefault("RABBITMQ_URL", "")
	v.SetDefault("RABBITMQ_EXCHANGE", "orders")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "order.created")
	v.SetDefault("REDIS_URL", "")
	v.SetDefault("IDEMPOTENCY_TTL", "24h")
}

// Load reads configuration from an optional .env file and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded environment from .env")
	}
	return FromViper(viper.New())
}

// FromViper builds a validated Config from v, applying defaults and environment overrides.
func FromViper(v *viper.Viper) (*Config, error) {
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		AppPort:              v.GetString("APP_PORT"),
		DatabaseDriver:       v.GetString("DATABASE_DRIVER"),
		DatabaseDSN:          v.GetString("DATABASE_DSN"),
		DatabaseMaxOpenConns: v.GetInt("DATABASE_MAX_OPEN_CONNS"),
		SeedData:             v.GetBool("SEED_DATA"),
		RabbitMQURL:          v.GetString("RABBITMQ_URL"),
		RabbitMQExchange:     v.GetString("RABBITMQ_EXCHANGE"),
		KafkaBrokers:         v.GetString("KAFKA_BROKERS"),
		KafkaTopic:           v.GetString("KAFKA_TOPIC"),
		RedisURL:             v.GetString("REDIS_URL"),
		IdempotencyTTL:       v.GetDuration("IDEMPOTENCY_TTL"),
	}
	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
