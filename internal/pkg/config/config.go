// Package config loads process settings from the environment. An optional
// .env file in the working directory is read first; real environment
// variables take precedence over it.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	CacheBackendMemory = "memory"
	CacheBackendRedis  = "redis"
)

type Config struct {
	Port string

	CatalogURL     string
	CatalogTimeout time.Duration

	CacheBackend string
	CacheTTL     time.Duration
	RedisAddr    string

	DatabasePath string

	PaymentServiceAddr string
	PaymentTimeout     time.Duration
	PaymentSuccessRate float64

	RandomSeed        uint64
	JWTSecret         string
	AMQPURL           string
	EnrichConcurrency int
	OTLPEndpoint      string
	LogLevel          string
}

// Load reads the storefront configuration.
func Load() (Config, error) {
	loadDotEnv()

	cfg := Config{
		Port:               getEnv("PORT", "3000"),
		CatalogURL:         getEnv("PRODUCTS_API_URL", "https://dummyjson.com/products"),
		CacheBackend:       getEnv("CACHE_BACKEND", CacheBackendMemory),
		RedisAddr:          getEnv("REDIS_ADDR", "localhost:6379"),
		DatabasePath:       getEnv("DATABASE_PATH", "./data/storefront.db"),
		PaymentServiceAddr: getEnv("PAYMENT_SERVICE_ADDR", ""),
		JWTSecret:          getEnv("JWT_SECRET", "your-super-secret-jwt-key-change-this-in-production"),
		AMQPURL:            getEnv("AMQP_URL", ""),
		OTLPEndpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.CatalogTimeout, err = getDuration("CATALOG_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.CacheTTL, err = getDuration("CACHE_TTL", 5*time.Minute); err != nil {
		return Config{}, err
	}
	if cfg.PaymentTimeout, err = getDuration("PAYMENT_TIMEOUT", 5*time.Second); err != nil {
		return Config{}, err
	}
	if cfg.PaymentSuccessRate, err = getFloat("PAYMENT_SUCCESS_RATE", 0.9); err != nil {
		return Config{}, err
	}
	if cfg.RandomSeed, err = getUint("RANDOM_SEED", 0); err != nil {
		return Config{}, err
	}
	concurrency, err := getUint("ENRICH_CONCURRENCY", 8)
	if err != nil {
		return Config{}, err
	}
	cfg.EnrichConcurrency = int(concurrency)

	if err := checkCacheBackend(cfg.CacheBackend); err != nil {
		return Config{}, err
	}
	if err := checkRate(cfg.PaymentSuccessRate); err != nil {
		return Config{}, err
	}
	if cfg.EnrichConcurrency <= 0 {
		cfg.EnrichConcurrency = 1
	}

	return cfg, nil
}

// PaymentConfig configures the standalone payment service.
type PaymentConfig struct {
	Port           string
	SuccessRate    float64
	RandomSeed     uint64
	CacheBackend   string
	RedisAddr      string
	IdempotencyTTL time.Duration
	OTLPEndpoint   string
	LogLevel       string
}

// LoadPayment reads the payment service configuration.
func LoadPayment() (PaymentConfig, error) {
	loadDotEnv()

	cfg := PaymentConfig{
		Port:         getEnv("PORT", "9091"),
		CacheBackend: getEnv("CACHE_BACKEND", CacheBackendMemory),
		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
	}

	var err error
	if cfg.SuccessRate, err = getFloat("PAYMENT_SUCCESS_RATE", 0.9); err != nil {
		return PaymentConfig{}, err
	}
	if cfg.RandomSeed, err = getUint("RANDOM_SEED", 0); err != nil {
		return PaymentConfig{}, err
	}
	if cfg.IdempotencyTTL, err = getDuration("IDEMPOTENCY_TTL", 24*time.Hour); err != nil {
		return PaymentConfig{}, err
	}
	if err := checkCacheBackend(cfg.CacheBackend); err != nil {
		return PaymentConfig{}, err
	}
	if err := checkRate(cfg.SuccessRate); err != nil {
		return PaymentConfig{}, err
	}
	return cfg, nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		slog.Warn("could not read .env file", "error", err)
	}
}

func checkCacheBackend(backend string) error {
	if backend != CacheBackendMemory && backend != CacheBackendRedis {
		return fmt.Errorf("config: CACHE_BACKEND must be %q or %q, got %q",
			CacheBackendMemory, CacheBackendRedis, backend)
	}
	return nil
}

func checkRate(rate float64) error {
	if rate < 0 || rate > 1 {
		return fmt.Errorf("config: PAYMENT_SUCCESS_RATE must be within [0,1], got %v", rate)
	}
	return nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return d, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return f, nil
}

func getUint(key string, fallback uint64) (uint64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", key, err)
	}
	return n, nil
}
