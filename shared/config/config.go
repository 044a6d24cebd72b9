// Package config loads service settings. Each service passes its compiled
// defaults; a .env file, an optional YAML file named by CONFIG_FILE, and the
// process environment are layered on top in that order.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	URL    string `yaml:"url"`
}

type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type EventsConfig struct {
	Broker       string   `yaml:"broker"`
	KafkaBrokers []string `yaml:"kafkaBrokers"`
}

type RemoteConfig struct {
	AuthServiceURL        string        `yaml:"authServiceURL"`
	CustomerServiceURL    string        `yaml:"customerServiceURL"`
	AccountServiceURL     string        `yaml:"accountServiceURL"`
	TransactionServiceURL string        `yaml:"transactionServiceURL"`
	Timeout               time.Duration `yaml:"timeout"`
}

type Config struct {
	ServiceName       string         `yaml:"serviceName"`
	Port              string         `yaml:"port"`
	Database          DatabaseConfig `yaml:"database"`
	Redis             RedisConfig    `yaml:"redis"`
	Events            EventsConfig   `yaml:"events"`
	Remote            RemoteConfig   `yaml:"remote"`
	JWTSecret         string         `yaml:"jwtSecret"`
	EnrichConcurrency int            `yaml:"enrichConcurrency"`
}

// Load returns defaults overlaid with .env, CONFIG_FILE and the environment.
func Load(defaults Config) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	cfg := defaults
	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.Port = GetEnv("PORT", cfg.Port)
	cfg.Database.Driver = GetEnv("DATABASE_DRIVER", cfg.Database.Driver)
	cfg.Database.URL = GetEnv("DATABASE_URL", cfg.Database.URL)
	cfg.Redis.Addr = GetEnv("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = GetEnv("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Events.Broker = GetEnv("EVENT_BROKER", cfg.Events.Broker)
	cfg.JWTSecret = GetEnv("JWT_SECRET", cfg.JWTSecret)
	cfg.Remote.AuthServiceURL = strings.TrimSuffix(GetEnv("AUTH_SERVICE_URL", cfg.Remote.AuthServiceURL), "/")
	cfg.Remote.CustomerServiceURL = strings.TrimSuffix(GetEnv("CUSTOMER_SERVICE_URL", cfg.Remote.CustomerServiceURL), "/")
	cfg.Remote.AccountServiceURL = strings.TrimSuffix(GetEnv("ACCOUNT_SERVICE_URL", cfg.Remote.AccountServiceURL), "/")
	cfg.Remote.TransactionServiceURL = strings.TrimSuffix(GetEnv("TRANSACTION_SERVICE_URL", cfg.Remote.TransactionServiceURL), "/")

	if brokers := os.Getenv("KAFKA_BROKERS"); brokers != "" {
		cfg.Events.KafkaBrokers = splitList(brokers)
	}

	var err error
	if cfg.Redis.DB, err = envInt("REDIS_DB", cfg.Redis.DB); err != nil {
		return Config{}, err
	}
	if cfg.EnrichConcurrency, err = envInt("ENRICH_CONCURRENCY", cfg.EnrichConcurrency); err != nil {
		return Config{}, err
	}
	if raw := os.Getenv("REMOTE_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid REMOTE_TIMEOUT %q: %w", raw, err)
		}
		cfg.Remote.Timeout = d
	}

	if cfg.Remote.Timeout <= 0 {
		cfg.Remote.Timeout = 10 * time.Second
	}
	if cfg.EnrichConcurrency <= 0 {
		cfg.EnrichConcurrency = 1
	}
	return cfg, nil
}

// GetEnv returns the value of key, or fallback when it is unset or empty.
func GetEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func envInt(key string, fallback int) (int, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
	return n, nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
