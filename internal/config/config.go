package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds everything the process needs at startup. Values come from an
// optional yaml file (CONFIG_PATH) with environment variables taking
// precedence.
type Config struct {
	Env      string `yaml:"env"`
	HTTPPort string `yaml:"http_port"`

	DatabaseURL string `yaml:"database_url"`
	RedisURL    string `yaml:"redis_url"`

	CacheTTL            time.Duration `yaml:"-"`
	ProviderCallTimeout time.Duration `yaml:"-"`
	RequestTimeout      time.Duration `yaml:"-"`

	CacheTTLSeconds            int `yaml:"cache_ttl_seconds"`
	ProviderCallTimeoutSeconds int `yaml:"provider_call_timeout_seconds"`
	RequestTimeoutSeconds      int `yaml:"request_timeout_seconds"`

	RateLimitPerMinute int `yaml:"rate_limit_per_minute"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                        "development",
		HTTPPort:                   "8080",
		CacheTTLSeconds:            600,
		ProviderCallTimeoutSeconds: 10,
		RequestTimeoutSeconds:      30,
		RateLimitPerMinute:         60,
	}

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	cfg.Env = getEnv("APP_ENV", cfg.Env)
	cfg.HTTPPort = getEnv("PORT", cfg.HTTPPort)
	cfg.DatabaseURL = getEnv("DATABASE_URL", cfg.DatabaseURL)
	cfg.RedisURL = getEnv("REDIS_URL", cfg.RedisURL)
	cfg.CacheTTLSeconds = getEnvInt("CACHE_TTL_SECONDS", cfg.CacheTTLSeconds)
	cfg.ProviderCallTimeoutSeconds = getEnvInt("PROVIDER_CALL_TIMEOUT_SECONDS", cfg.ProviderCallTimeoutSeconds)
	cfg.RequestTimeoutSeconds = getEnvInt("REQUEST_TIMEOUT_SECONDS", cfg.RequestTimeoutSeconds)
	cfg.RateLimitPerMinute = getEnvInt("RATE_LIMIT_PER_MINUTE", cfg.RateLimitPerMinute)

	cfg.CacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
	cfg.ProviderCallTimeout = time.Duration(cfg.ProviderCallTimeoutSeconds) * time.Second
	cfg.RequestTimeout = time.Duration(cfg.RequestTimeoutSeconds) * time.Second

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	return yaml.NewDecoder(file).Decode(c)
}

func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required")
	}
	if c.CacheTTLSeconds <= 0 {
		return errors.New("CACHE_TTL_SECONDS must be positive")
	}
	if c.ProviderCallTimeoutSeconds <= 0 {
		return errors.New("PROVIDER_CALL_TIMEOUT_SECONDS must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return defaultValue
	}
	return n
}
