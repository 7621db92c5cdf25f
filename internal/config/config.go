package config

import (
	"time"

	"github.com/spf13/viper"
)

// Config stores all configuration for the application.
type Config struct {
	ServerPort    string        `mapstructure:"SERVER_PORT"`
	LogLevel      string        `mapstructure:"LOG_LEVEL"`
	ScrapeWorkers int           `mapstructure:"SCRAPE_WORKERS"`
	QueueSize     int           `mapstructure:"QUEUE_SIZE"`
	FetchTimeout  time.Duration `mapstructure:"FETCH_TIMEOUT"`
	MinDelay      time.Duration `mapstructure:"MIN_DELAY"`
	MaxDelay      time.Duration `mapstructure:"MAX_DELAY"`
	MaxBodyBytes  int64         `mapstructure:"MAX_BODY_BYTES"`

	RedisAddr     string `mapstructure:"REDIS_ADDR"`
	RedisPassword string `mapstructure:"REDIS_PASSWORD"`
	RedisDB       int    `mapstructure:"REDIS_DB"`
	RedisTTLHours int    `mapstructure:"REDIS_TTL_HOURS"`
	PostgresURL   string `mapstructure:"POSTGRES_URL"`

	RegistryURL        string        `mapstructure:"REGISTRY_URL"`
	RegistryRetryDelay time.Duration `mapstructure:"REGISTRY_RETRY_DELAY"`
	ServiceName        string        `mapstructure:"SERVICE_NAME"`
	ServiceURL         string        `mapstructure:"SERVICE_URL"`
}

// Load reads configuration from file or environment variables.
func Load() (*Config, error) {
	v := viper.New()
	v.SetConfigFile(".env")
	v.SetConfigType("env")
	v.AutomaticEnv()

	// Attempt to read the .env file, but don't fail if it's not present
	// This allows configuration purely through environment variables in production
	_ = v.ReadInConfig()

	// Every key needs a default, otherwise Unmarshal ignores its env var.
	v.SetDefault("SERVER_PORT", "8080")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("SCRAPE_WORKERS", 4)
	v.SetDefault("QUEUE_SIZE", 100)
	v.SetDefault("FETCH_TIMEOUT", 10*time.Second)
	v.SetDefault("MIN_DELAY", 1*time.Second)
	v.SetDefault("MAX_DELAY", 3*time.Second)
	v.SetDefault("MAX_BODY_BYTES", 10<<20)
	v.SetDefault("REDIS_ADDR", "")
	v.SetDefault("REDIS_PASSWORD", "")
	v.SetDefault("REDIS_DB", 0)
	v.SetDefault("REDIS_TTL_HOURS", 24)
	v.SetDefault("POSTGRES_URL", "")
	v.SetDefault("REGISTRY_URL", "")
	v.SetDefault("REGISTRY_RETRY_DELAY", 10*time.Second)
	v.SetDefault("SERVICE_NAME", "scraper")
	v.SetDefault("SERVICE_URL", "http://scraper:8080")

	// The service directory has historically been configured under this name.
	_ = v.BindEnv("REGISTRY_URL", "REGISTRY_URL", "MCP_REST_API_URL")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
