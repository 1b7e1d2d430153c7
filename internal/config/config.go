package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

const (
	StoreMemory = "memory"
	StoreFile   = "file"
	StoreRedis  = "redis"
)

type Config struct {
	Log          LogConfig          `envconfig:"LOG"`
	Server       ServerConfig       `envconfig:"SERVER"`
	ExchangeRate ExchangeRateConfig `envconfig:"EXCHANGE_RATE"`
	Store        StoreConfig        `envconfig:"RATE_STORE"`
}

type LogConfig struct {
	Level  string `envconfig:"LEVEL" default:"info"`
	Format string `envconfig:"FORMAT" default:"text"`
}

type ServerConfig struct {
	Port         int           `envconfig:"PORT" default:"8080"`
	ReadTimeout  time.Duration `envconfig:"READ_TIMEOUT" default:"5s"`
	WriteTimeout time.Duration `envconfig:"WRITE_TIMEOUT" default:"10s"`
	IdleTimeout  time.Duration `envconfig:"IDLE_TIMEOUT" default:"120s"`
}

type ExchangeRateConfig struct {
	GraphQLURL   string        `envconfig:"GRAPHQL_URL" default:"http://localhost:4000/graphql"`
	Timeout      time.Duration `envconfig:"TIMEOUT" default:"10s"`
	PollInterval time.Duration `envconfig:"POLL_INTERVAL" default:"60s"`
	UseMock      bool          `envconfig:"USE_MOCK" default:"false"`
}

type StoreConfig struct {
	Backend  string `envconfig:"BACKEND" default:"file"`
	Dir      string `envconfig:"DIR" default:".cache"`
	Key      string `envconfig:"KEY" default:"exchange_rates_cache"`
	RedisURL string `envconfig:"REDIS_URL" default:"redis://localhost:6379/0"`
	Prefix   string `envconfig:"PREFIX" default:"exr:"`
}

// LoadConfig reads an optional .env file, then the environment. It reports
// whether a .env file was found.
func LoadConfig() (*Config, bool, error) {
	dotenv := godotenv.Load() == nil

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, dotenv, fmt.Errorf("failed to process environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, dotenv, err
	}
	return &cfg, dotenv, nil
}

func (c *Config) Validate() error {
	switch c.Store.Backend {
	case StoreMemory, StoreFile, StoreRedis:
	default:
		return fmt.Errorf("unsupported rate store backend %q", c.Store.Backend)
	}
	if c.ExchangeRate.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive, got %s", c.ExchangeRate.PollInterval)
	}
	if !c.ExchangeRate.UseMock && c.ExchangeRate.GraphQLURL == "" {
		return fmt.Errorf("EXCHANGE_RATE_GRAPHQL_URL is required unless mock rates are enabled")
	}
	return nil
}
