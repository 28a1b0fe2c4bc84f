package config

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	ServerAddress string `env:"SERVER_ADDRESS" envDefault:":8080"`
	BaseURL       string `env:"BASE_URL" envDefault:"http://localhost:8080"`
	DatabaseURL   string `env:"DATABASE_URL,required"`
	RedisURL      string `env:"REDIS_URL,required"`
	AdminSecret   string `env:"ADMIN_SECRET,required"`

	URLLength       int `env:"URL_LENGTH" envDefault:"5"`
	TokenIDLength   int `env:"TOKEN_ID_LENGTH" envDefault:"8"`
	URLMaxRetries   int `env:"URL_MAX_RETRIES" envDefault:"5"`
	TokenMaxRetries int `env:"TOKEN_MAX_RETRIES" envDefault:"5"`

	RedirectCacheTTL time.Duration `env:"REDIRECT_CACHE_TTL" envDefault:"1h"`
	FlushClicksCron  string        `env:"FLUSH_CLICKS_CRON" envDefault:"0 */15 * * * *"`
	IPLookupTimeout  time.Duration `env:"IP_LOOKUP_TIMEOUT" envDefault:"5s"`

	RateLimitRPS           float64 `env:"RATE_LIMIT_RPS" envDefault:"10"`
	RateLimitBurst         int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
	RateLimitRedirectRPS   float64 `env:"RATE_LIMIT_REDIRECT_RPS" envDefault:"30"`
	RateLimitRedirectBurst int     `env:"RATE_LIMIT_REDIRECT_BURST" envDefault:"60"`
}

// Load reads configuration from a .env file (if present) and the environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("failed to parse environment: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.AdminSecret) < 16 {
		return errors.New("ADMIN_SECRET must be at least 16 characters")
	}
	if c.URLLength < 3 || c.URLLength > 128 {
		return errors.New("URL_LENGTH must be between 3 and 128")
	}
	if c.TokenIDLength < 3 || c.TokenIDLength > 128 {
		return errors.New("TOKEN_ID_LENGTH must be between 3 and 128")
	}
	if c.URLMaxRetries < 1 || c.TokenMaxRetries < 1 {
		return errors.New("generation retry counts must be at least 1")
	}
	return nil
}
