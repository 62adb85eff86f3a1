package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v8"
	"github.com/joho/godotenv"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DataBackend string `env:"DATA_BACKEND" envDefault:"postgres"`
	DatabaseURL string `env:"DATABASE_URL"`
	AutoMigrate bool   `env:"AUTO_MIGRATE" envDefault:"false"`

	SecretKey       string        `env:"SECRET_KEY"`
	AccessTokenTTL  time.Duration `env:"ACCESS_TOKEN_TTL" envDefault:"30m"`
	RefreshTokenTTL time.Duration `env:"REFRESH_TOKEN_TTL" envDefault:"24h"`

	OpenAI OpenAI `envPrefix:"OPENAI_"`

	CORSOrigin  string `env:"CORS_ORIGIN" envDefault:"*"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	RateLimitAuthMax   int `env:"RATE_LIMIT_AUTH_MAX" envDefault:"10"`
	RateLimitAdviceMax int `env:"RATE_LIMIT_ADVICE_MAX" envDefault:"20"`

	LogLevel  string `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat string `env:"LOG_FORMAT" envDefault:"text"`
}

// OpenAI configures the chat-completion client used by the advisor.
type OpenAI struct {
	APIKey     string        `env:"API_KEY"`
	Model      string        `env:"MODEL" envDefault:"gpt-3.5-turbo"`
	BaseURL    string        `env:"BASE_URL"`
	Timeout    time.Duration `env:"TIMEOUT" envDefault:"30s"`
	MaxRetries int           `env:"MAX_RETRIES" envDefault:"1"`
}

// Load reads an optional .env file and then parses the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Validate reports every configuration problem at once.
func (c *Config) Validate() error {
	var problems []string

	switch c.DataBackend {
	case BackendPostgres:
		if strings.TrimSpace(c.DatabaseURL) == "" {
			problems = append(problems, "DATABASE_URL is required when DATA_BACKEND=postgres")
		}
	case BackendMemory:
	default:
		problems = append(problems, fmt.Sprintf("invalid data backend %q: must be one of [%s %s]", c.DataBackend, BackendPostgres, BackendMemory))
	}

	if strings.TrimSpace(c.SecretKey) == "" {
		problems = append(problems, "SECRET_KEY is required")
	}
	if c.AccessTokenTTL <= 0 {
		problems = append(problems, fmt.Sprintf("invalid access token ttl %v: must be positive", c.AccessTokenTTL))
	}
	if c.RefreshTokenTTL < c.AccessTokenTTL {
		problems = append(problems, "REFRESH_TOKEN_TTL must not be shorter than ACCESS_TOKEN_TTL")
	}

	if strings.TrimSpace(c.OpenAI.APIKey) == "" {
		problems = append(problems, "OPENAI_API_KEY is required")
	}
	if c.OpenAI.Timeout <= 0 {
		problems = append(problems, fmt.Sprintf("invalid openai timeout %v: must be positive", c.OpenAI.Timeout))
	}
	if c.OpenAI.MaxRetries < 0 || c.OpenAI.MaxRetries > 3 {
		problems = append(problems, fmt.Sprintf("invalid openai max retries %d: must be between 0 and 3", c.OpenAI.MaxRetries))
	}

	if c.RateLimitAuthMax < 1 {
		problems = append(problems, "RATE_LIMIT_AUTH_MAX must be at least 1")
	}
	if c.RateLimitAdviceMax < 1 {
		problems = append(problems, "RATE_LIMIT_ADVICE_MAX must be at least 1")
	}

	if c.LogFormat != "text" && c.LogFormat != "json" {
		problems = append(problems, fmt.Sprintf("invalid log format %q: must be text or json", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}
