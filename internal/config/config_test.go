package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Port:            "8080",
		DataBackend:     BackendPostgres,
		DatabaseURL:     "postgres://localhost/finbuddy",
		SecretKey:       "secret",
		AccessTokenTTL:  30 * time.Minute,
		RefreshTokenTTL: 24 * time.Hour,
		OpenAI: OpenAI{
			APIKey:     "sk-test",
			Model:      "gpt-3.5-turbo",
			Timeout:    30 * time.Second,
			MaxRetries: 1,
		},
		RateLimitAuthMax:   10,
		RateLimitAdviceMax: 20,
		LogLevel:           "info",
		LogFormat:          "text",
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SECRET_KEY", "s3cret")
	t.Setenv("OPENAI_API_KEY", "sk-abc")
	t.Setenv("DATABASE_URL", "postgres://db/finbuddy")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, BackendPostgres, cfg.DataBackend)
	assert.Equal(t, "postgres://db/finbuddy", cfg.DatabaseURL)
	assert.Equal(t, 30*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, 24*time.Hour, cfg.RefreshTokenTTL)
	assert.Equal(t, "sk-abc", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-3.5-turbo", cfg.OpenAI.Model)
	assert.Equal(t, 30*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, 1, cfg.OpenAI.MaxRetries)
	assert.Equal(t, "*", cfg.CORSOrigin)
	require.NoError(t, cfg.Validate())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DATA_BACKEND", "memory")
	t.Setenv("ACCESS_TOKEN_TTL", "5m")
	t.Setenv("OPENAI_MODEL", "gpt-4o-mini")
	t.Setenv("OPENAI_TIMEOUT", "10s")
	t.Setenv("OPENAI_MAX_RETRIES", "0")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, BackendMemory, cfg.DataBackend)
	assert.Equal(t, 5*time.Minute, cfg.AccessTokenTTL)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.Equal(t, 10*time.Second, cfg.OpenAI.Timeout)
	assert.Equal(t, 0, cfg.OpenAI.MaxRetries)
}

func TestLoadRejectsMalformedDuration(t *testing.T) {
	t.Setenv("ACCESS_TOKEN_TTL", "half an hour")

	_, err := Load()
	require.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{
			name:   "memory backend needs no database url",
			mutate: func(c *Config) { c.DataBackend = BackendMemory; c.DatabaseURL = "" },
		},
		{
			name:    "postgres without url",
			mutate:  func(c *Config) { c.DatabaseURL = "" },
			wantErr: "DATABASE_URL is required",
		},
		{
			name:    "unknown backend",
			mutate:  func(c *Config) { c.DataBackend = "sqlite" },
			wantErr: "invalid data backend",
		},
		{
			name:    "missing secret",
			mutate:  func(c *Config) { c.SecretKey = " " },
			wantErr: "SECRET_KEY is required",
		},
		{
			name:    "missing openai key",
			mutate:  func(c *Config) { c.OpenAI.APIKey = "" },
			wantErr: "OPENAI_API_KEY is required",
		},
		{
			name:    "refresh shorter than access",
			mutate:  func(c *Config) { c.RefreshTokenTTL = time.Minute },
			wantErr: "REFRESH_TOKEN_TTL",
		},
		{
			name:    "too many retries",
			mutate:  func(c *Config) { c.OpenAI.MaxRetries = 5 },
			wantErr: "max retries",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.LogFormat = "xml" },
			wantErr: "invalid log format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCollectsAllProblems(t *testing.T) {
	cfg := validConfig()
	cfg.SecretKey = ""
	cfg.OpenAI.APIKey = ""

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "SECRET_KEY is required")
	assert.Contains(t, err.Error(), "OPENAI_API_KEY is required")
}
