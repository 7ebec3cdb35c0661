package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("test-version")
	require.NoError(t, err)

	assert.Equal(t, "test-version", cfg.Version)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "local", cfg.Env)
	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, 5*time.Second, cfg.Chat.QueryTimeout())
	assert.Equal(t, 200, cfg.Chat.MaxRows)
	assert.Equal(t, 100, cfg.Chat.MaxTopClients)
	assert.Equal(t, 14, cfg.Chat.TaxIDLength)
	assert.False(t, cfg.LLM.IsAvailable())
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("LLM_PROVIDER", "anthropic")
	t.Setenv("LLM_MODEL", "claude-sonnet-4-20250514")
	t.Setenv("LLM_API_KEY", "test-key")
	t.Setenv("CHAT_MAX_ROWS", "50")

	cfg, err := Load("dev")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.True(t, cfg.LLM.IsAvailable())
	assert.Equal(t, 50, cfg.Chat.MaxRows)
}

func TestLoad_InvalidProvider(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "cohere")

	_, err := Load("dev")
	assert.Error(t, err)
}

func TestLoad_InvalidLimits(t *testing.T) {
	t.Setenv("CHAT_MAX_ROWS", "0")

	_, err := Load("dev")
	assert.Error(t, err)
}

func TestConnectionString(t *testing.T) {
	t.Run("url takes precedence", func(t *testing.T) {
		cfg := DatabaseConfig{
			URL:  "postgres://u:p@db:5432/turbo",
			Host: "ignored",
		}
		assert.Equal(t, "postgres://u:p@db:5432/turbo", cfg.ConnectionString())
	})

	t.Run("built from fields", func(t *testing.T) {
		cfg := DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			User:     "turbo",
			Password: "secret",
			Database: "receivables",
			SSLMode:  "disable",
		}
		assert.Equal(t,
			"host=localhost port=5432 user=turbo password=secret dbname=receivables sslmode=disable",
			cfg.ConnectionString())
	})
}
