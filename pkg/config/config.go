package config

import (
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all configuration for the turbochat engine.
// Configuration can come from a YAML file (config.yaml) or environment
// variables; environment variables always override YAML values. Secrets
// (passwords, API keys) must only come from environment variables.
type Config struct {
	// Server configuration
	BindAddr string `yaml:"bind_addr" env:"BIND_ADDR" env-default:"0.0.0.0"`
	Port     string `yaml:"port" env:"PORT" env-default:"8080"`
	Env      string `yaml:"env" env:"ENVIRONMENT" env-default:"local"`
	Version  string `yaml:"-"` // Set at load time, not from config

	// Database configuration (PostgreSQL, read-only receivables store)
	Database DatabaseConfig `yaml:"database"`

	// Language model configuration. Optional: when unset the engine runs in
	// template-only mode.
	LLM LLMConfig `yaml:"llm"`

	// Chat pipeline limits
	Chat ChatConfig `yaml:"chat"`
}

// DatabaseConfig holds PostgreSQL configuration for the receivables store.
type DatabaseConfig struct {
	// URL overrides the individual fields when set. Railway/Heroku style.
	URL      string `yaml:"-" env:"DATABASE_URL"`
	Host     string `yaml:"host" env:"PGHOST" env-default:"localhost"`
	Port     int    `yaml:"port" env:"PGPORT" env-default:"5432"`
	User     string `yaml:"user" env:"PGUSER" env-default:"turbo"`
	Password string `yaml:"-" env:"PGPASSWORD"` // Secret - not in YAML
	Database string `yaml:"database" env:"PGDATABASE" env-default:"turbo"`
	SSLMode  string `yaml:"ssl_mode" env:"PGSSLMODE" env-default:"disable"`

	MaxConnections int32 `yaml:"max_connections" env:"PGMAX_CONNECTIONS" env-default:"10"`
	MinConnections int32 `yaml:"min_connections" env:"PGMIN_CONNECTIONS" env-default:"1"`
}

// ConnectionString returns the pgx connection string, preferring DATABASE_URL.
func (c *DatabaseConfig) ConnectionString() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Database, c.SSLMode,
	)
}

// LLMConfig holds language model endpoint configuration.
type LLMConfig struct {
	// Provider selects the client implementation: "openai" (any
	// OpenAI-compatible endpoint) or "anthropic".
	Provider string `yaml:"provider" env:"LLM_PROVIDER" env-default:"openai"`
	BaseURL  string `yaml:"base_url" env:"LLM_BASE_URL" env-default:"https://api.openai.com/v1"`
	Model    string `yaml:"model" env:"LLM_MODEL" env-default:""`
	APIKey   string `yaml:"-" env:"LLM_API_KEY"` // Secret - not in YAML

	// TimeoutSeconds bounds a single completion call.
	TimeoutSeconds int `yaml:"timeout_seconds" env:"LLM_TIMEOUT_SECONDS" env-default:"15"`
}

// IsAvailable returns true if a model endpoint is configured. Missing
// credentials degrade to template-only mode, never a startup failure.
func (c *LLMConfig) IsAvailable() bool {
	return c.APIKey != "" && c.Model != ""
}

// Timeout returns the completion call timeout.
func (c *LLMConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ChatConfig holds chat pipeline limits.
type ChatConfig struct {
	// QueryTimeoutSeconds bounds a single statement execution.
	QueryTimeoutSeconds int `yaml:"query_timeout_seconds" env:"CHAT_QUERY_TIMEOUT_SECONDS" env-default:"5"`
	// MaxRows caps the rows returned by one statement; extra rows are
	// truncated and flagged.
	MaxRows int `yaml:"max_rows" env:"CHAT_MAX_ROWS" env-default:"200"`
	// MaxTopClients clamps the N of ranking questions.
	MaxTopClients int `yaml:"max_top_clients" env:"CHAT_MAX_TOP_CLIENTS" env-default:"100"`
	// TaxIDLength is the digit count of a client tax identifier (CNPJ).
	TaxIDLength int `yaml:"tax_id_length" env:"CHAT_TAX_ID_LENGTH" env-default:"14"`
}

// QueryTimeout returns the statement execution timeout.
func (c *ChatConfig) QueryTimeout() time.Duration {
	return time.Duration(c.QueryTimeoutSeconds) * time.Second
}

// Load reads configuration from config.yaml with environment variable
// overrides. A missing config.yaml is not an error; the engine then runs on
// environment variables and defaults alone.
func Load(version string) (*Config, error) {
	cfg := &Config{Version: version}

	if _, err := os.Stat("config.yaml"); err == nil {
		if err := cleanenv.ReadConfig("config.yaml", cfg); err != nil {
			return nil, fmt.Errorf("failed to read config.yaml: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Chat.MaxRows <= 0 {
		return fmt.Errorf("chat.max_rows must be positive")
	}
	if c.Chat.MaxTopClients <= 0 {
		return fmt.Errorf("chat.max_top_clients must be positive")
	}
	if c.Chat.QueryTimeoutSeconds <= 0 {
		return fmt.Errorf("chat.query_timeout_seconds must be positive")
	}
	switch c.LLM.Provider {
	case "openai", "anthropic":
	default:
		return fmt.Errorf("llm.provider must be openai or anthropic, got %q", c.LLM.Provider)
	}
	return nil
}
