package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/turbopartners/turbochat/pkg/chat"
	"github.com/turbopartners/turbochat/pkg/config"
	"github.com/turbopartners/turbochat/pkg/database"
	"github.com/turbopartners/turbochat/pkg/executor"
	"github.com/turbopartners/turbochat/pkg/handlers"
	"github.com/turbopartners/turbochat/pkg/llm"
	"github.com/turbopartners/turbochat/pkg/middleware"
	"github.com/turbopartners/turbochat/pkg/schema"
	"github.com/turbopartners/turbochat/pkg/sqlgen"
	"github.com/turbopartners/turbochat/pkg/sqlguard"
)

// Version is set at build time via ldflags
var Version = "dev"

func main() {
	// Local development convenience; in production the environment is set
	// by the platform.
	_ = godotenv.Load()

	cfg, err := config.Load(Version)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("configuration loaded",
		zap.String("env", cfg.Env),
		zap.String("version", cfg.Version),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.Bool("llm_available", cfg.LLM.IsAvailable()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	db, err := database.NewConnection(ctx, &database.Config{
		URL:            cfg.Database.ConnectionString(),
		MaxConnections: cfg.Database.MaxConnections,
		MinConnections: cfg.Database.MinConnections,
	})
	cancel()
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer db.Close()

	catalog := schema.Default()
	guard := sqlguard.New(catalog, logger)
	exec := executor.New(db.Pool, cfg.Chat.QueryTimeout(), cfg.Chat.MaxRows, logger)

	var modelGen sqlgen.Generator
	if client := newModelClient(cfg, logger); client != nil {
		modelGen = sqlgen.NewModelGenerator(client, catalog, cfg.LLM.Timeout(), logger)
	}

	service := chat.NewService(
		chat.NewClassifier(chat.ClassifierConfig{
			MaxTopN:     cfg.Chat.MaxTopClients,
			TaxIDLength: cfg.Chat.TaxIDLength,
		}, logger),
		modelGen,
		sqlgen.NewTemplateGenerator(cfg.Chat.MaxTopClients, logger),
		guard,
		exec,
		chat.NewFormatter(),
		logger,
	)

	mux := http.NewServeMux()
	handlers.NewHealthHandler(cfg, db, logger).RegisterRoutes(mux)
	handlers.NewChatHandler(service, logger).RegisterRoutes(mux)

	handler := middleware.RequestLogger(logger)(mux)

	addr := cfg.BindAddr + ":" + cfg.Port
	logger.Info("starting turbochat", zap.String("addr", addr), zap.String("version", cfg.Version))
	if err := http.ListenAndServe(addr, handler); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "production" {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// newModelClient builds the configured provider client, or nil when no
// model is configured. The service runs template-only in that case.
func newModelClient(cfg *config.Config, logger *zap.Logger) llm.Client {
	if !cfg.LLM.IsAvailable() {
		logger.Warn("no model configured, answering from templates only")
		return nil
	}

	switch cfg.LLM.Provider {
	case "anthropic":
		client, err := llm.NewAnthropicClient(&llm.Config{
			Model:  cfg.LLM.Model,
			APIKey: cfg.LLM.APIKey,
		}, logger)
		if err != nil {
			logger.Warn("failed to create anthropic client", zap.Error(err))
			return nil
		}
		return client
	default:
		client, err := llm.NewOpenAIClient(&llm.Config{
			Endpoint: cfg.LLM.BaseURL,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
		}, logger)
		if err != nil {
			logger.Warn("failed to create openai client", zap.Error(err))
			return nil
		}
		return client
	}
}
