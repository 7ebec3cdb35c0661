package chat

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/turbopartners/turbochat/pkg/executor"
	"github.com/turbopartners/turbochat/pkg/models"
	"github.com/turbopartners/turbochat/pkg/retry"
	"github.com/turbopartners/turbochat/pkg/sqlgen"
	"github.com/turbopartners/turbochat/pkg/sqlguard"
)

// Answer is the final reply for one message.
type Answer struct {
	Response  string
	Intent    models.Intent
	Strategy  sqlgen.Strategy
	RowCount  int
	Truncated bool
}

// Service answers free-text questions about the receivables store.
type Service interface {
	// Handle answers one message. forceFallback skips the model strategy
	// and goes straight to templates.
	Handle(ctx context.Context, text string, forceFallback bool) (*Answer, error)
}

type service struct {
	classifier  Classifier
	modelGen    sqlgen.Generator // nil when no model is configured
	templateGen sqlgen.Generator
	guard       *sqlguard.Guard
	executor    *executor.Executor
	formatter   Formatter
	logger      *zap.Logger
}

// NewService wires the chat pipeline. modelGen may be nil; the service then
// answers everything from templates.
func NewService(
	classifier Classifier,
	modelGen sqlgen.Generator,
	templateGen sqlgen.Generator,
	guard *sqlguard.Guard,
	exec *executor.Executor,
	formatter Formatter,
	logger *zap.Logger,
) Service {
	return &service{
		classifier:  classifier,
		modelGen:    modelGen,
		templateGen: templateGen,
		guard:       guard,
		executor:    exec,
		formatter:   formatter,
		logger:      logger.Named("chat"),
	}
}

var _ Service = (*service)(nil)

func (s *service) Handle(ctx context.Context, text string, forceFallback bool) (*Answer, error) {
	requestID := uuid.NewString()
	logger := s.logger.With(zap.String("request_id", requestID))

	question := s.classifier.Classify(text)
	logger.Info("message received",
		zap.String("intent", string(question.Intent)),
		zap.Int("message_len", len(text)))

	if !question.Intent.Queryable() {
		return s.answerDirectly(question), nil
	}

	if s.modelGen != nil && !forceFallback {
		if answer := s.tryModel(ctx, question, logger); answer != nil {
			return answer, nil
		}
		logger.Info("falling back to template strategy")
	}

	return s.runTemplate(ctx, question, logger)
}

// answerDirectly handles the intents that never touch the store.
func (s *service) answerDirectly(question models.Question) *Answer {
	answer := &Answer{Intent: question.Intent}
	switch question.Intent {
	case models.IntentGreeting:
		answer.Response = s.formatter.Greeting()
	case models.IntentHelp:
		answer.Response = s.formatter.Help()
	default:
		answer.Response = s.formatter.Unknown()
	}
	return answer
}

// tryModel runs the model strategy end to end. Any failure, generation,
// guard rejection or execution, returns nil so the caller falls back to
// templates. Model output is advisory until the guard says otherwise.
func (s *service) tryModel(ctx context.Context, question models.Question, logger *zap.Logger) *Answer {
	query, err := s.generateWithRetry(ctx, question)
	if err != nil {
		logger.Warn("model generation failed", zap.Error(err))
		return nil
	}

	normalized, err := s.guard.Check(query.SQL, query.Params)
	if err != nil {
		logger.Warn("model statement rejected", zap.Error(err))
		return nil
	}

	result, err := s.executor.Execute(ctx, normalized, query.Params)
	if err != nil {
		logger.Warn("model statement failed to execute", zap.Error(err))
		return nil
	}

	return &Answer{
		Response:  s.formatter.Format(question, result),
		Intent:    question.Intent,
		Strategy:  sqlgen.StrategyModel,
		RowCount:  result.RowCount,
		Truncated: result.Truncated,
	}
}

// generateWithRetry retries the model once, with backoff, when the failure
// is transient. Permanent failures (bad key, missing model) go straight to
// fallback.
func (s *service) generateWithRetry(ctx context.Context, question models.Question) (*sqlgen.GeneratedQuery, error) {
	cfg := retry.DefaultConfig()
	cfg.MaxRetries = 1

	var query *sqlgen.GeneratedQuery
	err := retry.DoIfRetryable(ctx, cfg, func() error {
		var genErr error
		query, genErr = s.modelGen.Generate(ctx, question)
		return genErr
	})
	return query, err
}

func (s *service) runTemplate(ctx context.Context, question models.Question, logger *zap.Logger) (*Answer, error) {
	query, err := s.templateGen.Generate(ctx, question)
	if err != nil {
		return nil, err
	}

	// Templates go through the same guard as model output. A rejection here
	// means a template or the catalog is wrong, not user error.
	normalized, err := s.guard.Check(query.SQL, query.Params)
	if err != nil {
		logger.Error("template statement rejected", zap.Error(err))
		return nil, fmt.Errorf("template for intent %q rejected: %w", question.Intent, err)
	}

	result, err := s.executor.Execute(ctx, normalized, query.Params)
	if err != nil {
		logger.Error("template statement failed to execute", zap.Error(err))
		return nil, err
	}

	return &Answer{
		Response:  s.formatter.Format(question, result),
		Intent:    question.Intent,
		Strategy:  sqlgen.StrategyTemplate,
		RowCount:  result.RowCount,
		Truncated: result.Truncated,
	}, nil
}
