package sqlgen

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/turbopartners/turbochat/pkg/apperrors"
	"github.com/turbopartners/turbochat/pkg/llm"
	"github.com/turbopartners/turbochat/pkg/models"
	"github.com/turbopartners/turbochat/pkg/prompts"
	"github.com/turbopartners/turbochat/pkg/schema"
)

// fencePattern matches a markdown code fence with an optional language tag.
var fencePattern = regexp.MustCompile("(?s)```(?:sql)?\\s*(.*?)```")

// thinkTagPattern strips <think>...</think> blocks some models emit before
// the answer.
var thinkTagPattern = regexp.MustCompile(`(?s)^\s*<think>.*?</think>\s*`)

// ModelGenerator asks a language model for the statement. Its output is
// never trusted: everything it produces still goes through the guard.
type ModelGenerator struct {
	client  llm.Client
	catalog *schema.Catalog
	timeout time.Duration
	logger  *zap.Logger
}

// NewModelGenerator creates a model-backed generator. Non-positive timeout
// defaults to 15s per completion call.
func NewModelGenerator(client llm.Client, catalog *schema.Catalog, timeout time.Duration, logger *zap.Logger) *ModelGenerator {
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &ModelGenerator{
		client:  client,
		catalog: catalog,
		timeout: timeout,
		logger:  logger.Named("sqlgen"),
	}
}

var _ Generator = (*ModelGenerator)(nil)

// Generate asks the model for a statement answering the question. The model
// inlines values instead of binding parameters, so Params is always empty
// for this strategy.
func (g *ModelGenerator) Generate(ctx context.Context, question models.Question) (*GeneratedQuery, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	prompt := prompts.BuildSQLGenerationPrompt(g.catalog, question.Text)

	raw, err := g.client.Complete(ctx, prompt, prompts.SQLGenerationSystem)
	if err != nil {
		// Keep the provider error in the chain so callers can still see
		// whether the failure was transient.
		return nil, fmt.Errorf("%w: %w", apperrors.ErrGeneration, err)
	}

	sqlText, err := ExtractSQL(raw)
	if err != nil {
		g.logger.Warn("model returned no usable SQL",
			zap.String("model", g.client.Model()),
			zap.Int("response_len", len(raw)))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGeneration, err)
	}

	g.logger.Debug("model statement built",
		zap.String("intent", string(question.Intent)),
		zap.String("model", g.client.Model()))

	return &GeneratedQuery{
		SQL:      sqlText,
		Intent:   question.Intent,
		Strategy: StrategyModel,
	}, nil
}

// ExtractSQL pulls a SQL statement out of a model response that may be
// wrapped in code fences, thinking tags or surrounding commentary.
func ExtractSQL(response string) (string, error) {
	cleaned := thinkTagPattern.ReplaceAllString(response, "")

	if m := fencePattern.FindStringSubmatch(cleaned); len(m) >= 2 {
		cleaned = m[1]
	}

	cleaned = strings.TrimSpace(cleaned)

	// Models occasionally prefix a line of commentary. Keep everything from
	// the first SELECT or WITH onward.
	upper := strings.ToUpper(cleaned)
	idx := strings.Index(upper, "SELECT")
	if widx := strings.Index(upper, "WITH"); widx >= 0 && (idx < 0 || widx < idx) {
		idx = widx
	}
	if idx < 0 {
		return "", fmt.Errorf("no SELECT statement in model response")
	}

	return strings.TrimSpace(cleaned[idx:]), nil
}
