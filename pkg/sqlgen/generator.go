// Package sqlgen turns classified questions into parameterized SQL. Two
// strategies exist: deterministic templates per intent, and a model-backed
// generator. The chat service prefers the model when one is configured and
// falls back to templates when it fails or its output is rejected.
package sqlgen

import (
	"context"

	"github.com/turbopartners/turbochat/pkg/models"
)

// Strategy identifies how a statement was produced.
type Strategy string

const (
	StrategyTemplate Strategy = "template"
	StrategyModel    Strategy = "model"
)

// GeneratedQuery is a statement ready for the guard and executor.
type GeneratedQuery struct {
	SQL      string
	Params   []any
	Intent   models.Intent
	Strategy Strategy
}

// Generator produces a statement for a classified question.
type Generator interface {
	Generate(ctx context.Context, question models.Question) (*GeneratedQuery, error)
}
