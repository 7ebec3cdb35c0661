// Package executor runs guarded statements against the receivables store
// under a deadline and a row cap.
package executor

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"go.uber.org/zap"

	"github.com/turbopartners/turbochat/pkg/apperrors"
	"github.com/turbopartners/turbochat/pkg/logging"
)

// RowQuerier is the slice of the pool the executor needs. *pgxpool.Pool
// satisfies it; tests provide fakes.
type RowQuerier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Result holds the rows a statement produced. Rows is capped; Truncated
// reports whether the store had more.
type Result struct {
	Columns   []string
	Rows      []map[string]any
	RowCount  int
	Truncated bool
}

// Executor runs read-only statements with a per-query timeout.
type Executor struct {
	db      RowQuerier
	timeout time.Duration
	maxRows int
	logger  *zap.Logger
}

// New creates an Executor. Non-positive timeout defaults to 5s, non-positive
// maxRows to 200.
func New(db RowQuerier, timeout time.Duration, maxRows int, logger *zap.Logger) *Executor {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if maxRows <= 0 {
		maxRows = 200
	}
	return &Executor{
		db:      db,
		timeout: timeout,
		maxRows: maxRows,
		logger:  logger.Named("executor"),
	}
}

// Execute runs the statement and collects up to maxRows rows.
func (e *Executor) Execute(ctx context.Context, sqlQuery string, params []any) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	start := time.Now()

	rows, err := e.db.Query(ctx, sqlQuery, params...)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrExecution, err)
	}
	defer rows.Close()

	descriptions := rows.FieldDescriptions()
	columns := make([]string, len(descriptions))
	for i, fd := range descriptions {
		columns[i] = string(fd.Name)
	}

	result := &Result{
		Columns: columns,
		Rows:    make([]map[string]any, 0),
	}

	for rows.Next() {
		if len(result.Rows) >= e.maxRows {
			result.Truncated = true
			break
		}

		values, err := rows.Values()
		if err != nil {
			return nil, fmt.Errorf("%w: reading row: %v", apperrors.ErrExecution, err)
		}

		row := make(map[string]any, len(columns))
		for i, col := range columns {
			if i < len(values) {
				row[col] = normalizeValue(values[i])
			}
		}
		result.Rows = append(result.Rows, row)
	}

	if !result.Truncated {
		if err := rows.Err(); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrExecution, err)
		}
	}

	result.RowCount = len(result.Rows)

	e.logger.Debug("statement executed",
		zap.String("sql", logging.SanitizeQuery(sqlQuery)),
		zap.Int("rows", result.RowCount),
		zap.Bool("truncated", result.Truncated),
		zap.Duration("elapsed", time.Since(start)))

	return result, nil
}

// normalizeValue converts driver types into plain Go values the formatter
// can work with.
func normalizeValue(v any) any {
	switch val := v.(type) {
	case pgtype.Numeric:
		f, err := val.Float64Value()
		if err != nil || !f.Valid {
			return nil
		}
		return f.Float64
	case [16]byte:
		return fmt.Sprintf("%x", val)
	default:
		return v
	}
}
