package sqlgen

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/turbopartners/turbochat/pkg/apperrors"
	"github.com/turbopartners/turbochat/pkg/models"
)

const defaultTopN = 10

// TemplateGenerator maps each queryable intent to a fixed parameterized
// statement. It never fails for a queryable intent, which is what makes it
// a safe fallback.
type TemplateGenerator struct {
	maxTopN int
	logger  *zap.Logger
}

// NewTemplateGenerator creates a template generator. maxTopN caps ranking
// sizes; zero or negative means 100.
func NewTemplateGenerator(maxTopN int, logger *zap.Logger) *TemplateGenerator {
	if maxTopN <= 0 {
		maxTopN = 100
	}
	return &TemplateGenerator{
		maxTopN: maxTopN,
		logger:  logger.Named("sqlgen"),
	}
}

var _ Generator = (*TemplateGenerator)(nil)

// Generate builds the statement for the question's intent.
func (g *TemplateGenerator) Generate(_ context.Context, question models.Question) (*GeneratedQuery, error) {
	var query *GeneratedQuery

	switch question.Intent {
	case models.IntentTotalRevenue:
		query = &GeneratedQuery{
			SQL: "SELECT COALESCE(SUM(pago), 0) AS total_recebido FROM caz_receber",
		}

	case models.IntentRevenueByPeriod:
		if question.Params.Month > 0 {
			query = &GeneratedQuery{
				SQL: "SELECT COALESCE(SUM(pago), 0) AS total_recebido FROM caz_receber " +
					"WHERE EXTRACT(YEAR FROM data_vencimento) = $1 AND EXTRACT(MONTH FROM data_vencimento) = $2",
				Params: []any{question.Params.Year, question.Params.Month},
			}
		} else {
			query = &GeneratedQuery{
				SQL: "SELECT COALESCE(SUM(pago), 0) AS total_recebido FROM caz_receber " +
					"WHERE EXTRACT(YEAR FROM data_vencimento) = $1",
				Params: []any{question.Params.Year},
			}
		}

	case models.IntentTopClients:
		query = &GeneratedQuery{
			SQL: "SELECT cliente_nome, cnpj, SUM(pago) AS total_pago FROM caz_receber " +
				"GROUP BY cliente_nome, cnpj HAVING SUM(pago) > 0 " +
				"ORDER BY total_pago DESC, cnpj ASC LIMIT $1",
			Params: []any{g.clampTopN(question.Params.TopN)},
		}

	case models.IntentDelinquentClients:
		query = &GeneratedQuery{
			SQL: "SELECT cliente_nome, cnpj, SUM(nao_pago) AS total_vencido, " +
				"(CURRENT_DATE - MIN(data_vencimento)) AS dias_atraso FROM caz_receber " +
				"WHERE nao_pago > 0 AND data_vencimento < CURRENT_DATE - $1::int " +
				"GROUP BY cliente_nome, cnpj ORDER BY dias_atraso DESC",
			Params: []any{question.Params.MinDaysOverdue},
		}

	case models.IntentClientLookup:
		query = &GeneratedQuery{
			SQL: "SELECT c.nome, c.cnpj, c.telefone, c.email, " +
				"COALESCE(SUM(r.pago), 0) AS total_pago, COALESCE(SUM(r.nao_pago), 0) AS total_aberto, " +
				"MAX(r.data_vencimento) AS ultimo_vencimento, u.responsavel, u.segmento " +
				"FROM caz_clientes c " +
				"LEFT JOIN caz_receber r ON r.cnpj = c.cnpj " +
				"LEFT JOIN cup_clientes u ON u.cnpj = c.cnpj " +
				"WHERE c.cnpj = $1 " +
				"GROUP BY c.nome, c.cnpj, c.telefone, c.email, u.responsavel, u.segmento",
			Params: []any{question.Params.TaxID},
		}

	default:
		return nil, fmt.Errorf("%w: no template for intent %q", apperrors.ErrGeneration, question.Intent)
	}

	query.Intent = question.Intent
	query.Strategy = StrategyTemplate

	g.logger.Debug("template statement built",
		zap.String("intent", string(question.Intent)),
		zap.Int("params", len(query.Params)))

	return query, nil
}

// clampTopN bounds a requested ranking size to [1, maxTopN], defaulting
// when the classifier extracted nothing.
func (g *TemplateGenerator) clampTopN(n int) int {
	if n <= 0 {
		n = defaultTopN
	}
	if n < 1 {
		n = 1
	}
	if n > g.maxTopN {
		n = g.maxTopN
	}
	return n
}
