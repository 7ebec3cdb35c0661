package sqlgen

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/turbopartners/turbochat/pkg/apperrors"
	"github.com/turbopartners/turbochat/pkg/models"
)

func TestTemplateGenerator_TotalRevenue(t *testing.T) {
	gen := NewTemplateGenerator(100, zap.NewNop())

	query, err := gen.Generate(context.Background(), models.Question{
		Intent: models.IntentTotalRevenue,
	})
	require.NoError(t, err)

	assert.Contains(t, query.SQL, "SUM(pago)")
	assert.Contains(t, query.SQL, "caz_receber")
	assert.Empty(t, query.Params)
	assert.Equal(t, StrategyTemplate, query.Strategy)
}

func TestTemplateGenerator_RevenueByPeriod(t *testing.T) {
	gen := NewTemplateGenerator(100, zap.NewNop())

	t.Run("whole year", func(t *testing.T) {
		query, err := gen.Generate(context.Background(), models.Question{
			Intent: models.IntentRevenueByPeriod,
			Params: models.Params{Year: 2024},
		})
		require.NoError(t, err)

		assert.Contains(t, query.SQL, "EXTRACT(YEAR FROM data_vencimento) = $1")
		assert.NotContains(t, query.SQL, "MONTH")
		assert.Equal(t, []any{2024}, query.Params)
	})

	t.Run("specific month", func(t *testing.T) {
		query, err := gen.Generate(context.Background(), models.Question{
			Intent: models.IntentRevenueByPeriod,
			Params: models.Params{Year: 2024, Month: 3},
		})
		require.NoError(t, err)

		assert.Contains(t, query.SQL, "EXTRACT(MONTH FROM data_vencimento) = $2")
		assert.Equal(t, []any{2024, 3}, query.Params)
	})
}

func TestTemplateGenerator_TopClients(t *testing.T) {
	gen := NewTemplateGenerator(50, zap.NewNop())

	tests := []struct {
		name    string
		topN    int
		wantArg int
	}{
		{"explicit size", 5, 5},
		{"zero defaults", 0, 10},
		{"clamped to max", 500, 50},
		{"negative defaults", -3, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			query, err := gen.Generate(context.Background(), models.Question{
				Intent: models.IntentTopClients,
				Params: models.Params{TopN: tt.topN},
			})
			require.NoError(t, err)

			assert.Contains(t, query.SQL, "ORDER BY total_pago DESC, cnpj ASC")
			assert.Equal(t, []any{tt.wantArg}, query.Params)
		})
	}
}

func TestTemplateGenerator_DelinquentClients(t *testing.T) {
	gen := NewTemplateGenerator(100, zap.NewNop())

	query, err := gen.Generate(context.Background(), models.Question{
		Intent: models.IntentDelinquentClients,
		Params: models.Params{MinDaysOverdue: 30},
	})
	require.NoError(t, err)

	assert.Contains(t, query.SQL, "nao_pago > 0")
	assert.Contains(t, query.SQL, "data_vencimento < CURRENT_DATE - $1::int")
	assert.Equal(t, []any{30}, query.Params)
}

func TestTemplateGenerator_ClientLookup(t *testing.T) {
	gen := NewTemplateGenerator(100, zap.NewNop())

	query, err := gen.Generate(context.Background(), models.Question{
		Intent: models.IntentClientLookup,
		Params: models.Params{TaxID: "12345678000190"},
	})
	require.NoError(t, err)

	assert.Contains(t, query.SQL, "LEFT JOIN caz_receber")
	assert.Contains(t, query.SQL, "LEFT JOIN cup_clientes")
	assert.Equal(t, []any{"12345678000190"}, query.Params)
}

func TestTemplateGenerator_NonQueryableIntent(t *testing.T) {
	gen := NewTemplateGenerator(100, zap.NewNop())

	for _, intent := range []models.Intent{models.IntentUnknown, models.IntentGreeting, models.IntentHelp} {
		_, err := gen.Generate(context.Background(), models.Question{Intent: intent})
		assert.True(t, errors.Is(err, apperrors.ErrGeneration), "intent %q", intent)
	}
}
