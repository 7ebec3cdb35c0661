package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/turbopartners/turbochat/pkg/executor"
	"github.com/turbopartners/turbochat/pkg/models"
)

func TestFormat_TotalRevenue(t *testing.T) {
	f := NewFormatter()

	answer := f.Format(
		models.Question{Intent: models.IntentTotalRevenue},
		&executor.Result{
			Columns:  []string{"total_recebido"},
			Rows:     []map[string]any{{"total_recebido": 1234.56}},
			RowCount: 1,
		},
	)

	assert.Contains(t, answer, "R$")
	assert.Contains(t, answer, "234,56")
}

func TestFormat_TotalRevenueEmpty(t *testing.T) {
	f := NewFormatter()

	t.Run("no rows", func(t *testing.T) {
		answer := f.Format(models.Question{Intent: models.IntentTotalRevenue}, &executor.Result{})
		assert.Contains(t, answer, "Nenhuma receita registrada")
		assert.NotContains(t, answer, "R$")
	})

	t.Run("null aggregate", func(t *testing.T) {
		answer := f.Format(
			models.Question{Intent: models.IntentTotalRevenue},
			&executor.Result{
				Columns:  []string{"total_recebido"},
				Rows:     []map[string]any{{"total_recebido": nil}},
				RowCount: 1,
			},
		)
		assert.Contains(t, answer, "Nenhuma receita registrada")
		assert.NotContains(t, answer, "R$")
	})

	t.Run("differently aliased single column", func(t *testing.T) {
		answer := f.Format(
			models.Question{Intent: models.IntentTotalRevenue},
			&executor.Result{
				Columns:  []string{"sum"},
				Rows:     []map[string]any{{"sum": 1234.56}},
				RowCount: 1,
			},
		)
		assert.Contains(t, answer, "234,56")
	})
}

func TestFormat_RevenueByPeriod(t *testing.T) {
	f := NewFormatter()

	t.Run("month and year", func(t *testing.T) {
		answer := f.Format(
			models.Question{
				Intent: models.IntentRevenueByPeriod,
				Params: models.Params{Year: 2024, Month: 3},
			},
			&executor.Result{
				Rows:     []map[string]any{{"total_recebido": 100.0}},
				RowCount: 1,
			},
		)
		assert.Contains(t, answer, "março de 2024")
	})

	t.Run("whole year", func(t *testing.T) {
		answer := f.Format(
			models.Question{
				Intent: models.IntentRevenueByPeriod,
				Params: models.Params{Year: 2024},
			},
			&executor.Result{
				Rows:     []map[string]any{{"total_recebido": 100.0}},
				RowCount: 1,
			},
		)
		assert.Contains(t, answer, "2024")
		assert.NotContains(t, answer, "março")
	})

	t.Run("no revenue in period", func(t *testing.T) {
		answer := f.Format(
			models.Question{
				Intent: models.IntentRevenueByPeriod,
				Params: models.Params{Year: 2024},
			},
			&executor.Result{},
		)
		assert.Contains(t, answer, "Nenhuma receita registrada em 2024")
		assert.NotContains(t, answer, "R$")
	})
}

func TestFormat_TopClients(t *testing.T) {
	f := NewFormatter()

	answer := f.Format(
		models.Question{Intent: models.IntentTopClients},
		&executor.Result{
			Rows: []map[string]any{
				{"cliente_nome": "Alfa Ltda", "cnpj": "12345678000190", "total_pago": 5000.0},
				{"cliente_nome": "Beta SA", "cnpj": "98765432000110", "total_pago": 3000.0},
			},
			RowCount: 2,
		},
	)

	assert.Contains(t, answer, "1. **Alfa Ltda**")
	assert.Contains(t, answer, "2. **Beta SA**")
	assert.Contains(t, answer, "12.345.678/0001-90")
}

func TestFormat_DelinquentClients(t *testing.T) {
	f := NewFormatter()

	t.Run("with rows", func(t *testing.T) {
		answer := f.Format(
			models.Question{Intent: models.IntentDelinquentClients},
			&executor.Result{
				Rows: []map[string]any{
					{"cliente_nome": "Gama ME", "cnpj": "11222333000144", "total_vencido": 800.0, "dias_atraso": int32(45)},
				},
				RowCount: 1,
			},
		)
		assert.Contains(t, answer, "Gama ME")
		assert.Contains(t, answer, "45 dias")
	})

	t.Run("empty", func(t *testing.T) {
		answer := f.Format(
			models.Question{Intent: models.IntentDelinquentClients},
			&executor.Result{},
		)
		assert.Contains(t, answer, "Nenhum cliente inadimplente")
	})
}

func TestFormat_ClientLookup(t *testing.T) {
	f := NewFormatter()

	t.Run("found", func(t *testing.T) {
		answer := f.Format(
			models.Question{
				Intent: models.IntentClientLookup,
				Params: models.Params{TaxID: "12345678000190"},
			},
			&executor.Result{
				Rows: []map[string]any{{
					"nome":         "Alfa Ltda",
					"cnpj":         "12345678000190",
					"telefone":     "11999990000",
					"email":        "contato@alfa.com.br",
					"total_pago":   5000.0,
					"total_aberto": 200.0,
					"responsavel":  "Maria",
					"segmento":     "Varejo",
				}},
				RowCount: 1,
			},
		)
		assert.Contains(t, answer, "Alfa Ltda")
		assert.Contains(t, answer, "12.345.678/0001-90")
		assert.Contains(t, answer, "Maria")
	})

	t.Run("not found", func(t *testing.T) {
		answer := f.Format(
			models.Question{
				Intent: models.IntentClientLookup,
				Params: models.Params{TaxID: "12345678000190"},
			},
			&executor.Result{},
		)
		assert.Contains(t, answer, "Nenhum cliente encontrado")
		assert.Contains(t, answer, "12.345.678/0001-90")
	})
}

func TestFormat_TruncationNote(t *testing.T) {
	f := NewFormatter()

	answer := f.Format(
		models.Question{Intent: models.IntentTopClients},
		&executor.Result{
			Rows:      []map[string]any{{"cliente_nome": "Alfa", "cnpj": "12345678000190", "total_pago": 1.0}},
			RowCount:  1,
			Truncated: true,
		},
	)

	assert.Contains(t, answer, "Mostrando os primeiros 1 resultados")
}

func TestFormatTaxID(t *testing.T) {
	assert.Equal(t, "12.345.678/0001-90", formatTaxID("12345678000190"))
	assert.Equal(t, "123", formatTaxID("123"))
	assert.Equal(t, "", formatTaxID(""))
}
