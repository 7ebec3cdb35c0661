package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault_Tables(t *testing.T) {
	catalog := Default()

	assert.Equal(t, []string{"caz_clientes", "caz_receber", "cup_clientes"}, catalog.TableNames())

	assert.True(t, catalog.HasTable("caz_receber"))
	assert.True(t, catalog.HasTable("CAZ_RECEBER"), "table lookup is case insensitive")
	assert.False(t, catalog.HasTable("usuarios"))
}

func TestDefault_Columns(t *testing.T) {
	catalog := Default()

	assert.True(t, catalog.HasColumn("caz_receber", "pago"))
	assert.True(t, catalog.HasColumn("caz_receber", "data_vencimento"))
	assert.True(t, catalog.HasColumn("caz_clientes", "cnpj"))
	assert.True(t, catalog.HasColumn("cup_clientes", "responsavel"))

	assert.False(t, catalog.HasColumn("caz_receber", "senha"))
	assert.False(t, catalog.HasColumn("usuarios", "cnpj"))
}

func TestHasAnyColumn(t *testing.T) {
	catalog := Default()

	assert.True(t, catalog.HasAnyColumn([]string{"caz_clientes", "caz_receber"}, "pago"))
	assert.False(t, catalog.HasAnyColumn([]string{"caz_clientes"}, "pago"))
	assert.False(t, catalog.HasAnyColumn(nil, "pago"))
}

func TestPromptDescription(t *testing.T) {
	description := Default().PromptDescription()

	assert.Contains(t, description, "caz_receber")
	assert.Contains(t, description, "nao_pago")
	assert.Contains(t, description, "Tabela:")
}
