// Package prompts builds the texts sent to the language model.
package prompts

import (
	"strings"

	"github.com/turbopartners/turbochat/pkg/schema"
)

// SQLGenerationSystem instructs the model to emit exactly one SELECT.
// The guard still validates everything it returns.
const SQLGenerationSystem = `Você é um gerador de SQL para um sistema de contas a receber.
Responda SOMENTE com uma única consulta SQL SELECT para PostgreSQL, sem explicações,
sem comentários e sem formatação markdown. Use apenas as tabelas e colunas descritas.
Nunca gere INSERT, UPDATE, DELETE ou qualquer comando que modifique dados.`

// BuildSQLGenerationPrompt renders the schema and the user question.
func BuildSQLGenerationPrompt(catalog *schema.Catalog, question string) string {
	var sb strings.Builder
	sb.WriteString("Esquema do banco de dados:\n\n")
	sb.WriteString(catalog.PromptDescription())
	sb.WriteString("\nPergunta do usuário: ")
	sb.WriteString(question)
	sb.WriteString("\n\nSQL:")
	return sb.String()
}
