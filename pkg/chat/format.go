package chat

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/turbopartners/turbochat/pkg/executor"
	"github.com/turbopartners/turbochat/pkg/models"
)

// Formatter phrases query results as Portuguese answers.
type Formatter interface {
	Format(question models.Question, result *executor.Result) string
	Greeting() string
	Help() string
	Unknown() string
}

type ptFormatter struct {
	printer *message.Printer
}

// NewFormatter creates the pt-BR formatter.
func NewFormatter() Formatter {
	return &ptFormatter{
		printer: message.NewPrinter(language.BrazilianPortuguese),
	}
}

var _ Formatter = (*ptFormatter)(nil)

var outputMonths = [...]string{
	"janeiro", "fevereiro", "março", "abril", "maio", "junho",
	"julho", "agosto", "setembro", "outubro", "novembro", "dezembro",
}

// Format dispatches on the question's intent.
func (f *ptFormatter) Format(question models.Question, result *executor.Result) string {
	var answer string

	switch question.Intent {
	case models.IntentTotalRevenue:
		answer = f.formatTotalRevenue(result)
	case models.IntentRevenueByPeriod:
		answer = f.formatRevenueByPeriod(question.Params, result)
	case models.IntentTopClients:
		answer = f.formatTopClients(result)
	case models.IntentDelinquentClients:
		answer = f.formatDelinquents(result)
	case models.IntentClientLookup:
		answer = f.formatClientLookup(question.Params, result)
	default:
		answer = f.Unknown()
	}

	if result != nil && result.Truncated {
		answer += fmt.Sprintf("\n\n_Mostrando os primeiros %d resultados._", result.RowCount)
	}

	return answer
}

func (f *ptFormatter) Greeting() string {
	return "Olá! 👋 Sou o assistente de contas a receber da Turbo. " +
		"Pergunte sobre receitas, maiores clientes, inadimplência ou informe um CNPJ para consultar um cliente."
}

func (f *ptFormatter) Help() string {
	return "Posso responder perguntas como:\n" +
		"- 💰 *Quanto recebemos em 2024?*\n" +
		"- 🏆 *Quais os top 10 clientes?*\n" +
		"- ⚠️ *Quem está inadimplente há mais de 30 dias?*\n" +
		"- 🔍 *12.345.678/0001-90* (consulta por CNPJ)"
}

func (f *ptFormatter) Unknown() string {
	return "Desculpe, não entendi a pergunta. 🤔 " +
		"Tente perguntar sobre receitas, maiores clientes ou inadimplência, ou envie *ajuda* para ver exemplos."
}

func (f *ptFormatter) formatTotalRevenue(result *executor.Result) string {
	total := firstValue(result, "total_recebido")
	if total == nil {
		return "Nenhuma receita registrada até o momento."
	}
	return fmt.Sprintf("💰 O total recebido é de **%s**.", f.currency(asFloat(total)))
}

func (f *ptFormatter) formatRevenueByPeriod(params models.Params, result *executor.Result) string {
	total := firstValue(result, "total_recebido")
	period := fmt.Sprintf("%d", params.Year)
	if params.Month >= 1 && params.Month <= 12 {
		period = fmt.Sprintf("%s de %d", outputMonths[params.Month-1], params.Year)
	}
	// No rows, or a NULL aggregate from a statement without COALESCE.
	if total == nil {
		return fmt.Sprintf("Nenhuma receita registrada em %s.", period)
	}
	return fmt.Sprintf("💰 Em %s, o total recebido foi de **%s**.", period, f.currency(asFloat(total)))
}

func (f *ptFormatter) formatTopClients(result *executor.Result) string {
	if result == nil || len(result.Rows) == 0 {
		return "Nenhum pagamento registrado até o momento."
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "🏆 Top %d clientes por valor pago:\n", len(result.Rows))
	for i, row := range result.Rows {
		fmt.Fprintf(&sb, "%d. **%s** (CNPJ %s): %s\n",
			i+1, asString(row["cliente_nome"]), formatTaxID(asString(row["cnpj"])),
			f.currency(asFloat(row["total_pago"])))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (f *ptFormatter) formatDelinquents(result *executor.Result) string {
	if result == nil || len(result.Rows) == 0 {
		return "✅ Nenhum cliente inadimplente encontrado. Tudo em dia!"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "⚠️ %d cliente(s) inadimplente(s):\n", len(result.Rows))
	for _, row := range result.Rows {
		fmt.Fprintf(&sb, "- **%s** (CNPJ %s): %s em aberto, %d dias de atraso\n",
			asString(row["cliente_nome"]), formatTaxID(asString(row["cnpj"])),
			f.currency(asFloat(row["total_vencido"])), asInt(row["dias_atraso"]))
	}
	return strings.TrimRight(sb.String(), "\n")
}

func (f *ptFormatter) formatClientLookup(params models.Params, result *executor.Result) string {
	if result == nil || len(result.Rows) == 0 {
		return fmt.Sprintf("🔍 Nenhum cliente encontrado com o CNPJ %s.", formatTaxID(params.TaxID))
	}

	row := result.Rows[0]
	var sb strings.Builder
	fmt.Fprintf(&sb, "🔍 **%s**\n", asString(row["nome"]))
	fmt.Fprintf(&sb, "- CNPJ: %s\n", formatTaxID(asString(row["cnpj"])))

	if phone := asString(row["telefone"]); phone != "" {
		fmt.Fprintf(&sb, "- Telefone: %s\n", phone)
	}
	if email := asString(row["email"]); email != "" {
		fmt.Fprintf(&sb, "- E-mail: %s\n", email)
	}

	fmt.Fprintf(&sb, "- Total pago: %s\n", f.currency(asFloat(row["total_pago"])))
	fmt.Fprintf(&sb, "- Em aberto: %s\n", f.currency(asFloat(row["total_aberto"])))

	if owner := asString(row["responsavel"]); owner != "" {
		fmt.Fprintf(&sb, "- Responsável: %s\n", owner)
	}
	if segment := asString(row["segmento"]); segment != "" {
		fmt.Fprintf(&sb, "- Segmento: %s\n", segment)
	}

	return strings.TrimRight(sb.String(), "\n")
}

// currency renders a value as Brazilian currency, "R$ 1.234,56".
func (f *ptFormatter) currency(v float64) string {
	return f.printer.Sprintf("R$ %.2f", v)
}

// formatTaxID renders a bare 14-digit CNPJ as 00.000.000/0000-00.
// Anything that is not 14 digits is returned unchanged.
func formatTaxID(digits string) string {
	if len(digits) != 14 {
		return digits
	}
	return fmt.Sprintf("%s.%s.%s/%s-%s",
		digits[0:2], digits[2:5], digits[5:8], digits[8:12], digits[12:14])
}

func firstValue(result *executor.Result, column string) any {
	if result == nil || len(result.Rows) == 0 {
		return nil
	}
	row := result.Rows[0]
	if v, ok := row[column]; ok {
		return v
	}
	// Model statements may alias the aggregate differently; with a single
	// output column the value is unambiguous.
	if len(result.Columns) == 1 {
		return row[result.Columns[0]]
	}
	return nil
}

func asFloat(v any) float64 {
	switch val := v.(type) {
	case float64:
		return val
	case float32:
		return float64(val)
	case int64:
		return float64(val)
	case int32:
		return float64(val)
	case int:
		return float64(val)
	}
	return 0
}

func asInt(v any) int {
	switch val := v.(type) {
	case int:
		return val
	case int32:
		return int(val)
	case int64:
		return int(val)
	case float64:
		return int(val)
	}
	return 0
}

func asString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%v", v)
}
