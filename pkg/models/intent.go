// Package models holds the domain types shared between the classifier, the
// SQL generators and the chat service.
package models

// Intent is the recognized purpose of a user question.
type Intent string

const (
	IntentUnknown           Intent = "unknown"
	IntentGreeting          Intent = "greeting"
	IntentHelp              Intent = "help"
	IntentTotalRevenue      Intent = "total_revenue"
	IntentRevenueByPeriod   Intent = "revenue_by_period"
	IntentTopClients        Intent = "top_clients"
	IntentDelinquentClients Intent = "delinquent_clients"
	IntentClientLookup      Intent = "client_lookup"
)

// Queryable reports whether the intent maps to a store query. Greetings,
// help requests and unrecognized questions are answered without touching
// the database.
func (i Intent) Queryable() bool {
	switch i {
	case IntentTotalRevenue, IntentRevenueByPeriod, IntentTopClients,
		IntentDelinquentClients, IntentClientLookup:
		return true
	}
	return false
}

// Params carries the values extracted from the question alongside the
// intent. Only the fields relevant to the intent are set.
type Params struct {
	// TaxID is the normalized 14-digit CNPJ for client lookups.
	TaxID string `json:"tax_id,omitempty"`

	// TopN is the requested ranking size for top-client questions.
	TopN int `json:"top_n,omitempty"`

	// MinDaysOverdue filters delinquent clients by how long the oldest
	// open installment has been overdue. Zero means any overdue amount.
	MinDaysOverdue int `json:"min_days_overdue,omitempty"`

	// Year and Month scope revenue questions. Month zero means the whole
	// year.
	Year  int `json:"year,omitempty"`
	Month int `json:"month,omitempty"`
}

// Question is a classified user message.
type Question struct {
	Text   string `json:"text"`
	Intent Intent `json:"intent"`
	Params Params `json:"params"`
}
