// Package schema holds the static catalog of queryable tables. The catalog is
// the single source of truth for the intent classifier's vocabulary, the SQL
// generators, and the query guard's identifier resolution.
package schema

import (
	"fmt"
	"sort"
	"strings"
)

// Column describes one queryable column and its business meaning.
type Column struct {
	Name        string
	Type        string
	Description string
}

// Table describes one queryable table.
type Table struct {
	Name        string
	Description string
	Columns     []Column
}

// Catalog is a read-only set of tables. Safe for concurrent use after New.
type Catalog struct {
	tables  []Table
	byTable map[string]map[string]Column
}

// New builds a catalog from table definitions.
func New(tables []Table) *Catalog {
	byTable := make(map[string]map[string]Column, len(tables))
	for _, t := range tables {
		cols := make(map[string]Column, len(t.Columns))
		for _, c := range t.Columns {
			cols[strings.ToLower(c.Name)] = c
		}
		byTable[strings.ToLower(t.Name)] = cols
	}
	return &Catalog{tables: tables, byTable: byTable}
}

// Default returns the receivables catalog: the two Conta Azul tables plus the
// ClickUp client mirror.
func Default() *Catalog {
	return New([]Table{
		{
			Name:        "caz_clientes",
			Description: "registro principal de clientes (Conta Azul)",
			Columns: []Column{
				{Name: "cnpj", Type: "VARCHAR", Description: "CNPJ do cliente, somente dígitos"},
				{Name: "nome", Type: "VARCHAR", Description: "razão social do cliente"},
				{Name: "telefone", Type: "VARCHAR", Description: "telefone de contato"},
				{Name: "email", Type: "VARCHAR", Description: "e-mail de contato"},
			},
		},
		{
			Name:        "caz_receber",
			Description: "parcelas de contas a receber",
			Columns: []Column{
				{Name: "cliente_nome", Type: "VARCHAR", Description: "nome do cliente da parcela"},
				{Name: "cnpj", Type: "VARCHAR", Description: "CNPJ do cliente"},
				{Name: "total", Type: "NUMERIC", Description: "valor total da parcela"},
				{Name: "pago", Type: "NUMERIC", Description: "quanto foi pago da parcela"},
				{Name: "nao_pago", Type: "NUMERIC", Description: "quanto deixou de ser pago"},
				{Name: "descricao", Type: "TEXT", Description: "descrição da parcela"},
				{Name: "data_vencimento", Type: "DATE", Description: "data de vencimento"},
				{Name: "data_pagamento", Type: "DATE", Description: "data de pagamento, nula se em aberto"},
				{Name: "status", Type: "VARCHAR", Description: "ACQUITTED, OVERDUE, LOST ou PENDING"},
				{Name: "link_pagamento", Type: "TEXT", Description: "link de pagamento da parcela"},
			},
		},
		{
			Name:        "cup_clientes",
			Description: "espelho operacional de clientes (ClickUp)",
			Columns: []Column{
				{Name: "cnpj", Type: "VARCHAR", Description: "CNPJ do cliente"},
				{Name: "responsavel", Type: "VARCHAR", Description: "responsável pela conta"},
				{Name: "segmento", Type: "VARCHAR", Description: "segmento do cliente"},
				{Name: "cluster", Type: "VARCHAR", Description: "cluster do cliente"},
				{Name: "status_conta", Type: "VARCHAR", Description: "status da conta"},
				{Name: "telefone", Type: "VARCHAR", Description: "telefone do cliente"},
			},
		},
	})
}

// Tables returns the table definitions in declaration order.
func (c *Catalog) Tables() []Table {
	return c.tables
}

// TableNames returns the lowercase table names, sorted.
func (c *Catalog) TableNames() []string {
	names := make([]string, 0, len(c.byTable))
	for name := range c.byTable {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// HasTable reports whether name is a catalog table. Case-insensitive.
func (c *Catalog) HasTable(name string) bool {
	_, ok := c.byTable[strings.ToLower(name)]
	return ok
}

// HasColumn reports whether table.column exists in the catalog.
func (c *Catalog) HasColumn(table, column string) bool {
	cols, ok := c.byTable[strings.ToLower(table)]
	if !ok {
		return false
	}
	_, ok = cols[strings.ToLower(column)]
	return ok
}

// HasAnyColumn reports whether column exists in at least one of the named
// tables. Used to resolve unqualified column references.
func (c *Catalog) HasAnyColumn(tables []string, column string) bool {
	for _, t := range tables {
		if c.HasColumn(t, column) {
			return true
		}
	}
	return false
}

// PromptDescription renders the catalog as schema context for the model
// strategy's prompt.
func (c *Catalog) PromptDescription() string {
	var b strings.Builder
	for _, t := range c.tables {
		fmt.Fprintf(&b, "Tabela: %s (%s)\nColunas:\n", t.Name, t.Description)
		for _, col := range t.Columns {
			fmt.Fprintf(&b, "- %s (%s): %s\n", col.Name, col.Type, col.Description)
		}
		b.WriteString("\n")
	}
	return strings.TrimSpace(b.String())
}
