package sqlguard

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/turbopartners/turbochat/pkg/apperrors"
	"github.com/turbopartners/turbochat/pkg/schema"
)

// Reason identifies why a statement was rejected.
type Reason string

const (
	ReasonEmpty              Reason = "empty"
	ReasonMultipleStatements Reason = "multiple_statements"
	ReasonNotSelect          Reason = "not_select"
	ReasonMutatingKeyword    Reason = "mutating_keyword"
	ReasonQuotedIdentifier   Reason = "quoted_identifier"
	ReasonUnknownTable       Reason = "unknown_table"
	ReasonUnknownColumn      Reason = "unknown_column"
	ReasonUnsafeParameter    Reason = "unsafe_parameter"
)

// Rejection explains a failed check. It unwraps to the guard sentinel so
// callers can branch on errors.Is without inspecting reasons.
type Rejection struct {
	Reason Reason
	Detail string
}

func (r *Rejection) Error() string {
	if r.Detail == "" {
		return fmt.Sprintf("statement rejected: %s", r.Reason)
	}
	return fmt.Sprintf("statement rejected: %s (%s)", r.Reason, r.Detail)
}

func (r *Rejection) Unwrap() error {
	return apperrors.ErrGuardRejected
}

func reject(reason Reason, detail string) *Rejection {
	return &Rejection{Reason: reason, Detail: detail}
}

// mutatingKeywords are verbs that have no place in a read-only statement,
// wherever they appear, including inside CTEs.
var mutatingKeywords = []string{
	"INSERT", "UPDATE", "DELETE", "DROP", "ALTER", "TRUNCATE",
	"CREATE", "GRANT", "REVOKE", "COPY", "MERGE", "CALL", "ATTACH",
	"VACUUM", "REINDEX", "EXECUTE",
}

var mutatingPattern = regexp.MustCompile(`(?i)\b(` + strings.Join(mutatingKeywords, "|") + `)\b`)

// allowedWords are SQL keywords and functions that may appear as bare
// identifiers without being column references.
var allowedWords = map[string]bool{
	"select": true, "from": true, "where": true, "group": true, "by": true,
	"order": true, "having": true, "limit": true, "offset": true,
	"as": true, "on": true, "and": true, "or": true, "not": true,
	"in": true, "is": true, "null": true, "distinct": true, "all": true,
	"join": true, "left": true, "right": true, "inner": true, "outer": true,
	"full": true, "cross": true, "union": true, "with": true,
	"asc": true, "desc": true, "between": true, "like": true, "ilike": true,
	"case": true, "when": true, "then": true, "else": true, "end": true,
	"true": true, "false": true, "exists": true, "any": true, "some": true,
	"cast": true, "filter": true, "over": true, "partition": true,
	"nulls": true, "first": true, "last": true,
	// Functions and types the templates and the model lean on
	"sum": true, "count": true, "avg": true, "min": true, "max": true,
	"coalesce": true, "nullif": true, "greatest": true, "least": true,
	"round": true, "abs": true, "extract": true, "year": true, "month": true,
	"day": true, "date_trunc": true, "date_part": true, "now": true,
	"current_date": true, "current_timestamp": true, "interval": true,
	"to_char": true, "lower": true, "upper": true, "trim": true,
	"length": true, "substring": true, "concat": true, "replace": true,
	"int": true, "integer": true, "bigint": true, "numeric": true,
	"text": true, "varchar": true, "date": true, "timestamp": true,
	"boolean": true, "float": true, "double": true, "precision": true,
}

var identifierPattern = regexp.MustCompile(`[A-Za-z_][A-Za-z0-9_]*(?:\.[A-Za-z_][A-Za-z0-9_]*)?`)

// Guard checks generated SQL against the read-only policy and the schema
// catalog before execution.
type Guard struct {
	catalog *schema.Catalog
	logger  *zap.Logger
}

// New creates a Guard bound to a schema catalog.
func New(catalog *schema.Catalog, logger *zap.Logger) *Guard {
	return &Guard{
		catalog: catalog,
		logger:  logger.Named("sqlguard"),
	}
}

// Check validates a statement and its parameters. On success it returns the
// normalized statement that should be executed. On failure it returns a
// *Rejection wrapping the guard sentinel.
//
// The checks run in a fixed order: normalization, single statement, no
// quoted identifiers, SELECT only, no mutating verbs, known tables and
// columns, clean parameters.
func (g *Guard) Check(sqlQuery string, params []any) (string, error) {
	normalized := Normalize(sqlQuery)
	if normalized == "" {
		return "", reject(ReasonEmpty, "")
	}

	stripped := stripComments(normalized)
	scannable := stripStringLiterals(stripped)

	if hasSemicolonOutsideStrings(stripped) {
		return "", reject(ReasonMultipleStatements, "semicolon inside statement")
	}

	// Double quotes delimit identifiers in PostgreSQL, and quoting is the
	// only way to reference a name the catalog scan would not see. The
	// catalog names are all plain lowercase, so no legitimate statement
	// needs them.
	if strings.ContainsRune(scannable, '"') {
		return "", reject(ReasonQuotedIdentifier, "double-quoted identifier")
	}

	firstWord := firstKeyword(scannable)
	if firstWord != "select" && firstWord != "with" {
		return "", reject(ReasonNotSelect, fmt.Sprintf("statement starts with %q", strings.ToUpper(firstWord)))
	}

	if match := mutatingPattern.FindString(scannable); match != "" {
		return "", reject(ReasonMutatingKeyword, strings.ToUpper(match))
	}

	if err := g.checkIdentifiers(scannable); err != nil {
		return "", err
	}

	for _, result := range CheckAllParameters(params) {
		g.logger.Warn("injection pattern in parameter",
			zap.Int("position", result.Position),
			zap.String("fingerprint", result.Fingerprint))
		return "", reject(ReasonUnsafeParameter, fmt.Sprintf("parameter $%d", result.Position))
	}

	return normalized, nil
}

func firstKeyword(sqlQuery string) string {
	fields := strings.Fields(sqlQuery)
	if len(fields) == 0 {
		return ""
	}
	return strings.ToLower(strings.TrimLeft(fields[0], "("))
}

// checkIdentifiers resolves every table and column reference against the
// catalog. Aliases declared in FROM/JOIN clauses and names introduced with
// AS are tracked so qualified references resolve and output aliases do not
// trip the column check.
func (g *Guard) checkIdentifiers(scannable string) error {
	tokens := strings.Fields(scannable)

	tables := make([]string, 0, 2)
	aliases := make(map[string]string) // alias -> table
	defined := make(map[string]bool)   // names introduced with AS

	for i := 0; i < len(tokens); i++ {
		word := strings.ToLower(strings.Trim(tokens[i], "(),"))
		switch word {
		case "from", "join":
			if i+1 >= len(tokens) {
				continue
			}
			name := strings.ToLower(strings.Trim(tokens[i+1], "(),"))
			if name == "" || name == "(" || allowedWords[name] {
				continue // subquery or malformed; identifier scan still applies
			}
			if !g.catalog.HasTable(name) {
				// EXTRACT(YEAR FROM col) puts a column after FROM. Those
				// still go through the identifier scan below.
				if g.catalog.HasAnyColumn(g.catalog.TableNames(), name) {
					continue
				}
				return reject(ReasonUnknownTable, name)
			}
			tables = append(tables, name)
			// Optional alias, with or without AS.
			j := i + 2
			if j < len(tokens) && strings.EqualFold(strings.Trim(tokens[j], "(),"), "as") {
				j++
			}
			if j < len(tokens) {
				alias := strings.ToLower(strings.Trim(tokens[j], "(),"))
				if alias != "" && !allowedWords[alias] && !strings.Contains(alias, ".") {
					aliases[alias] = name
				}
			}
		case "as":
			if i+1 < len(tokens) {
				name := strings.ToLower(strings.Trim(tokens[i+1], "(),"))
				if name != "" && !allowedWords[name] {
					defined[name] = true
				}
			}
		}
	}

	if len(tables) == 0 {
		return reject(ReasonUnknownTable, "no table referenced")
	}

	for _, ident := range identifierPattern.FindAllString(scannable, -1) {
		lower := strings.ToLower(ident)

		if qualifier, column, ok := strings.Cut(lower, "."); ok {
			table := qualifier
			if resolved, isAlias := aliases[qualifier]; isAlias {
				table = resolved
			}
			if !g.catalog.HasTable(table) {
				return reject(ReasonUnknownTable, qualifier)
			}
			if column != "*" && !g.catalog.HasColumn(table, column) {
				return reject(ReasonUnknownColumn, lower)
			}
			continue
		}

		if allowedWords[lower] || defined[lower] {
			continue
		}
		if _, isAlias := aliases[lower]; isAlias {
			continue
		}
		if g.catalog.HasTable(lower) {
			continue
		}
		if !g.catalog.HasAnyColumn(tables, lower) {
			return reject(ReasonUnknownColumn, lower)
		}
	}

	return nil
}
