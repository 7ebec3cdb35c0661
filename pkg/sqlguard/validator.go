// Package sqlguard validates generated SQL before it is allowed anywhere
// near the receivables store. Every statement, template-built or
// model-built, passes through the same checks.
package sqlguard

import (
	"strings"
)

// Normalize trims whitespace and a single trailing semicolon. The returned
// statement is what gets executed if the remaining checks pass.
func Normalize(sqlQuery string) string {
	sqlQuery = strings.TrimSpace(sqlQuery)
	sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	if strings.HasSuffix(sqlQuery, ";") {
		sqlQuery = strings.TrimSuffix(sqlQuery, ";")
		sqlQuery = strings.TrimRight(sqlQuery, " \t\n\r")
	}
	return sqlQuery
}

// hasSemicolonOutsideStrings reports whether the SQL contains any semicolon
// outside of string literals. After Normalize has stripped the trailing
// semicolon, any remaining one means a second statement.
func hasSemicolonOutsideStrings(sqlQuery string) bool {
	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
	)

	state := stateNormal
	prevChar := rune(0)

	for _, char := range sqlQuery {
		switch state {
		case stateNormal:
			switch char {
			case ';':
				return true
			case '\'':
				state = stateSingleQuote
			case '"':
				state = stateDoubleQuote
			}
		case stateSingleQuote:
			// Handle both backslash escape (\') and SQL standard escape ('').
			// For a doubled quote this exits and immediately re-enters on the
			// next quote, which correctly keeps us inside the string.
			if char == '\'' && prevChar != '\\' {
				state = stateNormal
			}
		case stateDoubleQuote:
			if char == '"' && prevChar != '\\' {
				state = stateNormal
			}
		}
		prevChar = char
	}

	return false
}

// stripComments removes -- line comments and /* */ block comments.
// Comment markers inside string literals are left alone.
func stripComments(sqlQuery string) string {
	var sb strings.Builder
	sb.Grow(len(sqlQuery))

	const (
		stateNormal = iota
		stateSingleQuote
		stateDoubleQuote
		stateLineComment
		stateBlockComment
	)

	state := stateNormal
	runes := []rune(sqlQuery)

	for i := 0; i < len(runes); i++ {
		char := runes[i]
		var next rune
		if i+1 < len(runes) {
			next = runes[i+1]
		}

		switch state {
		case stateNormal:
			switch {
			case char == '-' && next == '-':
				state = stateLineComment
				i++
			case char == '/' && next == '*':
				state = stateBlockComment
				i++
			case char == '\'':
				state = stateSingleQuote
				sb.WriteRune(char)
			case char == '"':
				state = stateDoubleQuote
				sb.WriteRune(char)
			default:
				sb.WriteRune(char)
			}
		case stateSingleQuote:
			sb.WriteRune(char)
			if char == '\'' {
				state = stateNormal
			}
		case stateDoubleQuote:
			sb.WriteRune(char)
			if char == '"' {
				state = stateNormal
			}
		case stateLineComment:
			if char == '\n' {
				state = stateNormal
				sb.WriteRune(char)
			}
		case stateBlockComment:
			if char == '*' && next == '/' {
				state = stateNormal
				i++
			}
		}
	}

	return sb.String()
}

// stripStringLiterals replaces the contents of single-quoted string literals
// with spaces so keyword and identifier scans cannot be fooled by quoted
// text. Double quotes stay in place: in PostgreSQL they delimit identifiers,
// not strings, and the guard rejects quoted identifiers outright.
func stripStringLiterals(sqlQuery string) string {
	var sb strings.Builder
	sb.Grow(len(sqlQuery))

	inString := false

	for _, char := range sqlQuery {
		if inString {
			if char == '\'' {
				inString = false
			}
			sb.WriteRune(' ')
			continue
		}
		if char == '\'' {
			inString = true
			sb.WriteRune(' ')
			continue
		}
		sb.WriteRune(char)
	}

	return sb.String()
}
