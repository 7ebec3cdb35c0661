// Package apperrors defines the request-level error taxonomy for the chat
// pipeline. Handlers map these to user-safe messages; raw causes stay in logs.
package apperrors

import "errors"

var (
	// ErrGeneration means every SQL generation strategy failed for the request.
	ErrGeneration = errors.New("sql generation failed")
	// ErrGuardRejected means a generated statement was refused by the query guard.
	ErrGuardRejected = errors.New("generated sql rejected")
	// ErrExecution means the store could not run the validated statement.
	ErrExecution = errors.New("query execution failed")
	// ErrFormatting means the result shape did not match the intent.
	ErrFormatting = errors.New("result formatting failed")
	// ErrNotFound is returned by lookups that resolve to no rows.
	ErrNotFound = errors.New("not found")
)
