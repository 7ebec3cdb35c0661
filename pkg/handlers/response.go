package handlers

import (
	"encoding/json"
	"net/http"
)

// userMessages maps error codes to the fixed pt-BR texts shown to callers.
// Handlers never surface internal error strings; everything user-facing
// comes from this table.
var userMessages = map[string]string{
	"method_not_allowed":   "Use POST.",
	"invalid_request":      "Corpo da requisição inválido.",
	"empty_message":        "Envie uma mensagem para o assistente.",
	"internal_error":       "Não consegui processar sua pergunta agora. Tente novamente em instantes.",
	"database_unreachable": "Banco de dados indisponível no momento.",
}

// ErrorResponse writes the JSON error envelope for a known error code and
// returns any encoding error. Unknown codes fall back to the generic
// internal error text.
func ErrorResponse(w http.ResponseWriter, statusCode int, errorCode string) error {
	message, ok := userMessages[errorCode]
	if !ok {
		message = userMessages["internal_error"]
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	return json.NewEncoder(w).Encode(map[string]string{
		"error":   errorCode,
		"message": message,
	})
}

// WriteJSON writes a JSON response and returns any encoding error.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) error {
	w.Header().Set("Content-Type", "application/json")
	if statusCode != http.StatusOK {
		w.WriteHeader(statusCode)
	}
	return json.NewEncoder(w).Encode(data)
}
