package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/turbopartners/turbochat/pkg/chat"
)

// ChatRequest is the body of POST /turbochat/message.
type ChatRequest struct {
	Message string `json:"message"`

	// ForceFallback skips the model strategy and answers from templates.
	ForceFallback bool `json:"force_fallback,omitempty"`
}

// ChatResponse is the reply envelope.
type ChatResponse struct {
	Response  string `json:"response"`
	Intent    string `json:"intent"`
	RowCount  int    `json:"row_count"`
	Truncated bool   `json:"truncated"`
}

const maxMessageBytes = 4 << 10

// ChatHandler exposes the chat service over HTTP.
type ChatHandler struct {
	service chat.Service
	logger  *zap.Logger
}

// NewChatHandler creates a new ChatHandler.
func NewChatHandler(service chat.Service, logger *zap.Logger) *ChatHandler {
	return &ChatHandler{service: service, logger: logger}
}

// RegisterRoutes registers the chat handler's routes on the given mux.
func (h *ChatHandler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/turbochat/message", h.Message)
}

// Message handles POST /turbochat/message.
func (h *ChatHandler) Message(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		_ = ErrorResponse(w, http.StatusMethodNotAllowed, "method_not_allowed")
		return
	}

	var req ChatRequest
	body := http.MaxBytesReader(w, r.Body, maxMessageBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		_ = ErrorResponse(w, http.StatusBadRequest, "invalid_request")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		_ = ErrorResponse(w, http.StatusBadRequest, "empty_message")
		return
	}

	answer, err := h.service.Handle(r.Context(), req.Message, req.ForceFallback)
	if err != nil {
		h.logger.Error("chat request failed", zap.Error(err))
		_ = ErrorResponse(w, http.StatusInternalServerError, "internal_error")
		return
	}

	response := ChatResponse{
		Response:  answer.Response,
		Intent:    string(answer.Intent),
		RowCount:  answer.RowCount,
		Truncated: answer.Truncated,
	}

	if err := WriteJSON(w, http.StatusOK, response); err != nil {
		h.logger.Error("Failed to encode chat response", zap.Error(err))
	}
}
