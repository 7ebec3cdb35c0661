package handlers

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorResponse_KnownCode(t *testing.T) {
	rec := httptest.NewRecorder()

	err := ErrorResponse(rec, 400, "empty_message")
	require.NoError(t, err)

	assert.Equal(t, 400, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "empty_message", body["error"])
	assert.Equal(t, "Envie uma mensagem para o assistente.", body["message"])
}

func TestErrorResponse_UnknownCodeFallsBack(t *testing.T) {
	rec := httptest.NewRecorder()

	err := ErrorResponse(rec, 500, "something_new")
	require.NoError(t, err)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "something_new", body["error"])
	assert.Equal(t, userMessages["internal_error"], body["message"])
}
