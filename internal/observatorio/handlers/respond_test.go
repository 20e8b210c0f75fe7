package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	e "github.com/gartstein/observatorio/internal/observatorio/errors"
	"github.com/gartstein/observatorio/internal/observatorio/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestResponderError(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		status  int
		message string
	}{
		{name: "violations", err: validation.Errors{{Location: "body", Field: "nombre", Message: "is required"}}, status: http.StatusBadRequest},
		{name: "labelled not found", err: &validation.NotFoundError{Label: "empresa"}, status: http.StatusNotFound, message: "empresa not found"},
		{name: "not found", err: fmt.Errorf("get: %w", e.ErrNotFound), status: http.StatusNotFound, message: "not found"},
		{name: "unauthorized", err: e.ErrUnauthorized, status: http.StatusUnauthorized, message: "invalid credentials"},
		{name: "duplicate", err: e.ErrDuplicate, status: http.StatusConflict, message: "resource already exists"},
		{name: "invalid reference", err: e.ErrInvalidReference, status: http.StatusConflict, message: "referenced resource does not exist"},
		{name: "invalid input", err: e.ErrInvalidInput, status: http.StatusBadRequest, message: "invalid input"},
		{name: "internal", err: errors.New("connection refused"), status: http.StatusInternalServerError, message: "internal server error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rs := NewResponder(zap.NewNop(), false)
			rec := httptest.NewRecorder()
			rs.Error(rec, httptest.NewRequest(http.MethodGet, "/api/empresas", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			if tt.message == "" {
				assert.Len(t, body["errors"], 1)
				return
			}
			assert.Equal(t, tt.message, body["message"])
			assert.NotContains(t, body, "error")
		})
	}
}

func TestResponderExposeErrors(t *testing.T) {
	core, logs := observer.New(zap.ErrorLevel)
	rs := NewResponder(zap.New(core), true)

	rec := httptest.NewRecorder()
	rs.Error(rec, httptest.NewRequest(http.MethodDelete, "/api/empresas/1", nil), errors.New("connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"message":"internal server error","error":"connection refused"}`, rec.Body.String())

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "Internal server error", entry.Message)
	assert.Equal(t, "/api/empresas/1", entry.ContextMap()["path"])
}

func TestResponderNoContent(t *testing.T) {
	rec := httptest.NewRecorder()
	NewResponder(zap.NewNop(), false).NoContent(rec)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Zero(t, rec.Body.Len())
}

func TestRequestLogger(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	handler := requestLogger(zap.New(core))(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte("upstream"))
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/paises", nil))

	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, zap.WarnLevel, entry.Level)
	fields := entry.ContextMap()
	assert.Equal(t, "GET", fields["method"])
	assert.Equal(t, "/api/paises", fields["path"])
	assert.EqualValues(t, http.StatusBadGateway, fields["status"])
	assert.EqualValues(t, len("upstream"), fields["bytes"])
}
