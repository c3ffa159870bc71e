package errors

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNew_MessageFromPayload(t *testing.T) {
	tcs := []struct {
		name    string
		status  int
		payload string
		want    string
	}{
		{"from_message_field", http.StatusForbidden, `{"message":"forbidden"}`, "forbidden"},
		{"fallback_no_field", http.StatusBadRequest, `{"error":"x"}`, "request failed"},
		{"fallback_empty_payload", http.StatusBadGateway, ``, "request failed"},
		{"fallback_broken_json", http.StatusBadGateway, `{"message":`, "request failed"},
	}

	for _, tc := range tcs {
		t.Run(tc.name, func(t *testing.T) {
			he := New(tc.status, json.RawMessage(tc.payload))
			require.Equal(t, tc.status, he.Status)
			require.Equal(t, tc.want, he.Message)
			require.Equal(t, tc.want, he.Error())
		})
	}
}

func TestAsHTTP(t *testing.T) {
	he := New(http.StatusNotFound, nil)

	got, ok := AsHTTP(fmt.Errorf("wrap: %w", he))
	require.True(t, ok)
	require.Equal(t, he, got)

	_, ok = AsHTTP(fmt.Errorf("plain"))
	require.False(t, ok)
}

func TestWriteError_PassesBackendPayloadThrough(t *testing.T) {
	// Симулированный отказ бэкенда: 403 + {"message":"forbidden"}.
	// Прокси обязан сохранить и статус, и тело (никаких generic 500).
	he := New(http.StatusForbidden, json.RawMessage(`{"message":"forbidden"}`))

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/order", nil)
	WriteError(rr, req, he)

	require.Equal(t, http.StatusForbidden, rr.Code)
	require.Equal(t, "application/json", rr.Header().Get("Content-Type"))
	require.JSONEq(t, `{"message":"forbidden"}`, rr.Body.String())
}

func TestWriteError_HTTPErrorWithoutPayload(t *testing.T) {
	he := &HTTPError{Status: http.StatusUnauthorized, Message: "session expired"}

	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/auth/account", nil)
	req.Header.Set("X-Request-Id", "rid-1")
	WriteError(rr, req, he)

	require.Equal(t, http.StatusUnauthorized, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "session expired", resp.Message)
	require.Equal(t, "rid-1", resp.RequestID)
}

func TestWriteError_UnknownError_Returns500Generic(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/product", nil)
	WriteError(rr, req, fmt.Errorf("dial tcp: connection refused"))

	require.Equal(t, http.StatusInternalServerError, rr.Code)

	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	require.Equal(t, "internal error", resp.Message)
}

func TestWriteError_NilError_Returns500Generic(t *testing.T) {
	rr := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	WriteError(rr, req, nil)

	require.Equal(t, http.StatusInternalServerError, rr.Code)
}
