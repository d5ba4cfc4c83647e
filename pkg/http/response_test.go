package http_test

import (
	"encoding/json"
	"net/http/httptest"
	"testing"

	pkghttp "github.com/sairajtravels/site-api/pkg/http"
	"github.com/stretchr/testify/assert"
)

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteError(w, 400, "Invalid or expired reset token")

	assert.Equal(t, 400, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var resp pkghttp.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.False(t, resp.Success)
	assert.Equal(t, "Invalid or expired reset token", resp.Message)
}

func TestWriteSuccess(t *testing.T) {
	w := httptest.NewRecorder()

	pkghttp.WriteSuccess(w, "Logout successful")

	assert.Equal(t, 200, w.Code)

	var resp pkghttp.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err)
	assert.True(t, resp.Success)
	assert.Equal(t, "Logout successful", resp.Message)
}

func TestWriteJSON_CustomPayload(t *testing.T) {
	w := httptest.NewRecorder()

	payload := map[string]interface{}{
		"success": true,
		"token":   "abc123",
		"message": "Login successful",
	}
	pkghttp.WriteJSON(w, 200, payload)

	assert.Equal(t, 200, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var decoded map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &decoded)
	assert.NoError(t, err)
	assert.Equal(t, "abc123", decoded["token"])
}

func TestErrorWriters_StatusCodes(t *testing.T) {
	tests := []struct {
		name     string
		write    func(w *httptest.ResponseRecorder)
		expected int
	}{
		{"bad request", func(w *httptest.ResponseRecorder) { pkghttp.WriteBadRequest(w, "bad") }, 400},
		{"unauthorized", func(w *httptest.ResponseRecorder) { pkghttp.WriteUnauthorized(w, "no") }, 401},
		{"forbidden", func(w *httptest.ResponseRecorder) { pkghttp.WriteForbidden(w, "no") }, 403},
		{"not found", func(w *httptest.ResponseRecorder) { pkghttp.WriteNotFound(w, "gone") }, 404},
		{"too many requests", func(w *httptest.ResponseRecorder) { pkghttp.WriteTooManyRequests(w, "slow down") }, 429},
		{"internal error", func(w *httptest.ResponseRecorder) { pkghttp.WriteInternalError(w, "oops") }, 500},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			tt.write(w)
			assert.Equal(t, tt.expected, w.Code)

			var resp pkghttp.Response
			assert.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
			assert.NotEmpty(t, resp.Message)
		})
	}
}
