package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onyxhabits/onyx/internal/service"
)

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{service.ErrHabitNotFound, http.StatusNotFound},
		{fmt.Errorf("wrapped: %w", service.ErrHabitNotFound), http.StatusNotFound},
		{service.ErrInvalidDate, http.StatusBadRequest},
		{service.ErrInvalidCredentials, http.StatusUnauthorized},
		{service.ErrPremiumRequired, http.StatusForbidden},
		{service.ErrIntegrationDisabled, http.StatusServiceUnavailable},
		{errors.New("disk on fire"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}

func TestWriteError(t *testing.T) {
	t.Run("classified error shows its message", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodGet, "/api/habits/x", nil), service.ErrHabitNotFound)

		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
		assert.Equal(t, "Habit not found", decodeBody(t, rec)["error"])
	})

	t.Run("unknown error is hidden", func(t *testing.T) {
		rec := httptest.NewRecorder()
		writeError(rec, httptest.NewRequest(http.MethodGet, "/api/habits", nil), errors.New("pq: relation missing"))

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.Equal(t, "Something went wrong!", decodeBody(t, rec)["error"])
	})
}

func TestDecodeJSON(t *testing.T) {
	var req struct {
		Name string `json:"name"`
	}

	t.Run("valid body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":"Read"}`))
		require.True(t, decodeJSON(rec, r, &req))
		assert.Equal(t, "Read", req.Name)
	})

	t.Run("empty body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", nil)
		assert.True(t, decodeJSON(rec, r, &req))
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"name":`))
		assert.False(t, decodeJSON(rec, r, &req))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("oversized body", func(t *testing.T) {
		rec := httptest.NewRecorder()
		big := `{"name":"` + strings.Repeat("a", maxJSONBody) + `"}`
		r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
		assert.False(t, decodeJSON(rec, r, &req))
		assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
	})
}

func TestHomeApp(t *testing.T) {
	assets := fstest.MapFS{
		"index.html":     {Data: []byte("<html>onyx</html>")},
		"assets/app.js":  {Data: []byte("console.log('onyx')")},
		"assets/app.css": {Data: []byte("body{}")},
	}
	h := NewHomeHandler("Onyx", assets)

	tests := []struct {
		name   string
		path   string
		status int
		body   string
	}{
		{"index", "/", http.StatusOK, "<html>onyx</html>"},
		{"static file", "/assets/app.js", http.StatusOK, "console.log('onyx')"},
		{"client route falls back to index", "/dashboard/settings", http.StatusOK, "<html>onyx</html>"},
		{"unknown api path", "/api/nope", http.StatusNotFound, `"error":"Not found"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.App(rec, httptest.NewRequest(http.MethodGet, tt.path, nil))

			assert.Equal(t, tt.status, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.body)
		})
	}

	t.Run("no frontend", func(t *testing.T) {
		rec := httptest.NewRecorder()
		NewHomeHandler("Onyx", nil).App(rec, httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestHomeAPIAndHealth(t *testing.T) {
	h := NewHomeHandler("Onyx", nil)

	rec := httptest.NewRecorder()
	h.API(rec, httptest.NewRequest(http.MethodGet, "/api", nil))
	assert.Equal(t, "Onyx API is running 🚀", decodeBody(t, rec)["message"])

	rec = httptest.NewRecorder()
	h.Health(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	body := decodeBody(t, rec)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, body["timestamp"])
}

func TestOriginAllowed(t *testing.T) {
	tests := []struct {
		name    string
		origin  string
		allowed []string
		want    bool
	}{
		{"no origin header", "", nil, true},
		{"same host", "http://api.onyx.test", nil, true},
		{"listed origin", "http://localhost:5173", []string{"http://localhost:5173/"}, true},
		{"wildcard", "https://evil.test", []string{"*"}, true},
		{"unlisted origin", "https://evil.test", []string{"http://localhost:5173"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "http://api.onyx.test/api/social/feed/live", nil)
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			assert.Equal(t, tt.want, originAllowed(r, tt.allowed))
		})
	}
}
