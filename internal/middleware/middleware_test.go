package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/onyxhabits/onyx/internal/ctxkeys"
	"github.com/onyxhabits/onyx/internal/model"
	"github.com/onyxhabits/onyx/internal/service"
)

type stubAuthenticator map[string]*model.User

func (s stubAuthenticator) Authenticate(_ context.Context, token string) (*model.User, error) {
	if user, ok := s[token]; ok {
		return user, nil
	}
	return nil, service.ErrInvalidToken
}

func whoami(w http.ResponseWriter, r *http.Request) {
	if user := ctxkeys.User(r.Context()); user != nil {
		_, _ = w.Write([]byte(user.Username))
		return
	}
	_, _ = w.Write([]byte("anonymous"))
}

func TestAuth(t *testing.T) {
	ada := &model.User{ID: "u1", Username: "ada"}
	handler := Auth(stubAuthenticator{"good": ada})(http.HandlerFunc(whoami))

	tests := []struct {
		name    string
		prepare func(r *http.Request)
		want    string
	}{
		{"no token", func(r *http.Request) {}, "anonymous"},
		{"bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer good") }, "ada"},
		{"bad bearer", func(r *http.Request) { r.Header.Set("Authorization", "Bearer bad") }, "anonymous"},
		{"query on plain request", func(r *http.Request) { r.URL.RawQuery = "access_token=good" }, "anonymous"},
		{"query on websocket upgrade", func(r *http.Request) {
			r.URL.RawQuery = "access_token=good"
			r.Header.Set("Upgrade", "websocket")
		}, "ada"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			tt.prepare(req)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.want, rec.Body.String())
		})
	}
}

func TestRequireAuth(t *testing.T) {
	handler := RequireAuth(whoami)

	rec := httptest.NewRecorder()
	handler(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.JSONEq(t, `{"error":"Access token required"}`, rec.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer expired")
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.JSONEq(t, `{"error":"Invalid or expired token"}`, rec.Body.String())

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ctxkeys.WithUser(req.Context(), &model.User{Username: "ada"}))
	rec = httptest.NewRecorder()
	handler(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ada", rec.Body.String())
}

func TestRateLimiter(t *testing.T) {
	now := time.Date(2026, time.October, 14, 10, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(2, time.Minute)
	rl.now = func() time.Time { return now }

	ok, remaining, _ := rl.Allow("1.1.1.1")
	assert.True(t, ok)
	assert.Equal(t, 1, remaining)
	ok, remaining, _ = rl.Allow("1.1.1.1")
	assert.True(t, ok)
	assert.Zero(t, remaining)
	ok, _, resetAt := rl.Allow("1.1.1.1")
	assert.False(t, ok)
	assert.Equal(t, now.Add(time.Minute), resetAt)

	ok, _, _ = rl.Allow("2.2.2.2")
	assert.True(t, ok)

	now = now.Add(61 * time.Second)
	ok, _, _ = rl.Allow("1.1.1.1")
	assert.True(t, ok)
	assert.Len(t, rl.windows, 1, "finished windows are swept")
}

func TestRateLimiterLimit(t *testing.T) {
	rl := NewRateLimiter(1, time.Minute)
	handler := rl.Limit(whoami)

	for i, want := range []int{http.StatusOK, http.StatusTooManyRequests} {
		req := httptest.NewRequest(http.MethodPost, "/api/auth/login", nil)
		req.Header.Set("X-Forwarded-For", "9.9.9.9, 10.0.0.1")
		rec := httptest.NewRecorder()
		handler(rec, req)
		assert.Equal(t, want, rec.Code, "request %d", i)
		assert.Equal(t, "1", rec.Header().Get("RateLimit-Limit"))
		assert.Equal(t, "0", rec.Header().Get("RateLimit-Remaining"))
	}
}

func TestRateLimitAuthDisabled(t *testing.T) {
	handler := RateLimitAuth(false)(whoami)
	for range authRateLimit + 1 {
		rec := httptest.NewRecorder()
		handler(rec, httptest.NewRequest(http.MethodPost, "/api/auth/login", nil))
		assert.NotEqual(t, http.StatusTooManyRequests, rec.Code)
	}
}

func TestGetClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.1:1234"
	assert.Equal(t, "192.0.2.1", getClientIP(req))

	req.RemoteAddr = "[2001:db8::1]:443"
	assert.Equal(t, "2001:db8::1", getClientIP(req))

	req.Header.Set("X-Real-IP", " 198.51.100.7 ")
	assert.Equal(t, "198.51.100.7", getClientIP(req))

	req.Header.Set("X-Forwarded-For", "203.0.113.5, 10.0.0.1")
	assert.Equal(t, "203.0.113.5", getClientIP(req))
}

func TestRecover(t *testing.T) {
	handler := Recover(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	require.NotPanics(t, func() { handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil)) })
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.JSONEq(t, `{"error":"Something went wrong!"}`, rec.Body.String())
}

func TestCORS(t *testing.T) {
	handler := CORS([]string{"http://localhost:5173/"})(http.HandlerFunc(whoami))

	req := httptest.NewRequest(http.MethodOptions, "/api/habits", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	req.Header.Set("Access-Control-Request-Method", "POST")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")

	req = httptest.NewRequest(http.MethodGet, "/api/habits", nil)
	req.Header.Set("Origin", "https://evil.example")
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	wildcard := CORS([]string{"*"})(http.HandlerFunc(whoami))
	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://anywhere.example")
	rec = httptest.NewRecorder()
	wildcard.ServeHTTP(rec, req)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestSecurityHeaders(t *testing.T) {
	rec := httptest.NewRecorder()
	SecurityHeaders(true)(http.HandlerFunc(whoami)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, "nosniff", rec.Header().Get("X-Content-Type-Options"))
	assert.NotEmpty(t, rec.Header().Get("Strict-Transport-Security"))

	rec = httptest.NewRecorder()
	SecurityHeaders(false)(http.HandlerFunc(whoami)).ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Empty(t, rec.Header().Get("Strict-Transport-Security"))
}

func TestRequestLoggingCapturesStatus(t *testing.T) {
	var captured *statusRecorder
	handler := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = w.(*statusRecorder)
		w.WriteHeader(http.StatusTeapot)
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("short and stout"))
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/habits", nil))
	assert.Equal(t, http.StatusTeapot, rec.Code)
	require.NotNil(t, captured)
	assert.Equal(t, http.StatusTeapot, captured.status)
	assert.Equal(t, len("short and stout"), captured.bytes)
}

func TestRequestLoggingSkipsQuietPaths(t *testing.T) {
	var wrapped bool
	handler := RequestLogging(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, wrapped = w.(*statusRecorder)
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.False(t, wrapped)

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/habits", nil))
	assert.True(t, wrapped)
}

func TestChainOrder(t *testing.T) {
	var order []string
	mark := func(name string) Middleware {
		return func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				order = append(order, name)
				next.ServeHTTP(w, r)
			})
		}
	}

	h := Chain(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		order = append(order, "handler")
	}), mark("first"), mark("second"))

	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, []string{"first", "second", "handler"}, order)
}
