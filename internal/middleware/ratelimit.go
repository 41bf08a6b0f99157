package middleware

import (
	"log/slog"
	"math"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	authRateLimit  = 20
	authRateWindow = 15 * time.Minute
)

type rateWindow struct {
	count   int
	resetAt time.Time
}

// RateLimiter counts requests per client IP in fixed windows. A client's
// window opens with its first request and its counter resets when it ends.
type RateLimiter struct {
	mu        sync.Mutex
	windows   map[string]*rateWindow
	limit     int
	window    time.Duration
	nextSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		windows: make(map[string]*rateWindow),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
}

// Allow records a request from ip and reports whether it fits the budget,
// how many requests remain and when the window resets.
func (rl *RateLimiter) Allow(ip string) (ok bool, remaining int, resetAt time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if !now.Before(rl.nextSweep) {
		rl.sweep(now)
	}

	w, found := rl.windows[ip]
	if !found || !now.Before(w.resetAt) {
		w = &rateWindow{resetAt: now.Add(rl.window)}
		rl.windows[ip] = w
	}

	if w.count >= rl.limit {
		return false, 0, w.resetAt
	}
	w.count++
	return true, rl.limit - w.count, w.resetAt
}

// sweep drops finished windows. Callers hold mu.
func (rl *RateLimiter) sweep(now time.Time) {
	for ip, w := range rl.windows {
		if !now.Before(w.resetAt) {
			delete(rl.windows, ip)
		}
	}
	rl.nextSweep = now.Add(rl.window)
}

// Limit rejects requests over the limiter's budget with 429 and reports the
// budget in RateLimit-* headers.
func (rl *RateLimiter) Limit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := getClientIP(r)
		ok, remaining, resetAt := rl.Allow(ip)

		reset := strconv.Itoa(int(math.Ceil(resetAt.Sub(rl.now()).Seconds())))
		w.Header().Set("RateLimit-Limit", strconv.Itoa(rl.limit))
		w.Header().Set("RateLimit-Remaining", strconv.Itoa(remaining))
		w.Header().Set("RateLimit-Reset", reset)

		if !ok {
			slog.Warn("rate limit exceeded", "ip", ip, "path", r.URL.Path)
			w.Header().Set("Retry-After", reset)
			writeError(w, http.StatusTooManyRequests, "Too many requests. Please try again later.")
			return
		}
		next(w, r)
	}
}

// RateLimitAuth guards the credential endpoints: 20 requests per 15 minutes
// per IP. When disabled it passes everything through.
func RateLimitAuth(enabled bool) func(http.HandlerFunc) http.HandlerFunc {
	if !enabled {
		return func(next http.HandlerFunc) http.HandlerFunc { return next }
	}
	return NewRateLimiter(authRateLimit, authRateWindow).Limit
}

// getClientIP prefers proxy headers over the socket address.
func getClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		ip, _, _ := strings.Cut(xff, ",")
		return strings.TrimSpace(ip)
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
