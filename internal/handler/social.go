package handler

import (
	"log/slog"
	"net/http"
	"net/url"
	"slices"
	"strings"
	"time"

	"github.com/gorilla/websocket"
	"github.com/onyxhabits/onyx/internal/ctxkeys"
	"github.com/onyxhabits/onyx/internal/service"
)

const (
	livePingInterval = 25 * time.Second
	liveWriteTimeout = 10 * time.Second
	livePongTimeout  = 2 * livePingInterval
)

type SocialHandler struct {
	socialService *service.SocialService
	upgrader      websocket.Upgrader
}

// NewSocialHandler accepts live feed connections from the same host and from
// allowedOrigins ("*" allows any).
func NewSocialHandler(socialService *service.SocialService, allowedOrigins []string) *SocialHandler {
	return &SocialHandler{
		socialService: socialService,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return originAllowed(r, allowedOrigins)
			},
		},
	}
}

func (h *SocialHandler) Search(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	users, err := h.socialService.Search(r.Context(), user.ID, r.URL.Query().Get("query"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *SocialHandler) Follow(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	target, err := h.socialService.Follow(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, "You are now following "+target.Username)
}

func (h *SocialHandler) Unfollow(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	err := h.socialService.Unfollow(r.Context(), user.ID, r.PathValue("id"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeMessage(w, "Unfollowed successfully")
}

func (h *SocialHandler) Feed(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	feed, err := h.socialService.Feed(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"feed": feed})
}

func (h *SocialHandler) Followers(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	users, err := h.socialService.Followers(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *SocialHandler) Following(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	users, err := h.socialService.Following(r.Context(), user.ID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"users": users})
}

// Live streams new feed items over a websocket until the client goes away.
// This goroutine is the only writer on the connection.
func (h *SocialHandler) Live(w http.ResponseWriter, r *http.Request) {
	user := ctxkeys.User(r.Context())

	// Subscribe before the handshake completes so nothing published after it is missed.
	client := h.socialService.Subscribe(user.ID)
	defer h.socialService.Unsubscribe(client)

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		// Upgrade has already replied to the client.
		slog.Warn("failed to upgrade live feed", "error", err, "user_id", user.ID)
		return
	}
	defer func() { _ = conn.Close() }()
	slog.Debug("live feed connected", "user_id", user.ID)

	// Read loop ends on client close/error.
	done := make(chan struct{})
	go func() {
		defer close(done)
		_ = conn.SetReadDeadline(time.Now().Add(livePongTimeout))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(livePongTimeout))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(livePingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			slog.Debug("live feed disconnected", "user_id", user.ID)
			return
		case msg, ok := <-client.Messages():
			if !ok {
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = conn.SetWriteDeadline(time.Now().Add(liveWriteTimeout))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func originAllowed(r *http.Request, allowed []string) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}

	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	if strings.EqualFold(u.Host, r.Host) {
		return true
	}

	origin = strings.TrimRight(origin, "/")
	return slices.ContainsFunc(allowed, func(a string) bool {
		a = strings.TrimRight(strings.TrimSpace(a), "/")
		return a == "*" || strings.EqualFold(a, origin)
	})
}
