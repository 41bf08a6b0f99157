package service

import (
	"encoding/json"
	"log/slog"
	"sync"
)

const (
	EventCompletionCreated = "completion.created"

	clientBuffer = 16
)

// Event is the envelope pushed to live feed subscribers.
type Event struct {
	Kind string `json:"kind"`
	Item any    `json:"item"`
}

// Client is one live connection. The connection owner drains Messages and writes
// them to the socket; nothing else writes to it.
type Client struct {
	UserID string
	send   chan []byte
}

func (c *Client) Messages() <-chan []byte {
	return c.send
}

// RealtimeHub tracks live connections per user.
type RealtimeHub struct {
	mu      sync.RWMutex
	clients map[string]map[*Client]struct{}
}

func NewRealtimeHub() *RealtimeHub {
	return &RealtimeHub{clients: make(map[string]map[*Client]struct{})}
}

func (h *RealtimeHub) Register(userID string) *Client {
	c := &Client{UserID: userID, send: make(chan []byte, clientBuffer)}

	h.mu.Lock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*Client]struct{})
	}
	h.clients[userID][c] = struct{}{}
	h.mu.Unlock()

	return c
}

// Unregister closes the client's message channel. Repeated calls are no-ops.
func (h *RealtimeHub) Unregister(c *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	set := h.clients[c.UserID]
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.UserID)
	}
	close(c.send)
}

// Connected reports how many connections userID has open.
func (h *RealtimeHub) Connected(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// Broadcast sends the event to every connection of the given users. Slow clients
// whose buffer is full miss the message.
func (h *RealtimeHub) Broadcast(userIDs []string, event Event) {
	msg, err := json.Marshal(event)
	if err != nil {
		slog.Error("failed to marshal realtime event", "error", err, "kind", event.Kind)
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, userID := range userIDs {
		for c := range h.clients[userID] {
			select {
			case c.send <- msg:
			default:
				slog.Warn("realtime client buffer full, dropping message", "user_id", userID)
			}
		}
	}
}
