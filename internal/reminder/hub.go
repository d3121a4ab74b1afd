package reminder

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/olahol/melody"
)

const userIDKey = "user_id"

// Hub fans notifications out to the websocket sessions of their owner.
type Hub struct {
	m *melody.Melody
}

// NewHub creates a hub with keep-alive settings suited to proxies that drop
// idle connections.
func NewHub() *Hub {
	m := melody.New()
	m.Config.MaxMessageSize = 4096
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	m.HandleConnect(func(s *melody.Session) {
		userID, _ := s.Get(userIDKey)
		slog.Info("Notification client connected", "user_id", userID)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		userID, _ := s.Get(userIDKey)
		slog.Info("Notification client disconnected", "user_id", userID)
	})
	m.HandleError(func(s *melody.Session, err error) {
		userID, _ := s.Get(userIDKey)
		slog.Warn("Notification websocket error", "user_id", userID, "error", err)
	})

	return &Hub{m: m}
}

// Handler upgrades authenticated requests to websocket sessions.
// authenticate resolves the request to a user ID.
func (h *Hub) Handler(authenticate func(r *http.Request) (string, error)) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, err := authenticate(r)
		if err != nil {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		if err := h.m.HandleRequestWithKeys(w, r, map[string]any{userIDKey: userID}); err != nil {
			slog.Warn("Failed to upgrade websocket", "user_id", userID, "error", err)
		}
	})
}

// Send writes payload to every session of ownerID. Owners without a session
// are skipped silently.
func (h *Hub) Send(ownerID string, payload []byte) error {
	return h.m.BroadcastFilter(payload, func(s *melody.Session) bool {
		id, ok := s.Get(userIDKey)
		return ok && id == ownerID
	})
}

// Sessions returns the number of connected sessions.
func (h *Hub) Sessions() int {
	return h.m.Len()
}

// Close disconnects every session.
func (h *Hub) Close() error {
	return h.m.Close()
}
