package reminder

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

func TestHub_SendsOnlyToOwner(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server := httptest.NewServer(hub.Handler(func(r *http.Request) (string, error) {
		user := r.URL.Query().Get("user")
		if user == "" {
			return "", errors.New("missing user")
		}
		return user, nil
	}))
	defer server.Close()

	wsURL := "ws" + strings.TrimPrefix(server.URL, "http")

	dial := func(user string) *websocket.Conn {
		t.Helper()
		conn, _, err := websocket.DefaultDialer.Dial(wsURL+"?user="+user, nil)
		if err != nil {
			t.Fatalf("Dial failed: %v", err)
		}
		return conn
	}

	alice := dial("alice")
	defer alice.Close()
	bob := dial("bob")
	defer bob.Close()

	deadline := time.Now().Add(2 * time.Second)
	for hub.Sessions() < 2 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if hub.Sessions() != 2 {
		t.Fatalf("expected 2 sessions, got %d", hub.Sessions())
	}

	if err := hub.Send("alice", []byte(`{"type":"notification"}`)); err != nil {
		t.Fatalf("Send failed: %v", err)
	}

	alice.SetReadDeadline(time.Now().Add(2 * time.Second))
	_, msg, err := alice.ReadMessage()
	if err != nil {
		t.Fatalf("alice read failed: %v", err)
	}
	if string(msg) != `{"type":"notification"}` {
		t.Errorf("alice got %s", msg)
	}

	bob.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if _, _, err := bob.ReadMessage(); err == nil {
		t.Error("bob must not receive alice's notification")
	}
}

func TestHub_RejectsUnauthenticated(t *testing.T) {
	hub := NewHub()
	defer hub.Close()

	server := httptest.NewServer(hub.Handler(func(r *http.Request) (string, error) {
		return "", errors.New("no token")
	}))
	defer server.Close()

	_, resp, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), nil)
	if err == nil {
		t.Fatal("expected dial to fail")
	}
	if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("expected 401, got %v", resp)
	}
}
