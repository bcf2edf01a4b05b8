// Package authority is an in-process stand-in for the game server used by tests.
package authority

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/rocketscienceinc/connect4-client/internal/protocol"
)

const waitTimeout = 2 * time.Second

type Authority struct {
	*httptest.Server

	upgrader websocket.Upgrader

	mu                sync.Mutex
	conn              *websocket.Conn
	leaderboardStatus int
	leaderboardBody   string
	leaderboardDelay  time.Duration

	connected chan struct{}
	received  chan protocol.Message
}

func New(t *testing.T) *Authority {
	t.Helper()

	that := &Authority{
		upgrader:          websocket.Upgrader{CheckOrigin: func(*http.Request) bool { return true }},
		leaderboardStatus: http.StatusOK,
		leaderboardBody:   "[]",
		connected:         make(chan struct{}, 8),
		received:          make(chan protocol.Message, 64),
	}

	r := chi.NewRouter()
	r.Get("/ws", that.serveWS)
	r.Get("/leaderboard", that.serveLeaderboard)
	r.Get("/health", serveHealth)

	that.Server = httptest.NewServer(r)

	t.Cleanup(func() {
		that.DropClient()
		that.Server.Close()
	})

	return that
}

// WSURL - address of the websocket endpoint.
func (that *Authority) WSURL() string {
	return "ws" + strings.TrimPrefix(that.URL, "http") + "/ws"
}

// SetLeaderboard - what GET /leaderboard answers with.
func (that *Authority) SetLeaderboard(status int, body string) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.leaderboardStatus = status
	that.leaderboardBody = body
}

// SlowLeaderboard - delays every leaderboard answer.
func (that *Authority) SlowLeaderboard(delay time.Duration) {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.leaderboardDelay = delay
}

// WaitForClient - blocks until a client has connected.
func (that *Authority) WaitForClient(t *testing.T) {
	t.Helper()

	select {
	case <-that.connected:
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for a client")
	}
}

// Push - sends a raw payload to the connected client.
func (that *Authority) Push(t *testing.T, data string) {
	t.Helper()

	that.mu.Lock()
	defer that.mu.Unlock()

	if that.conn == nil {
		t.Fatalf("no client connected")
	}

	if err := that.conn.WriteMessage(websocket.TextMessage, []byte(data)); err != nil {
		t.Fatalf("failed to push frame: %v", err)
	}
}

// Next - the next frame the client sent.
func (that *Authority) Next(t *testing.T) protocol.Message {
	t.Helper()

	select {
	case msg := <-that.received:
		return msg
	case <-time.After(waitTimeout):
		t.Fatalf("timed out waiting for a frame from the client")
		return protocol.Message{}
	}
}

// ExpectSilence - fails if the client sends anything within d.
func (that *Authority) ExpectSilence(t *testing.T, d time.Duration) {
	t.Helper()

	select {
	case msg := <-that.received:
		t.Fatalf("expected no frame within %v, got %s", d, msg.Type)
	case <-time.After(d):
	}
}

// DropClient - closes the client connection from the server side.
func (that *Authority) DropClient() {
	that.mu.Lock()
	defer that.mu.Unlock()

	if that.conn != nil {
		_ = that.conn.Close()
		that.conn = nil
	}
}

func (that *Authority) serveWS(w http.ResponseWriter, r *http.Request) {
	conn, err := that.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	that.mu.Lock()
	if that.conn != nil {
		_ = that.conn.Close()
	}
	that.conn = conn
	that.mu.Unlock()

	that.connected <- struct{}{}

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}

		var msg protocol.Message
		if err = json.Unmarshal(data, &msg); err != nil {
			continue
		}

		that.received <- msg
	}
}

func (that *Authority) serveLeaderboard(w http.ResponseWriter, _ *http.Request) {
	that.mu.Lock()
	status, body, delay := that.leaderboardStatus, that.leaderboardBody, that.leaderboardDelay
	that.mu.Unlock()

	if delay > 0 {
		time.Sleep(delay)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}

func serveHealth(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
