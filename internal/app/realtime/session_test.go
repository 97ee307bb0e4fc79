package realtime

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.platform.alem.school/amibragim/order-up/internal/shared/config"
	"git.platform.alem.school/amibragim/order-up/internal/shared/contracts"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

func startWSServer(t *testing.T) (*Hub, string) {
	t.Helper()
	log := logger.NewLogger("test")
	hub := NewHub(log)

	mux := http.NewServeMux()
	NewWSHandler(hub, log, config.WebSocket{SendBuffer: 8, MaxPayloadBytes: 1 << 20}).Register(mux)

	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws"
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestSessionRegisterAndDeliver(t *testing.T) {
	hub, url := startWSServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(contracts.RegisterMessage{Type: "register", ClientType: "admin"}))

	require.Eventually(t, func() bool {
		return len(hub.AdminSessions()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	sess := hub.AdminSessions()[0]
	require.NoError(t, sess.Enqueue([]byte(`{"type":"order","event":"created"}`)))

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg contracts.OrderEventMessage
	require.NoError(t, conn.ReadJSON(&msg))
	assert.Equal(t, "order", msg.Type)
	assert.Equal(t, "created", msg.Event)
}

func TestSessionReregisterRebinds(t *testing.T) {
	hub, url := startWSServer(t)
	conn := dial(t, url)

	userID := "customer-1"
	require.NoError(t, conn.WriteJSON(contracts.RegisterMessage{Type: "register", ClientType: "customer", UserID: &userID}))
	require.Eventually(t, func() bool {
		return len(hub.CustomerSessionsFor("customer-1")) == 1
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(contracts.RegisterMessage{Type: "register", ClientType: "admin"}))
	require.Eventually(t, func() bool {
		return len(hub.AdminSessions()) == 1 && len(hub.CustomerSessionsFor("customer-1")) == 0
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessionMalformedFramesIgnored(t *testing.T) {
	hub, url := startWSServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("not json")))
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"ping"}`)))
	require.NoError(t, conn.WriteJSON(contracts.RegisterMessage{Type: "register", ClientType: "admin"}))

	// the garbage frames must not have torn the connection down
	require.Eventually(t, func() bool {
		return len(hub.AdminSessions()) == 1
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSessionDisconnectUnregisters(t *testing.T) {
	hub, url := startWSServer(t)
	conn := dial(t, url)

	require.NoError(t, conn.WriteJSON(contracts.RegisterMessage{Type: "register", ClientType: "admin"}))
	require.Eventually(t, func() bool {
		return len(hub.AdminSessions()) == 1
	}, 2*time.Second, 10*time.Millisecond)

	sess := hub.AdminSessions()[0]
	require.NoError(t, conn.Close())

	require.Eventually(t, func() bool {
		return len(hub.AdminSessions()) == 0
	}, 2*time.Second, 10*time.Millisecond)

	// enqueue after close reports the session as gone
	assert.ErrorIs(t, sess.Enqueue([]byte("late")), errSessionClosed)
}

func TestSessionQueueFull(t *testing.T) {
	log := logger.NewLogger("test")
	hub := NewHub(log)
	sess := newSession(hub, nil, log, 2, 0)

	require.NoError(t, sess.Enqueue([]byte("1")))
	require.NoError(t, sess.Enqueue([]byte("2")))
	assert.ErrorIs(t, sess.Enqueue([]byte("3")), errSendQueueFull)
}
