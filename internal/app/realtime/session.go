package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"git.platform.alem.school/amibragim/order-up/internal/shared/contracts"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

const (
	pongWait     = 45 * time.Second
	pingInterval = 15 * time.Second
	writeWait    = 10 * time.Second
)

var (
	errSessionClosed = errors.New("realtime: session closed")
	errSendQueueFull = errors.New("realtime: send queue full")
)

// Session owns one websocket connection for its lifetime. It stays
// unregistered until the client sends a valid registration message, and it is
// always removed from the hub when the socket closes. A reconnect produces a
// brand-new Session.
type Session struct {
	id     string
	hub    *Hub
	conn   *websocket.Conn
	logger *logger.Logger

	maxPayload int64
	send       chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

func newSession(hub *Hub, conn *websocket.Conn, logger *logger.Logger, sendBuffer int, maxPayload int64) *Session {
	if sendBuffer <= 0 {
		sendBuffer = 64
	}
	return &Session{
		id:         uuid.NewString(),
		hub:        hub,
		conn:       conn,
		logger:     logger,
		maxPayload: maxPayload,
		send:       make(chan []byte, sendBuffer),
		done:       make(chan struct{}),
	}
}

// ID returns the server-assigned session id.
func (s *Session) ID() string { return s.id }

// Enqueue queues one outbound frame without blocking. A full queue counts as
// a per-recipient delivery failure so one stalled consumer cannot delay
// fan-out to others. The send channel is never closed; done signals shutdown.
func (s *Session) Enqueue(payload []byte) error {
	select {
	case <-s.done:
		return errSessionClosed
	default:
	}

	select {
	case s.send <- payload:
		return nil
	case <-s.done:
		return errSessionClosed
	default:
		return errSendQueueFull
	}
}

// run services the connection until it drops. It blocks the caller (the HTTP
// upgrade handler goroutine) in the read loop.
func (s *Session) run(ctx context.Context) {
	defer s.close()
	go s.writePump()
	s.readLoop(ctx)
}

// close tears the session down exactly once: registry removal first, so a
// disconnect during a broadcast is reflected by the next registry read.
func (s *Session) close() {
	s.closeOnce.Do(func() {
		s.hub.Unregister(s)
		close(s.done)
		_ = s.conn.Close()
	})
}

// readLoop consumes inbound frames. The only meaningful client frame is the
// registration message; anything malformed or unexpected is ignored and the
// connection simply stays unregistered.
func (s *Session) readLoop(ctx context.Context) {
	if s.maxPayload > 0 {
		s.conn.SetReadLimit(s.maxPayload)
	}
	_ = s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		return s.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		messageType, data, err := s.conn.ReadMessage()
		if err != nil {
			return
		}
		if messageType != websocket.TextMessage {
			continue
		}

		var msg contracts.RegisterMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Type != "register" {
			continue
		}

		ownerID := ""
		if msg.UserID != nil {
			ownerID = *msg.UserID
		}

		// a repeated register message re-binds the session (last wins)
		s.hub.Register(s, Role(msg.ClientType), ownerID)
		s.logger.Debug(ctx, "client_registered", "Client session registered", map[string]any{
			"session_id":  s.id,
			"client_type": msg.ClientType,
			"user_id":     ownerID,
		})
	}
}

// writePump is the sole writer on the socket: queued frames plus keepalive pings.
func (s *Session) writePump() {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()
	defer s.close()

	for {
		select {
		case payload := <-s.send:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				return
			}
		case <-ticker.C:
			_ = s.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := s.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-s.done:
			return
		}
	}
}
