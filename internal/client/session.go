package client

import (
	"context"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
	"git.platform.alem.school/amibragim/order-up/internal/shared/contracts"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

const (
	defaultRetryDelay = 3 * time.Second
	defaultMaxRetries = 5
)

// Config describes one client session: where to connect and who to register as.
type Config struct {
	URL        string // ws:// or wss:// endpoint
	Role       string // "admin" or "customer"
	UserID     string // customer id, empty for admins
	RetryDelay time.Duration
	MaxRetries int
}

// Event is one translated order notification handed to the session's handler.
type Event struct {
	Kind         orders.EventKind
	Order        contracts.OrderPayload
	Sound        string // base64 audio enrichment, "" when absent
	Notification *contracts.Notice
}

// Handler receives every inbound order event after local state was patched.
type Handler func(Event)

// Manager maintains one connection to the notification endpoint: it registers
// on open, patches local order state from inbound events, and reconnects with
// a fixed delay up to a capped attempt count. Once the cap is hit it stays
// disconnected until the next explicit Connect call.
type Manager struct {
	cfg     Config
	logger  *logger.Logger
	handler Handler
	state   *OrderState

	mu      sync.Mutex
	running bool
	stop    chan struct{}
	conn    *websocket.Conn
}

// New constructs a session manager. handler may be nil when only the local
// state is of interest.
func New(cfg Config, logger *logger.Logger, handler Handler) *Manager {
	if cfg.RetryDelay <= 0 {
		cfg.RetryDelay = defaultRetryDelay
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = defaultMaxRetries
	}
	return &Manager{
		cfg:     cfg,
		logger:  logger,
		handler: handler,
		state:   NewOrderState(),
	}
}

// State exposes the session's local order list.
func (m *Manager) State() *OrderState { return m.state }

// Connected reports whether a session loop is currently running.
func (m *Manager) Connected() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.running
}

// Connect starts the session loop. Calling it while a loop is running is a
// no-op; calling it after the retry cap was reached starts a fresh loop.
func (m *Manager) Connect(ctx context.Context) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running {
		return
	}
	m.running = true
	m.stop = make(chan struct{})
	go m.loop(ctx, m.stop)
}

// Disconnect closes the active connection and suppresses further reconnect
// attempts until Connect is called again.
func (m *Manager) Disconnect() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if !m.running {
		return
	}
	close(m.stop)
	if m.conn != nil {
		_ = m.conn.Close()
	}
	m.running = false
}

// loop dials, registers, and consumes events, retrying dropped connections
// until the attempt cap or an explicit stop.
func (m *Manager) loop(ctx context.Context, stop chan struct{}) {
	defer m.finish(stop)

	attempts := 0
	for {
		if stopped(ctx, stop) {
			return
		}

		conn, _, err := websocket.DefaultDialer.DialContext(ctx, m.cfg.URL, nil)
		if err != nil {
			attempts++
			m.logger.Warn(ctx, "client_connect_failed", "Failed to reach notification endpoint", map[string]any{"attempt": attempts, "error": err.Error()})
			if attempts >= m.cfg.MaxRetries {
				m.logger.Warn(ctx, "client_gave_up", "Retry cap reached, staying disconnected until the next connect", map[string]any{"attempts": attempts})
				return
			}
			if !sleepWithStop(ctx, stop, m.cfg.RetryDelay) {
				return
			}
			continue
		}

		// a session that made it online resets the retry budget
		attempts = 0
		m.setConn(conn)
		m.runSession(ctx, stop, conn)
		m.setConn(nil)

		if stopped(ctx, stop) {
			return
		}
		m.logger.Debug(ctx, "client_disconnected", "Connection dropped, scheduling reconnect", nil)
		if !sleepWithStop(ctx, stop, m.cfg.RetryDelay) {
			return
		}
	}
}

// runSession registers and then consumes events until the connection drops.
func (m *Manager) runSession(ctx context.Context, stop chan struct{}, conn *websocket.Conn) {
	defer conn.Close()

	reg := contracts.RegisterMessage{Type: "register", ClientType: m.cfg.Role}
	if m.cfg.UserID != "" {
		uid := m.cfg.UserID
		reg.UserID = &uid
	}
	if err := conn.WriteJSON(reg); err != nil {
		m.logger.Warn(ctx, "client_register_failed", "Failed to send registration message", map[string]any{"error": err.Error()})
		return
	}
	m.logger.Debug(ctx, "client_registered", "Session registered", map[string]any{"role": m.cfg.Role, "user_id": m.cfg.UserID})

	// unblock the read when stop fires
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-stop:
			_ = conn.Close()
		case <-ctx.Done():
			_ = conn.Close()
		case <-done:
		}
	}()

	for {
		var msg contracts.OrderEventMessage
		if err := conn.ReadJSON(&msg); err != nil {
			return
		}
		if msg.Type != "order" {
			continue
		}

		kind := orders.EventKind(msg.Event)
		m.state.Apply(kind, msg.Order)

		if m.handler != nil {
			m.handler(Event{
				Kind:         kind,
				Order:        msg.Order,
				Sound:        msg.Sound,
				Notification: msg.Notification,
			})
		}
	}
}

func (m *Manager) setConn(conn *websocket.Conn) {
	m.mu.Lock()
	m.conn = conn
	m.mu.Unlock()
}

// finish marks the loop as stopped unless Disconnect already did.
func (m *Manager) finish(stop chan struct{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.running && m.stop == stop {
		m.running = false
	}
}

func stopped(ctx context.Context, stop chan struct{}) bool {
	select {
	case <-ctx.Done():
		return true
	case <-stop:
		return true
	default:
		return false
	}
}

// sleepWithStop sleeps for the given duration or returns early on stop/cancel.
func sleepWithStop(ctx context.Context, stop chan struct{}, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-stop:
		return false
	case <-timer.C:
		return true
	}
}
