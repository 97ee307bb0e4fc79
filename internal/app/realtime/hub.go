package realtime

import (
	"context"
	"sync"

	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

// Role declared by a client in its registration message.
type Role string

const (
	RoleAdmin    Role = "admin"
	RoleCustomer Role = "customer"
)

// Conn is one live client connection the hub can deliver to. Enqueue must be
// non-blocking; it returns an error when the connection is closed or its
// outbound queue is full.
type Conn interface {
	ID() string
	Enqueue(payload []byte) error
}

// Hub tracks which live connections should receive which broadcasts: the
// admin cohort and, per customer id, that customer's open sessions. It is the
// only mutable shared state in the core and is guarded by a mutex; reads hand
// out point-in-time snapshots taken at the moment of use.
type Hub struct {
	logger *logger.Logger

	mu        sync.RWMutex
	admins    map[Conn]struct{}
	customers map[string]map[Conn]struct{}
	owners    map[Conn]string // reverse index: conn -> customer id ("" for admins)
}

// NewHub constructs an empty registry. The registry is never persisted; it is
// rebuilt from scratch as clients reconnect after a restart.
func NewHub(logger *logger.Logger) *Hub {
	return &Hub{
		logger:    logger,
		admins:    make(map[Conn]struct{}),
		customers: make(map[string]map[Conn]struct{}),
		owners:    make(map[Conn]string),
	}
}

// Register binds a role and, for customers, an owner id to an open connection.
// A repeated registration for the same connection wins over the previous one;
// a role that is neither admin nor customer is ignored silently.
func (hub *Hub) Register(conn Conn, role Role, ownerID string) {
	if role != RoleAdmin && role != RoleCustomer {
		hub.logger.Debug(context.Background(), "registration_ignored", "Ignoring registration with unknown role", map[string]any{"conn_id": conn.ID(), "role": string(role)})
		return
	}

	hub.mu.Lock()
	defer hub.mu.Unlock()

	// last registration wins: drop any previous membership first
	hub.removeLocked(conn)

	switch role {
	case RoleAdmin:
		hub.admins[conn] = struct{}{}
		hub.owners[conn] = ""
	case RoleCustomer:
		set := hub.customers[ownerID]
		if set == nil {
			set = make(map[Conn]struct{})
			hub.customers[ownerID] = set
		}
		set[conn] = struct{}{}
		hub.owners[conn] = ownerID
	}
}

// Unregister removes the connection from whichever set it was in. Calling it
// for a connection that never registered is a no-op.
func (hub *Hub) Unregister(conn Conn) {
	hub.mu.Lock()
	defer hub.mu.Unlock()
	hub.removeLocked(conn)
}

// removeLocked drops conn from all sets. Caller holds hub.mu.
func (hub *Hub) removeLocked(conn Conn) {
	ownerID, registered := hub.owners[conn]
	if !registered {
		return
	}
	delete(hub.owners, conn)
	delete(hub.admins, conn)

	if set, ok := hub.customers[ownerID]; ok {
		delete(set, conn)
		if len(set) == 0 {
			delete(hub.customers, ownerID)
		}
	}
}

// AdminSessions returns a snapshot of the admin cohort.
func (hub *Hub) AdminSessions() []Conn {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	out := make([]Conn, 0, len(hub.admins))
	for conn := range hub.admins {
		out = append(out, conn)
	}
	return out
}

// CustomerSessionsFor returns a snapshot of the sessions registered for one
// customer. Normally zero or one, but multiple open tabs all receive events.
func (hub *Hub) CustomerSessionsFor(ownerID string) []Conn {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	set := hub.customers[ownerID]
	out := make([]Conn, 0, len(set))
	for conn := range set {
		out = append(out, conn)
	}
	return out
}
