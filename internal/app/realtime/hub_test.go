package realtime

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

// fakeConn records everything enqueued to it; fail makes Enqueue reject.
type fakeConn struct {
	id   string
	fail error

	mu       sync.Mutex
	payloads [][]byte
}

func newFakeConn(id string) *fakeConn { return &fakeConn{id: id} }

func (c *fakeConn) ID() string { return c.id }

func (c *fakeConn) Enqueue(payload []byte) error {
	if c.fail != nil {
		return c.fail
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.payloads = append(c.payloads, payload)
	return nil
}

func (c *fakeConn) received() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.payloads)
}

func TestHubRegisterRouting(t *testing.T) {
	hub := NewHub(logger.NewLogger("test"))

	admin := newFakeConn("a1")
	cust1 := newFakeConn("c1")
	cust2 := newFakeConn("c2")

	hub.Register(admin, RoleAdmin, "")
	hub.Register(cust1, RoleCustomer, "customer-1")
	hub.Register(cust2, RoleCustomer, "customer-2")

	assert.Len(t, hub.AdminSessions(), 1)
	require.Len(t, hub.CustomerSessionsFor("customer-1"), 1)
	assert.Equal(t, "c1", hub.CustomerSessionsFor("customer-1")[0].ID())
	assert.Len(t, hub.CustomerSessionsFor("customer-2"), 1)
	assert.Empty(t, hub.CustomerSessionsFor("customer-3"))
}

func TestHubLastRegistrationWins(t *testing.T) {
	hub := NewHub(logger.NewLogger("test"))
	conn := newFakeConn("c1")

	hub.Register(conn, RoleCustomer, "customer-1")
	hub.Register(conn, RoleAdmin, "")

	assert.Empty(t, hub.CustomerSessionsFor("customer-1"))
	require.Len(t, hub.AdminSessions(), 1)

	// and back again
	hub.Register(conn, RoleCustomer, "customer-2")
	assert.Empty(t, hub.AdminSessions())
	assert.Len(t, hub.CustomerSessionsFor("customer-2"), 1)
}

func TestHubUnknownRoleIgnored(t *testing.T) {
	hub := NewHub(logger.NewLogger("test"))
	conn := newFakeConn("c1")

	hub.Register(conn, Role("kitchen"), "")

	assert.Empty(t, hub.AdminSessions())

	// an ignored registration must not disturb an earlier valid one
	hub.Register(conn, RoleAdmin, "")
	hub.Register(conn, Role("kitchen"), "")
	assert.Len(t, hub.AdminSessions(), 1)
}

func TestHubUnregister(t *testing.T) {
	hub := NewHub(logger.NewLogger("test"))

	tab1 := newFakeConn("t1")
	tab2 := newFakeConn("t2")
	hub.Register(tab1, RoleCustomer, "customer-1")
	hub.Register(tab2, RoleCustomer, "customer-1")
	require.Len(t, hub.CustomerSessionsFor("customer-1"), 2)

	hub.Unregister(tab1)
	require.Len(t, hub.CustomerSessionsFor("customer-1"), 1)
	assert.Equal(t, "t2", hub.CustomerSessionsFor("customer-1")[0].ID())

	hub.Unregister(tab2)
	assert.Empty(t, hub.CustomerSessionsFor("customer-1"))

	// never-registered conn is a no-op
	hub.Unregister(newFakeConn("ghost"))
}

func TestHubConcurrentChurn(t *testing.T) {
	hub := NewHub(logger.NewLogger("test"))

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			conn := newFakeConn("conn")
			if n%2 == 0 {
				hub.Register(conn, RoleAdmin, "")
			} else {
				hub.Register(conn, RoleCustomer, "customer-1")
			}
			hub.AdminSessions()
			hub.CustomerSessionsFor("customer-1")
			hub.Unregister(conn)
		}(i)
	}
	wg.Wait()

	assert.Empty(t, hub.AdminSessions())
	assert.Empty(t, hub.CustomerSessionsFor("customer-1"))
}

var errConnDown = errors.New("connection closed")
