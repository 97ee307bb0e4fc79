package client

import (
	"sync"

	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
	"git.platform.alem.school/amibragim/order-up/internal/shared/contracts"
)

// OrderState is the session's local order list, patched in place from
// incoming events so the UI never needs a full re-fetch.
//
// Every event carries a full order snapshot, so both "create" and "patch"
// reduce to an upsert by id. That keeps the state idempotent: duplicate
// deliveries and events for orders this session never saw (a statusUpdated
// arriving before its created) land in the same place.
type OrderState struct {
	mu   sync.RWMutex
	byID map[string]contracts.OrderPayload
}

// NewOrderState returns an empty local order list.
func NewOrderState() *OrderState {
	return &OrderState{byID: make(map[string]contracts.OrderPayload)}
}

// Apply patches the local list for one event.
func (s *OrderState) Apply(kind orders.EventKind, order contracts.OrderPayload) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch kind {
	case orders.EventDeleted:
		delete(s.byID, order.ID)
	case orders.EventCreated, orders.EventStatusUpdated, orders.EventPaymentUpdated:
		s.byID[order.ID] = order
	}
}

// Get returns one order by id.
func (s *OrderState) Get(id string) (contracts.OrderPayload, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	o, ok := s.byID[id]
	return o, ok
}

// Orders returns a snapshot of the local list.
func (s *OrderState) Orders() []contracts.OrderPayload {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]contracts.OrderPayload, 0, len(s.byID))
	for _, o := range s.byID {
		out = append(out, o)
	}
	return out
}

// Len returns the number of orders held locally.
func (s *OrderState) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
