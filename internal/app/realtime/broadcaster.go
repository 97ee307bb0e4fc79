package realtime

import (
	"context"
	"encoding/json"
	"errors"

	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
	"git.platform.alem.school/amibragim/order-up/internal/ports"
	"git.platform.alem.school/amibragim/order-up/internal/shared/contracts"
	"git.platform.alem.school/amibragim/order-up/internal/shared/logger"
)

// Broadcaster is the single choke point through which every order mutation
// becomes zero or more delivered wire messages. No failure inside the
// broadcaster ever reaches the HTTP mutation handler.
type Broadcaster struct {
	store    ports.OrderReader
	hub      *Hub
	notifier ports.OrderNotifier
	sound    string // base64 audio enrichment, "" when the asset did not load
	logger   *logger.Logger
}

// NewBroadcaster wires the core around its collaborators. notifier may be a
// disabled dispatcher but must not be nil.
func NewBroadcaster(store ports.OrderReader, hub *Hub, notifier ports.OrderNotifier, sound string, logger *logger.Logger) *Broadcaster {
	return &Broadcaster{
		store:    store,
		hub:      hub,
		notifier: notifier,
		sound:    sound,
		logger:   logger,
	}
}

var _ ports.OrderBroadcaster = (*Broadcaster)(nil)

// Broadcast delivers one event for the given order to the admin cohort and
// the order's owner sessions.
func (b *Broadcaster) Broadcast(ctx context.Context, kind orders.EventKind, order *orders.Order) {
	b.BroadcastWithNotice(ctx, kind, order, nil)
}

// BroadcastWithNotice is Broadcast with an optional client-facing text
// override chosen by the mutation handler.
func (b *Broadcaster) BroadcastWithNotice(ctx context.Context, kind orders.EventKind, order *orders.Order, notice *contracts.Notice) {
	if order == nil {
		return
	}

	// Re-resolve before constructing the wire message: the caller's order may
	// carry an id-only customer reference depending on which mutation path
	// produced it. Deleted orders can no longer be re-read, so the caller
	// passes the last resolved snapshot instead.
	resolved := order
	if kind != orders.EventDeleted {
		var err error
		resolved, err = b.store.GetOrder(ctx, order.ID)
		if err != nil {
			// abort the whole call: no partial fan-out, no retry
			if errors.Is(err, orders.ErrNotFound) {
				b.logger.Warn(ctx, "broadcast_order_vanished", "Order disappeared between mutation and broadcast", map[string]any{"order_id": order.ID, "event": string(kind)})
			} else {
				b.logger.Error(ctx, "broadcast_resolve_failed", "Failed to re-resolve order for broadcast", err)
			}
			return
		}
	}

	msg := contracts.OrderEventMessage{
		Type:         "order",
		Event:        string(kind),
		Order:        contracts.FromOrder(resolved),
		Sound:        b.sound,
		Notification: notice,
	}

	payload, err := json.Marshal(msg)
	if err != nil {
		b.logger.Error(ctx, "broadcast_encode_failed", "Failed to encode order event", err)
		return
	}

	// fan out to admins; one failed recipient never blocks the rest
	delivered := 0
	for _, conn := range b.hub.AdminSessions() {
		if err := b.deliver(ctx, conn, payload); err == nil {
			delivered++
		}
	}

	// fan out to the owner's sessions (all open tabs)
	if resolved.CustomerID != "" {
		for _, conn := range b.hub.CustomerSessionsFor(resolved.CustomerID) {
			if err := b.deliver(ctx, conn, payload); err == nil {
				delivered++
			}
		}
	}

	b.logger.Debug(ctx, "broadcast_sent", "Order event fanned out", map[string]any{
		"order_id":  resolved.ID,
		"event":     string(kind),
		"delivered": delivered,
	})

	// side effects: queued, never awaited, never surfaced
	if kind == orders.EventCreated || kind == orders.EventStatusUpdated {
		if resolved.Customer != nil && resolved.Customer.Email != "" {
			b.notifier.Enqueue(kind, resolved)
		}
	}
}

// deliver enqueues one frame for one recipient, logging delivery failures.
func (b *Broadcaster) deliver(ctx context.Context, conn Conn, payload []byte) error {
	err := conn.Enqueue(payload)
	if err != nil {
		b.logger.Warn(ctx, "broadcast_delivery_skipped", "Skipping recipient for this event", map[string]any{"conn_id": conn.ID(), "reason": err.Error()})
	}
	return err
}
