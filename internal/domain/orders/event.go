package orders

// EventKind discriminates how clients should patch their local state when an
// order event arrives.
type EventKind string

const (
	EventCreated        EventKind = "created"
	EventStatusUpdated  EventKind = "statusUpdated"
	EventPaymentUpdated EventKind = "paymentUpdated"
	EventDeleted        EventKind = "deleted"
)
