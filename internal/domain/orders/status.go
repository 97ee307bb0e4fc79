package orders

// OrderStatus is a custom type that represents the current status of an order in its lifecycle.
type OrderStatus string

const (
	StatusPending   OrderStatus = "pending"
	StatusPreparing OrderStatus = "preparing"
	StatusReady     OrderStatus = "ready"
	StatusDelivered OrderStatus = "delivered"
	StatusCancelled OrderStatus = "cancelled"
)

// Allowed state transitions over the order lifecycle.
var allowed = map[OrderStatus]map[OrderStatus]bool{
	StatusPending:   {StatusPreparing: true, StatusCancelled: true},
	StatusPreparing: {StatusReady: true, StatusCancelled: true},
	StatusReady:     {StatusDelivered: true, StatusCancelled: true},
	StatusDelivered: {},
	StatusCancelled: {},
}

// IsValidStatus reports whether s is one of the known order statuses.
func IsValidStatus(s OrderStatus) bool {
	_, ok := allowed[s]
	return ok
}

// CanTransition checks if from->to is allowed.
func CanTransition(from, to OrderStatus) bool {
	nexts := allowed[from]
	return nexts != nil && nexts[to]
}
