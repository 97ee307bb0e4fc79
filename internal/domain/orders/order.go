package orders

import (
	"errors"
	"fmt"
	"time"

	"git.platform.alem.school/amibragim/order-up/internal/domain/customers"
)

// ErrNotFound is returned by storage when an order id does not exist.
var ErrNotFound = errors.New("order not found")

// PaymentMethod values accepted at checkout.
const (
	PaymentCash   = "cash"
	PaymentCard   = "card"
	PaymentOnline = "online"
)

// OrderItem represents a single line item in an order.
type OrderItem struct {
	ID        int64 // DB PK
	OrderID   string
	ProductID *string // nil when the product was removed from the menu
	Name      string
	Quantity  int
	Price     Money // per-unit in cents
}

// Order represents a customer's pickup order.
//
// Number is assigned exactly once by storage from a monotonically increasing
// sequence; a zero Number means the record predates numbering (or the read
// raced the insert) and display code must fall back to a truncated id.
type Order struct {
	ID            string
	Number        int64
	CustomerID    string          // empty for walk-in/guest orders
	Customer      *customers.View // denormalized; nil until resolved
	Items         []OrderItem
	TotalAmount   Money
	Status        OrderStatus
	Paid          bool
	PaymentMethod string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// SetTotalAmount recomputes total from items.
func (order *Order) SetTotalAmount() {
	var sum Money
	for _, it := range order.Items {
		sum += Money(it.Quantity) * it.Price
	}
	order.TotalAmount = sum
}

// DisplayNumber renders the human-readable order number. Orders without an
// assigned number fall back to a truncated id.
func (order *Order) DisplayNumber() string {
	if order.Number > 0 {
		return fmt.Sprintf("#%d", order.Number)
	}
	id := order.ID
	if len(id) > 6 {
		id = id[:6]
	}
	return "#" + id
}
