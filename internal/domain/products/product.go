package products

import (
	"time"

	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
)

// Product is a single menu entry.
type Product struct {
	ID          string
	Name        string
	Description string
	Category    string
	Price       orders.Money // per-unit in cents
	Available   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
