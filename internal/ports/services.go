package ports

import (
	"context"

	"git.platform.alem.school/amibragim/order-up/internal/domain/customers"
	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
	"git.platform.alem.school/amibragim/order-up/internal/domain/products"
	"git.platform.alem.school/amibragim/order-up/internal/shared/contracts"
)

// OrderService handles the order mutation flows: validate -> persist -> hand
// the result to the broadcaster (the caller does the hand-off, not the service).
type OrderService interface {
	OrderReader
	PlaceOrder(ctx context.Context, cmd CreateOrderCommand) (*orders.Order, error)
	ListOrders(ctx context.Context) ([]orders.Order, error)
	ListCustomerOrders(ctx context.Context, customerID string) ([]orders.Order, error)
	ChangeStatus(ctx context.Context, id string, next orders.OrderStatus) (*orders.Order, error)
	ChangePayment(ctx context.Context, id string, paid bool, method string) (*orders.Order, error)
	RemoveOrder(ctx context.Context, id string) (*orders.Order, error)
}

// OrderReader is the single resolved-read call the broadcaster performs before
// constructing a wire message. The returned order always carries the
// denormalized customer view when a customer reference exists.
type OrderReader interface {
	GetOrder(ctx context.Context, id string) (*orders.Order, error)
}

// OrderBroadcaster is the core's entry point exposed to the HTTP mutation
// layer. Calls never return an error and never fail the mutation; callers
// invoke them in mutation order so per-order delivery order is preserved.
type OrderBroadcaster interface {
	Broadcast(ctx context.Context, kind orders.EventKind, o *orders.Order)
	BroadcastWithNotice(ctx context.Context, kind orders.EventKind, o *orders.Order, notice *contracts.Notice)
}

// OrderNotifier queues best-effort side effects (owner email) for an event.
// Implementations contain every failure internally.
type OrderNotifier interface {
	Enqueue(kind orders.EventKind, o *orders.Order)
}

type CreateOrderCommand struct {
	CustomerID    string // empty for guest checkout
	PaymentMethod string
	Paid          bool
	Items         []ItemInput
}

type ItemInput struct {
	ProductID *string
	Name      string
	Quantity  int
	Price     orders.Money
}

// CatalogService powers the menu and back-office customer views.
type CatalogService interface {
	CreateProduct(ctx context.Context, p *products.Product) error
	GetProduct(ctx context.Context, id string) (*products.Product, error)
	ListProducts(ctx context.Context) ([]products.Product, error)
	UpdateProduct(ctx context.Context, p *products.Product) error
	DeleteProduct(ctx context.Context, id string) error

	CreateCustomer(ctx context.Context, c *customers.Customer) error
	GetCustomer(ctx context.Context, id string) (*customers.Customer, error)
	ListCustomers(ctx context.Context) ([]customers.Customer, error)
}
