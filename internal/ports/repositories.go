package ports

import (
	"context"

	"git.platform.alem.school/amibragim/order-up/internal/domain/customers"
	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
	"git.platform.alem.school/amibragim/order-up/internal/domain/products"
)

// UnitOfWork wraps a function in a DB transaction.
type UnitOfWork interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// OrderRepository coordinates orders + items. Creation assigns the sequential
// order number; GetByIDWithCustomer returns the order with its customer
// reference resolved to the denormalized view (nil for guest orders).
type OrderRepository interface {
	Create(ctx context.Context, o *orders.Order) error
	GetByIDWithCustomer(ctx context.Context, id string) (*orders.Order, error)
	List(ctx context.Context) ([]orders.Order, error)
	ListByCustomer(ctx context.Context, customerID string) ([]orders.Order, error)
	UpdateStatus(ctx context.Context, id string, next orders.OrderStatus) error
	UpdatePayment(ctx context.Context, id string, paid bool, method string) error
	Delete(ctx context.Context, id string) error
}

// CustomerRepository controls storefront accounts.
type CustomerRepository interface {
	Create(ctx context.Context, c *customers.Customer) error
	GetByID(ctx context.Context, id string) (*customers.Customer, error)
	List(ctx context.Context) ([]customers.Customer, error)
	Delete(ctx context.Context, id string) error
}

// ProductRepository controls the menu.
type ProductRepository interface {
	Create(ctx context.Context, p *products.Product) error
	GetByID(ctx context.Context, id string) (*products.Product, error)
	List(ctx context.Context) ([]products.Product, error)
	Update(ctx context.Context, p *products.Product) error
	Delete(ctx context.Context, id string) error
}
