package postgres

import (
	"context"
	"errors"

	"git.platform.alem.school/amibragim/order-up/internal/domain/customers"
	"git.platform.alem.school/amibragim/order-up/internal/domain/orders"
	"git.platform.alem.school/amibragim/order-up/internal/ports"
	"github.com/jackc/pgx/v5"
)

// OrdersRepo implements persistence for orders using pgx and SQL.
type OrdersRepo struct{}

// NewOrdersRepo constructs a new OrdersRepo.
func NewOrdersRepo() ports.OrderRepository {
	return &OrdersRepo{}
}

// Create inserts the order header and its items. The sequential order number
// is assigned by the DB sequence exactly once, at insert.
func (r *OrdersRepo) Create(ctx context.Context, order *orders.Order) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	// note: total_amount is NUMERIC(10,2) in DB; we send integer cents and divide by 100 in SQL.
	var status string
	err = tx.QueryRow(ctx, `
		INSERT INTO orders (id, customer_id, total_amount, status, paid, payment_method)
		VALUES ($1::uuid, $2::uuid, $3::numeric/100, 'pending', $4, $5)
		RETURNING number, status, created_at, updated_at`,
		order.ID,
		nullableID(order.CustomerID),
		int64(order.TotalAmount),
		order.Paid,
		order.PaymentMethod,
	).Scan(&order.Number, &status, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		return err
	}
	order.Status = orders.OrderStatus(status)

	// items: price is NUMERIC(8,2) in DB; integer cents divided by 100 in SQL
	for i := range order.Items {
		it := &order.Items[i]
		err = tx.QueryRow(ctx, `
			INSERT INTO order_items (order_id, product_id, name, quantity, price)
			VALUES ($1::uuid, $2::uuid, $3, $4, $5::numeric/100)
			RETURNING id
		`,
			order.ID,
			it.ProductID,
			it.Name,
			it.Quantity,
			int64(it.Price),
		).Scan(&it.ID)
		if err != nil {
			return err
		}
		it.OrderID = order.ID
	}

	return nil
}

// GetByIDWithCustomer retrieves an order by id with its items and, when a
// customer reference exists, the denormalized customer view.
func (r *OrdersRepo) GetByIDWithCustomer(ctx context.Context, id string) (*orders.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var order orders.Order
	var customerID, cname, cemail, cphone *string
	err = tx.QueryRow(ctx, `
		SELECT o.id::text, o.number, o.customer_id::text, o.total_amount::numeric*100,
		       o.status, o.paid, o.payment_method, o.created_at, o.updated_at,
		       c.name, c.email, c.phone
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		WHERE o.id = $1::uuid
	`, id).Scan(
		&order.ID, &order.Number, &customerID, &order.TotalAmount,
		&order.Status, &order.Paid, &order.PaymentMethod, &order.CreatedAt, &order.UpdatedAt,
		&cname, &cemail, &cphone,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, orders.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if customerID != nil {
		order.CustomerID = *customerID
		order.Customer = &customers.View{
			ID:    *customerID,
			Name:  deref(cname),
			Email: deref(cemail),
			Phone: deref(cphone),
		}
	}

	rows, err := tx.Query(ctx, `
		SELECT id, product_id::text, name, quantity, price::numeric*100
		FROM order_items
		WHERE order_id = $1::uuid
		ORDER BY id
	`, order.ID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var item orders.OrderItem
		if err := rows.Scan(&item.ID, &item.ProductID, &item.Name, &item.Quantity, &item.Price); err != nil {
			return nil, err
		}
		item.OrderID = order.ID
		order.Items = append(order.Items, item)
	}

	return &order, rows.Err()
}

// List returns order headers (with customer views, without items), newest first.
func (r *OrdersRepo) List(ctx context.Context) ([]orders.Order, error) {
	return r.list(ctx, ``, nil)
}

// ListByCustomer returns a single customer's order headers, newest first.
func (r *OrdersRepo) ListByCustomer(ctx context.Context, customerID string) ([]orders.Order, error) {
	return r.list(ctx, `WHERE o.customer_id = $1::uuid`, []any{customerID})
}

func (r *OrdersRepo) list(ctx context.Context, where string, args []any) ([]orders.Order, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT o.id::text, o.number, o.customer_id::text, o.total_amount::numeric*100,
		       o.status, o.paid, o.payment_method, o.created_at, o.updated_at,
		       c.name, c.email, c.phone
		FROM orders o
		LEFT JOIN customers c ON c.id = o.customer_id
		`+where+`
		ORDER BY o.number DESC
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []orders.Order
	for rows.Next() {
		var order orders.Order
		var customerID, cname, cemail, cphone *string
		err = rows.Scan(
			&order.ID, &order.Number, &customerID, &order.TotalAmount,
			&order.Status, &order.Paid, &order.PaymentMethod, &order.CreatedAt, &order.UpdatedAt,
			&cname, &cemail, &cphone,
		)
		if err != nil {
			return nil, err
		}
		if customerID != nil {
			order.CustomerID = *customerID
			order.Customer = &customers.View{ID: *customerID, Name: deref(cname), Email: deref(cemail), Phone: deref(cphone)}
		}
		out = append(out, order)
	}

	return out, rows.Err()
}

// UpdateStatus sets the order status.
func (r *OrdersRepo) UpdateStatus(ctx context.Context, id string, next orders.OrderStatus) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	var updated string
	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET status = $1, updated_at = now()
		WHERE id = $2::uuid
		RETURNING id::text
	`, next, id).Scan(&updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return orders.ErrNotFound
	}
	return err
}

// UpdatePayment sets the paid flag and payment method.
func (r *OrdersRepo) UpdatePayment(ctx context.Context, id string, paid bool, method string) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	var updated string
	err = tx.QueryRow(ctx, `
		UPDATE orders
		SET paid = $1, payment_method = $2, updated_at = now()
		WHERE id = $3::uuid
		RETURNING id::text
	`, paid, method, id).Scan(&updated)
	if errors.Is(err, pgx.ErrNoRows) {
		return orders.ErrNotFound
	}
	return err
}

// Delete removes the order; items cascade in the schema.
func (r *OrdersRepo) Delete(ctx context.Context, id string) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM orders WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return orders.ErrNotFound
	}
	return nil
}

func nullableID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
