package postgres

import (
	"context"
	"errors"
	"fmt"

	"git.platform.alem.school/amibragim/order-up/internal/domain/customers"
	"git.platform.alem.school/amibragim/order-up/internal/ports"
	"github.com/jackc/pgx/v5"
)

// ErrCustomerNotFound is returned when a customer id does not exist.
var ErrCustomerNotFound = errors.New("customer not found")

// CustomersRepo implements persistence for customers using pgx and SQL.
type CustomersRepo struct{}

// NewCustomersRepo constructs a new CustomersRepo.
func NewCustomersRepo() ports.CustomerRepository {
	return &CustomersRepo{}
}

// Create inserts the customer row.
func (r *CustomersRepo) Create(ctx context.Context, c *customers.Customer) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO customers (id, name, email, phone)
		VALUES ($1::uuid, $2, $3, $4)
		RETURNING created_at
	`, c.ID, c.Name, c.Email, c.Phone).Scan(&c.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert customer: %w", err)
	}
	return nil
}

// GetByID retrieves one customer.
func (r *CustomersRepo) GetByID(ctx context.Context, id string) (*customers.Customer, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var c customers.Customer
	err = tx.QueryRow(ctx, `
		SELECT id::text, name, email, phone, created_at
		FROM customers
		WHERE id = $1::uuid
	`, id).Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrCustomerNotFound
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// List returns all customers ordered by creation time.
func (r *CustomersRepo) List(ctx context.Context) ([]customers.Customer, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id::text, name, email, phone, created_at
		FROM customers
		ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []customers.Customer
	for rows.Next() {
		var c customers.Customer
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Phone, &c.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// Delete removes a customer; their orders keep a NULL reference (resolved
// views then disappear, which order consumers must tolerate).
func (r *CustomersRepo) Delete(ctx context.Context, id string) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM customers WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrCustomerNotFound
	}
	return nil
}
