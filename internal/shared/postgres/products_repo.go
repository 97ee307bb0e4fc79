package postgres

import (
	"context"
	"errors"

	"git.platform.alem.school/amibragim/order-up/internal/domain/products"
	"git.platform.alem.school/amibragim/order-up/internal/ports"
	"github.com/jackc/pgx/v5"
)

// ErrProductNotFound is returned when a product id does not exist.
var ErrProductNotFound = errors.New("product not found")

// ProductsRepo implements persistence for menu products using pgx and SQL.
type ProductsRepo struct{}

// NewProductsRepo constructs a new ProductsRepo.
func NewProductsRepo() ports.ProductRepository {
	return &ProductsRepo{}
}

// Create inserts the product row.
func (r *ProductsRepo) Create(ctx context.Context, p *products.Product) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	return tx.QueryRow(ctx, `
		INSERT INTO products (id, name, description, category, price, available)
		VALUES ($1::uuid, $2, $3, $4, $5::numeric/100, $6)
		RETURNING created_at, updated_at
	`, p.ID, p.Name, p.Description, p.Category, int64(p.Price), p.Available).Scan(&p.CreatedAt, &p.UpdatedAt)
}

// GetByID retrieves one product.
func (r *ProductsRepo) GetByID(ctx context.Context, id string) (*products.Product, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	var p products.Product
	err = tx.QueryRow(ctx, `
		SELECT id::text, name, description, category, price::numeric*100, available, created_at, updated_at
		FROM products
		WHERE id = $1::uuid
	`, id).Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Available, &p.CreatedAt, &p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrProductNotFound
	}
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// List returns the full menu ordered by category then name.
func (r *ProductsRepo) List(ctx context.Context) ([]products.Product, error) {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return nil, err
	}

	rows, err := tx.Query(ctx, `
		SELECT id::text, name, description, category, price::numeric*100, available, created_at, updated_at
		FROM products
		ORDER BY category, name
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []products.Product
	for rows.Next() {
		var p products.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.Price, &p.Available, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Update rewrites the mutable product fields.
func (r *ProductsRepo) Update(ctx context.Context, p *products.Product) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	err = tx.QueryRow(ctx, `
		UPDATE products
		SET name = $1, description = $2, category = $3, price = $4::numeric/100, available = $5, updated_at = now()
		WHERE id = $6::uuid
		RETURNING updated_at
	`, p.Name, p.Description, p.Category, int64(p.Price), p.Available, p.ID).Scan(&p.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrProductNotFound
	}
	return err
}

// Delete removes a product from the menu.
func (r *ProductsRepo) Delete(ctx context.Context, id string) error {
	tx, err := MustTxFromContext(ctx)
	if err != nil {
		return err
	}

	tag, err := tx.Exec(ctx, `DELETE FROM products WHERE id = $1::uuid`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrProductNotFound
	}
	return nil
}
