package postgres

import (
	"context"
	"errors"
	"fmt"

	"git.platform.alem.school/amibragim/order-up/internal/ports"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// txKey is the context key carrying the active transaction between the unit
// of work and the repositories.
type txKey struct{}

// UnitOfWork runs repository calls inside a single pgx transaction.
type UnitOfWork struct {
	pool *pgxpool.Pool
}

// NewUnitOfWork constructs a UnitOfWork over the given pool.
func NewUnitOfWork(pool *pgxpool.Pool) ports.UnitOfWork {
	return &UnitOfWork{pool: pool}
}

// WithinTx begins a transaction, stores it in the context for repositories,
// and commits on success / rolls back on error or panic.
func (uow *UnitOfWork) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	tx, err := uow.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	txCtx := context.WithValue(ctx, txKey{}, tx)

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(txCtx); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}

// MustTxFromContext extracts the active transaction placed by WithinTx.
// Repositories are only usable inside a unit of work.
func MustTxFromContext(ctx context.Context) (pgx.Tx, error) {
	tx, ok := ctx.Value(txKey{}).(pgx.Tx)
	if !ok || tx == nil {
		return nil, errors.New("postgres: no transaction in context")
	}
	return tx, nil
}
