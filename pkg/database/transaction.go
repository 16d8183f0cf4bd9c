package database

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// TxFunc is executed inside a transaction. The Querier it receives is the
// transaction itself, never the pool.
type TxFunc func(q Querier) error

// TxManager runs a function inside a single transaction: commit on nil error,
// rollback on error or panic.
type TxManager interface {
	WithinTx(ctx context.Context, fn TxFunc) error
}

type poolTxManager struct {
	pool *pgxpool.Pool
}

func NewTxManager(pool *pgxpool.Pool) TxManager {
	return &poolTxManager{pool: pool}
}

func (m *poolTxManager) WithinTx(ctx context.Context, fn TxFunc) error {
	tx, err := m.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback(ctx)
			panic(p)
		} else if err != nil {
			tx.Rollback(ctx)
		}
	}()

	err = fn(tx)
	if err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// WithinTxResult wraps a function with a return value in a transaction.
func WithinTxResult[T any](ctx context.Context, m TxManager, fn func(q Querier) (T, error)) (T, error) {
	var result T
	var fnErr error

	err := m.WithinTx(ctx, func(q Querier) error {
		result, fnErr = fn(q)
		return fnErr
	})

	if err != nil {
		var zero T
		return zero, err
	}

	return result, nil
}
