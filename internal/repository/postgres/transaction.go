package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/matthewyanek/pdf-classroom-manager/internal/domain/repositories"
)

type txManager struct {
	pool *pgxpool.Pool
}

// NewTransactionManager creates a pool-backed transaction manager
func NewTransactionManager(pool *pgxpool.Pool) repositories.TransactionManager {
	return &txManager{pool: pool}
}

// ExecTx runs fn inside a transaction carried in ctx. Repositories
// pick the transaction up through GetTx, so fn calls them with the
// returned context unchanged.
func (tm *txManager) ExecTx(ctx context.Context, fn repositories.TxFn) error {
	tx, err := tm.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	// Rollback after commit is a no-op returning ErrTxClosed
	defer func() {
		if err := tx.Rollback(ctx); err != nil && err != pgx.ErrTxClosed {
			slog.Warn("transaction rollback failed", "error", err)
		}
	}()

	if err := fn(repositories.SetTx(ctx, tx)); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
