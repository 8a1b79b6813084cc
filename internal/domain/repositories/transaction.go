package repositories

import "context"

// TxFn runs with the transaction carried in ctx
type TxFn func(ctx context.Context) error

// TransactionManager wraps multi-table writes, such as deleting a
// folder while unfiling its PDFs, or removing a tag from every PDF
// that carries it.
type TransactionManager interface {
	// ExecTx begins a transaction, runs fn with it in ctx, and
	// commits or rolls back based on fn's error
	ExecTx(ctx context.Context, fn TxFn) error
}
