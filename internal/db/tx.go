package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/waledger/waledger/internal/db/sqlc"
)

// TxDecision tells the runner what to do with a unit of work that finished without error.
type TxDecision int

const (
	// TxCommit makes every write of the unit of work durable.
	TxCommit TxDecision = iota
	// TxDiscard rolls the unit of work back without reporting an error.
	TxDiscard
)

// TxFunc is one unit of work. Every write must go through q.
type TxFunc func(ctx context.Context, q sqlc.Querier) (TxDecision, error)

// UnitOfWork runs a TxFunc atomically.
type UnitOfWork interface {
	InTx(ctx context.Context, fn TxFunc) error
}

// Beginner is satisfied by *pgxpool.Pool and pgx.Conn.
type Beginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// TxRunner is the postgres UnitOfWork.
type TxRunner struct {
	db      Beginner
	queries *sqlc.Queries
}

// NewTxRunner creates a runner that opens transactions on db.
func NewTxRunner(db Beginner) *TxRunner {
	return &TxRunner{db: db, queries: sqlc.New(nil)}
}

// InTx begins a transaction, runs fn, and commits only when fn returns TxCommit
// without error. The transaction is rolled back on every other exit path,
// including panics.
func (r *TxRunner) InTx(ctx context.Context, fn TxFunc) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	// Rollback after a successful commit is a no-op returning pgx.ErrTxClosed.
	defer func() { _ = tx.Rollback(context.WithoutCancel(ctx)) }()

	decision, err := fn(ctx, r.queries.WithTx(tx))
	if err != nil {
		return err
	}
	if decision != TxCommit {
		return nil
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
