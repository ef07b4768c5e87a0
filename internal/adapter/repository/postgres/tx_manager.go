package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accountability/ledger/internal/infrastructure/postgres/generated"
	"github.com/accountability/ledger/internal/usecase"
)

// entryTxOptions is used for every journal entry write. The entry number
// upsert and SELECT ... FOR UPDATE serialize writers per company and entry.
var entryTxOptions = pgx.TxOptions{
	IsoLevel:   pgx.ReadCommitted,
	AccessMode: pgx.ReadWrite,
}

type txBeginner interface {
	BeginTx(ctx context.Context, opts pgx.TxOptions) (pgx.Tx, error)
}

// TxManager implements usecase.TransactionManager over a pgx pool.
type TxManager struct {
	pool txBeginner
	opts pgx.TxOptions
}

// NewTxManager creates a new TxManager.
func NewTxManager(pool *pgxpool.Pool) *TxManager {
	return newTxManagerWithPool(pool)
}

func newTxManagerWithPool(pool txBeginner) *TxManager {
	return &TxManager{pool: pool, opts: entryTxOptions}
}

// Begin starts a read-committed read-write transaction.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	tx, err := m.pool.BeginTx(ctx, m.opts)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}

	return &Tx{tx: tx}, nil
}

// Tx wraps a pgx transaction and hands repositories a bound query set.
type Tx struct {
	tx pgx.Tx
}

func (t *Tx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

// Rollback is a no-op on a transaction that already committed, so callers
// can defer it unconditionally.
func (t *Tx) Rollback(ctx context.Context) error {
	err := t.tx.Rollback(ctx)
	if errors.Is(err, pgx.ErrTxClosed) {
		return nil
	}
	return err
}

// txQueries binds the generated queries to tx. Repositories only run inside
// transactions opened by TxManager.
func txQueries(tx usecase.Transaction) *generated.Queries {
	pt, ok := tx.(*Tx)
	if !ok {
		panic(fmt.Sprintf("postgres: transaction %T was not opened by TxManager", tx))
	}
	return generated.New(pt.tx)
}
