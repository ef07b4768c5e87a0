package postgres

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v4"
)

func TestTxManager_BeginsReadCommitted(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBeginTx(pgx.TxOptions{IsoLevel: pgx.ReadCommitted, AccessMode: pgx.ReadWrite})
	mock.ExpectCommit()

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := tx.Commit(context.Background()); err != nil {
		t.Fatalf("commit failed: %v", err)
	}

	assertExpectations(t, mock)
}

func TestTxManager_WrapsErrors(t *testing.T) {
	t.Run("begin", func(t *testing.T) {
		mock := newMockPool(t)
		cause := errors.New("too many connections")
		mock.ExpectBeginTx(entryTxOptions).WillReturnError(cause)

		_, err := newTxManagerWithPool(mock).Begin(context.Background())

		if !errors.Is(err, cause) || !strings.HasPrefix(err.Error(), "begin transaction: ") {
			t.Fatalf("expected wrapped begin error, got %v", err)
		}
	})

	t.Run("commit", func(t *testing.T) {
		mock := newMockPool(t)
		cause := errors.New("connection reset")
		mock.ExpectBeginTx(entryTxOptions)
		mock.ExpectCommit().WillReturnError(cause)

		tx, err := newTxManagerWithPool(mock).Begin(context.Background())
		if err != nil {
			t.Fatalf("begin failed: %v", err)
		}

		err = tx.Commit(context.Background())
		if !errors.Is(err, cause) || !strings.HasPrefix(err.Error(), "commit transaction: ") {
			t.Fatalf("expected wrapped commit error, got %v", err)
		}
	})
}

func TestTx_RollbackAfterCloseIsQuiet(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBeginTx(entryTxOptions)
	mock.ExpectRollback().WillReturnError(pgx.ErrTxClosed)

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("expected nil for closed transaction, got %v", err)
	}

	assertExpectations(t, mock)
}

func TestTx_RollbackReportsFailure(t *testing.T) {
	mock := newMockPool(t)
	cause := errors.New("broken pipe")
	mock.ExpectBeginTx(entryTxOptions)
	mock.ExpectRollback().WillReturnError(cause)

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	if err := tx.Rollback(context.Background()); !errors.Is(err, cause) {
		t.Fatalf("expected rollback error, got %v", err)
	}
}

func TestTxQueries_RunInsideTransaction(t *testing.T) {
	mock := newMockPool(t)
	mock.ExpectBeginTx(entryTxOptions)
	mock.ExpectQuery(sqlLike("FROM companies WHERE id = $1")).
		WithArgs("co-1").
		WillReturnRows(pgxmock.NewRows(companyColumns).
			AddRow("co-1", "org-1", "Acme Ltd", "USD", timeToPgTimestamptz(testTime), timeToPgTimestamptz(testTime)))
	mock.ExpectRollback()

	tx, err := newTxManagerWithPool(mock).Begin(context.Background())
	if err != nil {
		t.Fatalf("begin failed: %v", err)
	}

	company, err := txQueries(tx).GetCompanyByID(context.Background(), "co-1")
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if company.Name != "Acme Ltd" {
		t.Fatalf("unexpected company %+v", company)
	}
	if err := tx.Rollback(context.Background()); err != nil {
		t.Fatalf("rollback failed: %v", err)
	}

	assertExpectations(t, mock)
}

type foreignTx struct{}

func (foreignTx) Commit(context.Context) error   { return nil }
func (foreignTx) Rollback(context.Context) error { return nil }

func TestTxQueries_RejectsForeignTransaction(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for a transaction not opened by TxManager")
		}
	}()

	txQueries(foreignTx{})
}

func newMockPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool()
	if err != nil {
		t.Fatalf("failed to create pgxmock pool: %v", err)
	}
	t.Cleanup(pool.Close)
	return pool
}

func assertExpectations(t *testing.T, pool pgxmock.PgxPoolIface) {
	t.Helper()
	if err := pool.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations were not met: %v", err)
	}
}
