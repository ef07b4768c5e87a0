package testutil

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oklog/ulid/v2"
	"github.com/rs/zerolog"

	"github.com/accountability/ledger/internal/domain"
	"github.com/accountability/ledger/internal/infrastructure/postgres"
	"github.com/accountability/ledger/internal/infrastructure/postgres/generated"
)

// DatabaseURLEnv names the database used by integration tests.
const DatabaseURLEnv = "TEST_DATABASE_URL"

// TestDB provides isolated test database connections.
type TestDB struct {
	Pool    *pgxpool.Pool
	Queries *generated.Queries
	t       *testing.T
}

// NewTestDB migrates and connects to the integration database. The test is
// skipped when TEST_DATABASE_URL is unset or -short is given.
func NewTestDB(t *testing.T) *TestDB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping integration test")
	}
	dbURL := os.Getenv(DatabaseURLEnv)
	if dbURL == "" {
		t.Skipf("%s not set", DatabaseURLEnv)
	}

	if err := postgres.RunMigrations(dbURL, MigrationsSource(), zerolog.Nop()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		t.Fatalf("failed to connect to test database: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping test database: %v", err)
	}

	db := &TestDB{
		Pool:    pool,
		Queries: generated.New(pool),
		t:       t,
	}
	t.Cleanup(db.Cleanup)
	return db
}

// MigrationsSource locates the repository's migrations directory relative
// to this file so tests work from any package.
func MigrationsSource() string {
	_, file, _, _ := runtime.Caller(0)
	return "file://" + filepath.Join(filepath.Dir(file), "..", "..", "migrations")
}

// Cleanup closes the database connection.
func (db *TestDB) Cleanup() {
	db.Pool.Close()
}

// TruncateAll removes all data from tables.
func (db *TestDB) TruncateAll(ctx context.Context) {
	db.t.Helper()

	_, err := db.Pool.Exec(ctx, `
		TRUNCATE TABLE journal_lines, journal_entries, journal_entry_sequences, accounts, companies CASCADE;
	`)
	if err != nil {
		db.t.Fatalf("failed to truncate tables: %v", err)
	}
}

// CreateTestCompany inserts a company with the given functional currency.
func (db *TestDB) CreateTestCompany(ctx context.Context, name, currency string) *domain.Company {
	db.t.Helper()

	now := time.Now().UTC()
	ts := pgtype.Timestamptz{Time: now, Valid: true}
	id := GenerateID()

	_, err := db.Queries.CreateCompany(ctx, generated.CreateCompanyParams{
		ID:                 id,
		OrganizationID:     "org-test",
		Name:               name,
		FunctionalCurrency: currency,
		CreatedAt:          ts,
		UpdatedAt:          ts,
	})
	if err != nil {
		db.t.Fatalf("failed to create test company: %v", err)
	}

	return &domain.Company{
		ID:                 id,
		OrganizationID:     "org-test",
		Name:               name,
		FunctionalCurrency: currency,
		CreatedAt:          now,
		UpdatedAt:          now,
	}
}

// CreateTestAccount inserts an active account, optionally under parent.
func (db *TestDB) CreateTestAccount(ctx context.Context, companyID, number, name string, accountType domain.AccountType, parent *domain.Account) *domain.Account {
	db.t.Helper()

	now := time.Now().UTC()
	ts := pgtype.Timestamptz{Time: now, Valid: true}
	id := GenerateID()

	var parentID *string
	parentText := pgtype.Text{}
	if parent != nil {
		parentID = &parent.ID
		parentText = pgtype.Text{String: parent.ID, Valid: true}
	}

	_, err := db.Queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:              id,
		CompanyID:       companyID,
		AccountNumber:   number,
		Name:            name,
		ParentAccountID: parentText,
		AccountType:     string(accountType),
		IsActive:        true,
		CreatedAt:       ts,
		UpdatedAt:       ts,
	})
	if err != nil {
		db.t.Fatalf("failed to create test account: %v", err)
	}

	return &domain.Account{
		ID:              id,
		CompanyID:       companyID,
		AccountNumber:   number,
		Name:            name,
		ParentAccountID: parentID,
		AccountType:     accountType,
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
}

// GenerateID generates a new ULID.
func GenerateID() string {
	return ulid.Make().String()
}
