package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/accountability/ledger/internal/domain"
)

// ErrCacheMiss is returned by Cache.Get when the key is absent.
var ErrCacheMiss = errors.New("cache miss")

// CompanyRepository defines data access for companies.
type CompanyRepository interface {
	Create(ctx context.Context, company *domain.Company) error
	GetByID(ctx context.Context, id string) (*domain.Company, error)
}

// AccountRepository defines data access for the chart of accounts.
type AccountRepository interface {
	Create(ctx context.Context, account *domain.Account) error
	Update(ctx context.Context, account *domain.Account) error
	GetByID(ctx context.Context, id string) (*domain.Account, error)
	GetByIDs(ctx context.Context, ids []string) ([]*domain.Account, error)
	ListByCompany(ctx context.Context, companyID string) ([]*domain.Account, error)
}

// JournalEntryFilter narrows a journal entry listing.
type JournalEntryFilter struct {
	CompanyID string
	Status    *domain.JournalEntryStatus
	Limit     int
	Offset    int
}

// JournalEntryRepository defines data access for journal entries and lines.
type JournalEntryRepository interface {
	// Create inserts the header and all lines and assigns EntryNumber.
	Create(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	// Update rewrites the header and replaces every line.
	Update(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	// UpdateStatus persists the workflow fields only.
	UpdateStatus(ctx context.Context, tx Transaction, entry *domain.JournalEntry) error
	GetByID(ctx context.Context, id string) (*domain.JournalEntry, error)
	GetByIDForUpdate(ctx context.Context, tx Transaction, id string) (*domain.JournalEntry, error)
	List(ctx context.Context, filter JournalEntryFilter) ([]*domain.JournalEntry, error)
	// AccountActivity sums posted lines per account up to and including the period.
	AccountActivity(ctx context.Context, companyID string, fiscalYear, throughPeriod int) ([]domain.AccountActivity, error)
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// TransactionManager handles transaction lifecycle.
type TransactionManager interface {
	Begin(ctx context.Context) (Transaction, error)
}

// Retrier re-runs an operation on transient storage failures.
type Retrier interface {
	Retry(ctx context.Context, operation func() error) error
}

// IDGenerator generates unique IDs.
type IDGenerator interface {
	Generate() string
}

// Cache defines caching operations.
type Cache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IdempotencyStore handles idempotency key storage.
type IdempotencyStore interface {
	// CheckAndSet atomically checks if key exists, sets if not.
	// Returns (exists, existingValue, error).
	CheckAndSet(ctx context.Context, key string, response []byte, ttl time.Duration) (bool, []byte, error)
	// Update updates an existing key with the final response.
	Update(ctx context.Context, key string, response []byte, ttl time.Duration) error
	// Release drops a reservation so a failed request can be retried.
	Release(ctx context.Context, key string) error
}

// MetricsRecorder receives business events from the use cases.
type MetricsRecorder interface {
	JournalEntryTransition(status domain.JournalEntryStatus)
	FormValidationFailed()
	HierarchyCacheResult(hit bool)
}

type noopMetrics struct{}

func (noopMetrics) JournalEntryTransition(domain.JournalEntryStatus) {}

func (noopMetrics) FormValidationFailed() {}

func (noopMetrics) HierarchyCacheResult(bool) {}
