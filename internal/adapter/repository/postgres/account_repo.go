package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accountability/ledger/internal/domain"
	"github.com/accountability/ledger/internal/infrastructure/postgres/generated"
)

// AccountRepository implements usecase.AccountRepository.
type AccountRepository struct {
	queries *generated.Queries
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return newAccountRepository(pool)
}

func newAccountRepository(db generated.DBTX) *AccountRepository {
	return &AccountRepository{queries: generated.New(db)}
}

// Create creates a new account.
func (r *AccountRepository) Create(ctx context.Context, account *domain.Account) error {
	_, err := r.queries.CreateAccount(ctx, generated.CreateAccountParams{
		ID:              account.ID,
		CompanyID:       account.CompanyID,
		AccountNumber:   account.AccountNumber,
		Name:            account.Name,
		ParentAccountID: optionalText(account.ParentAccountID),
		AccountType:     string(account.AccountType),
		Description:     optionalText(account.Description),
		IsActive:        account.IsActive,
		CreatedAt:       timeToPgTimestamptz(account.CreatedAt),
		UpdatedAt:       timeToPgTimestamptz(account.UpdatedAt),
	})
	if isPgError(err, pgErrUniqueViolation) {
		return fmt.Errorf("%w: %s", domain.ErrDuplicateAccount, account.AccountNumber)
	}
	if isPgError(err, pgErrForeignKeyViolation) {
		return fmt.Errorf("%w: parent account", domain.ErrAccountNotFound)
	}

	return err
}

// Update persists name, description, parent and active flag.
func (r *AccountRepository) Update(ctx context.Context, account *domain.Account) error {
	n, err := r.queries.UpdateAccount(ctx, generated.UpdateAccountParams{
		ID:              account.ID,
		Name:            account.Name,
		Description:     optionalText(account.Description),
		ParentAccountID: optionalText(account.ParentAccountID),
		IsActive:        account.IsActive,
		UpdatedAt:       timeToPgTimestamptz(account.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}

	return nil
}

// GetByID retrieves an account by ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*domain.Account, error) {
	row, err := r.queries.GetAccountByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}

		return nil, err
	}

	return rowToAccount(row), nil
}

// GetByIDs retrieves every account in ids that exists. Missing IDs are
// simply absent from the result.
func (r *AccountRepository) GetByIDs(ctx context.Context, ids []string) ([]*domain.Account, error) {
	rows, err := r.queries.GetAccountsByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

// ListByCompany lists a company's whole chart of accounts.
func (r *AccountRepository) ListByCompany(ctx context.Context, companyID string) ([]*domain.Account, error) {
	rows, err := r.queries.ListAccountsByCompany(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return rowsToAccounts(rows), nil
}

func rowsToAccounts(rows []generated.Account) []*domain.Account {
	accounts := make([]*domain.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, rowToAccount(row))
	}
	return accounts
}

func rowToAccount(row generated.Account) *domain.Account {
	return &domain.Account{
		ID:              row.ID,
		CompanyID:       row.CompanyID,
		AccountNumber:   row.AccountNumber,
		Name:            row.Name,
		ParentAccountID: textPtr(row.ParentAccountID),
		AccountType:     domain.AccountType(row.AccountType),
		Description:     textPtr(row.Description),
		IsActive:        row.IsActive,
		CreatedAt:       row.CreatedAt.Time,
		UpdatedAt:       row.UpdatedAt.Time,
	}
}
