package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accountability/ledger/internal/domain"
	"github.com/accountability/ledger/internal/infrastructure/postgres/generated"
)

// CompanyRepository implements usecase.CompanyRepository.
type CompanyRepository struct {
	queries *generated.Queries
}

// NewCompanyRepository creates a new CompanyRepository.
func NewCompanyRepository(pool *pgxpool.Pool) *CompanyRepository {
	return newCompanyRepository(pool)
}

func newCompanyRepository(db generated.DBTX) *CompanyRepository {
	return &CompanyRepository{queries: generated.New(db)}
}

// Create inserts a company.
func (r *CompanyRepository) Create(ctx context.Context, company *domain.Company) error {
	_, err := r.queries.CreateCompany(ctx, generated.CreateCompanyParams{
		ID:                 company.ID,
		OrganizationID:     company.OrganizationID,
		Name:               company.Name,
		FunctionalCurrency: company.FunctionalCurrency,
		CreatedAt:          timeToPgTimestamptz(company.CreatedAt),
		UpdatedAt:          timeToPgTimestamptz(company.UpdatedAt),
	})

	return err
}

// GetByID retrieves a company by ID.
func (r *CompanyRepository) GetByID(ctx context.Context, id string) (*domain.Company, error) {
	row, err := r.queries.GetCompanyByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCompanyNotFound
		}

		return nil, err
	}

	return &domain.Company{
		ID:                 row.ID,
		OrganizationID:     row.OrganizationID,
		Name:               row.Name,
		FunctionalCurrency: row.FunctionalCurrency,
		CreatedAt:          row.CreatedAt.Time,
		UpdatedAt:          row.UpdatedAt.Time,
	}, nil
}
