package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/accountability/ledger/internal/domain"
)

// CompanyUseCase handles company business logic.
type CompanyUseCase struct {
	companyRepo CompanyRepository
	idGen       IDGenerator
}

// NewCompanyUseCase creates a new CompanyUseCase.
func NewCompanyUseCase(companyRepo CompanyRepository, idGen IDGenerator) *CompanyUseCase {
	return &CompanyUseCase{
		companyRepo: companyRepo,
		idGen:       idGen,
	}
}

// CreateCompanyInput represents input for creating a company.
type CreateCompanyInput struct {
	OrganizationID     string
	Name               string
	FunctionalCurrency string
}

// CreateCompany creates a new company.
func (uc *CompanyUseCase) CreateCompany(ctx context.Context, input CreateCompanyInput) (*domain.Company, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrInvalidCompanyName
	}

	if err := domain.ValidateCurrency(input.FunctionalCurrency); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	company := &domain.Company{
		ID:                 uc.idGen.Generate(),
		OrganizationID:     input.OrganizationID,
		Name:               name,
		FunctionalCurrency: strings.ToUpper(strings.TrimSpace(input.FunctionalCurrency)),
		CreatedAt:          now,
		UpdatedAt:          now,
	}

	if err := uc.companyRepo.Create(ctx, company); err != nil {
		return nil, err
	}

	return company, nil
}

// GetCompany retrieves a company by ID.
func (uc *CompanyUseCase) GetCompany(ctx context.Context, id string) (*domain.Company, error) {
	return uc.companyRepo.GetByID(ctx, id)
}
