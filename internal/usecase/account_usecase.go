package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/accountability/ledger/internal/domain"
)

// AccountUseCase handles chart of accounts business logic.
type AccountUseCase struct {
	accountRepo AccountRepository
	companyRepo CompanyRepository
	cache       Cache
	idGen       IDGenerator
	opts        options
}

// NewAccountUseCase creates a new AccountUseCase. cache may be nil.
func NewAccountUseCase(
	accountRepo AccountRepository,
	companyRepo CompanyRepository,
	cache Cache,
	idGen IDGenerator,
	opts ...Option,
) *AccountUseCase {
	return &AccountUseCase{
		accountRepo: accountRepo,
		companyRepo: companyRepo,
		cache:       cache,
		idGen:       idGen,
		opts:        buildOptions(opts),
	}
}

// CreateAccountInput represents input for creating an account.
type CreateAccountInput struct {
	CompanyID       string
	AccountNumber   string
	Name            string
	ParentAccountID *string
	AccountType     domain.AccountType
	Description     *string
}

// CreateAccount adds an account to a company's chart.
func (uc *AccountUseCase) CreateAccount(ctx context.Context, input CreateAccountInput) (*domain.Account, error) {
	if err := domain.ValidateAccountName(input.Name); err != nil {
		return nil, err
	}
	if err := domain.ValidateAccountNumber(input.AccountNumber); err != nil {
		return nil, err
	}
	if !input.AccountType.IsValid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidAccountType, input.AccountType)
	}

	if _, err := uc.companyRepo.GetByID(ctx, input.CompanyID); err != nil {
		return nil, err
	}

	if input.ParentAccountID != nil {
		if err := uc.checkParent(ctx, input.CompanyID, *input.ParentAccountID); err != nil {
			return nil, err
		}
	}

	now := time.Now().UTC()

	account := &domain.Account{
		ID:              uc.idGen.Generate(),
		CompanyID:       input.CompanyID,
		AccountNumber:   input.AccountNumber,
		Name:            strings.TrimSpace(input.Name),
		ParentAccountID: input.ParentAccountID,
		AccountType:     input.AccountType,
		Description:     trimOptional(input.Description),
		IsActive:        true,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := uc.accountRepo.Create(ctx, account); err != nil {
		return nil, err
	}

	uc.invalidateHierarchy(ctx, account.CompanyID)

	return account, nil
}

// GetAccount retrieves an account by ID.
func (uc *AccountUseCase) GetAccount(ctx context.Context, id string) (*domain.Account, error) {
	return uc.accountRepo.GetByID(ctx, id)
}

// ListAccounts lists every account of a company.
func (uc *AccountUseCase) ListAccounts(ctx context.Context, companyID string) ([]*domain.Account, error) {
	if _, err := uc.companyRepo.GetByID(ctx, companyID); err != nil {
		return nil, err
	}

	return uc.accountRepo.ListByCompany(ctx, companyID)
}

// UpdateAccountInput represents a partial account update. Nil fields are
// left unchanged; ClearParent moves the account to the root level.
type UpdateAccountInput struct {
	ID              string
	Name            *string
	Description     *string
	ParentAccountID *string
	ClearParent     bool
	IsActive        *bool
}

// UpdateAccount applies a partial update. Re-parenting is rejected when
// it would put the account below itself.
func (uc *AccountUseCase) UpdateAccount(ctx context.Context, input UpdateAccountInput) (*domain.Account, error) {
	account, err := uc.accountRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}

	if input.Name != nil {
		if err := domain.ValidateAccountName(*input.Name); err != nil {
			return nil, err
		}
		account.Name = strings.TrimSpace(*input.Name)
	}

	if input.Description != nil {
		account.Description = trimOptional(input.Description)
	}

	if input.IsActive != nil {
		account.IsActive = *input.IsActive
	}

	switch {
	case input.ClearParent:
		account.ParentAccountID = nil
	case input.ParentAccountID != nil:
		if err := uc.checkReparent(ctx, account, *input.ParentAccountID); err != nil {
			return nil, err
		}
		parentID := *input.ParentAccountID
		account.ParentAccountID = &parentID
	}

	account.UpdatedAt = time.Now().UTC()

	if err := uc.accountRepo.Update(ctx, account); err != nil {
		return nil, err
	}

	uc.invalidateHierarchy(ctx, account.CompanyID)

	return account, nil
}

// GetHierarchy returns the company chart flattened for tree display.
func (uc *AccountUseCase) GetHierarchy(ctx context.Context, companyID string) ([]domain.AccountWithDepth, error) {
	if cached, ok := uc.cachedHierarchy(ctx, companyID); ok {
		uc.opts.metrics.HierarchyCacheResult(true)
		return cached, nil
	}
	uc.opts.metrics.HierarchyCacheResult(false)

	accounts, err := uc.ListAccounts(ctx, companyID)
	if err != nil {
		return nil, err
	}

	list, err := domain.BuildHierarchicalList(derefAccounts(accounts))
	if err != nil {
		return nil, err
	}

	uc.storeHierarchy(ctx, companyID, list)

	return list, nil
}

// SearchHierarchy filters the flattened chart by a free-text query.
func (uc *AccountUseCase) SearchHierarchy(ctx context.Context, companyID, query string) ([]domain.AccountWithDepth, error) {
	list, err := uc.GetHierarchy(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return domain.FilterBySearch(list, query), nil
}

func (uc *AccountUseCase) checkParent(ctx context.Context, companyID, parentID string) error {
	parent, err := uc.accountRepo.GetByID(ctx, parentID)
	if err != nil {
		return err
	}
	if parent.CompanyID != companyID {
		return fmt.Errorf("%w: parent %s", domain.ErrAccountCompany, parentID)
	}
	return nil
}

func (uc *AccountUseCase) checkReparent(ctx context.Context, account *domain.Account, parentID string) error {
	if parentID == account.ID {
		return fmt.Errorf("%w: %s cannot be its own parent", domain.ErrAccountHierarchyCycle, account.ID)
	}

	chart, err := uc.accountRepo.ListByCompany(ctx, account.CompanyID)
	if err != nil {
		return err
	}

	accounts := derefAccounts(chart)
	found := false
	for _, a := range accounts {
		if a.ID == parentID {
			found = true
			break
		}
	}

	if !found {
		if err := uc.checkParent(ctx, account.CompanyID, parentID); err != nil {
			return err
		}
		return fmt.Errorf("%w: parent %s", domain.ErrAccountNotFound, parentID)
	}

	if domain.IsDescendant(accounts, account.ID, parentID) {
		return fmt.Errorf("%w: %s is below %s", domain.ErrAccountHierarchyCycle, parentID, account.ID)
	}
	return nil
}

func (uc *AccountUseCase) cachedHierarchy(ctx context.Context, companyID string) ([]domain.AccountWithDepth, bool) {
	if uc.cache == nil {
		return nil, false
	}

	raw, err := uc.cache.Get(ctx, hierarchyCacheKey(companyID))
	if err != nil {
		return nil, false
	}

	var list []domain.AccountWithDepth
	if err := json.Unmarshal([]byte(raw), &list); err != nil {
		return nil, false
	}

	return list, true
}

func (uc *AccountUseCase) storeHierarchy(ctx context.Context, companyID string, list []domain.AccountWithDepth) {
	if uc.cache == nil {
		return
	}

	raw, err := json.Marshal(list)
	if err != nil {
		return
	}

	// Cache write failures only cost a rebuild on the next read.
	_ = uc.cache.Set(ctx, hierarchyCacheKey(companyID), string(raw), uc.opts.hierarchyTTL)
}

func (uc *AccountUseCase) invalidateHierarchy(ctx context.Context, companyID string) {
	if uc.cache == nil {
		return
	}

	// A failed delete leaves a stale tree until the TTL runs out.
	_ = uc.cache.Delete(ctx, hierarchyCacheKey(companyID))
}

func derefAccounts(accounts []*domain.Account) []domain.Account {
	out := make([]domain.Account, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, *a)
	}
	return out
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
