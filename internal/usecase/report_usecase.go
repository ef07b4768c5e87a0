package usecase

import (
	"context"
	"fmt"

	"github.com/accountability/ledger/internal/domain"
)

// ReportUseCase produces financial reports from posted entries.
type ReportUseCase struct {
	companyRepo CompanyRepository
	accounts    *AccountUseCase
	entryRepo   JournalEntryRepository
}

// NewReportUseCase creates a new ReportUseCase. The chart is read through
// accounts so it shares the hierarchy cache.
func NewReportUseCase(companyRepo CompanyRepository, accounts *AccountUseCase, entryRepo JournalEntryRepository) *ReportUseCase {
	return &ReportUseCase{
		companyRepo: companyRepo,
		accounts:    accounts,
		entryRepo:   entryRepo,
	}
}

// TrialBalance sums posted activity for the fiscal year up to and
// including throughPeriod.
func (uc *ReportUseCase) TrialBalance(ctx context.Context, companyID string, fiscalYear, throughPeriod int) (*domain.TrialBalance, error) {
	in, err := uc.load(ctx, companyID, fiscalYear, throughPeriod)
	if err != nil {
		return nil, err
	}

	tb := domain.BuildTrialBalance(in.hierarchy, in.activity)
	tb.CompanyID = in.company.ID
	tb.FiscalYear = fiscalYear
	tb.FiscalPeriod = throughPeriod
	tb.Currency = in.company.FunctionalCurrency

	return &tb, nil
}

// BalanceSheet states the position at the end of throughPeriod.
func (uc *ReportUseCase) BalanceSheet(ctx context.Context, companyID string, fiscalYear, throughPeriod int) (*domain.BalanceSheet, error) {
	in, err := uc.load(ctx, companyID, fiscalYear, throughPeriod)
	if err != nil {
		return nil, err
	}

	bs := domain.BuildBalanceSheet(in.hierarchy, in.activity)
	bs.CompanyID = in.company.ID
	bs.FiscalYear = fiscalYear
	bs.FiscalPeriod = throughPeriod
	bs.Currency = in.company.FunctionalCurrency

	return &bs, nil
}

// IncomeStatement states year-to-date revenue and expenses.
func (uc *ReportUseCase) IncomeStatement(ctx context.Context, companyID string, fiscalYear, throughPeriod int) (*domain.IncomeStatement, error) {
	in, err := uc.load(ctx, companyID, fiscalYear, throughPeriod)
	if err != nil {
		return nil, err
	}

	is := domain.BuildIncomeStatement(in.hierarchy, in.activity)
	is.CompanyID = in.company.ID
	is.FiscalYear = fiscalYear
	is.FiscalPeriod = throughPeriod
	is.Currency = in.company.FunctionalCurrency

	return &is, nil
}

type reportInputs struct {
	company   *domain.Company
	hierarchy []domain.AccountWithDepth
	activity  []domain.AccountActivity
}

func (uc *ReportUseCase) load(ctx context.Context, companyID string, fiscalYear, throughPeriod int) (*reportInputs, error) {
	if fiscalYear < domain.MinFiscalYear || fiscalYear > domain.MaxFiscalYear {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, domain.MsgFiscalYearRange)
	}
	if throughPeriod < domain.MinFiscalPeriod || throughPeriod > domain.MaxFiscalPeriod {
		return nil, fmt.Errorf("%w: %s", domain.ErrValidation, domain.MsgFiscalPeriodRange)
	}

	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	hierarchy, err := uc.accounts.GetHierarchy(ctx, companyID)
	if err != nil {
		return nil, err
	}

	activity, err := uc.entryRepo.AccountActivity(ctx, companyID, fiscalYear, throughPeriod)
	if err != nil {
		return nil, err
	}

	return &reportInputs{company: company, hierarchy: hierarchy, activity: activity}, nil
}
