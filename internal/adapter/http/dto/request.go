package dto

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/accountability/ledger/internal/domain"
	"github.com/accountability/ledger/internal/usecase"
)

// DateLayout is the wire format of calendar dates.
const DateLayout = "2006-01-02"

// CreateCompanyRequest represents a request to create a company.
type CreateCompanyRequest struct {
	OrganizationID     string `json:"organization_id"     validate:"required,max=64"`
	Name               string `json:"name"                validate:"required,max=255"`
	FunctionalCurrency string `json:"functional_currency" validate:"required,len=3"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateCompanyRequest) ToUseCaseInput() usecase.CreateCompanyInput {
	return usecase.CreateCompanyInput{
		OrganizationID:     r.OrganizationID,
		Name:               r.Name,
		FunctionalCurrency: r.FunctionalCurrency,
	}
}

// CreateAccountRequest represents a request to create an account.
type CreateAccountRequest struct {
	AccountNumber   string  `json:"account_number"              validate:"required,max=32"`
	Name            string  `json:"name"                        validate:"required,max=255"`
	ParentAccountID *string `json:"parent_account_id,omitempty"`
	AccountType     string  `json:"account_type"                validate:"required,oneof=ASSET LIABILITY EQUITY REVENUE EXPENSE"`
	Description     *string `json:"description,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *CreateAccountRequest) ToUseCaseInput(companyID string) usecase.CreateAccountInput {
	return usecase.CreateAccountInput{
		CompanyID:       companyID,
		AccountNumber:   r.AccountNumber,
		Name:            r.Name,
		ParentAccountID: r.ParentAccountID,
		AccountType:     domain.AccountType(r.AccountType),
		Description:     r.Description,
	}
}

// UpdateAccountRequest is a partial account update. Absent fields are left
// unchanged; clear_parent moves the account to the top level.
type UpdateAccountRequest struct {
	Name            *string `json:"name,omitempty"              validate:"omitempty,max=255"`
	Description     *string `json:"description,omitempty"`
	ParentAccountID *string `json:"parent_account_id,omitempty"`
	ClearParent     bool    `json:"clear_parent,omitempty"`
	IsActive        *bool   `json:"is_active,omitempty"`
}

// ToUseCaseInput converts to use case input.
func (r *UpdateAccountRequest) ToUseCaseInput(id string) usecase.UpdateAccountInput {
	return usecase.UpdateAccountInput{
		ID:              id,
		Name:            r.Name,
		Description:     r.Description,
		ParentAccountID: r.ParentAccountID,
		ClearParent:     r.ClearParent,
		IsActive:        r.IsActive,
	}
}

// FormLineRequest is one editable line. Amounts are the raw text typed by
// the user and are interpreted by the ledger, not the transport.
type FormLineRequest struct {
	ID           string  `json:"id,omitempty"            validate:"max=64"`
	AccountID    *string `json:"account_id,omitempty"`
	DebitAmount  string  `json:"debit_amount,omitempty"  validate:"max=40"`
	CreditAmount string  `json:"credit_amount,omitempty" validate:"max=40"`
	CurrencyCode string  `json:"currency_code,omitempty" validate:"omitempty,len=3"`
	Memo         string  `json:"memo,omitempty"          validate:"max=500"`
}

// FormRequest carries a whole journal entry form.
type FormRequest struct {
	Description       string            `json:"description"                   validate:"max=1000"`
	TransactionDate   *string           `json:"transaction_date,omitempty"    validate:"omitempty,datetime=2006-01-02"`
	DocumentDate      *string           `json:"document_date,omitempty"       validate:"omitempty,datetime=2006-01-02"`
	FiscalYear        int               `json:"fiscal_year"`
	FiscalPeriod      int               `json:"fiscal_period"`
	EntryType         string            `json:"entry_type,omitempty"          validate:"omitempty,oneof=STANDARD ADJUSTING CLOSING OPENING REVERSING RECURRING ELIMINATION"`
	SourceModule      string            `json:"source_module,omitempty"       validate:"omitempty,oneof=GENERAL_LEDGER ACCOUNTS_PAYABLE ACCOUNTS_RECEIVABLE CASH_MANAGEMENT PAYROLL INVENTORY FIXED_ASSETS"`
	ReferenceNumber   string            `json:"reference_number,omitempty"    validate:"max=100"`
	SourceDocumentRef string            `json:"source_document_ref,omitempty" validate:"max=255"`
	Lines             []FormLineRequest `json:"lines"                         validate:"max=500,dive"`
}

// ToFormState converts to a domain form. Lines without an ID get a fresh
// UUID so line errors can be reported against them.
func (r *FormRequest) ToFormState() domain.JournalEntryFormState {
	return domain.JournalEntryFormState{
		Description:       r.Description,
		TransactionDate:   parseDate(r.TransactionDate),
		DocumentDate:      parseDate(r.DocumentDate),
		FiscalYear:        r.FiscalYear,
		FiscalPeriod:      r.FiscalPeriod,
		EntryType:         domain.EntryType(r.EntryType),
		SourceModule:      domain.SourceModule(r.SourceModule),
		ReferenceNumber:   r.ReferenceNumber,
		SourceDocumentRef: r.SourceDocumentRef,
		Lines:             LinesToDomain(r.Lines),
	}
}

// LinesToDomain converts request lines, numbering them in order.
func LinesToDomain(lines []FormLineRequest) []domain.JournalEntryLine {
	result := make([]domain.JournalEntryLine, len(lines))
	for i, l := range lines {
		id := l.ID
		if id == "" {
			id = uuid.NewString()
		}
		result[i] = domain.JournalEntryLine{
			ID:           id,
			LineNumber:   i + 1,
			AccountID:    blankToNil(l.AccountID),
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			CurrencyCode: strings.ToUpper(l.CurrencyCode),
			Memo:         l.Memo,
		}
	}
	return result
}

// BalanceRequest asks for the running balance of a set of lines.
type BalanceRequest struct {
	Lines []FormLineRequest `json:"lines" validate:"max=500,dive"`
}

// RejectRequest carries the reason an entry is sent back to draft.
type RejectRequest struct {
	Reason string `json:"reason" validate:"required,max=1000"`
}

// ReverseRequest optionally dates the reversing entry.
type ReverseRequest struct {
	ReversalDate *string `json:"reversal_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// Date returns the parsed reversal date, or nil.
func (r *ReverseRequest) Date() *time.Time {
	return parseDate(r.ReversalDate)
}

// PaginationRequest represents pagination parameters.
type PaginationRequest struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
}

// parseDate expects input already checked by the datetime validator.
func parseDate(s *string) *time.Time {
	if s == nil || *s == "" {
		return nil
	}
	t, err := time.Parse(DateLayout, *s)
	if err != nil {
		return nil
	}
	return &t
}

func blankToNil(s *string) *string {
	if s == nil || strings.TrimSpace(*s) == "" {
		return nil
	}
	return s
}
