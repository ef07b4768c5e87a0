package dto

import (
	"time"

	"github.com/accountability/ledger/internal/domain"
)

// CompanyResponse represents a company in API responses.
type CompanyResponse struct {
	ID                 string    `json:"id"`
	OrganizationID     string    `json:"organization_id"`
	Name               string    `json:"name"`
	FunctionalCurrency string    `json:"functional_currency"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// CompanyFromDomain converts a domain company to a response.
func CompanyFromDomain(c *domain.Company) *CompanyResponse {
	return &CompanyResponse{
		ID:                 c.ID,
		OrganizationID:     c.OrganizationID,
		Name:               c.Name,
		FunctionalCurrency: c.FunctionalCurrency,
		CreatedAt:          c.CreatedAt,
		UpdatedAt:          c.UpdatedAt,
	}
}

// AccountResponse represents an account in API responses.
type AccountResponse struct {
	ID              string    `json:"id"`
	CompanyID       string    `json:"company_id"`
	AccountNumber   string    `json:"account_number"`
	Name            string    `json:"name"`
	ParentAccountID *string   `json:"parent_account_id"`
	AccountType     string    `json:"account_type"`
	Description     *string   `json:"description,omitempty"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// AccountFromDomain converts domain account to response.
func AccountFromDomain(a *domain.Account) *AccountResponse {
	return &AccountResponse{
		ID:              a.ID,
		CompanyID:       a.CompanyID,
		AccountNumber:   a.AccountNumber,
		Name:            a.Name,
		ParentAccountID: a.ParentAccountID,
		AccountType:     string(a.AccountType),
		Description:     a.Description,
		IsActive:        a.IsActive,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
}

// AccountsFromDomain converts domain accounts to responses.
func AccountsFromDomain(accounts []*domain.Account) []*AccountResponse {
	result := make([]*AccountResponse, len(accounts))
	for i, a := range accounts {
		result[i] = AccountFromDomain(a)
	}
	return result
}

// ListAccountsResponse represents a list of accounts.
type ListAccountsResponse struct {
	Accounts []*AccountResponse `json:"accounts"`
	Total    int64              `json:"total"`
}

// TreeNodeResponse is one row of the flattened chart of accounts.
type TreeNodeResponse struct {
	*AccountResponse
	Depth int `json:"depth"`
}

// AccountTreeResponse is the depth-first flattened chart.
type AccountTreeResponse struct {
	Accounts []TreeNodeResponse `json:"accounts"`
	Query    string             `json:"query,omitempty"`
}

// AccountTreeFromDomain converts a flattened hierarchy.
func AccountTreeFromDomain(list []domain.AccountWithDepth, query string) AccountTreeResponse {
	nodes := make([]TreeNodeResponse, len(list))
	for i := range list {
		nodes[i] = TreeNodeResponse{
			AccountResponse: AccountFromDomain(&list[i].Account),
			Depth:           list[i].Depth,
		}
	}
	return AccountTreeResponse{Accounts: nodes, Query: query}
}

// BalanceResponse is the live running balance of a form.
type BalanceResponse struct {
	TotalDebits      string `json:"total_debits"`
	TotalCredits     string `json:"total_credits"`
	NetBalance       string `json:"net_balance"`
	FormattedDebits  string `json:"formatted_debits"`
	FormattedCredits string `json:"formatted_credits"`
	FormattedBalance string `json:"formatted_balance"`
	IsBalanced       bool   `json:"is_balanced"`
}

// BalanceFromDomain converts a running balance.
func BalanceFromDomain(b domain.RunningBalance) BalanceResponse {
	return BalanceResponse{
		TotalDebits:      b.TotalDebits.String(),
		TotalCredits:     b.TotalCredits.String(),
		NetBalance:       b.NetBalance.String(),
		FormattedDebits:  b.FormattedDebits,
		FormattedCredits: b.FormattedCredits,
		FormattedBalance: b.FormattedBalance,
		IsBalanced:       b.IsBalanced,
	}
}

// ValidationResponse reports the outcome of validating a form.
type ValidationResponse struct {
	Valid  bool              `json:"valid"`
	Errors domain.FormErrors `json:"errors"`
}

// FormLineResponse is one line of a form as the editor sees it.
type FormLineResponse struct {
	ID           string  `json:"id"`
	LineNumber   int     `json:"line_number"`
	AccountID    *string `json:"account_id"`
	DebitAmount  string  `json:"debit_amount"`
	CreditAmount string  `json:"credit_amount"`
	CurrencyCode string  `json:"currency_code"`
	Memo         string  `json:"memo"`
}

// FormResponse is an editable journal entry form with its live balance.
type FormResponse struct {
	Description       string             `json:"description"`
	TransactionDate   *string            `json:"transaction_date"`
	DocumentDate      *string            `json:"document_date,omitempty"`
	FiscalYear        int                `json:"fiscal_year"`
	FiscalPeriod      int                `json:"fiscal_period"`
	EntryType         string             `json:"entry_type,omitempty"`
	SourceModule      string             `json:"source_module,omitempty"`
	ReferenceNumber   string             `json:"reference_number,omitempty"`
	SourceDocumentRef string             `json:"source_document_ref,omitempty"`
	CurrencyCode      string             `json:"currency_code"`
	Lines             []FormLineResponse `json:"lines"`
	Balance           BalanceResponse    `json:"balance"`
}

// FormFromDomain converts a form state.
func FormFromDomain(s *domain.JournalEntryFormState) FormResponse {
	lines := make([]FormLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = FormLineResponse{
			ID:           l.ID,
			LineNumber:   l.LineNumber,
			AccountID:    l.AccountID,
			DebitAmount:  l.DebitAmount,
			CreditAmount: l.CreditAmount,
			CurrencyCode: l.CurrencyCode,
			Memo:         l.Memo,
		}
	}

	return FormResponse{
		Description:       s.Description,
		TransactionDate:   formatDate(s.TransactionDate),
		DocumentDate:      formatDate(s.DocumentDate),
		FiscalYear:        s.FiscalYear,
		FiscalPeriod:      s.FiscalPeriod,
		EntryType:         string(s.EntryType),
		SourceModule:      string(s.SourceModule),
		ReferenceNumber:   s.ReferenceNumber,
		SourceDocumentRef: s.SourceDocumentRef,
		CurrencyCode:      s.CurrencyCode(),
		Lines:             lines,
		Balance:           BalanceFromDomain(s.RunningBalance()),
	}
}

// JournalLineResponse represents a persisted line.
type JournalLineResponse struct {
	ID           string `json:"id"`
	LineNumber   int    `json:"line_number"`
	AccountID    string `json:"account_id"`
	Debit        string `json:"debit"`
	Credit       string `json:"credit"`
	CurrencyCode string `json:"currency_code"`
	Memo         string `json:"memo,omitempty"`
}

// JournalEntryResponse represents a persisted journal entry.
type JournalEntryResponse struct {
	ID                string                `json:"id"`
	CompanyID         string                `json:"company_id"`
	EntryNumber       int64                 `json:"entry_number"`
	Description       string                `json:"description"`
	TransactionDate   string                `json:"transaction_date"`
	DocumentDate      *string               `json:"document_date,omitempty"`
	FiscalYear        int                   `json:"fiscal_year"`
	FiscalPeriod      int                   `json:"fiscal_period"`
	EntryType         string                `json:"entry_type"`
	SourceModule      string                `json:"source_module"`
	ReferenceNumber   string                `json:"reference_number,omitempty"`
	SourceDocumentRef string                `json:"source_document_ref,omitempty"`
	Status            string                `json:"status"`
	TotalDebits       string                `json:"total_debits"`
	TotalCredits      string                `json:"total_credits"`
	Lines             []JournalLineResponse `json:"lines"`
	CreatedBy         string                `json:"created_by"`
	ApprovedBy        *string               `json:"approved_by,omitempty"`
	RejectionReason   string                `json:"rejection_reason,omitempty"`
	ReversalOfID      *string               `json:"reversal_of_id,omitempty"`
	ReversedByID      *string               `json:"reversed_by_id,omitempty"`
	CreatedAt         time.Time             `json:"created_at"`
	UpdatedAt         time.Time             `json:"updated_at"`
	ApprovedAt        *time.Time            `json:"approved_at,omitempty"`
	PostedAt          *time.Time            `json:"posted_at,omitempty"`
}

// JournalEntryFromDomain converts a persisted entry. Amounts are rendered
// at the scale of the line currency.
func JournalEntryFromDomain(e *domain.JournalEntry) *JournalEntryResponse {
	currency := ""
	lines := make([]JournalLineResponse, len(e.Lines))
	for i, l := range e.Lines {
		if currency == "" {
			currency = l.CurrencyCode
		}
		lines[i] = JournalLineResponse{
			ID:           l.ID,
			LineNumber:   l.LineNumber,
			AccountID:    l.AccountID,
			Debit:        domain.FormatAmount(l.Debit, l.CurrencyCode),
			Credit:       domain.FormatAmount(l.Credit, l.CurrencyCode),
			CurrencyCode: l.CurrencyCode,
			Memo:         l.Memo,
		}
	}

	return &JournalEntryResponse{
		ID:                e.ID,
		CompanyID:         e.CompanyID,
		EntryNumber:       e.EntryNumber,
		Description:       e.Description,
		TransactionDate:   e.TransactionDate.Format(DateLayout),
		DocumentDate:      formatDate(e.DocumentDate),
		FiscalYear:        e.FiscalYear,
		FiscalPeriod:      e.FiscalPeriod,
		EntryType:         string(e.EntryType),
		SourceModule:      string(e.SourceModule),
		ReferenceNumber:   e.ReferenceNumber,
		SourceDocumentRef: e.SourceDocumentRef,
		Status:            string(e.Status),
		TotalDebits:       domain.FormatAmount(e.TotalDebits, currency),
		TotalCredits:      domain.FormatAmount(e.TotalCredits, currency),
		Lines:             lines,
		CreatedBy:         e.CreatedBy,
		ApprovedBy:        e.ApprovedBy,
		RejectionReason:   e.RejectionReason,
		ReversalOfID:      e.ReversalOfID,
		ReversedByID:      e.ReversedByID,
		CreatedAt:         e.CreatedAt,
		UpdatedAt:         e.UpdatedAt,
		ApprovedAt:        e.ApprovedAt,
		PostedAt:          e.PostedAt,
	}
}

// ListJournalEntriesResponse represents a page of journal entries.
type ListJournalEntriesResponse struct {
	JournalEntries []*JournalEntryResponse `json:"journal_entries"`
	Limit          int                     `json:"limit"`
	Offset         int                     `json:"offset"`
}

// JournalEntriesFromDomain converts domain entries to responses.
func JournalEntriesFromDomain(entries []*domain.JournalEntry) []*JournalEntryResponse {
	result := make([]*JournalEntryResponse, len(entries))
	for i, e := range entries {
		result[i] = JournalEntryFromDomain(e)
	}
	return result
}

// TrialBalanceRowResponse is one account in a trial balance.
type TrialBalanceRowResponse struct {
	AccountID     string `json:"account_id"`
	AccountNumber string `json:"account_number"`
	Name          string `json:"name"`
	AccountType   string `json:"account_type"`
	Depth         int    `json:"depth"`
	Debit         string `json:"debit"`
	Credit        string `json:"credit"`
}

// TrialBalanceResponse represents a trial balance report.
type TrialBalanceResponse struct {
	CompanyID    string                    `json:"company_id"`
	FiscalYear   int                       `json:"fiscal_year"`
	FiscalPeriod int                       `json:"fiscal_period"`
	Currency     string                    `json:"currency"`
	Rows         []TrialBalanceRowResponse `json:"rows"`
	TotalDebits  string                    `json:"total_debits"`
	TotalCredits string                    `json:"total_credits"`
	IsBalanced   bool                      `json:"is_balanced"`
}

// TrialBalanceFromDomain converts a trial balance.
func TrialBalanceFromDomain(tb *domain.TrialBalance) *TrialBalanceResponse {
	rows := make([]TrialBalanceRowResponse, len(tb.Rows))
	for i, r := range tb.Rows {
		rows[i] = TrialBalanceRowResponse{
			AccountID:     r.Account.ID,
			AccountNumber: r.Account.AccountNumber,
			Name:          r.Account.Name,
			AccountType:   string(r.Account.AccountType),
			Depth:         r.Depth,
			Debit:         domain.FormatAmount(r.Debit, tb.Currency),
			Credit:        domain.FormatAmount(r.Credit, tb.Currency),
		}
	}

	return &TrialBalanceResponse{
		CompanyID:    tb.CompanyID,
		FiscalYear:   tb.FiscalYear,
		FiscalPeriod: tb.FiscalPeriod,
		Currency:     tb.Currency,
		Rows:         rows,
		TotalDebits:  domain.FormatAmount(tb.TotalDebits, tb.Currency),
		TotalCredits: domain.FormatAmount(tb.TotalCredits, tb.Currency),
		IsBalanced:   tb.IsBalanced,
	}
}

// StatementLineResponse is one account on a financial statement.
type StatementLineResponse struct {
	AccountID     string `json:"account_id"`
	AccountNumber string `json:"account_number"`
	Name          string `json:"name"`
	Depth         int    `json:"depth"`
	Amount        string `json:"amount"`
}

// StatementSectionResponse groups the accounts of one type.
type StatementSectionResponse struct {
	AccountType string                  `json:"account_type"`
	Lines       []StatementLineResponse `json:"lines"`
	Total       string                  `json:"total"`
}

// BalanceSheetResponse represents a balance sheet.
type BalanceSheetResponse struct {
	CompanyID                 string                   `json:"company_id"`
	FiscalYear                int                      `json:"fiscal_year"`
	FiscalPeriod              int                      `json:"fiscal_period"`
	Currency                  string                   `json:"currency"`
	Assets                    StatementSectionResponse `json:"assets"`
	Liabilities               StatementSectionResponse `json:"liabilities"`
	Equity                    StatementSectionResponse `json:"equity"`
	CurrentEarnings           string                   `json:"current_earnings"`
	TotalLiabilitiesAndEquity string                   `json:"total_liabilities_and_equity"`
	IsBalanced                bool                     `json:"is_balanced"`
}

// IncomeStatementResponse represents an income statement.
type IncomeStatementResponse struct {
	CompanyID    string                   `json:"company_id"`
	FiscalYear   int                      `json:"fiscal_year"`
	FiscalPeriod int                      `json:"fiscal_period"`
	Currency     string                   `json:"currency"`
	Revenue      StatementSectionResponse `json:"revenue"`
	Expenses     StatementSectionResponse `json:"expenses"`
	NetIncome    string                   `json:"net_income"`
}

func sectionFromDomain(s domain.StatementSection, currency string) StatementSectionResponse {
	lines := make([]StatementLineResponse, len(s.Lines))
	for i, l := range s.Lines {
		lines[i] = StatementLineResponse{
			AccountID:     l.Account.ID,
			AccountNumber: l.Account.AccountNumber,
			Name:          l.Account.Name,
			Depth:         l.Depth,
			Amount:        domain.FormatAmount(l.Amount, currency),
		}
	}
	return StatementSectionResponse{
		AccountType: string(s.AccountType),
		Lines:       lines,
		Total:       domain.FormatAmount(s.Total, currency),
	}
}

// BalanceSheetFromDomain converts a balance sheet.
func BalanceSheetFromDomain(bs *domain.BalanceSheet) *BalanceSheetResponse {
	return &BalanceSheetResponse{
		CompanyID:                 bs.CompanyID,
		FiscalYear:                bs.FiscalYear,
		FiscalPeriod:              bs.FiscalPeriod,
		Currency:                  bs.Currency,
		Assets:                    sectionFromDomain(bs.Assets, bs.Currency),
		Liabilities:               sectionFromDomain(bs.Liabilities, bs.Currency),
		Equity:                    sectionFromDomain(bs.Equity, bs.Currency),
		CurrentEarnings:           domain.FormatAmount(bs.CurrentEarnings, bs.Currency),
		TotalLiabilitiesAndEquity: domain.FormatAmount(bs.TotalLiabilitiesAndEquity, bs.Currency),
		IsBalanced:                bs.IsBalanced,
	}
}

// IncomeStatementFromDomain converts an income statement.
func IncomeStatementFromDomain(is *domain.IncomeStatement) *IncomeStatementResponse {
	return &IncomeStatementResponse{
		CompanyID:    is.CompanyID,
		FiscalYear:   is.FiscalYear,
		FiscalPeriod: is.FiscalPeriod,
		Currency:     is.Currency,
		Revenue:      sectionFromDomain(is.Revenue, is.Currency),
		Expenses:     sectionFromDomain(is.Expenses, is.Currency),
		NetIncome:    domain.FormatAmount(is.NetIncome, is.Currency),
	}
}

// ErrorResponse represents an error in API responses.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message,omitempty"`
	Fields  map[string]string `json:"fields,omitempty"`
}

// FormErrorResponse is returned when a journal entry form fails validation.
type FormErrorResponse struct {
	Error  string            `json:"error"`
	Errors domain.FormErrors `json:"errors"`
}

func formatDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(DateLayout)
	return &s
}
