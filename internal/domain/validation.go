package domain

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/currency"
)

// Validation errors
var (
	ErrInvalidAccountName = errors.New("invalid account name")
	ErrInvalidCompanyName = errors.New("invalid company name")
	ErrInvalidCurrency    = errors.New("invalid currency code")
)

// Validation constants
const (
	MaxAccountNameLength   = 255
	MaxAccountNumberLength = 32
	MinFiscalYear          = 1900
	MaxFiscalYear          = 2999
	MinFiscalPeriod        = 1
	MaxFiscalPeriod        = 13 // 13 is the year-end adjusting period
)

// Form validation messages.
const (
	MsgDescriptionRequired     = "Description is required"
	MsgTransactionDateRequired = "Transaction date is required"
	MsgFiscalYearRange         = "Fiscal year must be between 1900 and 2999"
	MsgFiscalPeriodRange       = "Fiscal period must be between 1 and 13"
	MsgTooFewLines             = "At least 2 lines are required"
	MsgAccountRequired         = "Account is required"
	MsgAmountRequired          = "Enter either a debit or a credit amount"
	MsgAmountBothSet           = "A line cannot have both a debit and a credit amount"
	MsgCurrencyMismatch        = "Line currency must match the entry currency"
	msgUnbalancedFormat        = "Entry is not balanced. Difference: %s"
)

// LineError holds the problems found on a single form line.
type LineError struct {
	LineID   string `json:"line_id"`
	Account  string `json:"account,omitempty"`
	Amount   string `json:"amount,omitempty"`
	Currency string `json:"currency,omitempty"`
}

// FormErrors is the full report produced by ValidateForm.
type FormErrors struct {
	Description     string      `json:"description,omitempty"`
	TransactionDate string      `json:"transaction_date,omitempty"`
	FiscalYear      string      `json:"fiscal_year,omitempty"`
	FiscalPeriod    string      `json:"fiscal_period,omitempty"`
	Lines           string      `json:"lines,omitempty"`
	Balance         string      `json:"balance,omitempty"`
	LineErrors      []LineError `json:"line_errors"`
}

// HasValidationErrors reports whether the report contains any error.
func HasValidationErrors(errs FormErrors) bool {
	return errs.Description != "" ||
		errs.TransactionDate != "" ||
		errs.FiscalYear != "" ||
		errs.FiscalPeriod != "" ||
		errs.Lines != "" ||
		errs.Balance != "" ||
		len(errs.LineErrors) > 0
}

// ValidateForm checks a journal entry form before submission. Every rule is
// evaluated so the report lists all violations at once.
func ValidateForm(state JournalEntryFormState) FormErrors {
	errs := FormErrors{LineErrors: []LineError{}}

	if strings.TrimSpace(state.Description) == "" {
		errs.Description = MsgDescriptionRequired
	}

	if state.TransactionDate == nil {
		errs.TransactionDate = MsgTransactionDateRequired
	}

	if state.FiscalYear < MinFiscalYear || state.FiscalYear > MaxFiscalYear {
		errs.FiscalYear = MsgFiscalYearRange
	}

	if state.FiscalPeriod < MinFiscalPeriod || state.FiscalPeriod > MaxFiscalPeriod {
		errs.FiscalPeriod = MsgFiscalPeriodRange
	}

	if len(state.Lines) < MinJournalLines {
		errs.Lines = MsgTooFewLines
	}

	entryCurrency := state.currencyCode
	if entryCurrency == "" {
		entryCurrency = displayCurrency(state.Lines)
	}

	for _, line := range state.Lines {
		lineErr := LineError{LineID: line.ID}

		if line.AccountID == nil {
			lineErr.Account = MsgAccountRequired
		}

		hasDebit, hasCredit := line.HasDebit(), line.HasCredit()
		switch {
		case !hasDebit && !hasCredit:
			lineErr.Amount = MsgAmountRequired
		case hasDebit && hasCredit:
			lineErr.Amount = MsgAmountBothSet
		}

		if line.CurrencyCode != "" && !strings.EqualFold(line.CurrencyCode, entryCurrency) {
			lineErr.Currency = MsgCurrencyMismatch
		}

		if lineErr.Account != "" || lineErr.Amount != "" || lineErr.Currency != "" {
			errs.LineErrors = append(errs.LineErrors, lineErr)
		}
	}

	if balance := CalculateRunningBalance(state.Lines); !balance.IsBalanced {
		errs.Balance = fmt.Sprintf(msgUnbalancedFormat, balance.FormattedBalance)
	}

	return errs
}

// FormValidationError carries a non-empty FormErrors report as an error.
type FormValidationError struct {
	Errors FormErrors
}

func (e *FormValidationError) Error() string {
	var fields []string
	if e.Errors.Description != "" {
		fields = append(fields, "description")
	}
	if e.Errors.TransactionDate != "" {
		fields = append(fields, "transaction_date")
	}
	if e.Errors.FiscalYear != "" {
		fields = append(fields, "fiscal_year")
	}
	if e.Errors.FiscalPeriod != "" {
		fields = append(fields, "fiscal_period")
	}
	if e.Errors.Lines != "" {
		fields = append(fields, "lines")
	}
	if e.Errors.Balance != "" {
		fields = append(fields, "balance")
	}
	if n := len(e.Errors.LineErrors); n > 0 {
		fields = append(fields, fmt.Sprintf("%d line(s)", n))
	}
	return fmt.Sprintf("%s: %s", ErrValidation, strings.Join(fields, ", "))
}

func (e *FormValidationError) Unwrap() error {
	return ErrValidation
}

// ValidateAccountName validates account name
func ValidateAccountName(name string) error {
	name = strings.TrimSpace(name)

	if name == "" {
		return fmt.Errorf("%w: name cannot be empty", ErrInvalidAccountName)
	}

	if len(name) > MaxAccountNameLength {
		return fmt.Errorf("%w: name exceeds %d characters", ErrInvalidAccountName, MaxAccountNameLength)
	}

	return nil
}

// ValidateAccountNumber validates an account number: non-empty, no spaces.
func ValidateAccountNumber(number string) error {
	if number == "" || strings.TrimSpace(number) != number {
		return fmt.Errorf("%w: %q", ErrInvalidAccountNumber, number)
	}

	if len(number) > MaxAccountNumberLength {
		return fmt.Errorf("%w: exceeds %d characters", ErrInvalidAccountNumber, MaxAccountNumberLength)
	}

	if strings.ContainsAny(number, " \t") {
		return fmt.Errorf("%w: must not contain whitespace", ErrInvalidAccountNumber)
	}

	return nil
}

// ValidateCurrency validates an ISO 4217 currency code.
func ValidateCurrency(code string) error {
	code = strings.ToUpper(strings.TrimSpace(code))
	if len(code) != 3 {
		return fmt.Errorf("%w: %q must be 3 letters", ErrInvalidCurrency, code)
	}

	if _, err := currency.ParseISO(code); err != nil {
		return fmt.Errorf("%w: %s is not a valid ISO 4217 currency code", ErrInvalidCurrency, code)
	}

	return nil
}

// ValidatePagination validates and limits pagination parameters
func ValidatePagination(limit, offset int) (int, int) {
	const MaxPageSize = 100
	const DefaultPageSize = 20

	if limit <= 0 {
		limit = DefaultPageSize
	}

	if limit > MaxPageSize {
		limit = MaxPageSize
	}

	if offset < 0 {
		offset = 0
	}

	return limit, offset
}
