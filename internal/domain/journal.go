package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// EntryType describes why a journal entry was recorded.
type EntryType string

const (
	EntryTypeStandard    EntryType = "STANDARD"
	EntryTypeAdjusting   EntryType = "ADJUSTING"
	EntryTypeClosing     EntryType = "CLOSING"
	EntryTypeOpening     EntryType = "OPENING"
	EntryTypeReversing   EntryType = "REVERSING"
	EntryTypeRecurring   EntryType = "RECURRING"
	EntryTypeElimination EntryType = "ELIMINATION"
)

// SourceModule names the subsystem that originated a journal entry.
type SourceModule string

const (
	SourceModuleGeneralLedger      SourceModule = "GENERAL_LEDGER"
	SourceModuleAccountsPayable    SourceModule = "ACCOUNTS_PAYABLE"
	SourceModuleAccountsReceivable SourceModule = "ACCOUNTS_RECEIVABLE"
	SourceModuleCashManagement     SourceModule = "CASH_MANAGEMENT"
	SourceModulePayroll            SourceModule = "PAYROLL"
	SourceModuleInventory          SourceModule = "INVENTORY"
	SourceModuleFixedAssets        SourceModule = "FIXED_ASSETS"
)

// JournalEntryStatus is the approval workflow state of a persisted entry.
type JournalEntryStatus string

const (
	StatusDraft           JournalEntryStatus = "DRAFT"
	StatusPendingApproval JournalEntryStatus = "PENDING_APPROVAL"
	StatusApproved        JournalEntryStatus = "APPROVED"
	StatusPosted          JournalEntryStatus = "POSTED"
	StatusReversed        JournalEntryStatus = "REVERSED"
)

var allowedTransitions = map[JournalEntryStatus][]JournalEntryStatus{
	StatusDraft:           {StatusPendingApproval},
	StatusPendingApproval: {StatusApproved, StatusDraft},
	StatusApproved:        {StatusPosted},
	StatusPosted:          {StatusReversed},
}

// CanTransitionTo reports whether the workflow allows moving to next.
func (s JournalEntryStatus) CanTransitionTo(next JournalEntryStatus) bool {
	for _, allowed := range allowedTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// JournalLine is a persisted debit or credit against one account.
// Exactly one of Debit and Credit is non-zero.
type JournalLine struct {
	ID             string
	JournalEntryID string
	LineNumber     int
	AccountID      string
	Debit          decimal.Decimal
	Credit         decimal.Decimal
	CurrencyCode   string
	Memo           string
}

// JournalEntry is a persisted, normalized journal entry.
type JournalEntry struct {
	ID                string
	CompanyID         string
	EntryNumber       int64
	Description       string
	TransactionDate   time.Time
	DocumentDate      *time.Time
	FiscalYear        int
	FiscalPeriod      int
	EntryType         EntryType
	SourceModule      SourceModule
	ReferenceNumber   string
	SourceDocumentRef string
	Status            JournalEntryStatus
	TotalDebits       decimal.Decimal
	TotalCredits      decimal.Decimal
	Lines             []JournalLine
	CreatedBy         string
	ApprovedBy        *string
	RejectionReason   string
	ReversalOfID      *string
	ReversedByID      *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
	ApprovedAt        *time.Time
	PostedAt          *time.Time
}

// TransitionTo moves the entry through the approval workflow.
func (e *JournalEntry) TransitionTo(next JournalEntryStatus, at time.Time) error {
	if !e.Status.CanTransitionTo(next) {
		return fmt.Errorf("%w: %s -> %s", ErrInvalidStatusTransition, e.Status, next)
	}

	e.Status = next
	e.UpdatedAt = at

	switch next {
	case StatusApproved:
		e.ApprovedAt = &at
	case StatusPosted:
		e.PostedAt = &at
	}

	return nil
}

// IsEditable reports whether header and lines may still change.
func (e *JournalEntry) IsEditable() bool {
	return e.Status == StatusDraft
}

// Reversal builds the mirror entry of a posted entry: every debit becomes a
// credit and vice versa. IDs and numbering are left to the caller.
func (e *JournalEntry) Reversal(date time.Time, createdBy string) *JournalEntry {
	lines := make([]JournalLine, len(e.Lines))
	for i, l := range e.Lines {
		lines[i] = JournalLine{
			LineNumber:   l.LineNumber,
			AccountID:    l.AccountID,
			Debit:        l.Credit,
			Credit:       l.Debit,
			CurrencyCode: l.CurrencyCode,
			Memo:         l.Memo,
		}
	}

	originalID := e.ID
	year, period := FiscalPeriodOf(date)

	return &JournalEntry{
		CompanyID:         e.CompanyID,
		Description:       "Reversal of: " + e.Description,
		TransactionDate:   date,
		FiscalYear:        year,
		FiscalPeriod:      period,
		EntryType:         EntryTypeReversing,
		SourceModule:      e.SourceModule,
		ReferenceNumber:   e.ReferenceNumber,
		SourceDocumentRef: e.SourceDocumentRef,
		Status:            StatusPosted,
		TotalDebits:       e.TotalCredits,
		TotalCredits:      e.TotalDebits,
		Lines:             lines,
		CreatedBy:         createdBy,
		ReversalOfID:      &originalID,
	}
}

// FiscalPeriodOf maps a calendar date to a calendar-year fiscal period.
func FiscalPeriodOf(date time.Time) (year, period int) {
	return date.Year(), int(date.Month())
}
