package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MinJournalLines is the smallest number of lines a postable entry can have.
const MinJournalLines = 2

// JournalEntryLine is one editable row of a journal entry form. Amounts are
// kept as the raw text the user typed.
type JournalEntryLine struct {
	ID           string
	LineNumber   int
	AccountID    *string
	DebitAmount  string
	CreditAmount string
	CurrencyCode string
	Memo         string
}

// HasDebit reports whether the debit field holds any non-blank text.
func (l JournalEntryLine) HasDebit() bool {
	return strings.TrimSpace(l.DebitAmount) != ""
}

// HasCredit reports whether the credit field holds any non-blank text.
func (l JournalEntryLine) HasCredit() bool {
	return strings.TrimSpace(l.CreditAmount) != ""
}

// JournalEntryFormState is the in-progress state of a journal entry being
// edited. It is owned by a single editing session.
type JournalEntryFormState struct {
	Description       string
	TransactionDate   *time.Time
	DocumentDate      *time.Time
	FiscalYear        int
	FiscalPeriod      int
	EntryType         EntryType
	SourceModule      SourceModule
	ReferenceNumber   string
	SourceDocumentRef string
	Lines             []JournalEntryLine

	IsSubmitting bool
	ErrorMessage string

	currencyCode string
	newID        func() string
}

// FormOption customizes a new form state.
type FormOption func(*JournalEntryFormState)

// WithLineIDGenerator replaces the UUID generator used for new lines.
func WithLineIDGenerator(gen func() string) FormOption {
	return func(s *JournalEntryFormState) {
		s.newID = gen
	}
}

// WithToday seeds the transaction date and fiscal year/period from a date.
func WithToday(today time.Time) FormOption {
	return func(s *JournalEntryFormState) {
		d := today
		s.TransactionDate = &d
		s.FiscalYear, s.FiscalPeriod = FiscalPeriodOf(d)
	}
}

// NewFormState returns an empty form with two blank lines in the given
// functional currency.
func NewFormState(currencyCode string, opts ...FormOption) *JournalEntryFormState {
	s := &JournalEntryFormState{
		EntryType:    EntryTypeStandard,
		SourceModule: SourceModuleGeneralLedger,
		currencyCode: strings.ToUpper(strings.TrimSpace(currencyCode)),
		newID:        uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	for i := 0; i < MinJournalLines; i++ {
		s.AddLine()
	}

	return s
}

// FormStateFromEntry hydrates an editable form from a persisted entry.
func FormStateFromEntry(entry *JournalEntry, currencyCode string, opts ...FormOption) *JournalEntryFormState {
	s := &JournalEntryFormState{
		Description:       entry.Description,
		DocumentDate:      entry.DocumentDate,
		FiscalYear:        entry.FiscalYear,
		FiscalPeriod:      entry.FiscalPeriod,
		EntryType:         entry.EntryType,
		SourceModule:      entry.SourceModule,
		ReferenceNumber:   entry.ReferenceNumber,
		SourceDocumentRef: entry.SourceDocumentRef,
		currencyCode:      strings.ToUpper(strings.TrimSpace(currencyCode)),
		newID:             uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	date := entry.TransactionDate
	s.TransactionDate = &date

	s.Lines = make([]JournalEntryLine, 0, len(entry.Lines))
	for _, l := range entry.Lines {
		accountID := l.AccountID
		line := JournalEntryLine{
			ID:           l.ID,
			AccountID:    &accountID,
			CurrencyCode: l.CurrencyCode,
			Memo:         l.Memo,
		}
		if line.ID == "" {
			line.ID = s.newID()
		}
		if !l.Debit.IsZero() {
			line.DebitAmount = l.Debit.String()
		}
		if !l.Credit.IsZero() {
			line.CreditAmount = l.Credit.String()
		}
		s.Lines = append(s.Lines, line)
	}
	s.renumber()

	return s
}

// CurrencyCode is the currency new lines are created in.
func (s *JournalEntryFormState) CurrencyCode() string {
	return s.currencyCode
}

// AddLine appends a blank line and returns it.
func (s *JournalEntryFormState) AddLine() JournalEntryLine {
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.currencyCode == "" && len(s.Lines) > 0 {
		s.currencyCode = s.Lines[0].CurrencyCode
	}

	line := JournalEntryLine{
		ID:           s.newID(),
		LineNumber:   len(s.Lines) + 1,
		CurrencyCode: s.currencyCode,
	}
	s.Lines = append(s.Lines, line)

	return line
}

// RemoveLine deletes a line and renumbers the rest.
func (s *JournalEntryFormState) RemoveLine(id string) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrLineNotFound, id)
	}

	s.Lines = append(s.Lines[:idx], s.Lines[idx+1:]...)
	s.renumber()

	return nil
}

// MoveLine moves a line to position to (0-based, clamped) and renumbers.
func (s *JournalEntryFormState) MoveLine(id string, to int) error {
	from := s.indexOf(id)
	if from < 0 {
		return fmt.Errorf("%w: %s", ErrLineNotFound, id)
	}

	if to < 0 {
		to = 0
	}
	if to >= len(s.Lines) {
		to = len(s.Lines) - 1
	}

	line := s.Lines[from]
	s.Lines = append(s.Lines[:from], s.Lines[from+1:]...)
	s.Lines = append(s.Lines[:to], append([]JournalEntryLine{line}, s.Lines[to:]...)...)
	s.renumber()

	return nil
}

// UpdateLine applies edit to a line. Identity, position and currency are
// owned by the form and survive the edit unchanged.
func (s *JournalEntryFormState) UpdateLine(id string, edit func(*JournalEntryLine)) error {
	idx := s.indexOf(id)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrLineNotFound, id)
	}

	orig := s.Lines[idx]
	line := orig
	edit(&line)
	line.ID = orig.ID
	line.LineNumber = orig.LineNumber
	line.CurrencyCode = orig.CurrencyCode
	s.Lines[idx] = line

	return nil
}

// RunningBalance recomputes the live totals for the current lines.
func (s *JournalEntryFormState) RunningBalance() RunningBalance {
	return CalculateRunningBalance(s.Lines)
}

func (s *JournalEntryFormState) indexOf(id string) int {
	for i, l := range s.Lines {
		if l.ID == id {
			return i
		}
	}
	return -1
}

func (s *JournalEntryFormState) renumber() {
	for i := range s.Lines {
		s.Lines[i].LineNumber = i + 1
	}
}

// ToNormalizedEntry converts a form that passed ValidateForm into the
// normalized entry payload: trimmed text, parsed amounts and totals. Amount
// text that is present but not a number is rejected here.
func (s *JournalEntryFormState) ToNormalizedEntry(companyID string) (*JournalEntry, error) {
	if s.TransactionDate == nil {
		return nil, fmt.Errorf("%w: transaction date is required", ErrValidation)
	}

	entry := &JournalEntry{
		CompanyID:         companyID,
		Description:       strings.TrimSpace(s.Description),
		TransactionDate:   *s.TransactionDate,
		DocumentDate:      s.DocumentDate,
		FiscalYear:        s.FiscalYear,
		FiscalPeriod:      s.FiscalPeriod,
		EntryType:         s.EntryType,
		SourceModule:      s.SourceModule,
		ReferenceNumber:   strings.TrimSpace(s.ReferenceNumber),
		SourceDocumentRef: strings.TrimSpace(s.SourceDocumentRef),
		Status:            StatusDraft,
		TotalDebits:       decimal.Zero,
		TotalCredits:      decimal.Zero,
	}
	if entry.EntryType == "" {
		entry.EntryType = EntryTypeStandard
	}
	if entry.SourceModule == "" {
		entry.SourceModule = SourceModuleGeneralLedger
	}

	entry.Lines = make([]JournalLine, 0, len(s.Lines))
	for i, l := range s.Lines {
		if l.AccountID == nil {
			return nil, fmt.Errorf("%w: line %d has no account", ErrValidation, i+1)
		}

		line := JournalLine{
			LineNumber:   i + 1,
			AccountID:    *l.AccountID,
			Debit:        decimal.Zero,
			Credit:       decimal.Zero,
			CurrencyCode: l.CurrencyCode,
			Memo:         strings.TrimSpace(l.Memo),
		}

		var err error
		if l.HasDebit() {
			line.Debit, err = ParseAmountStrict(l.DebitAmount)
		} else {
			line.Credit, err = ParseAmountStrict(l.CreditAmount)
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		if line.Debit.IsNegative() || line.Credit.IsNegative() {
			return nil, fmt.Errorf("line %d: %w: amount must not be negative", i+1, ErrInvalidAmount)
		}

		entry.TotalDebits = entry.TotalDebits.Add(line.Debit)
		entry.TotalCredits = entry.TotalCredits.Add(line.Credit)
		entry.Lines = append(entry.Lines, line)
	}

	if !entry.TotalDebits.Equal(entry.TotalCredits) {
		return nil, fmt.Errorf("%w: debits (%s) != credits (%s)", ErrValidation, entry.TotalDebits, entry.TotalCredits)
	}

	return entry, nil
}
