package usecase

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/accountability/ledger/internal/domain"
)

// JournalEntryUseCase handles journal entry editing and the approval workflow.
type JournalEntryUseCase struct {
	txManager   TransactionManager
	retrier     Retrier
	companyRepo CompanyRepository
	accountRepo AccountRepository
	entryRepo   JournalEntryRepository
	idGen       IDGenerator
	opts        options
}

// NewJournalEntryUseCase creates a new JournalEntryUseCase. A nil retrier
// runs every transaction once.
func NewJournalEntryUseCase(
	txManager TransactionManager,
	retrier Retrier,
	companyRepo CompanyRepository,
	accountRepo AccountRepository,
	entryRepo JournalEntryRepository,
	idGen IDGenerator,
	opts ...Option,
) *JournalEntryUseCase {
	if retrier == nil {
		retrier = runOnce{}
	}

	return &JournalEntryUseCase{
		txManager:   txManager,
		retrier:     retrier,
		companyRepo: companyRepo,
		accountRepo: accountRepo,
		entryRepo:   entryRepo,
		idGen:       idGen,
		opts:        buildOptions(opts),
	}
}

// NewForm returns a blank form in the company's functional currency.
func (uc *JournalEntryUseCase) NewForm(ctx context.Context, companyID string) (*domain.JournalEntryFormState, error) {
	company, err := uc.companyRepo.GetByID(ctx, companyID)
	if err != nil {
		return nil, err
	}

	return domain.NewFormState(company.FunctionalCurrency, domain.WithToday(time.Now().UTC())), nil
}

// CalculateBalance recomputes the running totals for a set of form lines.
func (uc *JournalEntryUseCase) CalculateBalance(lines []domain.JournalEntryLine) domain.RunningBalance {
	return domain.CalculateRunningBalance(lines)
}

// ValidateForm runs the submission checks without persisting anything.
func (uc *JournalEntryUseCase) ValidateForm(state domain.JournalEntryFormState) domain.FormErrors {
	errs := domain.ValidateForm(state)
	if domain.HasValidationErrors(errs) {
		uc.opts.metrics.FormValidationFailed()
	}
	return errs
}

// CreateJournalEntryInput represents input for creating a draft entry.
type CreateJournalEntryInput struct {
	CompanyID string
	CreatedBy string
	Form      domain.JournalEntryFormState
}

// CreateJournalEntry validates a form and stores it as a DRAFT entry.
func (uc *JournalEntryUseCase) CreateJournalEntry(ctx context.Context, input CreateJournalEntryInput) (*domain.JournalEntry, error) {
	company, err := uc.companyRepo.GetByID(ctx, input.CompanyID)
	if err != nil {
		return nil, err
	}

	entry, err := uc.normalize(ctx, company, input.Form)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	entry.ID = uc.idGen.Generate()
	entry.CreatedBy = input.CreatedBy
	entry.CreatedAt = now
	entry.UpdatedAt = now
	uc.assignLineIDs(entry)

	err = uc.inTx(ctx, func(tx Transaction) error {
		return uc.entryRepo.Create(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}

	uc.opts.metrics.JournalEntryTransition(domain.StatusDraft)

	return entry, nil
}

// UpdateJournalEntryInput represents input for replacing a draft entry.
type UpdateJournalEntryInput struct {
	ID   string
	Form domain.JournalEntryFormState
}

// UpdateJournalEntry replaces the header and lines of a DRAFT entry.
func (uc *JournalEntryUseCase) UpdateJournalEntry(ctx context.Context, input UpdateJournalEntryInput) (*domain.JournalEntry, error) {
	existing, err := uc.entryRepo.GetByID(ctx, input.ID)
	if err != nil {
		return nil, err
	}
	if !existing.IsEditable() {
		return nil, fmt.Errorf("%w: status %s", domain.ErrEntryNotEditable, existing.Status)
	}

	company, err := uc.companyRepo.GetByID(ctx, existing.CompanyID)
	if err != nil {
		return nil, err
	}

	normalized, err := uc.normalize(ctx, company, input.Form)
	if err != nil {
		return nil, err
	}

	var updated *domain.JournalEntry

	err = uc.inTx(ctx, func(tx Transaction) error {
		current, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, input.ID)
		if err != nil {
			return err
		}
		if !current.IsEditable() {
			return fmt.Errorf("%w: status %s", domain.ErrEntryNotEditable, current.Status)
		}

		normalized.ID = current.ID
		normalized.EntryNumber = current.EntryNumber
		normalized.CreatedBy = current.CreatedBy
		normalized.CreatedAt = current.CreatedAt
		normalized.RejectionReason = current.RejectionReason
		normalized.UpdatedAt = time.Now().UTC()
		uc.assignLineIDs(normalized)

		if err := uc.entryRepo.Update(ctx, tx, normalized); err != nil {
			return err
		}

		updated = normalized
		return nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// GetJournalEntry retrieves an entry with its lines.
func (uc *JournalEntryUseCase) GetJournalEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.entryRepo.GetByID(ctx, id)
}

// GetJournalEntryForm loads an entry as an editable form.
func (uc *JournalEntryUseCase) GetJournalEntryForm(ctx context.Context, id string) (*domain.JournalEntryFormState, error) {
	entry, err := uc.entryRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	company, err := uc.companyRepo.GetByID(ctx, entry.CompanyID)
	if err != nil {
		return nil, err
	}

	return domain.FormStateFromEntry(entry, company.FunctionalCurrency), nil
}

// ListJournalEntriesInput represents input for listing entries.
type ListJournalEntriesInput struct {
	CompanyID string
	Status    *domain.JournalEntryStatus
	Limit     int
	Offset    int
}

// ListJournalEntries lists a company's entries, newest first.
func (uc *JournalEntryUseCase) ListJournalEntries(ctx context.Context, input ListJournalEntriesInput) ([]*domain.JournalEntry, error) {
	if _, err := uc.companyRepo.GetByID(ctx, input.CompanyID); err != nil {
		return nil, err
	}

	limit, offset := domain.ValidatePagination(input.Limit, input.Offset)

	return uc.entryRepo.List(ctx, JournalEntryFilter{
		CompanyID: input.CompanyID,
		Status:    input.Status,
		Limit:     limit,
		Offset:    offset,
	})
}

// SubmitJournalEntry sends a draft for approval.
func (uc *JournalEntryUseCase) SubmitJournalEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.transition(ctx, id, func(entry *domain.JournalEntry, now time.Time) error {
		return entry.TransitionTo(domain.StatusPendingApproval, now)
	})
}

// ApproveJournalEntry approves an entry awaiting approval.
func (uc *JournalEntryUseCase) ApproveJournalEntry(ctx context.Context, id, approvedBy string) (*domain.JournalEntry, error) {
	return uc.transition(ctx, id, func(entry *domain.JournalEntry, now time.Time) error {
		if err := entry.TransitionTo(domain.StatusApproved, now); err != nil {
			return err
		}
		approver := approvedBy
		entry.ApprovedBy = &approver
		entry.RejectionReason = ""
		return nil
	})
}

// RejectJournalEntry sends an entry awaiting approval back to draft.
func (uc *JournalEntryUseCase) RejectJournalEntry(ctx context.Context, id, reason string) (*domain.JournalEntry, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, domain.ErrRejectionReasonRequired
	}

	return uc.transition(ctx, id, func(entry *domain.JournalEntry, now time.Time) error {
		if err := entry.TransitionTo(domain.StatusDraft, now); err != nil {
			return err
		}
		entry.RejectionReason = reason
		entry.ApprovedBy = nil
		entry.ApprovedAt = nil
		return nil
	})
}

// PostJournalEntry posts an approved entry to the ledger.
func (uc *JournalEntryUseCase) PostJournalEntry(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return uc.transition(ctx, id, func(entry *domain.JournalEntry, now time.Time) error {
		return entry.TransitionTo(domain.StatusPosted, now)
	})
}

// ReverseJournalEntryInput represents input for reversing a posted entry.
type ReverseJournalEntryInput struct {
	ID           string
	ReversalDate *time.Time
	CreatedBy    string
}

// ReverseJournalEntry marks a posted entry REVERSED and posts its mirror
// entry. The new reversing entry is returned.
func (uc *JournalEntryUseCase) ReverseJournalEntry(ctx context.Context, input ReverseJournalEntryInput) (*domain.JournalEntry, error) {
	var reversal *domain.JournalEntry

	err := uc.inTx(ctx, func(tx Transaction) error {
		original, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, input.ID)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		if err := original.TransitionTo(domain.StatusReversed, now); err != nil {
			return err
		}

		date := now
		if input.ReversalDate != nil {
			date = *input.ReversalDate
		}

		rev := original.Reversal(date, input.CreatedBy)
		rev.ID = uc.idGen.Generate()
		rev.CreatedAt = now
		rev.UpdatedAt = now
		rev.PostedAt = &now
		uc.assignLineIDs(rev)

		if err := uc.entryRepo.Create(ctx, tx, rev); err != nil {
			return err
		}

		original.ReversedByID = &rev.ID
		if err := uc.entryRepo.UpdateStatus(ctx, tx, original); err != nil {
			return err
		}

		reversal = rev
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.opts.metrics.JournalEntryTransition(domain.StatusReversed)

	return reversal, nil
}

func (uc *JournalEntryUseCase) transition(
	ctx context.Context,
	id string,
	apply func(entry *domain.JournalEntry, now time.Time) error,
) (*domain.JournalEntry, error) {
	var result *domain.JournalEntry

	err := uc.inTx(ctx, func(tx Transaction) error {
		entry, err := uc.entryRepo.GetByIDForUpdate(ctx, tx, id)
		if err != nil {
			return err
		}

		if err := apply(entry, time.Now().UTC()); err != nil {
			return err
		}

		if err := uc.entryRepo.UpdateStatus(ctx, tx, entry); err != nil {
			return err
		}

		result = entry
		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.opts.metrics.JournalEntryTransition(result.Status)

	return result, nil
}

// normalize validates the form, converts it and checks every referenced
// account against the company.
func (uc *JournalEntryUseCase) normalize(ctx context.Context, company *domain.Company, form domain.JournalEntryFormState) (*domain.JournalEntry, error) {
	if errs := domain.ValidateForm(form); domain.HasValidationErrors(errs) {
		uc.opts.metrics.FormValidationFailed()
		return nil, &domain.FormValidationError{Errors: errs}
	}

	entry, err := form.ToNormalizedEntry(company.ID)
	if err != nil {
		return nil, err
	}

	for i := range entry.Lines {
		code := entry.Lines[i].CurrencyCode
		if code != "" && !strings.EqualFold(code, company.FunctionalCurrency) {
			return nil, fmt.Errorf("%w: line %d is in %s, company currency is %s",
				domain.ErrInvalidCurrency, i+1, code, company.FunctionalCurrency)
		}
		entry.Lines[i].CurrencyCode = company.FunctionalCurrency
	}

	if err := uc.checkAccounts(ctx, company.ID, entry.Lines); err != nil {
		return nil, err
	}

	return entry, nil
}

func (uc *JournalEntryUseCase) checkAccounts(ctx context.Context, companyID string, lines []domain.JournalLine) error {
	seen := make(map[string]bool, len(lines))
	ids := make([]string, 0, len(lines))
	for _, l := range lines {
		if !seen[l.AccountID] {
			seen[l.AccountID] = true
			ids = append(ids, l.AccountID)
		}
	}
	sort.Strings(ids)

	accounts, err := uc.accountRepo.GetByIDs(ctx, ids)
	if err != nil {
		return err
	}

	byID := make(map[string]*domain.Account, len(accounts))
	for _, a := range accounts {
		byID[a.ID] = a
	}

	for _, id := range ids {
		account, ok := byID[id]
		switch {
		case !ok:
			return fmt.Errorf("%w: %s", domain.ErrAccountNotFound, id)
		case account.CompanyID != companyID:
			return fmt.Errorf("%w: %s", domain.ErrAccountCompany, account.AccountNumber)
		case !account.IsActive:
			return fmt.Errorf("%w: %s", domain.ErrAccountInactive, account.AccountNumber)
		}
	}

	return nil
}

func (uc *JournalEntryUseCase) assignLineIDs(entry *domain.JournalEntry) {
	for i := range entry.Lines {
		entry.Lines[i].ID = uc.idGen.Generate()
		entry.Lines[i].JournalEntryID = entry.ID
		entry.Lines[i].LineNumber = i + 1
	}
}

// inTx runs fn inside a transaction under the retrier. Each attempt gets a
// fresh transaction.
func (uc *JournalEntryUseCase) inTx(ctx context.Context, fn func(tx Transaction) error) error {
	ctx, cancel := context.WithTimeout(ctx, DefaultTransactionTimeout)
	defer cancel()

	return uc.retrier.Retry(ctx, func() error {
		tx, err := uc.txManager.Begin(ctx)
		if err != nil {
			return err
		}
		defer tx.Rollback(ctx)

		if err := fn(tx); err != nil {
			return err
		}

		return tx.Commit(ctx)
	})
}

type runOnce struct{}

func (runOnce) Retry(_ context.Context, operation func() error) error {
	return operation()
}
