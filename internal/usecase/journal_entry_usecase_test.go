package usecase_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/mock/gomock"

	"github.com/accountability/ledger/internal/domain"
	"github.com/accountability/ledger/internal/usecase"
	"github.com/accountability/ledger/internal/usecase/mocks"
)

type journalMocks struct {
	ctrl      *gomock.Controller
	txMgr     *mocks.MockTransactionManager
	companies *mocks.MockCompanyRepository
	accounts  *mocks.MockAccountRepository
	entries   *mocks.MockJournalEntryRepository
	idGen     *mocks.MockIDGenerator
	metrics   *mocks.MockMetricsRecorder
}

func newJournalMocks(t *testing.T) *journalMocks {
	ctrl := gomock.NewController(t)

	m := &journalMocks{
		ctrl:      ctrl,
		txMgr:     mocks.NewMockTransactionManager(ctrl),
		companies: mocks.NewMockCompanyRepository(ctrl),
		accounts:  mocks.NewMockAccountRepository(ctrl),
		entries:   mocks.NewMockJournalEntryRepository(ctrl),
		idGen:     mocks.NewMockIDGenerator(ctrl),
		metrics:   mocks.NewMockMetricsRecorder(ctrl),
	}

	n := 0
	m.idGen.EXPECT().Generate().DoAndReturn(func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}).AnyTimes()

	return m
}

func (m *journalMocks) useCase(retrier usecase.Retrier) *usecase.JournalEntryUseCase {
	return usecase.NewJournalEntryUseCase(m.txMgr, retrier, m.companies, m.accounts, m.entries, m.idGen, usecase.WithMetrics(m.metrics))
}

func (m *journalMocks) expectTx() {
	tx := mocks.NewMockTransaction(m.ctrl)
	m.txMgr.EXPECT().Begin(gomock.Any()).Return(tx, nil)
	tx.EXPECT().Commit(gomock.Any()).Return(nil).MaxTimes(1)
	tx.EXPECT().Rollback(gomock.Any()).Return(nil).AnyTimes()
}

func (m *journalMocks) expectCompany() {
	m.companies.EXPECT().GetByID(gomock.Any(), "co-1").Return(&domain.Company{ID: "co-1", FunctionalCurrency: "USD"}, nil).AnyTimes()
}

func activeAccounts() []*domain.Account {
	return []*domain.Account{
		{ID: "acc-cash", CompanyID: "co-1", AccountNumber: "1010", IsActive: true},
		{ID: "acc-rent", CompanyID: "co-1", AccountNumber: "6100", IsActive: true},
	}
}

func balancedForm(t *testing.T, debit, credit string) domain.JournalEntryFormState {
	t.Helper()

	date := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	form := domain.NewFormState("USD", domain.WithToday(date))
	form.Description = "March rent"

	if err := form.UpdateLine(form.Lines[0].ID, func(l *domain.JournalEntryLine) {
		id := "acc-rent"
		l.AccountID = &id
		l.DebitAmount = debit
	}); err != nil {
		t.Fatalf("update line: %v", err)
	}
	if err := form.UpdateLine(form.Lines[1].ID, func(l *domain.JournalEntryLine) {
		id := "acc-cash"
		l.AccountID = &id
		l.CreditAmount = credit
	}); err != nil {
		t.Fatalf("update line: %v", err)
	}

	return *form
}

func TestJournalEntryUseCase_CreateJournalEntry(t *testing.T) {
	m := newJournalMocks(t)
	m.expectCompany()
	m.expectTx()
	m.accounts.EXPECT().GetByIDs(gomock.Any(), []string{"acc-cash", "acc-rent"}).Return(activeAccounts(), nil)
	m.entries.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, entry *domain.JournalEntry) error {
			entry.EntryNumber = 1
			return nil
		})
	m.metrics.EXPECT().JournalEntryTransition(domain.StatusDraft)

	entry, err := m.useCase(nil).CreateJournalEntry(context.Background(), usecase.CreateJournalEntryInput{
		CompanyID: "co-1",
		CreatedBy: "user-1",
		Form:      balancedForm(t, "1200.00", "1200.00"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.ID == "" || entry.Status != domain.StatusDraft {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if entry.EntryNumber != 1 {
		t.Errorf("expected entry number from repository, got %d", entry.EntryNumber)
	}
	if !entry.TotalDebits.Equal(decimal.NewFromInt(1200)) || !entry.TotalCredits.Equal(decimal.NewFromInt(1200)) {
		t.Errorf("unexpected totals %s/%s", entry.TotalDebits, entry.TotalCredits)
	}
	for i, l := range entry.Lines {
		if l.JournalEntryID != entry.ID || l.ID == "" || l.LineNumber != i+1 {
			t.Errorf("line %d not linked: %+v", i, l)
		}
		if l.CurrencyCode != "USD" {
			t.Errorf("expected USD line, got %q", l.CurrencyCode)
		}
	}
}

func TestJournalEntryUseCase_CreateJournalEntry_ValidationFailure(t *testing.T) {
	m := newJournalMocks(t)
	m.expectCompany()
	m.metrics.EXPECT().FormValidationFailed()

	_, err := m.useCase(nil).CreateJournalEntry(context.Background(), usecase.CreateJournalEntryInput{
		CompanyID: "co-1",
		Form:      balancedForm(t, "100.00", "99.99"),
	})

	var fve *domain.FormValidationError
	if !errors.As(err, &fve) {
		t.Fatalf("expected FormValidationError, got %v", err)
	}
	if fve.Errors.Balance != "Entry is not balanced. Difference: 0.01" {
		t.Errorf("unexpected balance message %q", fve.Errors.Balance)
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("expected error to unwrap to ErrValidation")
	}
}

func TestJournalEntryUseCase_CreateJournalEntry_ForeignCurrencyLines(t *testing.T) {
	m := newJournalMocks(t)
	m.expectCompany()

	date := time.Date(2024, time.March, 31, 0, 0, 0, 0, time.UTC)
	cash, rent := "acc-cash", "acc-rent"
	form := domain.JournalEntryFormState{
		Description:     "March rent",
		TransactionDate: &date,
		FiscalYear:      2024,
		FiscalPeriod:    3,
		Lines: []domain.JournalEntryLine{
			{ID: "l1", LineNumber: 1, AccountID: &rent, DebitAmount: "100", CurrencyCode: "EUR"},
			{ID: "l2", LineNumber: 2, AccountID: &cash, CreditAmount: "100", CurrencyCode: "EUR"},
		},
	}

	_, err := m.useCase(nil).CreateJournalEntry(context.Background(), usecase.CreateJournalEntryInput{
		CompanyID: "co-1",
		CreatedBy: "user-1",
		Form:      form,
	})

	if !errors.Is(err, domain.ErrInvalidCurrency) {
		t.Fatalf("expected ErrInvalidCurrency, got %v", err)
	}
}

func TestJournalEntryUseCase_CreateJournalEntry_MixedCurrencyLines(t *testing.T) {
	m := newJournalMocks(t)
	m.expectCompany()
	m.metrics.EXPECT().FormValidationFailed()

	form := balancedForm(t, "100.40", "100")
	form.Lines[0].CurrencyCode = "JPY"

	_, err := m.useCase(nil).CreateJournalEntry(context.Background(), usecase.CreateJournalEntryInput{
		CompanyID: "co-1",
		Form:      form,
	})

	var fve *domain.FormValidationError
	if !errors.As(err, &fve) {
		t.Fatalf("expected FormValidationError, got %v", err)
	}
	if len(fve.Errors.LineErrors) != 1 || fve.Errors.LineErrors[0].Currency != domain.MsgCurrencyMismatch {
		t.Errorf("expected currency line error, got %+v", fve.Errors.LineErrors)
	}
}

func TestJournalEntryUseCase_CreateJournalEntry_AccountChecks(t *testing.T) {
	tests := []struct {
		name     string
		accounts []*domain.Account
		wantErr  error
	}{
		{
			name:     "missing account",
			accounts: activeAccounts()[:1],
			wantErr:  domain.ErrAccountNotFound,
		},
		{
			name: "inactive account",
			accounts: []*domain.Account{
				{ID: "acc-cash", CompanyID: "co-1", IsActive: true},
				{ID: "acc-rent", CompanyID: "co-1", IsActive: false},
			},
			wantErr: domain.ErrAccountInactive,
		},
		{
			name: "foreign account",
			accounts: []*domain.Account{
				{ID: "acc-cash", CompanyID: "co-1", IsActive: true},
				{ID: "acc-rent", CompanyID: "co-2", IsActive: true},
			},
			wantErr: domain.ErrAccountCompany,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newJournalMocks(t)
			m.expectCompany()
			m.accounts.EXPECT().GetByIDs(gomock.Any(), gomock.Any()).Return(tt.accounts, nil)

			_, err := m.useCase(nil).CreateJournalEntry(context.Background(), usecase.CreateJournalEntryInput{
				CompanyID: "co-1",
				Form:      balancedForm(t, "10", "10"),
			})

			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestJournalEntryUseCase_CreateJournalEntry_RetriesWithFreshTransaction(t *testing.T) {
	m := newJournalMocks(t)
	m.expectCompany()
	m.expectTx()
	m.expectTx()
	m.accounts.EXPECT().GetByIDs(gomock.Any(), gomock.Any()).Return(activeAccounts(), nil)

	transient := errors.New("deadlock")
	gomock.InOrder(
		m.entries.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(transient),
		m.entries.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil),
	)
	m.metrics.EXPECT().JournalEntryTransition(domain.StatusDraft)

	retrier := mocks.NewMockRetrier(m.ctrl)
	retrier.EXPECT().Retry(gomock.Any(), gomock.Any()).DoAndReturn(func(_ context.Context, op func() error) error {
		if err := op(); !errors.Is(err, transient) {
			return err
		}
		return op()
	})

	_, err := m.useCase(retrier).CreateJournalEntry(context.Background(), usecase.CreateJournalEntryInput{
		CompanyID: "co-1",
		Form:      balancedForm(t, "10", "10"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestJournalEntryUseCase_UpdateJournalEntry_NotEditable(t *testing.T) {
	m := newJournalMocks(t)
	m.entries.EXPECT().GetByID(gomock.Any(), "je-1").Return(&domain.JournalEntry{ID: "je-1", CompanyID: "co-1", Status: domain.StatusPosted}, nil)

	_, err := m.useCase(nil).UpdateJournalEntry(context.Background(), usecase.UpdateJournalEntryInput{
		ID:   "je-1",
		Form: balancedForm(t, "10", "10"),
	})

	if !errors.Is(err, domain.ErrEntryNotEditable) {
		t.Fatalf("expected ErrEntryNotEditable, got %v", err)
	}
}

func TestJournalEntryUseCase_UpdateJournalEntry(t *testing.T) {
	m := newJournalMocks(t)
	created := time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC)
	draft := &domain.JournalEntry{ID: "je-1", CompanyID: "co-1", EntryNumber: 7, Status: domain.StatusDraft, CreatedBy: "user-1", CreatedAt: created}

	m.expectCompany()
	m.expectTx()
	m.entries.EXPECT().GetByID(gomock.Any(), "je-1").Return(draft, nil)
	m.entries.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "je-1").Return(draft, nil)
	m.accounts.EXPECT().GetByIDs(gomock.Any(), gomock.Any()).Return(activeAccounts(), nil)
	m.entries.EXPECT().Update(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)

	updated, err := m.useCase(nil).UpdateJournalEntry(context.Background(), usecase.UpdateJournalEntryInput{
		ID:   "je-1",
		Form: balancedForm(t, "55", "55"),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if updated.ID != "je-1" || updated.EntryNumber != 7 || !updated.CreatedAt.Equal(created) {
		t.Fatalf("identity not preserved: %+v", updated)
	}
	if !updated.TotalDebits.Equal(decimal.NewFromInt(55)) {
		t.Errorf("expected totals 55, got %s", updated.TotalDebits)
	}
}

func TestJournalEntryUseCase_Workflow(t *testing.T) {
	tests := []struct {
		name       string
		from       domain.JournalEntryStatus
		run        func(uc *usecase.JournalEntryUseCase) (*domain.JournalEntry, error)
		wantStatus domain.JournalEntryStatus
		wantErr    error
	}{
		{
			name: "submit draft",
			from: domain.StatusDraft,
			run: func(uc *usecase.JournalEntryUseCase) (*domain.JournalEntry, error) {
				return uc.SubmitJournalEntry(context.Background(), "je-1")
			},
			wantStatus: domain.StatusPendingApproval,
		},
		{
			name: "approve pending",
			from: domain.StatusPendingApproval,
			run: func(uc *usecase.JournalEntryUseCase) (*domain.JournalEntry, error) {
				return uc.ApproveJournalEntry(context.Background(), "je-1", "boss")
			},
			wantStatus: domain.StatusApproved,
		},
		{
			name: "reject pending",
			from: domain.StatusPendingApproval,
			run: func(uc *usecase.JournalEntryUseCase) (*domain.JournalEntry, error) {
				return uc.RejectJournalEntry(context.Background(), "je-1", "wrong account")
			},
			wantStatus: domain.StatusDraft,
		},
		{
			name: "post approved",
			from: domain.StatusApproved,
			run: func(uc *usecase.JournalEntryUseCase) (*domain.JournalEntry, error) {
				return uc.PostJournalEntry(context.Background(), "je-1")
			},
			wantStatus: domain.StatusPosted,
		},
		{
			name: "post draft rejected",
			from: domain.StatusDraft,
			run: func(uc *usecase.JournalEntryUseCase) (*domain.JournalEntry, error) {
				return uc.PostJournalEntry(context.Background(), "je-1")
			},
			wantErr: domain.ErrInvalidStatusTransition,
		},
		{
			name: "approve draft rejected",
			from: domain.StatusDraft,
			run: func(uc *usecase.JournalEntryUseCase) (*domain.JournalEntry, error) {
				return uc.ApproveJournalEntry(context.Background(), "je-1", "boss")
			},
			wantErr: domain.ErrInvalidStatusTransition,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newJournalMocks(t)
			m.expectTx()
			m.entries.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "je-1").
				Return(&domain.JournalEntry{ID: "je-1", Status: tt.from}, nil)

			if tt.wantErr == nil {
				m.entries.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
				m.metrics.EXPECT().JournalEntryTransition(tt.wantStatus)
			}

			entry, err := tt.run(m.useCase(nil))

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if entry.Status != tt.wantStatus {
				t.Fatalf("expected %s, got %s", tt.wantStatus, entry.Status)
			}
		})
	}
}

func TestJournalEntryUseCase_ApproveRecordsApprover(t *testing.T) {
	m := newJournalMocks(t)
	m.expectTx()
	m.entries.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "je-1").
		Return(&domain.JournalEntry{ID: "je-1", Status: domain.StatusPendingApproval, RejectionReason: "old"}, nil)
	m.entries.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.metrics.EXPECT().JournalEntryTransition(domain.StatusApproved)

	entry, err := m.useCase(nil).ApproveJournalEntry(context.Background(), "je-1", "controller")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if entry.ApprovedBy == nil || *entry.ApprovedBy != "controller" || entry.ApprovedAt == nil {
		t.Fatalf("approval not recorded: %+v", entry)
	}
	if entry.RejectionReason != "" {
		t.Errorf("expected rejection reason to be cleared")
	}
}

func TestJournalEntryUseCase_RejectRequiresReason(t *testing.T) {
	m := newJournalMocks(t)

	_, err := m.useCase(nil).RejectJournalEntry(context.Background(), "je-1", "   ")

	if !errors.Is(err, domain.ErrRejectionReasonRequired) {
		t.Fatalf("expected ErrRejectionReasonRequired, got %v", err)
	}
}

func TestJournalEntryUseCase_ReverseJournalEntry(t *testing.T) {
	m := newJournalMocks(t)
	m.expectTx()

	original := &domain.JournalEntry{
		ID:           "je-1",
		CompanyID:    "co-1",
		Description:  "Accrual",
		Status:       domain.StatusPosted,
		TotalDebits:  decimal.NewFromInt(40),
		TotalCredits: decimal.NewFromInt(40),
		Lines: []domain.JournalLine{
			{AccountID: "acc-rent", Debit: decimal.NewFromInt(40), Credit: decimal.Zero},
			{AccountID: "acc-cash", Debit: decimal.Zero, Credit: decimal.NewFromInt(40)},
		},
	}

	m.entries.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "je-1").Return(original, nil)
	m.entries.EXPECT().Create(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	m.entries.EXPECT().UpdateStatus(gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ usecase.Transaction, e *domain.JournalEntry) error {
			if e.Status != domain.StatusReversed || e.ReversedByID == nil {
				t.Errorf("original not marked reversed: %+v", e)
			}
			return nil
		})
	m.metrics.EXPECT().JournalEntryTransition(domain.StatusReversed)

	date := time.Date(2024, time.April, 1, 0, 0, 0, 0, time.UTC)
	rev, err := m.useCase(nil).ReverseJournalEntry(context.Background(), usecase.ReverseJournalEntryInput{
		ID:           "je-1",
		ReversalDate: &date,
		CreatedBy:    "user-2",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if rev.ReversalOfID == nil || *rev.ReversalOfID != "je-1" {
		t.Fatalf("expected reversal of je-1")
	}
	if *original.ReversedByID != rev.ID {
		t.Errorf("expected back link to %s", rev.ID)
	}
	if rev.FiscalPeriod != 4 || rev.Status != domain.StatusPosted || rev.PostedAt == nil {
		t.Errorf("unexpected reversal header: %+v", rev)
	}
	if !rev.Lines[0].Credit.Equal(decimal.NewFromInt(40)) {
		t.Errorf("expected swapped line, got %+v", rev.Lines[0])
	}
}

func TestJournalEntryUseCase_ReverseRequiresPosted(t *testing.T) {
	m := newJournalMocks(t)
	m.expectTx()
	m.entries.EXPECT().GetByIDForUpdate(gomock.Any(), gomock.Any(), "je-1").
		Return(&domain.JournalEntry{ID: "je-1", Status: domain.StatusApproved}, nil)

	_, err := m.useCase(nil).ReverseJournalEntry(context.Background(), usecase.ReverseJournalEntryInput{ID: "je-1"})

	if !errors.Is(err, domain.ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
}

func TestJournalEntryUseCase_ListJournalEntries_ClampsPagination(t *testing.T) {
	m := newJournalMocks(t)
	m.expectCompany()

	status := domain.StatusPosted
	m.entries.EXPECT().List(gomock.Any(), usecase.JournalEntryFilter{
		CompanyID: "co-1",
		Status:    &status,
		Limit:     100,
		Offset:    0,
	}).Return([]*domain.JournalEntry{{ID: "je-1"}}, nil)

	entries, err := m.useCase(nil).ListJournalEntries(context.Background(), usecase.ListJournalEntriesInput{
		CompanyID: "co-1",
		Status:    &status,
		Limit:     500,
		Offset:    -1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
}

func TestJournalEntryUseCase_NewFormAndHelpers(t *testing.T) {
	m := newJournalMocks(t)
	m.expectCompany()
	m.metrics.EXPECT().FormValidationFailed()

	uc := m.useCase(nil)

	form, err := uc.NewForm(context.Background(), "co-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(form.Lines) != 2 || form.CurrencyCode() != "USD" || form.TransactionDate == nil {
		t.Fatalf("unexpected blank form: %+v", form)
	}

	if b := uc.CalculateBalance(form.Lines); !b.IsBalanced || b.FormattedBalance != "0.00" {
		t.Errorf("blank form should be balanced at 0.00, got %+v", b)
	}

	errs := uc.ValidateForm(*form)
	if errs.Description == "" || len(errs.LineErrors) != 2 {
		t.Errorf("expected description and line errors, got %+v", errs)
	}
}

func TestJournalEntryUseCase_GetJournalEntryForm(t *testing.T) {
	m := newJournalMocks(t)
	m.expectCompany()
	m.entries.EXPECT().GetByID(gomock.Any(), "je-1").Return(&domain.JournalEntry{
		ID:              "je-1",
		CompanyID:       "co-1",
		Description:     "Rent",
		TransactionDate: time.Date(2024, time.March, 1, 0, 0, 0, 0, time.UTC),
		FiscalYear:      2024,
		FiscalPeriod:    3,
		Lines: []domain.JournalLine{
			{ID: "l1", AccountID: "acc-rent", Debit: decimal.NewFromInt(5), Credit: decimal.Zero, CurrencyCode: "USD"},
			{ID: "l2", AccountID: "acc-cash", Debit: decimal.Zero, Credit: decimal.NewFromInt(5), CurrencyCode: "USD"},
		},
	}, nil)

	form, err := m.useCase(nil).GetJournalEntryForm(context.Background(), "je-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if form.Lines[0].DebitAmount != "5" || form.Lines[1].CreditAmount != "5" {
		t.Fatalf("unexpected hydrated lines: %+v", form.Lines)
	}
	if domain.HasValidationErrors(domain.ValidateForm(*form)) {
		t.Errorf("hydrated form should validate")
	}
}
