package domain

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestJournalEntryStatus_CanTransitionTo(t *testing.T) {
	tests := []struct {
		from JournalEntryStatus
		to   JournalEntryStatus
		want bool
	}{
		{StatusDraft, StatusPendingApproval, true},
		{StatusDraft, StatusApproved, false},
		{StatusDraft, StatusPosted, false},
		{StatusPendingApproval, StatusApproved, true},
		{StatusPendingApproval, StatusDraft, true},
		{StatusPendingApproval, StatusPosted, false},
		{StatusApproved, StatusPosted, true},
		{StatusApproved, StatusDraft, false},
		{StatusPosted, StatusReversed, true},
		{StatusPosted, StatusDraft, false},
		{StatusReversed, StatusPosted, false},
		{StatusReversed, StatusDraft, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.from)+"->"+string(tt.to), func(t *testing.T) {
			if got := tt.from.CanTransitionTo(tt.to); got != tt.want {
				t.Fatalf("CanTransitionTo() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestJournalEntry_TransitionTo(t *testing.T) {
	at := time.Date(2024, time.June, 1, 12, 0, 0, 0, time.UTC)
	entry := &JournalEntry{Status: StatusDraft}

	if err := entry.TransitionTo(StatusPosted, at); !errors.Is(err, ErrInvalidStatusTransition) {
		t.Fatalf("expected ErrInvalidStatusTransition, got %v", err)
	}
	if entry.Status != StatusDraft {
		t.Fatalf("status changed on rejected transition: %s", entry.Status)
	}

	for _, next := range []JournalEntryStatus{StatusPendingApproval, StatusApproved, StatusPosted} {
		if err := entry.TransitionTo(next, at); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}

	if entry.ApprovedAt == nil || !entry.ApprovedAt.Equal(at) {
		t.Fatalf("expected ApprovedAt to be set")
	}
	if entry.PostedAt == nil || !entry.PostedAt.Equal(at) {
		t.Fatalf("expected PostedAt to be set")
	}
	if entry.IsEditable() {
		t.Fatal("posted entry must not be editable")
	}
}

func TestJournalEntry_Reversal(t *testing.T) {
	original := &JournalEntry{
		ID:           "je-1",
		CompanyID:    "co-1",
		Description:  "Accrual",
		Status:       StatusPosted,
		TotalDebits:  decimal.NewFromInt(75),
		TotalCredits: decimal.NewFromInt(75),
		Lines: []JournalLine{
			{LineNumber: 1, AccountID: "exp", Debit: decimal.NewFromInt(75), Credit: decimal.Zero, CurrencyCode: "USD"},
			{LineNumber: 2, AccountID: "acc", Debit: decimal.Zero, Credit: decimal.NewFromInt(75), CurrencyCode: "USD"},
		},
	}
	date := time.Date(2024, time.July, 1, 0, 0, 0, 0, time.UTC)

	rev := original.Reversal(date, "user-9")

	if rev.ReversalOfID == nil || *rev.ReversalOfID != "je-1" {
		t.Fatalf("expected reversal link to je-1")
	}
	if rev.Status != StatusPosted || rev.EntryType != EntryTypeReversing {
		t.Fatalf("unexpected status/type: %s/%s", rev.Status, rev.EntryType)
	}
	if rev.FiscalYear != 2024 || rev.FiscalPeriod != 7 {
		t.Fatalf("unexpected period %d/%d", rev.FiscalYear, rev.FiscalPeriod)
	}
	if rev.Description != "Reversal of: Accrual" {
		t.Fatalf("unexpected description %q", rev.Description)
	}
	if !rev.Lines[0].Credit.Equal(decimal.NewFromInt(75)) || !rev.Lines[0].Debit.IsZero() {
		t.Fatalf("line 1 not swapped: %+v", rev.Lines[0])
	}
	if !rev.Lines[1].Debit.Equal(decimal.NewFromInt(75)) || !rev.Lines[1].Credit.IsZero() {
		t.Fatalf("line 2 not swapped: %+v", rev.Lines[1])
	}
	if !original.Lines[0].Debit.Equal(decimal.NewFromInt(75)) {
		t.Fatal("original lines must not change")
	}
}

func TestAccountType(t *testing.T) {
	for _, at := range []AccountType{AccountTypeAsset, AccountTypeLiability, AccountTypeEquity, AccountTypeRevenue, AccountTypeExpense} {
		if !at.IsValid() {
			t.Fatalf("%s should be valid", at)
		}
	}
	if AccountType("CONTRA").IsValid() {
		t.Fatal("unknown type should be invalid")
	}
	if !AccountTypeExpense.IsDebitNormal() || AccountTypeRevenue.IsDebitNormal() {
		t.Fatal("unexpected normal balance side")
	}
}
