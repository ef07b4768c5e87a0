package integration

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/accountability/ledger/internal/adapter/repository/postgres"
	"github.com/accountability/ledger/internal/domain"
	"github.com/accountability/ledger/internal/usecase"
	"github.com/accountability/ledger/tests/testutil"
)

func TestConcurrentEntryNumbering(t *testing.T) {
	ctx := context.Background()
	testDB := testutil.NewTestDB(t)
	testDB.TruncateAll(ctx)

	pool := testDB.Pool
	companyRepo := postgres.NewCompanyRepository(pool)
	accountRepo := postgres.NewAccountRepository(pool)
	entryRepo := postgres.NewJournalEntryRepository(pool)
	entryUC := usecase.NewJournalEntryUseCase(
		postgres.NewTxManager(pool),
		postgres.NewRetrier(zerolog.Nop()),
		companyRepo, accountRepo, entryRepo, postgres.NewULIDGenerator(),
	)

	company := testDB.CreateTestCompany(ctx, "Initech", "USD")
	expense := testDB.CreateTestAccount(ctx, company.ID, "6000", "Expenses", domain.AccountTypeExpense, nil)
	cash := testDB.CreateTestAccount(ctx, company.ID, "1000", "Cash", domain.AccountTypeAsset, nil)

	const numEntries = 25
	txDate := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		numbers = map[int64]bool{}
		errs    []error
	)

	wg.Add(numEntries)
	for range numEntries {
		go func() {
			defer wg.Done()

			entry, err := entryUC.CreateJournalEntry(ctx, usecase.CreateJournalEntryInput{
				CompanyID: company.ID,
				CreatedBy: "user-1",
				Form: domain.JournalEntryFormState{
					Description:     "Coffee",
					TransactionDate: &txDate,
					FiscalYear:      2024,
					FiscalPeriod:    1,
					Lines: []domain.JournalEntryLine{
						{ID: testutil.GenerateID(), LineNumber: 1, AccountID: &expense.ID, DebitAmount: "4.50", CurrencyCode: "USD"},
						{ID: testutil.GenerateID(), LineNumber: 2, AccountID: &cash.ID, CreditAmount: "4.50", CurrencyCode: "USD"},
					},
				},
			})

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			numbers[entry.EntryNumber] = true
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Len(t, numbers, numEntries, "entry numbers must be unique")
	for n := int64(1); n <= numEntries; n++ {
		assert.True(t, numbers[n], "missing entry number %d", n)
	}

	listed, err := entryUC.ListJournalEntries(ctx, usecase.ListJournalEntriesInput{CompanyID: company.ID, Limit: 100})
	require.NoError(t, err)
	assert.Len(t, listed, numEntries)
	assert.Equal(t, int64(numEntries), listed[0].EntryNumber)
}
