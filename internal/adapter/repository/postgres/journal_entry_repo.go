package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/accountability/ledger/internal/domain"
	"github.com/accountability/ledger/internal/infrastructure/postgres/generated"
	"github.com/accountability/ledger/internal/usecase"
)

// JournalEntryRepository implements usecase.JournalEntryRepository.
type JournalEntryRepository struct {
	queries *generated.Queries
}

// NewJournalEntryRepository creates a new JournalEntryRepository.
func NewJournalEntryRepository(pool *pgxpool.Pool) *JournalEntryRepository {
	return newJournalEntryRepository(pool)
}

func newJournalEntryRepository(db generated.DBTX) *JournalEntryRepository {
	return &JournalEntryRepository{queries: generated.New(db)}
}

// Create allocates the next per-company entry number, then inserts the
// header and every line.
func (r *JournalEntryRepository) Create(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	queries := txQueries(tx)

	number, err := queries.NextJournalEntryNumber(ctx, entry.CompanyID)
	if err != nil {
		return fmt.Errorf("allocate entry number: %w", err)
	}
	entry.EntryNumber = number

	if err := queries.CreateJournalEntry(ctx, generated.CreateJournalEntryParams{
		ID:                entry.ID,
		CompanyID:         entry.CompanyID,
		EntryNumber:       entry.EntryNumber,
		Description:       entry.Description,
		TransactionDate:   timeToPgDate(entry.TransactionDate),
		DocumentDate:      optionalDate(entry.DocumentDate),
		FiscalYear:        int32(entry.FiscalYear),
		FiscalPeriod:      int32(entry.FiscalPeriod),
		EntryType:         string(entry.EntryType),
		SourceModule:      string(entry.SourceModule),
		ReferenceNumber:   entry.ReferenceNumber,
		SourceDocumentRef: entry.SourceDocumentRef,
		Status:            string(entry.Status),
		TotalDebits:       decimalToNumeric(entry.TotalDebits),
		TotalCredits:      decimalToNumeric(entry.TotalCredits),
		CreatedBy:         entry.CreatedBy,
		ApprovedBy:        optionalText(entry.ApprovedBy),
		RejectionReason:   entry.RejectionReason,
		ReversalOfID:      optionalText(entry.ReversalOfID),
		ReversedByID:      optionalText(entry.ReversedByID),
		CreatedAt:         timeToPgTimestamptz(entry.CreatedAt),
		UpdatedAt:         timeToPgTimestamptz(entry.UpdatedAt),
		ApprovedAt:        optionalTimestamptz(entry.ApprovedAt),
		PostedAt:          optionalTimestamptz(entry.PostedAt),
	}); err != nil {
		return err
	}

	return insertLines(ctx, queries, entry)
}

// Update rewrites the header and replaces every line.
func (r *JournalEntryRepository) Update(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	queries := txQueries(tx)

	n, err := queries.UpdateJournalEntry(ctx, generated.UpdateJournalEntryParams{
		ID:                entry.ID,
		Description:       entry.Description,
		TransactionDate:   timeToPgDate(entry.TransactionDate),
		DocumentDate:      optionalDate(entry.DocumentDate),
		FiscalYear:        int32(entry.FiscalYear),
		FiscalPeriod:      int32(entry.FiscalPeriod),
		EntryType:         string(entry.EntryType),
		SourceModule:      string(entry.SourceModule),
		ReferenceNumber:   entry.ReferenceNumber,
		SourceDocumentRef: entry.SourceDocumentRef,
		TotalDebits:       decimalToNumeric(entry.TotalDebits),
		TotalCredits:      decimalToNumeric(entry.TotalCredits),
		UpdatedAt:         timeToPgTimestamptz(entry.UpdatedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrJournalEntryNotFound
	}

	if err := queries.DeleteJournalLines(ctx, entry.ID); err != nil {
		return err
	}

	return insertLines(ctx, queries, entry)
}

// UpdateStatus persists the workflow fields only.
func (r *JournalEntryRepository) UpdateStatus(ctx context.Context, tx usecase.Transaction, entry *domain.JournalEntry) error {
	n, err := txQueries(tx).UpdateJournalEntryStatus(ctx, generated.UpdateJournalEntryStatusParams{
		ID:              entry.ID,
		Status:          string(entry.Status),
		ApprovedBy:      optionalText(entry.ApprovedBy),
		RejectionReason: entry.RejectionReason,
		ReversedByID:    optionalText(entry.ReversedByID),
		UpdatedAt:       timeToPgTimestamptz(entry.UpdatedAt),
		ApprovedAt:      optionalTimestamptz(entry.ApprovedAt),
		PostedAt:        optionalTimestamptz(entry.PostedAt),
	})
	if err != nil {
		return err
	}
	if n == 0 {
		return domain.ErrJournalEntryNotFound
	}

	return nil
}

// GetByID retrieves a journal entry with its lines.
func (r *JournalEntryRepository) GetByID(ctx context.Context, id string) (*domain.JournalEntry, error) {
	return getEntry(ctx, r.queries, id, false)
}

// GetByIDForUpdate retrieves a journal entry with a FOR UPDATE lock on the header.
func (r *JournalEntryRepository) GetByIDForUpdate(ctx context.Context, tx usecase.Transaction, id string) (*domain.JournalEntry, error) {
	return getEntry(ctx, txQueries(tx), id, true)
}

// List returns a page of a company's entries, newest number first.
func (r *JournalEntryRepository) List(ctx context.Context, filter usecase.JournalEntryFilter) ([]*domain.JournalEntry, error) {
	var status pgtype.Text
	if filter.Status != nil {
		status = pgtype.Text{String: string(*filter.Status), Valid: true}
	}

	rows, err := r.queries.ListJournalEntries(ctx, generated.ListJournalEntriesParams{
		CompanyID: filter.CompanyID,
		Status:    status,
		Limit:     int32(filter.Limit),
		Offset:    int32(filter.Offset),
	})
	if err != nil {
		return nil, err
	}

	entries := make([]*domain.JournalEntry, 0, len(rows))
	if len(rows) == 0 {
		return entries, nil
	}

	ids := make([]string, 0, len(rows))
	byID := make(map[string]*domain.JournalEntry, len(rows))
	for _, row := range rows {
		entry := rowToJournalEntry(row)
		entries = append(entries, entry)
		ids = append(ids, entry.ID)
		byID[entry.ID] = entry
	}

	lines, err := r.queries.GetJournalLinesByEntries(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		if entry, ok := byID[line.JournalEntryID]; ok {
			entry.Lines = append(entry.Lines, rowToJournalLine(line))
		}
	}

	return entries, nil
}

// AccountActivity sums posted lines per account for the fiscal year up to
// and including throughPeriod. Reversed entries still count; their
// reversals offset them.
func (r *JournalEntryRepository) AccountActivity(ctx context.Context, companyID string, fiscalYear, throughPeriod int) ([]domain.AccountActivity, error) {
	rows, err := r.queries.AccountActivity(ctx, generated.AccountActivityParams{
		CompanyID:    companyID,
		FiscalYear:   int32(fiscalYear),
		FiscalPeriod: int32(throughPeriod),
	})
	if err != nil {
		return nil, err
	}

	activity := make([]domain.AccountActivity, 0, len(rows))
	for _, row := range rows {
		activity = append(activity, domain.AccountActivity{
			AccountID: row.AccountID,
			Debit:     numericToDecimal(row.Debit),
			Credit:    numericToDecimal(row.Credit),
		})
	}

	return activity, nil
}

func getEntry(ctx context.Context, queries *generated.Queries, id string, forUpdate bool) (*domain.JournalEntry, error) {
	var (
		row generated.JournalEntry
		err error
	)
	if forUpdate {
		row, err = queries.GetJournalEntryByIDForUpdate(ctx, id)
	} else {
		row, err = queries.GetJournalEntryByID(ctx, id)
	}
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrJournalEntryNotFound
		}

		return nil, err
	}

	entry := rowToJournalEntry(row)

	lines, err := queries.GetJournalLinesByEntry(ctx, id)
	if err != nil {
		return nil, err
	}
	for _, line := range lines {
		entry.Lines = append(entry.Lines, rowToJournalLine(line))
	}

	return entry, nil
}

func insertLines(ctx context.Context, queries *generated.Queries, entry *domain.JournalEntry) error {
	for i := range entry.Lines {
		line := &entry.Lines[i]
		line.JournalEntryID = entry.ID

		err := queries.CreateJournalLine(ctx, generated.CreateJournalLineParams{
			ID:             line.ID,
			JournalEntryID: entry.ID,
			LineNumber:     int32(line.LineNumber),
			AccountID:      line.AccountID,
			Debit:          decimalToNumeric(line.Debit),
			Credit:         decimalToNumeric(line.Credit),
			CurrencyCode:   line.CurrencyCode,
			Memo:           line.Memo,
		})
		if err != nil {
			if isPgError(err, pgErrForeignKeyViolation) {
				return fmt.Errorf("%w: line %d", domain.ErrAccountNotFound, line.LineNumber)
			}
			return fmt.Errorf("insert line %d: %w", line.LineNumber, err)
		}
	}

	return nil
}

func rowToJournalEntry(row generated.JournalEntry) *domain.JournalEntry {
	return &domain.JournalEntry{
		ID:                row.ID,
		CompanyID:         row.CompanyID,
		EntryNumber:       row.EntryNumber,
		Description:       row.Description,
		TransactionDate:   row.TransactionDate.Time,
		DocumentDate:      datePtr(row.DocumentDate),
		FiscalYear:        int(row.FiscalYear),
		FiscalPeriod:      int(row.FiscalPeriod),
		EntryType:         domain.EntryType(row.EntryType),
		SourceModule:      domain.SourceModule(row.SourceModule),
		ReferenceNumber:   row.ReferenceNumber,
		SourceDocumentRef: row.SourceDocumentRef,
		Status:            domain.JournalEntryStatus(row.Status),
		TotalDebits:       numericToDecimal(row.TotalDebits),
		TotalCredits:      numericToDecimal(row.TotalCredits),
		CreatedBy:         row.CreatedBy,
		ApprovedBy:        textPtr(row.ApprovedBy),
		RejectionReason:   row.RejectionReason,
		ReversalOfID:      textPtr(row.ReversalOfID),
		ReversedByID:      textPtr(row.ReversedByID),
		CreatedAt:         row.CreatedAt.Time,
		UpdatedAt:         row.UpdatedAt.Time,
		ApprovedAt:        timestamptzPtr(row.ApprovedAt),
		PostedAt:          timestamptzPtr(row.PostedAt),
	}
}

func rowToJournalLine(row generated.JournalLine) domain.JournalLine {
	return domain.JournalLine{
		ID:             row.ID,
		JournalEntryID: row.JournalEntryID,
		LineNumber:     int(row.LineNumber),
		AccountID:      row.AccountID,
		Debit:          numericToDecimal(row.Debit),
		Credit:         numericToDecimal(row.Credit),
		CurrencyCode:   row.CurrencyCode,
		Memo:           row.Memo,
	}
}
