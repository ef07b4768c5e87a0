package handler

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accountability/ledger/internal/adapter/http/dto"
	"github.com/accountability/ledger/internal/domain"
	"github.com/accountability/ledger/internal/usecase"
)

// JournalEntryService defines the behavior needed by JournalEntryHandler.
type JournalEntryService interface {
	NewForm(ctx context.Context, companyID string) (*domain.JournalEntryFormState, error)
	CalculateBalance(lines []domain.JournalEntryLine) domain.RunningBalance
	ValidateForm(state domain.JournalEntryFormState) domain.FormErrors
	CreateJournalEntry(ctx context.Context, input usecase.CreateJournalEntryInput) (*domain.JournalEntry, error)
	UpdateJournalEntry(ctx context.Context, input usecase.UpdateJournalEntryInput) (*domain.JournalEntry, error)
	GetJournalEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
	GetJournalEntryForm(ctx context.Context, id string) (*domain.JournalEntryFormState, error)
	ListJournalEntries(ctx context.Context, input usecase.ListJournalEntriesInput) ([]*domain.JournalEntry, error)
	SubmitJournalEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
	ApproveJournalEntry(ctx context.Context, id, approvedBy string) (*domain.JournalEntry, error)
	RejectJournalEntry(ctx context.Context, id, reason string) (*domain.JournalEntry, error)
	PostJournalEntry(ctx context.Context, id string) (*domain.JournalEntry, error)
	ReverseJournalEntry(ctx context.Context, input usecase.ReverseJournalEntryInput) (*domain.JournalEntry, error)
}

// JournalEntryHandler handles journal entry form and workflow requests.
type JournalEntryHandler struct {
	entryUC JournalEntryService
}

// NewJournalEntryHandler creates a new JournalEntryHandler.
func NewJournalEntryHandler(entryUC JournalEntryService) *JournalEntryHandler {
	return &JournalEntryHandler{entryUC: entryUC}
}

// NewForm returns a blank form in the company's functional currency.
func (h *JournalEntryHandler) NewForm(w http.ResponseWriter, r *http.Request) {
	form, err := h.entryUC.NewForm(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		handleError(w, r, "failed to create form", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FormFromDomain(form))
}

// Balance returns the running balance of the posted lines.
func (h *JournalEntryHandler) Balance(w http.ResponseWriter, r *http.Request) {
	var req dto.BalanceRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	balance := h.entryUC.CalculateBalance(dto.LinesToDomain(req.Lines))
	writeJSON(w, http.StatusOK, dto.BalanceFromDomain(balance))
}

// Validate checks a form without saving it. An invalid form is still a 200.
func (h *JournalEntryHandler) Validate(w http.ResponseWriter, r *http.Request) {
	var req dto.FormRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	errs := h.entryUC.ValidateForm(req.ToFormState())
	writeJSON(w, http.StatusOK, dto.ValidationResponse{
		Valid:  !domain.HasValidationErrors(errs),
		Errors: errs,
	})
}

// Create saves a valid form as a draft entry.
func (h *JournalEntryHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req dto.FormRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	entry, err := h.entryUC.CreateJournalEntry(r.Context(), usecase.CreateJournalEntryInput{
		CompanyID: chi.URLParam(r, "companyID"),
		CreatedBy: userID,
		Form:      req.ToFormState(),
	})
	if err != nil {
		handleError(w, r, "failed to create journal entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.JournalEntryFromDomain(entry))
}

// List lists a company's entries, optionally filtered by status.
func (h *JournalEntryHandler) List(w http.ResponseWriter, r *http.Request) {
	input := usecase.ListJournalEntriesInput{
		CompanyID: chi.URLParam(r, "companyID"),
		Limit:     parseIntQuery(r, "limit", 50),
		Offset:    parseIntQuery(r, "offset", 0),
	}
	if s := r.URL.Query().Get("status"); s != "" {
		status := domain.JournalEntryStatus(s)
		input.Status = &status
	}

	entries, err := h.entryUC.ListJournalEntries(r.Context(), input)
	if err != nil {
		handleError(w, r, "failed to list journal entries", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListJournalEntriesResponse{
		JournalEntries: dto.JournalEntriesFromDomain(entries),
		Limit:          input.Limit,
		Offset:         input.Offset,
	})
}

// Get retrieves a journal entry by ID.
func (h *JournalEntryHandler) Get(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entryUC.GetJournalEntry(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		handleError(w, r, "failed to get journal entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

// Form loads a stored entry back into an editable form.
func (h *JournalEntryHandler) Form(w http.ResponseWriter, r *http.Request) {
	form, err := h.entryUC.GetJournalEntryForm(r.Context(), chi.URLParam(r, "entryID"))
	if err != nil {
		handleError(w, r, "failed to load journal entry form", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.FormFromDomain(form))
}

// Update replaces the contents of a draft entry.
func (h *JournalEntryHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.FormRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	entry, err := h.entryUC.UpdateJournalEntry(r.Context(), usecase.UpdateJournalEntryInput{
		ID:   chi.URLParam(r, "entryID"),
		Form: req.ToFormState(),
	})
	if err != nil {
		handleError(w, r, "failed to update journal entry", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}

// Submit sends a draft for approval.
func (h *JournalEntryHandler) Submit(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entryUC.SubmitJournalEntry(r.Context(), chi.URLParam(r, "entryID"))
	h.respondTransition(w, r, "failed to submit journal entry", entry, err)
}

// Approve approves a pending entry as the acting user.
func (h *JournalEntryHandler) Approve(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	entry, err := h.entryUC.ApproveJournalEntry(r.Context(), chi.URLParam(r, "entryID"), userID)
	h.respondTransition(w, r, "failed to approve journal entry", entry, err)
}

// Reject returns a pending entry to draft with a reason.
func (h *JournalEntryHandler) Reject(w http.ResponseWriter, r *http.Request) {
	var req dto.RejectRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	entry, err := h.entryUC.RejectJournalEntry(r.Context(), chi.URLParam(r, "entryID"), req.Reason)
	h.respondTransition(w, r, "failed to reject journal entry", entry, err)
}

// Post posts an approved entry to the ledger.
func (h *JournalEntryHandler) Post(w http.ResponseWriter, r *http.Request) {
	entry, err := h.entryUC.PostJournalEntry(r.Context(), chi.URLParam(r, "entryID"))
	h.respondTransition(w, r, "failed to post journal entry", entry, err)
}

// Reverse reverses a posted entry and returns the new reversing entry.
func (h *JournalEntryHandler) Reverse(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	// The body is optional.
	var req dto.ReverseRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		writeRequestError(w, err)
		return
	}

	entry, err := h.entryUC.ReverseJournalEntry(r.Context(), usecase.ReverseJournalEntryInput{
		ID:           chi.URLParam(r, "entryID"),
		ReversalDate: req.Date(),
		CreatedBy:    userID,
	})
	if err != nil {
		handleError(w, r, "failed to reverse journal entry", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.JournalEntryFromDomain(entry))
}

func (h *JournalEntryHandler) respondTransition(w http.ResponseWriter, r *http.Request, message string, entry *domain.JournalEntry, err error) {
	if err != nil {
		handleError(w, r, message, err)
		return
	}

	writeJSON(w, http.StatusOK, dto.JournalEntryFromDomain(entry))
}
