package handler

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/accountability/ledger/internal/adapter/http/dto"
	"github.com/accountability/ledger/internal/domain"
	"github.com/accountability/ledger/internal/usecase"
)

// AccountService defines the behavior needed by AccountHandler.
type AccountService interface {
	CreateAccount(ctx context.Context, input usecase.CreateAccountInput) (*domain.Account, error)
	GetAccount(ctx context.Context, id string) (*domain.Account, error)
	ListAccounts(ctx context.Context, companyID string) ([]*domain.Account, error)
	UpdateAccount(ctx context.Context, input usecase.UpdateAccountInput) (*domain.Account, error)
	SearchHierarchy(ctx context.Context, companyID, query string) ([]domain.AccountWithDepth, error)
}

// AccountHandler handles chart of accounts HTTP requests.
type AccountHandler struct {
	accountUC AccountService
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountUC AccountService) *AccountHandler {
	return &AccountHandler{accountUC: accountUC}
}

// Create adds an account to the company's chart.
func (h *AccountHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	account, err := h.accountUC.CreateAccount(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "companyID")))
	if err != nil {
		handleError(w, r, "failed to create account", err)
		return
	}

	writeJSON(w, http.StatusCreated, dto.AccountFromDomain(account))
}

// Get retrieves an account by ID.
func (h *AccountHandler) Get(w http.ResponseWriter, r *http.Request) {
	account, err := h.accountUC.GetAccount(r.Context(), chi.URLParam(r, "accountID"))
	if err != nil {
		handleError(w, r, "failed to get account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// List lists the company's accounts in account number order.
func (h *AccountHandler) List(w http.ResponseWriter, r *http.Request) {
	accounts, err := h.accountUC.ListAccounts(r.Context(), chi.URLParam(r, "companyID"))
	if err != nil {
		handleError(w, r, "failed to list accounts", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.ListAccountsResponse{
		Accounts: dto.AccountsFromDomain(accounts),
		Total:    int64(len(accounts)),
	})
}

// Update applies a partial update to an account.
func (h *AccountHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req dto.UpdateAccountRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeRequestError(w, err)
		return
	}

	account, err := h.accountUC.UpdateAccount(r.Context(), req.ToUseCaseInput(chi.URLParam(r, "accountID")))
	if err != nil {
		handleError(w, r, "failed to update account", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountFromDomain(account))
}

// Tree returns the flattened chart, filtered by the optional q parameter.
func (h *AccountHandler) Tree(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")

	list, err := h.accountUC.SearchHierarchy(r.Context(), chi.URLParam(r, "companyID"), query)
	if err != nil {
		handleError(w, r, "failed to build account tree", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.AccountTreeFromDomain(list, query))
}
