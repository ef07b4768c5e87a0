package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/accountability/ledger/internal/adapter/http/dto"
	"github.com/accountability/ledger/internal/domain"
)

// ReportService defines the behavior needed by ReportHandler.
type ReportService interface {
	TrialBalance(ctx context.Context, companyID string, fiscalYear, throughPeriod int) (*domain.TrialBalance, error)
	BalanceSheet(ctx context.Context, companyID string, fiscalYear, throughPeriod int) (*domain.BalanceSheet, error)
	IncomeStatement(ctx context.Context, companyID string, fiscalYear, throughPeriod int) (*domain.IncomeStatement, error)
}

// ReportHandler serves financial reports.
type ReportHandler struct {
	reportUC ReportService
	now      func() time.Time
}

// NewReportHandler creates a new ReportHandler.
func NewReportHandler(reportUC ReportService) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, now: time.Now}
}

// TrialBalance returns the trial balance through ?period= of ?fiscal_year=.
// Both default to the current calendar year and month.
func (h *ReportHandler) TrialBalance(w http.ResponseWriter, r *http.Request) {
	year, period := h.reportPeriod(r)

	tb, err := h.reportUC.TrialBalance(r.Context(), chi.URLParam(r, "companyID"), year, period)
	if err != nil {
		handleError(w, r, "failed to build trial balance", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.TrialBalanceFromDomain(tb))
}

// BalanceSheet returns the balance sheet at the end of ?period=.
func (h *ReportHandler) BalanceSheet(w http.ResponseWriter, r *http.Request) {
	year, period := h.reportPeriod(r)

	bs, err := h.reportUC.BalanceSheet(r.Context(), chi.URLParam(r, "companyID"), year, period)
	if err != nil {
		handleError(w, r, "failed to build balance sheet", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.BalanceSheetFromDomain(bs))
}

// IncomeStatement returns year-to-date revenue and expenses through ?period=.
func (h *ReportHandler) IncomeStatement(w http.ResponseWriter, r *http.Request) {
	year, period := h.reportPeriod(r)

	is, err := h.reportUC.IncomeStatement(r.Context(), chi.URLParam(r, "companyID"), year, period)
	if err != nil {
		handleError(w, r, "failed to build income statement", err)
		return
	}

	writeJSON(w, http.StatusOK, dto.IncomeStatementFromDomain(is))
}

func (h *ReportHandler) reportPeriod(r *http.Request) (year, period int) {
	now := h.now().UTC()
	return parseIntQuery(r, "fiscal_year", now.Year()), parseIntQuery(r, "period", int(now.Month()))
}
