package http

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/accountability/ledger/internal/adapter/http/handler"
	"github.com/accountability/ledger/internal/adapter/http/middleware"
	"github.com/accountability/ledger/internal/infrastructure/metrics"
	"github.com/accountability/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	CompanyHandler      *handler.CompanyHandler
	AccountHandler      *handler.AccountHandler
	JournalEntryHandler *handler.JournalEntryHandler
	ReportHandler       *handler.ReportHandler
	HealthHandler       *handler.HealthHandler

	Logger           zerolog.Logger
	Metrics          *metrics.Metrics
	MetricsHandler   http.Handler
	RateLimiter      *middleware.RateLimiter
	IdempotencyStore usecase.IdempotencyStore
	IdempotencyTTL   time.Duration
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Handle("/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotency := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore, cfg.IdempotencyTTL, cfg.Logger)
			r.Use(idempotency.Wrap)
		}

		r.Post("/companies", cfg.CompanyHandler.Create)

		r.Route("/companies/{companyID}", func(r chi.Router) {
			r.Get("/", cfg.CompanyHandler.Get)

			r.Route("/accounts", func(r chi.Router) {
				r.Post("/", cfg.AccountHandler.Create)
				r.Get("/", cfg.AccountHandler.List)
				r.Get("/tree", cfg.AccountHandler.Tree)
				r.Get("/{accountID}", cfg.AccountHandler.Get)
				r.Patch("/{accountID}", cfg.AccountHandler.Update)
			})

			r.Route("/journal-entries", func(r chi.Router) {
				r.Get("/new", cfg.JournalEntryHandler.NewForm)
				r.Post("/balance", cfg.JournalEntryHandler.Balance)
				r.Post("/validate", cfg.JournalEntryHandler.Validate)
				r.Post("/", cfg.JournalEntryHandler.Create)
				r.Get("/", cfg.JournalEntryHandler.List)
			})

			r.Route("/reports", func(r chi.Router) {
				r.Get("/trial-balance", cfg.ReportHandler.TrialBalance)
				r.Get("/balance-sheet", cfg.ReportHandler.BalanceSheet)
				r.Get("/income-statement", cfg.ReportHandler.IncomeStatement)
			})
		})

		r.Route("/journal-entries/{entryID}", func(r chi.Router) {
			r.Get("/", cfg.JournalEntryHandler.Get)
			r.Put("/", cfg.JournalEntryHandler.Update)
			r.Get("/form", cfg.JournalEntryHandler.Form)
			r.Post("/submit", cfg.JournalEntryHandler.Submit)
			r.Post("/approve", cfg.JournalEntryHandler.Approve)
			r.Post("/reject", cfg.JournalEntryHandler.Reject)
			r.Post("/post", cfg.JournalEntryHandler.Post)
			r.Post("/reverse", cfg.JournalEntryHandler.Reverse)
		})
	})

	return r
}
