package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	httpAdapter "github.com/accountability/ledger/internal/adapter/http"
	"github.com/accountability/ledger/internal/adapter/http/handler"
	"github.com/accountability/ledger/internal/adapter/http/middleware"
	postgresRepo "github.com/accountability/ledger/internal/adapter/repository/postgres"
	redisRepo "github.com/accountability/ledger/internal/adapter/repository/redis"
	"github.com/accountability/ledger/internal/infrastructure/config"
	"github.com/accountability/ledger/internal/infrastructure/logger"
	"github.com/accountability/ledger/internal/infrastructure/metrics"
	"github.com/accountability/ledger/internal/infrastructure/postgres"
	"github.com/accountability/ledger/internal/infrastructure/redis"
	"github.com/accountability/ledger/internal/usecase"
)

// limiterIdle is how long a client may be quiet before its limiter is dropped.
const limiterIdle = 10 * time.Minute

func main() {
	if err := config.LoadDotEnv(); err != nil {
		fmt.Fprintf(os.Stderr, "failed to read .env: %v\n", err)
		os.Exit(1)
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(logger.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server failed")
	}

	log.Info().Msg("server stopped")
}

func run(ctx context.Context, cfg *config.Config, log zerolog.Logger) error {
	if cfg.AutoMigrate {
		if err := postgres.RunMigrations(cfg.DatabaseURL, cfg.MigrationsPath, log); err != nil {
			return err
		}
	}

	// Connect to PostgreSQL
	connectCtx, cancel := context.WithTimeout(ctx, cfg.DatabaseTimeout)
	pool, err := postgres.NewPool(connectCtx, cfg.DatabaseURL, cfg.DatabaseMaxConns, cfg.DatabaseMinConns)
	cancel()
	if err != nil {
		return fmt.Errorf("connect to postgres: %w", err)
	}
	defer pool.Close()
	log.Info().Msg("connected to postgres")

	// Redis backs the hierarchy cache and idempotency keys. Without it the
	// service still runs, uncached and without replay protection.
	var redisClient *goredis.Client
	if cfg.RedisURL != "" {
		redisClient, err = redis.NewClient(ctx, cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		defer redisClient.Close()
		log.Info().Msg("connected to redis")
	}

	m := metrics.New()
	router, rateLimiter := buildRouter(cfg, log, m, pool, redisClient)

	ln, err := net.Listen("tcp", ":"+cfg.HTTPPort)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", cfg.HTTPPort, err)
	}

	server := newHTTPServer(cfg, router)
	log.Info().Str("addr", ln.Addr().String()).Msg("starting server")

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return serve(gctx, server, ln, cfg.HTTPShutdownTimeout)
	})
	if rateLimiter != nil {
		g.Go(func() error {
			sweepLimiters(gctx, rateLimiter, limiterIdle)
			return nil
		})
	}

	return g.Wait()
}

func buildRouter(
	cfg *config.Config,
	log zerolog.Logger,
	m *metrics.Metrics,
	pool *pgxpool.Pool,
	redisClient *goredis.Client,
) (http.Handler, *middleware.RateLimiter) {
	// Repositories
	txManager := postgresRepo.NewTxManager(pool)
	companyRepo := postgresRepo.NewCompanyRepository(pool)
	accountRepo := postgresRepo.NewAccountRepository(pool)
	entryRepo := postgresRepo.NewJournalEntryRepository(pool)
	idGen := postgresRepo.NewULIDGenerator()
	retrier := postgresRepo.NewRetrier(log, postgresRepo.WithRetryObserver(func(code string) {
		m.DBRetries.WithLabelValues(code).Inc()
	}))

	checks := map[string]handler.HealthCheck{"postgres": pool.Ping}

	var (
		cache            usecase.Cache
		idempotencyStore usecase.IdempotencyStore
	)
	if redisClient != nil {
		cache = redisRepo.NewCache(redisClient)
		idempotencyStore = redisRepo.NewIdempotencyStore(redisClient)
		checks["redis"] = redis.Ping(redisClient, redis.DefaultPingTimeout)
	}

	// Use cases
	opts := []usecase.Option{
		usecase.WithMetrics(m),
		usecase.WithHierarchyCacheTTL(cfg.HierarchyCacheTTL),
	}
	companyUC := usecase.NewCompanyUseCase(companyRepo, idGen)
	accountUC := usecase.NewAccountUseCase(accountRepo, companyRepo, cache, idGen, opts...)
	entryUC := usecase.NewJournalEntryUseCase(txManager, retrier, companyRepo, accountRepo, entryRepo, idGen, opts...)
	reportUC := usecase.NewReportUseCase(companyRepo, accountUC, entryRepo)

	var rateLimiter *middleware.RateLimiter
	if cfg.RateLimitRPS > 0 {
		rateLimiter = middleware.NewRateLimiter(cfg.RateLimitRPS, cfg.RateLimitBurst).OnLimit(m.RateLimitHits.Inc)
	}

	router := httpAdapter.NewRouter(httpAdapter.RouterConfig{
		CompanyHandler:      handler.NewCompanyHandler(companyUC),
		AccountHandler:      handler.NewAccountHandler(accountUC),
		JournalEntryHandler: handler.NewJournalEntryHandler(entryUC),
		ReportHandler:       handler.NewReportHandler(reportUC),
		HealthHandler:       handler.NewHealthHandler(checks),
		Logger:              log,
		Metrics:             m,
		RateLimiter:         rateLimiter,
		IdempotencyStore:    idempotencyStore,
		IdempotencyTTL:      cfg.IdempotencyTTL,
	})

	return router, rateLimiter
}

func newHTTPServer(cfg *config.Config, h http.Handler) *http.Server {
	return &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           h,
		ReadTimeout:       cfg.HTTPReadTimeout,
		ReadHeaderTimeout: cfg.HTTPReadTimeout,
		WriteTimeout:      cfg.HTTPWriteTimeout,
		IdleTimeout:       cfg.HTTPIdleTimeout,
	}
}

// serve runs srv on ln until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, ln net.Listener, shutdownTimeout time.Duration) error {
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func sweepLimiters(ctx context.Context, rl *middleware.RateLimiter, idle time.Duration) {
	ticker := time.NewTicker(idle)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.CleanupLimiters(idle)
		}
	}
}
