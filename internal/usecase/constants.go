package usecase

import "time"

const (
	// DefaultTransactionTimeout is the maximum duration for a database transaction
	DefaultTransactionTimeout = 10 * time.Second

	// DefaultHierarchyCacheTTL is how long a flattened chart of accounts is cached
	DefaultHierarchyCacheTTL = 5 * time.Minute

	// IdempotencyKeyTTL is how long idempotency keys are cached
	IdempotencyKeyTTL = 24 * time.Hour
)

func hierarchyCacheKey(companyID string) string {
	return "hierarchy:" + companyID
}
