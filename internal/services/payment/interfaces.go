package payment

import (
	"context"
	"time"

	"gridiron/internal/models"
)

// Service captures provider payments into the balance ledger.
type Service interface {
	// Capture captures the provider payment referenced by reference and
	// credits it to userID. Repeating a finished capture replays its result.
	Capture(ctx context.Context, provider string, userID uint, reference string) (*Result, error)

	// RetryReconciliation re-runs the credit step for a captured deposit that
	// could not be credited.
	RetryReconciliation(ctx context.Context, transactionID string) (*Result, error)

	// ListReconciliations pages through deposits awaiting reconciliation.
	ListReconciliations(ctx context.Context, limit, offset int) ([]models.Transaction, int64, error)
}

// Locker guards a capture reference across instances.
type Locker interface {
	Lock(ctx context.Context, key string, ttl time.Duration) (string, bool, error)
	Unlock(ctx context.Context, key, token string) error
}

// WalletCache drops a cached balance after it changes.
type WalletCache interface {
	Invalidate(ctx context.Context, userID uint)
}
