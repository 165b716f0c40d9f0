package wallet

import (
	"context"

	"github.com/shopspring/decimal"

	"gridiron/internal/models"
)

// Service defines the main wallet service interface
type Service interface {
	// GetWallet returns the caller's wallet, served from cache when possible.
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)

	// EnsureWallet creates the wallet in the default currency if it does not exist.
	EnsureWallet(ctx context.Context, userID uint) (*models.Wallet, error)

	// Credit adds a deposit to the balance.
	Credit(ctx context.Context, userID uint, amount decimal.Decimal, currency string) (*models.Wallet, error)

	// ListTransactions pages through the user's ledger entries, newest first.
	ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error)

	// Invalidate drops the cached wallet after an out-of-band balance change.
	Invalidate(ctx context.Context, userID uint)
}

// Cache is the redis subset the wallet service needs.
type Cache interface {
	GetWallet(ctx context.Context, userID uint) (*models.Wallet, error)
	CacheWallet(ctx context.Context, wallet *models.Wallet) error
	InvalidateWallet(ctx context.Context, userID uint) error
}
