package repositories

import (
	"context"

	"github.com/shopspring/decimal"

	"gridiron/internal/models"
)

// WalletRepository defines the interface for wallet-related database operations
type WalletRepository interface {
	Create(ctx context.Context, wallet *models.Wallet) error
	GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error)

	// Credit adds amount to the user's balance under a row lock and returns
	// the wallet as stored after the update.
	Credit(ctx context.Context, userID uint, amount decimal.Decimal) (*models.Wallet, error)

	UpdateStatus(ctx context.Context, userID uint, status string) error
}
