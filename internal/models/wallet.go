package models

import (
	"time"

	"github.com/shopspring/decimal"
)

const (
	WalletStatusActive = "active"
	WalletStatusFrozen = "frozen"
)

// Wallet is the balance ledger row for one user.
type Wallet struct {
	ID        uint            `gorm:"primarykey" json:"id"`
	UserID    uint            `gorm:"uniqueIndex;not null" json:"user_id"`
	Balance   decimal.Decimal `gorm:"type:numeric(20,2);not null;default:0" json:"balance"`
	Currency  string          `gorm:"size:3;not null;default:'USD'" json:"currency"`
	Status    string          `gorm:"not null;default:'active'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

func (w *Wallet) IsActive() bool {
	return w.Status == WalletStatusActive
}
