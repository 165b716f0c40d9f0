package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction types
const (
	TransactionTypeDeposit = "deposit"
)

// Payment providers
const (
	ProviderPayPal = "paypal"
	ProviderStripe = "stripe"
)

// Transaction statuses
const (
	TransactionStatusCaptured               = "captured"
	TransactionStatusCompleted              = "completed"
	TransactionStatusReconciliationRequired = "reconciliation_required"
)

// Transaction is one ledger entry. A deposit moves from captured to either
// completed or reconciliation_required.
type Transaction struct {
	ID            uint            `gorm:"primarykey" json:"-"`
	TransactionID string          `gorm:"size:36;uniqueIndex;not null" json:"transaction_id"`
	UserID        uint            `gorm:"index;not null" json:"user_id"`
	Type          string          `gorm:"not null" json:"type"`
	Provider      string          `gorm:"not null;uniqueIndex:idx_provider_reference" json:"provider"`
	Reference     string          `gorm:"not null;uniqueIndex:idx_provider_reference" json:"reference"`
	CaptureID     string          `json:"capture_id"`
	Amount        decimal.Decimal `gorm:"type:numeric(20,2);not null" json:"amount"`
	Currency      string          `gorm:"size:3;not null" json:"currency"`
	Status        string          `gorm:"index;not null" json:"status"`
	PayerEmail    string          `json:"payer_email,omitempty"`
	Metadata      JSON            `json:"metadata,omitempty"`
	ErrorNote     string          `json:"error_note,omitempty"`
	CompletedAt   *time.Time      `json:"completed_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.TransactionID == "" {
		t.TransactionID = uuid.NewString()
	}
	return nil
}
