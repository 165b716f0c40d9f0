package models

import "time"

// Payment event types
const (
	EventCaptureCompleted      = "capture_completed"
	EventBalanceCredited       = "balance_credited"
	EventBalanceUpdateFailed   = "balance_update_failed"
	EventReconciliationRetried = "reconciliation_retried"
)

// PaymentEvent is an append-only audit record for a ledger entry.
type PaymentEvent struct {
	ID            uint      `gorm:"primarykey" json:"id"`
	TransactionID string    `gorm:"size:36;index;not null" json:"transaction_id"`
	UserID        uint      `gorm:"index" json:"user_id"`
	Type          string    `gorm:"not null" json:"type"`
	Payload       JSON      `json:"payload,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
}
