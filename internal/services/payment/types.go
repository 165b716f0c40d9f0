package payment

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	domainerrors "gridiron/internal/errors"
	"gridiron/internal/models"
)

// Result is a deposit as reported back to the payer.
type Result struct {
	OrderID       string           `json:"order_id"`
	CaptureID     string           `json:"capture_id"`
	Status        string           `json:"status"`
	Amount        decimal.Decimal  `json:"amount"`
	Currency      string           `json:"currency"`
	TransactionID string           `json:"transaction_id"`
	Balance       *decimal.Decimal `json:"balance,omitempty"`
	Replayed      bool             `json:"replayed,omitempty"`
}

func resultFrom(tx *models.Transaction, balance *decimal.Decimal) *Result {
	return &Result{
		OrderID:       tx.Reference,
		CaptureID:     tx.CaptureID,
		Status:        tx.Status,
		Amount:        tx.Amount,
		Currency:      tx.Currency,
		TransactionID: tx.TransactionID,
		Balance:       balance,
	}
}

// Limits bounds the amounts a capture may credit. Zero values disable a bound.
type Limits struct {
	Min     decimal.Decimal
	Max     decimal.Decimal
	LockTTL time.Duration
}

func (l Limits) check(amount decimal.Decimal) error {
	if !l.Min.IsZero() && amount.LessThan(l.Min) {
		return domainerrors.ErrAmountOutOfRange.WithMessage(
			"deposit of %s is below the minimum of %s", amount.StringFixed(2), l.Min.StringFixed(2))
	}
	if !l.Max.IsZero() && amount.GreaterThan(l.Max) {
		return domainerrors.ErrAmountOutOfRange.WithMessage(
			"deposit of %s is above the maximum of %s", amount.StringFixed(2), l.Max.StringFixed(2))
	}
	return nil
}

// ReconciliationError reports money that was captured at the provider but
// not credited to the balance. It answers 500 and carries what support needs
// to settle the deposit by hand.
type ReconciliationError struct {
	OrderID       string
	CaptureID     string
	TransactionID string
	Cause         error
}

func (e *ReconciliationError) Error() string {
	return fmt.Sprintf("balance update failed for order %s (transaction %s): %v", e.OrderID, e.TransactionID, e.Cause)
}

func (e *ReconciliationError) Unwrap() []error {
	return []error{domainerrors.ErrBalanceUpdateFailed, e.Cause}
}

// Note is the manual reconciliation message returned to the payer.
func (e *ReconciliationError) Note() string {
	if e.TransactionID == "" {
		return fmt.Sprintf(
			"Payment for order %s was captured (capture %s) but could not be recorded. "+
				"Contact support with the order id for manual reconciliation.",
			e.OrderID, e.CaptureID)
	}
	return fmt.Sprintf(
		"Payment for order %s was captured (capture %s) but your balance was not updated. "+
			"Contact support with transaction %s for manual reconciliation.",
		e.OrderID, e.CaptureID, e.TransactionID)
}

func reconciliationError(tx *models.Transaction, cause error) *ReconciliationError {
	return &ReconciliationError{
		OrderID:       tx.Reference,
		CaptureID:     tx.CaptureID,
		TransactionID: tx.TransactionID,
		Cause:         cause,
	}
}
