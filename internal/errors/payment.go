package errors

import "net/http"

var (
	ErrInvalidOrderID = &DomainError{
		Code:    "INVALID_ORDER_ID",
		Message: "order id is missing or malformed",
		Status:  http.StatusBadRequest,
	}
	ErrCaptureInProgress = &DomainError{
		Code:    "CAPTURE_IN_PROGRESS",
		Message: "a capture for this order is already in progress",
		Status:  http.StatusConflict,
	}
	ErrCaptureUnavailable = &DomainError{
		Code:    "CAPTURE_UNAVAILABLE",
		Message: "capture is temporarily unavailable, retry shortly",
		Status:  http.StatusServiceUnavailable,
	}
	ErrOrderOwnedByAnotherUser = &DomainError{
		Code:    "ORDER_OWNED_BY_ANOTHER_USER",
		Message: "order was already captured for another account",
		Status:  http.StatusConflict,
	}
	ErrCaptureNotCompleted = &DomainError{
		Code:    "CAPTURE_NOT_COMPLETED",
		Message: "payment capture did not complete",
		Status:  http.StatusBadRequest,
	}
	ErrIntentNotCapturable = &DomainError{
		Code:    "INTENT_NOT_CAPTURABLE",
		Message: "payment intent cannot be captured",
		Status:  http.StatusBadRequest,
	}
	ErrAmountOutOfRange = &DomainError{
		Code:    "AMOUNT_OUT_OF_RANGE",
		Message: "captured amount is outside the allowed deposit range",
		Status:  http.StatusBadRequest,
	}
	ErrUnsupportedProvider = &DomainError{
		Code:    "UNSUPPORTED_PROVIDER",
		Message: "payment provider is not configured",
		Status:  http.StatusServiceUnavailable,
	}
	ErrBalanceUpdateFailed = &DomainError{
		Code:    "BALANCE_UPDATE_FAILED",
		Message: "payment captured but balance update failed",
		Status:  http.StatusInternalServerError,
	}
	ErrTransactionNotFound = &DomainError{
		Code:    "TRANSACTION_NOT_FOUND",
		Message: "transaction not found",
		Status:  http.StatusNotFound,
	}
	ErrNotReconcilable = &DomainError{
		Code:    "NOT_RECONCILABLE",
		Message: "transaction does not require reconciliation",
		Status:  http.StatusConflict,
	}
)
