package errors

import "net/http"

var (
	ErrInvalidAmount = &DomainError{
		Code:    "INVALID_AMOUNT",
		Message: "invalid amount",
		Status:  http.StatusBadRequest,
	}
	ErrWalletNotFound = &DomainError{
		Code:    "WALLET_NOT_FOUND",
		Message: "wallet not found",
		Status:  http.StatusNotFound,
	}
	ErrWalletInactive = &DomainError{
		Code:    "WALLET_INACTIVE",
		Message: "wallet is not active",
		Status:  http.StatusConflict,
	}
	ErrCurrencyMismatch = &DomainError{
		Code:    "CURRENCY_MISMATCH",
		Message: "deposit currency does not match wallet currency",
		Status:  http.StatusBadRequest,
	}
	ErrInvalidCredentials = &DomainError{
		Code:    "INVALID_CREDENTIALS",
		Message: "invalid email or password",
		Status:  http.StatusUnauthorized,
	}
	ErrEmailTaken = &DomainError{
		Code:    "EMAIL_TAKEN",
		Message: "email already registered",
		Status:  http.StatusConflict,
	}
)
