package errors

import "net/http"

var (
	ErrInvalidGameID = &DomainError{
		Code:    "INVALID_GAME_ID",
		Message: "game id must be a positive integer",
		Status:  http.StatusBadRequest,
	}
	ErrGameNotFound = &DomainError{
		Code:    "GAME_NOT_FOUND",
		Message: "game not found",
		Status:  http.StatusNotFound,
	}
	ErrSportsDataBadRequest = &DomainError{
		Code:    "SPORTS_DATA_BAD_REQUEST",
		Message: "sports data provider rejected the request",
		Status:  http.StatusBadRequest,
	}
	ErrSportsDataUnauthorized = &DomainError{
		Code:    "SPORTS_DATA_UNAUTHORIZED",
		Message: "sports data provider rejected our credentials",
		Status:  http.StatusUnauthorized,
	}
	ErrSportsDataUnavailable = &DomainError{
		Code:    "SPORTS_DATA_UNAVAILABLE",
		Message: "sports data provider is unavailable",
		Status:  http.StatusServiceUnavailable,
	}
	ErrSportsDataFailed = &DomainError{
		Code:    "SPORTS_DATA_FAILED",
		Message: "failed to load game data",
		Status:  http.StatusInternalServerError,
	}
)
