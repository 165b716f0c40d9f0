package repositories

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrUserNotFound        = errors.New("user not found")
	ErrEmailTaken          = errors.New("email already taken")
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrDuplicateReference  = errors.New("transaction reference already recorded")
)

const pgUniqueViolation = "23505"

// isUniqueViolation reports whether err came from a unique index.
func isUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
