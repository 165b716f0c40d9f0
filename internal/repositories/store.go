package repositories

import (
	"context"

	"gorm.io/gorm"
)

// Store groups the ledger repositories so they can share one database transaction.
type Store interface {
	Wallets() WalletRepository
	Transactions() TransactionRepository
	Events() EventRepository

	// ExecuteInTransaction runs fn against repositories bound to a single
	// transaction. Returning an error rolls everything back.
	ExecuteInTransaction(ctx context.Context, fn func(Store) error) error
}

type store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) Store {
	return &store{db: db}
}

func (s *store) Wallets() WalletRepository {
	return NewWalletRepository(s.db)
}

func (s *store) Transactions() TransactionRepository {
	return NewTransactionRepository(s.db)
}

func (s *store) Events() EventRepository {
	return NewEventRepository(s.db)
}

func (s *store) ExecuteInTransaction(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&store{db: tx})
	})
}
