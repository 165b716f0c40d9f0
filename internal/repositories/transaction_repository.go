package repositories

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"gridiron/internal/models"
)

// TransactionRepository stores ledger entries.
type TransactionRepository interface {
	Create(ctx context.Context, tx *models.Transaction) error
	GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error)
	FindByReference(ctx context.Context, provider, reference string) (*models.Transaction, error)
	UpdateStatus(ctx context.Context, transactionID, status, note string) error
	ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) Create(ctx context.Context, tx *models.Transaction) error {
	if err := r.db.WithContext(ctx).Create(tx).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateReference
		}
		return fmt.Errorf("failed to create transaction: %w", err)
	}
	return nil
}

func (r *transactionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*models.Transaction, error) {
	return r.first(ctx, "transaction_id = ?", transactionID)
}

func (r *transactionRepository) FindByReference(ctx context.Context, provider, reference string) (*models.Transaction, error) {
	return r.first(ctx, "provider = ? AND reference = ?", provider, reference)
}

func (r *transactionRepository) first(ctx context.Context, query string, args ...interface{}) (*models.Transaction, error) {
	var tx models.Transaction
	if err := r.db.WithContext(ctx).Where(query, args...).First(&tx).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction: %w", err)
	}
	return &tx, nil
}

func (r *transactionRepository) UpdateStatus(ctx context.Context, transactionID, status, note string) error {
	updates := map[string]interface{}{
		"status":     status,
		"error_note": note,
	}
	if status == models.TransactionStatusCompleted {
		updates["completed_at"] = time.Now()
	}

	result := r.db.WithContext(ctx).
		Model(&models.Transaction{}).
		Where("transaction_id = ?", transactionID).
		Updates(updates)
	if result.Error != nil {
		return fmt.Errorf("failed to update transaction status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *transactionRepository) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	return r.list(ctx, "user_id = ?", userID, limit, offset)
}

func (r *transactionRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]models.Transaction, int64, error) {
	return r.list(ctx, "status = ?", status, limit, offset)
}

func (r *transactionRepository) list(ctx context.Context, query string, arg interface{}, limit, offset int) ([]models.Transaction, int64, error) {
	var (
		txs   []models.Transaction
		total int64
	)

	scope := func() *gorm.DB {
		return r.db.WithContext(ctx).Model(&models.Transaction{}).Where(query, arg)
	}
	if err := scope().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count transactions: %w", err)
	}

	err := scope().
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Offset(offset).
		Find(&txs).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list transactions: %w", err)
	}
	return txs, total, nil
}
