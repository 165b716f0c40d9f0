package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"gridiron/internal/models"
)

type walletRepository struct {
	db *gorm.DB
}

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) Create(ctx context.Context, wallet *models.Wallet) error {
	if err := r.db.WithContext(ctx).Create(wallet).Error; err != nil {
		return fmt.Errorf("failed to create wallet: %w", err)
	}
	return nil
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uint) (*models.Wallet, error) {
	var wallet models.Wallet
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrWalletNotFound
		}
		return nil, fmt.Errorf("failed to get wallet: %w", err)
	}
	return &wallet, nil
}

func (r *walletRepository) Credit(ctx context.Context, userID uint, amount decimal.Decimal) (*models.Wallet, error) {
	var wallet models.Wallet

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("user_id = ?", userID).
			First(&wallet).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrWalletNotFound
			}
			return err
		}

		result := tx.Model(&models.Wallet{}).
			Where("id = ?", wallet.ID).
			Update("balance", gorm.Expr("balance + ?", amount))
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected != 1 {
			return fmt.Errorf("expected 1 wallet row updated, got %d", result.RowsAffected)
		}

		return tx.First(&wallet, wallet.ID).Error
	})
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to credit wallet: %w", err)
	}

	return &wallet, nil
}

func (r *walletRepository) UpdateStatus(ctx context.Context, userID uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.Wallet{}).
		Where("user_id = ?", userID).
		Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update wallet status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrWalletNotFound
	}
	return nil
}
