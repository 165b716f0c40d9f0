package wallet

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slog"

	domainerrors "gridiron/internal/errors"
	"gridiron/internal/logger/sl"
	"gridiron/internal/models"
	"gridiron/internal/repositories"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type service struct {
	store    repositories.Store
	cache    Cache
	currency string
	log      *slog.Logger
}

// NewService creates the wallet service. cache may be nil.
func NewService(store repositories.Store, cache Cache, currency string, log *slog.Logger) Service {
	if store == nil {
		panic("store is required")
	}
	if currency == "" {
		currency = "USD"
	}
	return &service{
		store:    store,
		cache:    cache,
		currency: strings.ToUpper(currency),
		log:      log,
	}
}

func (s *service) GetWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	const op = "wallet.GetWallet"
	log := s.log.With(sl.Op(op), slog.Uint64("user_id", uint64(userID)))

	if s.cache != nil {
		cached, err := s.cache.GetWallet(ctx, userID)
		if err != nil {
			log.Warn("wallet cache read failed", sl.Err(err))
		}
		if cached != nil {
			return cached, nil
		}
	}

	w, err := s.store.Wallets().GetByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, mapRepoError(err))
	}

	if s.cache != nil {
		if err := s.cache.CacheWallet(ctx, w); err != nil {
			log.Warn("wallet cache write failed", sl.Err(err))
		}
	}
	return w, nil
}

func (s *service) EnsureWallet(ctx context.Context, userID uint) (*models.Wallet, error) {
	const op = "wallet.EnsureWallet"

	w, err := s.store.Wallets().GetByUserID(ctx, userID)
	if err == nil {
		return w, nil
	}
	if !errors.Is(err, repositories.ErrWalletNotFound) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	w = &models.Wallet{
		UserID:   userID,
		Balance:  decimal.Zero,
		Currency: s.currency,
		Status:   models.WalletStatusActive,
	}
	if err := s.store.Wallets().Create(ctx, w); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.log.Info("wallet created", sl.Op(op), slog.Uint64("user_id", uint64(userID)), slog.String("currency", w.Currency))
	return w, nil
}

func (s *service) Credit(ctx context.Context, userID uint, amount decimal.Decimal, currency string) (*models.Wallet, error) {
	const op = "wallet.Credit"

	w, err := ApplyCredit(ctx, s.store.Wallets(), userID, amount, currency)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.Invalidate(ctx, userID)
	s.log.Info("wallet credited",
		sl.Op(op),
		slog.Uint64("user_id", uint64(userID)),
		slog.String("amount", amount.StringFixed(2)),
		slog.String("balance", w.Balance.StringFixed(2)),
	)
	return w, nil
}

func (s *service) ListTransactions(ctx context.Context, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	const op = "wallet.ListTransactions"

	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}

	txs, total, err := s.store.Transactions().ListByUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("%s: %w", op, err)
	}
	return txs, total, nil
}

func (s *service) Invalidate(ctx context.Context, userID uint) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateWallet(ctx, userID); err != nil {
		s.log.Warn("wallet cache invalidation failed",
			sl.Err(err),
			slog.Uint64("user_id", uint64(userID)),
		)
	}
}

// ApplyCredit checks that the wallet can take a deposit of amount in
// currency and credits it through wallets. Pass a transaction-bound
// repository to make the credit part of a larger unit of work.
func ApplyCredit(ctx context.Context, wallets repositories.WalletRepository, userID uint, amount decimal.Decimal, currency string) (*models.Wallet, error) {
	if !amount.IsPositive() {
		return nil, domainerrors.ErrInvalidAmount
	}

	w, err := wallets.GetByUserID(ctx, userID)
	if err != nil {
		return nil, mapRepoError(err)
	}
	if !w.IsActive() {
		return nil, domainerrors.ErrWalletInactive
	}
	if !strings.EqualFold(w.Currency, currency) {
		return nil, domainerrors.ErrCurrencyMismatch.WithMessage(
			"deposit currency %s does not match wallet currency %s", strings.ToUpper(currency), w.Currency)
	}

	w, err = wallets.Credit(ctx, userID, amount)
	if err != nil {
		return nil, mapRepoError(err)
	}
	return w, nil
}

func mapRepoError(err error) error {
	if errors.Is(err, repositories.ErrWalletNotFound) {
		return domainerrors.ErrWalletNotFound
	}
	return err
}
