package wallet

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "gridiron/internal/errors"
	"gridiron/internal/logger"
	"gridiron/internal/models"
	"gridiron/internal/repositories"
	"gridiron/internal/testutil"
)

func newTestService(t *testing.T) (Service, repositories.Store, Cache) {
	t.Helper()
	store := repositories.NewStore(testutil.NewDB(t))
	cacheService, _ := testutil.NewCache(t)
	return NewService(store, cacheService, "usd", logger.Discard()), store, cacheService
}

func TestWalletService_EnsureWallet(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	created, err := svc.EnsureWallet(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "USD", created.Currency)
	assert.Equal(t, models.WalletStatusActive, created.Status)
	assert.True(t, created.Balance.IsZero())

	again, err := svc.EnsureWallet(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, again.ID)
}

func TestWalletService_GetWallet(t *testing.T) {
	svc, store, cache := newTestService(t)
	ctx := context.Background()

	t.Run("not found", func(t *testing.T) {
		_, err := svc.GetWallet(ctx, 99)
		assert.ErrorIs(t, err, domainerrors.ErrWalletNotFound)
	})

	t.Run("cached after first read", func(t *testing.T) {
		_, err := svc.EnsureWallet(ctx, 2)
		require.NoError(t, err)

		_, err = svc.GetWallet(ctx, 2)
		require.NoError(t, err)

		cached, err := cache.GetWallet(ctx, 2)
		require.NoError(t, err)
		require.NotNil(t, cached)

		// a credit behind the cache's back is not visible until invalidated
		_, err = store.Wallets().Credit(ctx, 2, decimal.NewFromInt(10))
		require.NoError(t, err)

		stale, err := svc.GetWallet(ctx, 2)
		require.NoError(t, err)
		assert.True(t, stale.Balance.IsZero())

		svc.Invalidate(ctx, 2)
		fresh, err := svc.GetWallet(ctx, 2)
		require.NoError(t, err)
		assert.True(t, decimal.NewFromInt(10).Equal(fresh.Balance), "got %s", fresh.Balance)
	})
}

func TestWalletService_Credit(t *testing.T) {
	tests := []struct {
		name     string
		setup    func(t *testing.T, store repositories.Store)
		amount   decimal.Decimal
		currency string
		wantErr  error
		want     string
	}{
		{
			name:     "successful credit",
			amount:   decimal.RequireFromString("12.34"),
			currency: "usd",
			want:     "12.34",
		},
		{
			name:     "zero amount",
			amount:   decimal.Zero,
			currency: "USD",
			wantErr:  domainerrors.ErrInvalidAmount,
		},
		{
			name:     "negative amount",
			amount:   decimal.NewFromInt(-5),
			currency: "USD",
			wantErr:  domainerrors.ErrInvalidAmount,
		},
		{
			name:     "currency mismatch",
			amount:   decimal.NewFromInt(5),
			currency: "EUR",
			wantErr:  domainerrors.ErrCurrencyMismatch,
		},
		{
			name: "frozen wallet",
			setup: func(t *testing.T, store repositories.Store) {
				require.NoError(t, store.Wallets().UpdateStatus(context.Background(), 1, models.WalletStatusFrozen))
			},
			amount:   decimal.NewFromInt(5),
			currency: "USD",
			wantErr:  domainerrors.ErrWalletInactive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, store, _ := newTestService(t)
			ctx := context.Background()

			_, err := svc.EnsureWallet(ctx, 1)
			require.NoError(t, err)
			if tt.setup != nil {
				tt.setup(t, store)
			}

			w, err := svc.Credit(ctx, 1, tt.amount, tt.currency)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, w.Balance.StringFixed(2))
		})
	}
}

func TestWalletService_CreditMissingWallet(t *testing.T) {
	svc, _, _ := newTestService(t)

	_, err := svc.Credit(context.Background(), 42, decimal.NewFromInt(1), "USD")
	assert.ErrorIs(t, err, domainerrors.ErrWalletNotFound)
}

func TestWalletService_ListTransactions(t *testing.T) {
	svc, store, _ := newTestService(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.NoError(t, store.Transactions().Create(ctx, &models.Transaction{
			UserID:    5,
			Type:      models.TransactionTypeDeposit,
			Provider:  models.ProviderPayPal,
			Reference: "ORDER-" + string(rune('A'+i)),
			Amount:    decimal.NewFromInt(int64(i + 1)),
			Currency:  "USD",
			Status:    models.TransactionStatusCompleted,
		}))
	}

	txs, total, err := svc.ListTransactions(ctx, 5, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, txs, 2)

	txs, _, err = svc.ListTransactions(ctx, 5, 0, -1)
	require.NoError(t, err)
	assert.Len(t, txs, 3, "non-positive limit falls back to the default page size")
}
