package payment

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	domainerrors "gridiron/internal/errors"
	"gridiron/internal/gateways"
	"gridiron/internal/logger"
	"gridiron/internal/models"
	"gridiron/internal/repositories"
	"gridiron/internal/repositories/cache"
	"gridiron/internal/services/wallet"
	"gridiron/internal/testutil"
)

type MockGateway struct {
	mock.Mock
	provider string
}

func (m *MockGateway) Provider() string {
	return m.provider
}

func (m *MockGateway) Capture(ctx context.Context, reference string) (*gateways.Capture, error) {
	args := m.Called(ctx, reference)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*gateways.Capture), args.Error(1)
}

type fixture struct {
	svc    Service
	store  repositories.Store
	cache  *cache.CacheService
	redis  *miniredis.Miniredis
	paypal *MockGateway
}

func newFixture(t *testing.T, limits Limits) *fixture {
	t.Helper()

	store := repositories.NewStore(testutil.NewDB(t))
	cacheService, mr := testutil.NewCache(t)
	log := logger.Discard()
	wallets := wallet.NewService(store, cacheService, "USD", log)

	for _, userID := range []uint{1, 2} {
		_, err := wallets.EnsureWallet(context.Background(), userID)
		require.NoError(t, err)
	}

	pp := &MockGateway{provider: models.ProviderPayPal}
	svc := NewService(store, []gateways.Gateway{pp}, cacheService, wallets, limits, log)

	return &fixture{svc: svc, store: store, cache: cacheService, redis: mr, paypal: pp}
}

func completedCapture(ref, amount, currency string) *gateways.Capture {
	return &gateways.Capture{
		Provider:   models.ProviderPayPal,
		Reference:  ref,
		CaptureID:  "CAP-" + ref,
		Status:     gateways.StatusCompleted,
		Amount:     decimal.RequireFromString(amount),
		Currency:   currency,
		PayerEmail: "fan@example.com",
		Raw:        map[string]interface{}{"order_status": "COMPLETED"},
	}
}

func eventTypes(t *testing.T, store repositories.Store, transactionID string) []string {
	t.Helper()
	events, err := store.Events().ListByTransaction(context.Background(), transactionID)
	require.NoError(t, err)
	types := make([]string, 0, len(events))
	for _, e := range events {
		types = append(types, e.Type)
	}
	return types
}

func TestCapture_Success(t *testing.T) {
	f := newFixture(t, Limits{})
	ctx := context.Background()
	f.paypal.On("Capture", mock.Anything, "ORDER1").Return(completedCapture("ORDER1", "25.00", "USD"), nil).Once()

	// prime the wallet cache so we can see it dropped
	require.NoError(t, f.cache.CacheWallet(ctx, &models.Wallet{UserID: 1, Currency: "USD"}))

	res, err := f.svc.Capture(ctx, models.ProviderPayPal, 1, "ORDER1")
	require.NoError(t, err)

	assert.Equal(t, "ORDER1", res.OrderID)
	assert.Equal(t, "CAP-ORDER1", res.CaptureID)
	assert.Equal(t, models.TransactionStatusCompleted, res.Status)
	assert.Equal(t, "USD", res.Currency)
	assert.NotEmpty(t, res.TransactionID)
	require.NotNil(t, res.Balance)
	assert.Equal(t, "25.00", res.Balance.StringFixed(2))
	assert.False(t, res.Replayed)

	tx, err := f.store.Transactions().GetByTransactionID(ctx, res.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, tx.Status)
	assert.NotNil(t, tx.CompletedAt)
	assert.Equal(t, "fan@example.com", tx.PayerEmail)

	assert.Equal(t,
		[]string{models.EventCaptureCompleted, models.EventBalanceCredited},
		eventTypes(t, f.store, res.TransactionID))

	cached, err := f.cache.GetWallet(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, cached, "wallet cache should be invalidated")

	assert.False(t, f.redis.Exists(lockKey(models.ProviderPayPal, "ORDER1")), "lock should be released")
}

func TestCapture_Replay(t *testing.T) {
	f := newFixture(t, Limits{})
	ctx := context.Background()
	f.paypal.On("Capture", mock.Anything, "ORDER2").Return(completedCapture("ORDER2", "10.00", "USD"), nil).Once()

	first, err := f.svc.Capture(ctx, models.ProviderPayPal, 1, "ORDER2")
	require.NoError(t, err)

	second, err := f.svc.Capture(ctx, models.ProviderPayPal, 1, "ORDER2")
	require.NoError(t, err)

	assert.True(t, second.Replayed)
	assert.Equal(t, first.TransactionID, second.TransactionID)
	require.NotNil(t, second.Balance)
	assert.Equal(t, "10.00", second.Balance.StringFixed(2), "balance is credited once")
	f.paypal.AssertNumberOfCalls(t, "Capture", 1)
}

func TestCapture_OwnedByAnotherUser(t *testing.T) {
	f := newFixture(t, Limits{})
	ctx := context.Background()
	f.paypal.On("Capture", mock.Anything, "ORDER3").Return(completedCapture("ORDER3", "10.00", "USD"), nil).Once()

	_, err := f.svc.Capture(ctx, models.ProviderPayPal, 1, "ORDER3")
	require.NoError(t, err)

	_, err = f.svc.Capture(ctx, models.ProviderPayPal, 2, "ORDER3")
	assert.ErrorIs(t, err, domainerrors.ErrOrderOwnedByAnotherUser)
	assert.Equal(t, http.StatusConflict, domainerrors.HTTPStatus(err))
}

func TestCapture_RejectsBeforeCapturing(t *testing.T) {
	tests := []struct {
		name       string
		provider   string
		reference  string
		setup      func(t *testing.T, f *fixture)
		wantErr    error
		wantStatus int
	}{
		{
			name:       "empty order id",
			provider:   models.ProviderPayPal,
			reference:  "  ",
			wantErr:    domainerrors.ErrInvalidOrderID,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "malformed order id",
			provider:   models.ProviderPayPal,
			reference:  "ORDER/../../admin",
			wantErr:    domainerrors.ErrInvalidOrderID,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "order id too long",
			provider:   models.ProviderPayPal,
			reference:  "A123456789012345678901234567890123456789012345678901234567890123456789",
			wantErr:    domainerrors.ErrInvalidOrderID,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "provider not configured",
			provider:   models.ProviderStripe,
			reference:  "pi_123",
			wantErr:    domainerrors.ErrUnsupportedProvider,
			wantStatus: http.StatusServiceUnavailable,
		},
		{
			name:      "lock held by another request",
			provider:  models.ProviderPayPal,
			reference: "ORDER4",
			setup: func(t *testing.T, f *fixture) {
				require.NoError(t, f.redis.Set(lockKey(models.ProviderPayPal, "ORDER4"), "other"))
			},
			wantErr:    domainerrors.ErrCaptureInProgress,
			wantStatus: http.StatusConflict,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t, Limits{})
			if tt.setup != nil {
				tt.setup(t, f)
			}

			_, err := f.svc.Capture(context.Background(), tt.provider, 1, tt.reference)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, tt.wantStatus, domainerrors.HTTPStatus(err))
			f.paypal.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything)
		})
	}
}

func TestCapture_GatewayFailureRecordsNothing(t *testing.T) {
	f := newFixture(t, Limits{})
	ctx := context.Background()
	f.paypal.On("Capture", mock.Anything, "ORDER5").Return(nil, &gateways.GatewayError{
		Provider:   models.ProviderPayPal,
		StatusCode: http.StatusUnprocessableEntity,
		Name:       "UNPROCESSABLE_ENTITY",
		Message:    "Order already captured.",
	})

	_, err := f.svc.Capture(ctx, models.ProviderPayPal, 1, "ORDER5")
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, domainerrors.HTTPStatus(err))
	assert.Equal(t, "Order already captured.", domainerrors.Message(err))

	_, err = f.store.Transactions().FindByReference(ctx, models.ProviderPayPal, "ORDER5")
	assert.ErrorIs(t, err, repositories.ErrTransactionNotFound)
	assert.False(t, f.redis.Exists(lockKey(models.ProviderPayPal, "ORDER5")))
}

func TestCapture_LockUnavailable(t *testing.T) {
	f := newFixture(t, Limits{})
	f.redis.Close()

	_, err := f.svc.Capture(context.Background(), models.ProviderPayPal, 1, "ORDER-REDIS-DOWN")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrCaptureUnavailable)
	assert.Equal(t, http.StatusServiceUnavailable, domainerrors.HTTPStatus(err))
	f.paypal.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything)
}

func TestCapture_NotCompleted(t *testing.T) {
	f := newFixture(t, Limits{})
	ctx := context.Background()
	pending := completedCapture("ORDER6", "10.00", "USD")
	pending.Status = "PENDING"
	f.paypal.On("Capture", mock.Anything, "ORDER6").Return(pending, nil)

	_, err := f.svc.Capture(ctx, models.ProviderPayPal, 1, "ORDER6")
	assert.ErrorIs(t, err, domainerrors.ErrCaptureNotCompleted)
	assert.Equal(t, http.StatusBadRequest, domainerrors.HTTPStatus(err))

	_, err = f.store.Transactions().FindByReference(ctx, models.ProviderPayPal, "ORDER6")
	assert.ErrorIs(t, err, repositories.ErrTransactionNotFound)
}

func TestCapture_BalanceUpdateFailure(t *testing.T) {
	f := newFixture(t, Limits{})
	ctx := context.Background()
	f.paypal.On("Capture", mock.Anything, "ORDER7").Return(completedCapture("ORDER7", "10.00", "EUR"), nil).Once()

	_, err := f.svc.Capture(ctx, models.ProviderPayPal, 1, "ORDER7")
	require.Error(t, err)
	assert.ErrorIs(t, err, domainerrors.ErrBalanceUpdateFailed)
	assert.ErrorIs(t, err, domainerrors.ErrCurrencyMismatch)
	assert.Equal(t, http.StatusInternalServerError, domainerrors.HTTPStatus(err))

	var recErr *ReconciliationError
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, "ORDER7", recErr.OrderID)
	assert.Equal(t, "CAP-ORDER7", recErr.CaptureID)
	assert.NotEmpty(t, recErr.TransactionID)
	assert.Contains(t, recErr.Note(), recErr.TransactionID)

	tx, err := f.store.Transactions().GetByTransactionID(ctx, recErr.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusReconciliationRequired, tx.Status)
	assert.Contains(t, tx.ErrorNote, "EUR")
	assert.Equal(t, []string{models.EventBalanceUpdateFailed}, eventTypes(t, f.store, tx.TransactionID))

	w, err := f.store.Wallets().GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, w.Balance.IsZero(), "nothing credited")

	// asking again returns the reconciliation payload without a second capture
	_, err = f.svc.Capture(ctx, models.ProviderPayPal, 1, "ORDER7")
	require.True(t, errors.As(err, &recErr))
	assert.Equal(t, tx.TransactionID, recErr.TransactionID)
	f.paypal.AssertNumberOfCalls(t, "Capture", 1)
}

func TestCapture_AmountOutsideLimits(t *testing.T) {
	f := newFixture(t, Limits{Min: decimal.NewFromInt(5), Max: decimal.NewFromInt(100)})
	ctx := context.Background()
	f.paypal.On("Capture", mock.Anything, "ORDER8").Return(completedCapture("ORDER8", "250.00", "USD"), nil)

	_, err := f.svc.Capture(ctx, models.ProviderPayPal, 1, "ORDER8")
	assert.ErrorIs(t, err, domainerrors.ErrBalanceUpdateFailed)
	assert.ErrorIs(t, err, domainerrors.ErrAmountOutOfRange)

	txs, total, err := f.svc.ListReconciliations(ctx, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, txs, 1)
	assert.Equal(t, "ORDER8", txs[0].Reference)
}

func TestRetryReconciliation(t *testing.T) {
	f := newFixture(t, Limits{})
	ctx := context.Background()
	f.paypal.On("Capture", mock.Anything, "ORDER9").Return(completedCapture("ORDER9", "40.00", "USD"), nil).Once()

	require.NoError(t, f.store.Wallets().UpdateStatus(ctx, 1, models.WalletStatusFrozen))

	_, err := f.svc.Capture(ctx, models.ProviderPayPal, 1, "ORDER9")
	var recErr *ReconciliationError
	require.True(t, errors.As(err, &recErr))
	assert.ErrorIs(t, err, domainerrors.ErrWalletInactive)

	t.Run("still failing", func(t *testing.T) {
		_, err := f.svc.RetryReconciliation(ctx, recErr.TransactionID)
		assert.ErrorIs(t, err, domainerrors.ErrBalanceUpdateFailed)
	})

	t.Run("succeeds once the wallet is fixed", func(t *testing.T) {
		require.NoError(t, f.store.Wallets().UpdateStatus(ctx, 1, models.WalletStatusActive))

		res, err := f.svc.RetryReconciliation(ctx, recErr.TransactionID)
		require.NoError(t, err)
		assert.Equal(t, models.TransactionStatusCompleted, res.Status)
		require.NotNil(t, res.Balance)
		assert.Equal(t, "40.00", res.Balance.StringFixed(2))

		tx, err := f.store.Transactions().GetByTransactionID(ctx, recErr.TransactionID)
		require.NoError(t, err)
		assert.Empty(t, tx.ErrorNote)

		assert.Equal(t, []string{
			models.EventBalanceUpdateFailed,
			models.EventReconciliationRetried,
			models.EventBalanceUpdateFailed,
			models.EventReconciliationRetried,
			models.EventCaptureCompleted,
			models.EventBalanceCredited,
		}, eventTypes(t, f.store, recErr.TransactionID))
	})

	t.Run("completed entries are not retried", func(t *testing.T) {
		_, err := f.svc.RetryReconciliation(ctx, recErr.TransactionID)
		assert.ErrorIs(t, err, domainerrors.ErrNotReconcilable)
	})

	t.Run("unknown transaction", func(t *testing.T) {
		_, err := f.svc.RetryReconciliation(ctx, "00000000-0000-0000-0000-000000000000")
		assert.ErrorIs(t, err, domainerrors.ErrTransactionNotFound)
	})

	f.paypal.AssertNumberOfCalls(t, "Capture", 1)
}

func TestCapture_ResumesCapturedEntry(t *testing.T) {
	f := newFixture(t, Limits{})
	ctx := context.Background()

	tx := &models.Transaction{
		UserID:    1,
		Type:      models.TransactionTypeDeposit,
		Provider:  models.ProviderPayPal,
		Reference: "ORDER10",
		CaptureID: "CAP-ORDER10",
		Amount:    decimal.RequireFromString("7.50"),
		Currency:  "USD",
		Status:    models.TransactionStatusCaptured,
	}
	require.NoError(t, f.store.Transactions().Create(ctx, tx))

	res, err := f.svc.Capture(ctx, models.ProviderPayPal, 1, "ORDER10")
	require.NoError(t, err)
	assert.Equal(t, tx.TransactionID, res.TransactionID)
	assert.Equal(t, "7.50", res.Balance.StringFixed(2))
	f.paypal.AssertNotCalled(t, "Capture", mock.Anything, mock.Anything)
}

func TestLimits(t *testing.T) {
	limits := Limits{Min: decimal.NewFromInt(1), Max: decimal.NewFromInt(10)}

	assert.NoError(t, limits.check(decimal.NewFromInt(1)))
	assert.NoError(t, limits.check(decimal.NewFromInt(10)))
	assert.ErrorIs(t, limits.check(decimal.RequireFromString("0.99")), domainerrors.ErrAmountOutOfRange)
	assert.ErrorIs(t, limits.check(decimal.RequireFromString("10.01")), domainerrors.ErrAmountOutOfRange)
	assert.NoError(t, Limits{}.check(decimal.NewFromInt(1_000_000)))
}
