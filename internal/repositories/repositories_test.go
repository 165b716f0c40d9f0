package repositories_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridiron/internal/logger"
	"gridiron/internal/models"
	"gridiron/internal/repositories"
	"gridiron/internal/testutil"
)

func seedUserWithWallet(t *testing.T, store repositories.Store, userID uint) {
	t.Helper()
	require.NoError(t, store.Wallets().Create(context.Background(), &models.Wallet{
		UserID:   userID,
		Currency: "USD",
		Status:   models.WalletStatusActive,
	}))
}

func TestWalletRepository_Credit(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewWalletRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Wallet{UserID: 1, Currency: "USD", Status: models.WalletStatusActive}))

	wallet, err := repo.Credit(ctx, 1, decimal.RequireFromString("25.50"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("25.50").Equal(wallet.Balance), "got %s", wallet.Balance)

	wallet, err = repo.Credit(ctx, 1, decimal.RequireFromString("10"))
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("35.50").Equal(wallet.Balance), "got %s", wallet.Balance)

	stored, err := repo.GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.Equal(stored.Balance))
}

func TestWalletRepository_CreditConcurrent(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewWalletRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.Wallet{UserID: 7, Currency: "USD", Status: models.WalletStatusActive}))

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Credit(ctx, 7, decimal.NewFromInt(5))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	wallet, err := repo.GetByUserID(ctx, 7)
	require.NoError(t, err)
	assert.True(t, decimal.NewFromInt(50).Equal(wallet.Balance), "got %s", wallet.Balance)
}

func TestWalletRepository_NotFound(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewWalletRepository(db)

	_, err := repo.GetByUserID(context.Background(), 404)
	assert.ErrorIs(t, err, repositories.ErrWalletNotFound)

	_, err = repo.Credit(context.Background(), 404, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, repositories.ErrWalletNotFound)

	err = repo.UpdateStatus(context.Background(), 404, models.WalletStatusFrozen)
	assert.ErrorIs(t, err, repositories.ErrWalletNotFound)
}

func TestTransactionRepository_UniqueReference(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewTransactionRepository(db)
	ctx := context.Background()

	first := &models.Transaction{
		UserID:    1,
		Type:      models.TransactionTypeDeposit,
		Provider:  models.ProviderPayPal,
		Reference: "ORDER-1",
		Amount:    decimal.RequireFromString("10.00"),
		Currency:  "USD",
		Status:    models.TransactionStatusCaptured,
	}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotEmpty(t, first.TransactionID)

	dup := *first
	dup.ID = 0
	dup.TransactionID = ""
	err := repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, repositories.ErrDuplicateReference)

	// same reference on another provider is a different entry
	other := *first
	other.ID = 0
	other.TransactionID = ""
	other.Provider = models.ProviderStripe
	require.NoError(t, repo.Create(ctx, &other))

	found, err := repo.FindByReference(ctx, models.ProviderPayPal, "ORDER-1")
	require.NoError(t, err)
	assert.Equal(t, first.TransactionID, found.TransactionID)

	_, err = repo.FindByReference(ctx, models.ProviderPayPal, "ORDER-2")
	assert.ErrorIs(t, err, repositories.ErrTransactionNotFound)
}

func TestTransactionRepository_StatusAndLists(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewTransactionRepository(db)
	ctx := context.Background()

	var ids []string
	for _, ref := range []string{"A", "B", "C"} {
		tx := &models.Transaction{
			UserID:    5,
			Type:      models.TransactionTypeDeposit,
			Provider:  models.ProviderPayPal,
			Reference: ref,
			Amount:    decimal.NewFromInt(1),
			Currency:  "USD",
			Status:    models.TransactionStatusCaptured,
		}
		require.NoError(t, repo.Create(ctx, tx))
		ids = append(ids, tx.TransactionID)
	}

	require.NoError(t, repo.UpdateStatus(ctx, ids[0], models.TransactionStatusCompleted, ""))
	require.NoError(t, repo.UpdateStatus(ctx, ids[1], models.TransactionStatusReconciliationRequired, "wallet locked"))

	done, err := repo.GetByTransactionID(ctx, ids[0])
	require.NoError(t, err)
	assert.Equal(t, models.TransactionStatusCompleted, done.Status)
	assert.NotNil(t, done.CompletedAt)

	pending, total, err := repo.ListByStatus(ctx, models.TransactionStatusReconciliationRequired, 10, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, pending, 1)
	assert.Equal(t, "wallet locked", pending[0].ErrorNote)

	page, total, err := repo.ListByUser(ctx, 5, 2, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, page, 2)

	err = repo.UpdateStatus(ctx, "missing", models.TransactionStatusCompleted, "")
	assert.ErrorIs(t, err, repositories.ErrTransactionNotFound)
}

func TestStore_ExecuteInTransactionRollsBack(t *testing.T) {
	db := testutil.NewDB(t)
	store := repositories.NewStore(db)
	ctx := context.Background()
	seedUserWithWallet(t, store, 1)

	boom := errors.New("boom")
	err := store.ExecuteInTransaction(ctx, func(tx repositories.Store) error {
		if _, err := tx.Wallets().Credit(ctx, 1, decimal.NewFromInt(100)); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	wallet, err := store.Wallets().GetByUserID(ctx, 1)
	require.NoError(t, err)
	assert.True(t, wallet.Balance.IsZero(), "credit must roll back, got %s", wallet.Balance)
}

func TestEventRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewEventRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, &models.PaymentEvent{TransactionID: "tx-1", Type: models.EventCaptureCompleted}))
	require.NoError(t, repo.Create(ctx, &models.PaymentEvent{TransactionID: "tx-1", Type: models.EventBalanceCredited, Payload: models.JSON{"balance": "10.00"}}))
	require.NoError(t, repo.Create(ctx, &models.PaymentEvent{TransactionID: "tx-2", Type: models.EventCaptureCompleted}))

	events, err := repo.ListByTransaction(ctx, "tx-1")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.EventCaptureCompleted, events[0].Type)
	assert.Equal(t, "10.00", events[1].Payload["balance"])
}

func TestUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	cacheSvc, _ := testutil.NewCache(t)
	repo := repositories.NewUserRepository(db, cacheSvc, logger.Discard())
	ctx := context.Background()

	user := &models.User{Email: " Fan@Example.com ", Password: "hash", Role: models.RoleUser}
	require.NoError(t, repo.Create(ctx, user))
	assert.Equal(t, "fan@example.com", user.Email)

	err := repo.Create(ctx, &models.User{Email: "fan@example.com", Password: "x"})
	assert.ErrorIs(t, err, repositories.ErrEmailTaken)

	byEmail, err := repo.GetByEmail(ctx, "FAN@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, byID.TokenVersion)

	require.NoError(t, repo.IncrementTokenVersion(ctx, user.ID))
	byID, err = repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, byID.TokenVersion, "cache must be invalidated on version bump")

	_, err = repo.GetByID(ctx, 999)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound)

	require.NoError(t, repo.Delete(ctx, user.ID))
	_, err = repo.GetByID(ctx, user.ID)
	assert.ErrorIs(t, err, repositories.ErrUserNotFound, "cache must be invalidated on delete")
	require.NoError(t, repo.Create(ctx, &models.User{Email: "fan@example.com", Password: "hash"}), "email is free again")
	assert.ErrorIs(t, repo.Delete(ctx, 999), repositories.ErrUserNotFound)
}

func TestProjectionRepository(t *testing.T) {
	db := testutil.NewDB(t)
	repo := repositories.NewProjectionRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.ReplaceProjections(ctx, "clay-2025", []models.Projection{
		{Name: "Josh Allen", Position: "QB", Games: 17, FantasyPoints: 380.2, PositionRank: 1},
		{Name: "Bijan Robinson", Position: "RB", Games: 17, FantasyPoints: 310.5, PositionRank: 1},
		{Name: "Jalen Hurts", Position: "QB", Games: 17, FantasyPoints: 350.1, PositionRank: 2},
	}))

	qbs, total, err := repo.ListProjections(ctx, repositories.ProjectionFilter{Position: "QB"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, qbs, 2)
	assert.Equal(t, "Josh Allen", qbs[0].Name)
	assert.Equal(t, "clay-2025", qbs[0].Source)

	// re-import replaces, not appends
	require.NoError(t, repo.ReplaceProjections(ctx, "clay-2025", []models.Projection{
		{Name: "Lamar Jackson", Position: "QB", Games: 17, FantasyPoints: 390, PositionRank: 1},
	}))
	all, total, err := repo.ListProjections(ctx, repositories.ProjectionFilter{Source: "clay-2025"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Lamar Jackson", all[0].Name)

	require.NoError(t, repo.ReplaceRankings(ctx, "underdog", []models.Ranking{
		{OverallRank: 2, Name: "Bijan Robinson", Team: "ATL"},
		{OverallRank: 1, Name: "Ja'Marr Chase", Team: "CIN"},
	}))
	rankings, total, err := repo.ListRankings(ctx, repositories.ProjectionFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, rankings, 1)
	assert.Equal(t, "Ja'Marr Chase", rankings[0].Name)
}

func TestAutoMigrate_JSONColumns(t *testing.T) {
	db := testutil.NewDB(t)
	require.NoError(t, repositories.AutoMigrate(db), "migration is repeatable")

	ctx := context.Background()
	store := repositories.NewStore(db)

	tx := &models.Transaction{
		UserID:    1,
		Type:      models.TransactionTypeDeposit,
		Provider:  models.ProviderPayPal,
		Reference: "ORDER-META",
		Amount:    decimal.RequireFromString("5"),
		Currency:  "USD",
		Status:    models.TransactionStatusCaptured,
		Metadata:  models.JSON{"payer_email": "fan@example.com"},
	}
	require.NoError(t, store.Transactions().Create(ctx, tx))

	stored, err := store.Transactions().GetByTransactionID(ctx, tx.TransactionID)
	require.NoError(t, err)
	assert.Equal(t, "fan@example.com", stored.Metadata["payer_email"])

	require.NoError(t, store.Events().Create(ctx, &models.PaymentEvent{
		TransactionID: tx.TransactionID,
		UserID:        1,
		Type:          models.EventCaptureCompleted,
		Payload:       models.JSON{"status": "COMPLETED"},
	}))
	events, err := store.Events().ListByTransaction(ctx, tx.TransactionID)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "COMPLETED", events[0].Payload["status"])
}
