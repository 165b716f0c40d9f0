package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridiron/internal/logger"
	"gridiron/internal/models"
	"gridiron/internal/repositories"
	"gridiron/internal/services/projection"
	"gridiron/internal/testutil"
)

func newTestApp(t *testing.T) *app {
	t.Helper()
	cacheService, _ := testutil.NewCache(t)
	return &app{
		log:   logger.Discard(),
		db:    testutil.NewDB(t),
		cache: cacheService,
	}
}

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(a)
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestImportProjections(t *testing.T) {
	a := newTestApp(t)

	path := filepath.Join(t.TempDir(), "clay.txt")
	sheet := "QB Josh Allen 17 550 360 4100 30 10 30 100 550 8 0 0 0 0 380.5 1 DI 0 0\n" +
		"QB Team Total 17 550 360 4100 30 10 30 100 550 8 0 0 0 0 380.5 1 DI 0 0\n"
	require.NoError(t, os.WriteFile(path, []byte(sheet), 0o600))

	out, err := execute(t, a, "import", "projections", path, "--source", "Clay")
	require.NoError(t, err)
	assert.Contains(t, out, `imported 1 projections for source "Clay"`)

	rows, total, err := repositories.NewProjectionRepository(a.db).ListProjections(context.Background(),
		repositories.ProjectionFilter{Source: "clay"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "Josh Allen", rows[0].Name)

	_, err = execute(t, a, "import", "projections", path)
	assert.Error(t, err, "source is required")

	out, err = execute(t, a, "import", "projections", "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "within "+projection.ListCacheTTL.String())

	_, err = execute(t, a, "import", "rankings", filepath.Join(t.TempDir(), "missing.txt"), "--source", "espn")
	assert.Error(t, err)
}

func TestSeedAdmin(t *testing.T) {
	a := newTestApp(t)

	out, err := execute(t, a, "seed-admin", "--email", "Admin@Example.com", "--password", "s3cret!pass")
	require.NoError(t, err)
	assert.Contains(t, out, "admin account admin@example.com created")

	user, err := repositories.NewUserRepository(a.db, nil, a.log).GetByEmail(context.Background(), "admin@example.com")
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, user.Role)

	_, err = repositories.NewStore(a.db).Wallets().GetByUserID(context.Background(), user.ID)
	assert.NoError(t, err, "admin gets a wallet")

	out, err = execute(t, a, "seed-admin", "--email", "admin@example.com", "--password", "s3cret!pass")
	require.NoError(t, err)
	assert.Contains(t, out, "admin user already exists")
}

func TestReconcile(t *testing.T) {
	a := newTestApp(t)
	ctx := context.Background()
	store := repositories.NewStore(a.db)

	require.NoError(t, store.Wallets().Create(ctx, &models.Wallet{
		UserID: 1, Balance: decimal.Zero, Currency: "USD", Status: models.WalletStatusActive,
	}))
	tx := &models.Transaction{
		UserID:    1,
		Type:      models.TransactionTypeDeposit,
		Provider:  models.ProviderPayPal,
		Reference: "ORDER1",
		CaptureID: "CAP1",
		Amount:    decimal.RequireFromString("12.50"),
		Currency:  "USD",
		Status:    models.TransactionStatusReconciliationRequired,
		ErrorNote: "wallet was frozen",
	}
	require.NoError(t, store.Transactions().Create(ctx, tx))

	out, err := execute(t, a, "reconcile", "list")
	require.NoError(t, err)
	assert.Contains(t, out, tx.TransactionID)
	assert.Contains(t, out, "1 of 1 pending")

	out, err = execute(t, a, "reconcile", "retry", tx.TransactionID)
	require.NoError(t, err)
	assert.Contains(t, out, "credited 12.50 USD, balance 12.50")

	_, err = execute(t, a, "reconcile", "retry", tx.TransactionID)
	assert.Error(t, err, "completed entries are not reconcilable")
}

func TestCacheFlush(t *testing.T) {
	a := newTestApp(t)

	_, err := execute(t, a, "cache", "flush")
	assert.Error(t, err)

	out, err := execute(t, a, "cache", "flush", "--yes")
	require.NoError(t, err)
	assert.Contains(t, out, "cache flushed")

	out, err = execute(t, a, "cache", "ping")
	require.NoError(t, err)
	assert.Contains(t, out, "redis ok")
}
