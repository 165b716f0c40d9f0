package routes

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gridiron/internal/handlers"
	"gridiron/internal/logger"
	"gridiron/internal/middleware"
	"gridiron/internal/models"
	"gridiron/internal/services/nfl"
	"gridiron/internal/services/payment"
	"gridiron/internal/sportsdata"
)

type staticVerifier map[string]*models.UserClaims

func (v staticVerifier) ParseAccessToken(token string) (*models.UserClaims, error) {
	claims, ok := v[token]
	if !ok {
		return nil, errors.New("unknown token")
	}
	return claims, nil
}

func (v staticVerifier) GetUserTokenVersion(_ context.Context, _ uint) (int, error) {
	return 1, nil
}

type noVendor struct{}

func (noVendor) BoxScore(context.Context, int) (*sportsdata.BoxScore, error) {
	return nil, errors.New("vendor not expected")
}

type emptyPayments struct{}

func (emptyPayments) Capture(context.Context, string, uint, string) (*payment.Result, error) {
	return nil, errors.New("capture not expected")
}

func (emptyPayments) RetryReconciliation(context.Context, string) (*payment.Result, error) {
	return nil, errors.New("retry not expected")
}

func (emptyPayments) ListReconciliations(context.Context, int, int) ([]models.Transaction, int64, error) {
	return []models.Transaction{}, 0, nil
}

func newTestApp() *fiber.App {
	log := logger.Discard()
	verifier := staticVerifier{
		"user-token": {UserID: 1, Role: models.RoleUser, TokenVersion: 1,
			Permissions: models.GetDefaultPermissions(models.RoleUser)},
		"viewer-token": {UserID: 2, Role: models.RoleUser, TokenVersion: 1,
			Permissions: []string{models.PermissionWalletRead}},
		"admin-token": {UserID: 3, Role: models.RoleAdmin, TokenVersion: 1},
	}

	payments := emptyPayments{}
	app := fiber.New()
	SetupRoutes(app, Handlers{
		Auth:       handlers.NewAuthHandler(nil, nil, false, log),
		Wallet:     handlers.NewWalletHandler(nil, log),
		Game:       handlers.NewGameHandler(nfl.NewService(noVendor{}, nil, nfl.TTLs{}, log), log),
		Payment:    handlers.NewPaymentHandler(payments, log),
		Admin:      handlers.NewAdminHandler(payments, log),
		Projection: handlers.NewProjectionHandler(nil, log),
		Health:     handlers.NewHealthHandler(nil, nil, Version, log),
	}, middleware.NewAuthMiddleware(verifier, log))
	return app
}

func TestSetupRoutes_Access(t *testing.T) {
	app := newTestApp()

	tests := []struct {
		name       string
		method     string
		path       string
		token      string
		wantStatus int
	}{
		{"root is public", http.MethodGet, "/", "", http.StatusOK},
		{"game is public", http.MethodGet, "/api/nfl/game/abc", "", http.StatusBadRequest},
		{"wallet needs a token", http.MethodGet, "/api/wallet", "", http.StatusUnauthorized},
		{"capture needs a token", http.MethodPost, "/api/paypal/orders/ORDER1/capture", "", http.StatusUnauthorized},
		{"capture rejects a bad token", http.MethodPost, "/api/paypal/orders/ORDER1/capture", "forged", http.StatusUnauthorized},
		{"capture needs deposit permission", http.MethodPost, "/api/stripe/payment-intents/pi_1/capture", "viewer-token", http.StatusForbidden},
		{"admin routes reject users", http.MethodGet, "/api/admin/reconciliations", "user-token", http.StatusForbidden},
		{"admin routes accept admins", http.MethodGet, "/api/admin/reconciliations", "admin-token", http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, nil)
			if tt.token != "" {
				req.Header.Set("Authorization", "Bearer "+tt.token)
			}
			resp, err := app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}
