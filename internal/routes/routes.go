// Package routes defines the API routing configuration.
// It maps every endpoint to its handler along with the authentication and
// permission middleware it requires.
package routes

import (
	"github.com/gofiber/fiber/v2"

	"gridiron/internal/handlers"
	"gridiron/internal/middleware"
	"gridiron/internal/models"
)

// Version is reported by the root and health endpoints.
const Version = "1.0.0"

// Handlers groups the HTTP handlers the router mounts.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Wallet     *handlers.WalletHandler
	Game       *handlers.GameHandler
	Payment    *handlers.PaymentHandler
	Admin      *handlers.AdminHandler
	Projection *handlers.ProjectionHandler
	Health     *handlers.HealthHandler
}

// SetupRoutes configures all application routes.
func SetupRoutes(app *fiber.App, h Handlers, authMiddleware *middleware.AuthMiddleware) {
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to Gridiron API",
			"version": Version,
			"docs":    "/api",
		})
	})
	app.Get("/health", h.Health.HealthCheck)

	api := app.Group("/api")

	// Public endpoints
	api.Post("/register", h.Auth.RegisterUser)
	api.Post("/login", h.Auth.LoginUser)
	api.Post("/refresh", h.Auth.RefreshToken)

	api.Get("/nfl/game/:id", h.Game.GetGame)
	api.Get("/projections", h.Projection.ListProjections)
	api.Get("/rankings", h.Projection.ListRankings)

	setupUserRoutes(api, h, authMiddleware.Handler)
	setupAdminRoutes(api, h, authMiddleware.Handler)
}

func setupUserRoutes(router fiber.Router, h Handlers, auth fiber.Handler) {
	router.Post("/logout", auth, h.Auth.LogoutUser)

	router.Get("/wallet", auth, middleware.HasPermission(models.PermissionWalletRead), h.Wallet.GetWallet)
	router.Get("/transactions", auth, middleware.HasPermission(models.PermissionTransactionRead), h.Wallet.ListTransactions)

	deposit := middleware.HasPermission(models.PermissionDepositWrite)
	router.Post("/paypal/orders/:orderId/capture", auth, deposit, h.Payment.CapturePayPalOrder)
	router.Post("/stripe/payment-intents/:intentId/capture", auth, deposit, h.Payment.CaptureStripeIntent)
}

func setupAdminRoutes(router fiber.Router, h Handlers, auth fiber.Handler) {
	admin := router.Group("/admin", auth, middleware.AdminAuthMiddleware)

	admin.Get("/reconciliations", middleware.HasPermission(models.PermissionReadAdmin), h.Admin.ListReconciliations)
	admin.Post("/reconciliations/:id/retry", middleware.HasPermission(models.PermissionWriteAdmin), h.Admin.RetryReconciliation)
	admin.Get("/cache-stats", middleware.HasPermission(models.PermissionReadAdmin), h.Health.CacheStats)
}
