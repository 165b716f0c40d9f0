// Package middleware provides HTTP middleware components for the application.
// It includes authentication and authorization middleware for fiber routes.
package middleware

import (
	"context"
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"

	"gridiron/internal/logger/sl"
	"gridiron/internal/models"
	"gridiron/internal/utils"
	"gridiron/internal/utils/response"
)

// TokenVerifier is the auth service subset the middleware needs.
type TokenVerifier interface {
	ParseAccessToken(token string) (*models.UserClaims, error)
	GetUserTokenVersion(ctx context.Context, userID uint) (int, error)
}

// AuthMiddleware handles JWT token validation and user authentication.
// It extracts the JWT token from the Authorization header or the access
// token cookie, validates it,
// and adds the user claims to the request context.
type AuthMiddleware struct {
	verifier TokenVerifier
	log      *slog.Logger
}

func NewAuthMiddleware(verifier TokenVerifier, log *slog.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		verifier: verifier,
		log:      log,
	}
}

// Handler validates JWT tokens and adds claims to the request context.
// It checks for:
// - A Bearer token in the Authorization header, or the access_token cookie
// - Valid JWT signature and expiry
// - Token version matches current user version
func (m *AuthMiddleware) Handler(c *fiber.Ctx) error {
	const op = "middleware.Auth"
	log := m.log.With(sl.Op(op), slog.String("path", c.Path()))

	var tokenString string
	if authHeader := c.Get(fiber.HeaderAuthorization); authHeader != "" {
		if !strings.HasPrefix(authHeader, "Bearer ") {
			return response.Error(c, fiber.StatusUnauthorized, "invalid authorization format")
		}
		tokenString = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
	} else {
		// browser sessions carry the token in the login cookie
		tokenString = c.Cookies(utils.AccessTokenCookie)
	}
	if tokenString == "" {
		return response.Error(c, fiber.StatusUnauthorized, "missing authorization header")
	}

	claims, err := m.verifier.ParseAccessToken(tokenString)
	if err != nil {
		log.Debug("token rejected", sl.Err(err))
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}

	currentVersion, err := m.verifier.GetUserTokenVersion(c.UserContext(), claims.UserID)
	if err != nil {
		log.Info("token user lookup failed", sl.Err(err), slog.Uint64("user_id", uint64(claims.UserID)))
		return response.Error(c, fiber.StatusUnauthorized, "invalid token")
	}
	if claims.TokenVersion != currentVersion {
		log.Info("token version mismatch",
			slog.Uint64("user_id", uint64(claims.UserID)),
			slog.Int("token_version", claims.TokenVersion),
			slog.Int("current_version", currentVersion),
		)
		return response.Error(c, fiber.StatusUnauthorized, "session expired")
	}

	c.Locals(utils.ClaimsKey, claims)
	c.Locals("userID", claims.UserID)

	return c.Next()
}

// AdminAuthMiddleware verifies that the request has valid admin claims.
func AdminAuthMiddleware(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}
	if claims.Role != models.RoleAdmin {
		return response.Forbidden(c)
	}
	return c.Next()
}

// HasPermission returns a middleware that checks for a specific permission.
func HasPermission(permission string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		claims, err := utils.GetUserClaims(c)
		if err != nil {
			return response.Unauthorized(c)
		}

		// admins hold every permission
		if claims.Role == models.RoleAdmin || claims.HasPermission(permission) {
			return c.Next()
		}
		return response.Forbidden(c)
	}
}
