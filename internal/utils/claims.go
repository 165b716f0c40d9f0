package utils

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"gridiron/internal/models"
)

// ClaimsKey is the fiber Locals key the auth middleware stores claims under.
const ClaimsKey = "claims"

// Auth cookie names set at login and read by the auth middleware.
const (
	AccessTokenCookie  = "access_token"
	RefreshTokenCookie = "refresh_token"
)

// GetUserClaims extracts the user claims from the Fiber context.
// It returns an error if the claims are missing or of an invalid type.
func GetUserClaims(c *fiber.Ctx) (*models.UserClaims, error) {
	v := c.Locals(ClaimsKey)
	if v == nil {
		return nil, errors.New("claims not found in context")
	}

	claims, ok := v.(*models.UserClaims)
	if !ok || claims == nil {
		return nil, errors.New("invalid claims type")
	}
	return claims, nil
}
