package handlers

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"golang.org/x/exp/slog"

	"gridiron/internal/models"
	"gridiron/internal/services/auth"
	"gridiron/internal/utils"
	"gridiron/internal/utils/response"
	"gridiron/internal/validation"
)

type AuthHandler struct {
	authService   auth.Service
	validate      *validator.Validate
	secureCookies bool
	log           *slog.Logger
}

func NewAuthHandler(authService auth.Service, validate *validator.Validate, secureCookies bool, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		validate:      validate,
		secureCookies: secureCookies,
		log:           log,
	}
}

type registerRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,password"`
	Name     string `json:"name" validate:"max=100"`
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// RegisterUser creates an account and its wallet.
func (h *AuthHandler) RegisterUser(c *fiber.Ctx) error {
	var input registerRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return response.ValidationError(c, validation.Message(err))
	}

	user, err := h.authService.Register(c.UserContext(), auth.RegisterInput{
		Email:    input.Email,
		Password: input.Password,
		Name:     input.Name,
	})
	if err != nil {
		return writeError(c, h.log, err)
	}

	return response.Created(c, "User registered successfully", userView(user))
}

// LoginUser handles user authentication and returns JWT tokens
func (h *AuthHandler) LoginUser(c *fiber.Ctx) error {
	var input loginRequest
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if err := h.validate.Struct(input); err != nil {
		return response.ValidationError(c, validation.Message(err))
	}

	session, err := h.authService.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return writeError(c, h.log, err)
	}

	h.setAuthCookies(c, session.AccessToken, session.RefreshToken)

	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"access_token":  session.AccessToken,
		"refresh_token": session.RefreshToken,
		"user":          userView(session.User),
	})
}

// RefreshToken handles token refresh requests
func (h *AuthHandler) RefreshToken(c *fiber.Ctx) error {
	refreshToken := c.Cookies(utils.RefreshTokenCookie)
	if refreshToken == "" {
		var input struct {
			RefreshToken string `json:"refresh_token"`
		}
		if err := c.BodyParser(&input); err == nil {
			refreshToken = input.RefreshToken
		}
	}
	if refreshToken == "" {
		return response.Error(c, fiber.StatusUnauthorized, "Refresh token not provided")
	}

	access, refresh, err := h.authService.RefreshTokens(c.UserContext(), refreshToken)
	if err != nil {
		return writeError(c, h.log, err)
	}

	h.setAuthCookies(c, access, refresh)

	return response.Success(c, "Tokens refreshed", fiber.Map{
		"access_token":  access,
		"refresh_token": refresh,
	})
}

// LogoutUser invalidates every token issued to the caller.
func (h *AuthHandler) LogoutUser(c *fiber.Ctx) error {
	claims, err := utils.GetUserClaims(c)
	if err != nil {
		return response.Unauthorized(c)
	}

	if err := h.authService.Logout(c.UserContext(), claims.UserID); err != nil {
		return writeError(c, h.log, err)
	}

	h.clearAuthCookies(c)
	return response.Success(c, "Successfully logged out", nil)
}

func (h *AuthHandler) setAuthCookies(c *fiber.Ctx, accessToken, refreshToken string) {
	c.Cookie(&fiber.Cookie{
		Name:     utils.AccessTokenCookie,
		Value:    accessToken,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/",
	})
	c.Cookie(&fiber.Cookie{
		Name:     utils.RefreshTokenCookie,
		Value:    refreshToken,
		HTTPOnly: true,
		Secure:   h.secureCookies,
		SameSite: fiber.CookieSameSiteStrictMode,
		Path:     "/api/refresh",
	})
}

func (h *AuthHandler) clearAuthCookies(c *fiber.Ctx) {
	for name, path := range map[string]string{utils.AccessTokenCookie: "/", utils.RefreshTokenCookie: "/api/refresh"} {
		c.Cookie(&fiber.Cookie{
			Name:     name,
			Value:    "",
			Expires:  time.Now().Add(-time.Hour),
			HTTPOnly: true,
			Secure:   h.secureCookies,
			Path:     path,
		})
	}
}

func userView(user *models.User) fiber.Map {
	return fiber.Map{
		"id":          user.ID,
		"email":       user.Email,
		"name":        user.Name,
		"role":        user.Role,
		"permissions": models.GetDefaultPermissions(user.Role),
	}
}
