package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"gridiron/internal/config"
	"gridiron/internal/models"
)

const issuer = "gridiron-api"

var errInvalidToken = errors.New("invalid token")

// TokenIssuer signs and verifies HS256 access and refresh tokens.
type TokenIssuer struct {
	secret        []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
	now           func() time.Time
}

func NewTokenIssuer(cfg config.JWTConfig) *TokenIssuer {
	refreshSecret := cfg.RefreshSecret
	if refreshSecret == "" {
		refreshSecret = cfg.Secret
	}
	return &TokenIssuer{
		secret:        []byte(cfg.Secret),
		refreshSecret: []byte(refreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
		now:           time.Now,
	}
}

// GenerateTokens generates an access token and a refresh token for the given user claims.
func (t *TokenIssuer) GenerateTokens(claims *models.UserClaims) (accessToken string, refreshToken string, err error) {
	if len(t.secret) == 0 {
		return "", "", errors.New("jwt secret not configured")
	}
	now := t.now()

	accessClaims := models.UserClaims{
		RegisteredClaims: t.registered(claims.UserID, now, t.accessTTL),
		UserID:           claims.UserID,
		Email:            claims.Email,
		Role:             claims.Role,
		Permissions:      claims.Permissions,
		TokenVersion:     claims.TokenVersion,
		TokenType:        models.TokenTypeAccess,
	}
	accessToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, accessClaims).SignedString(t.secret)
	if err != nil {
		return "", "", fmt.Errorf("sign access token: %w", err)
	}

	// refresh tokens carry no permissions
	refreshClaims := models.UserClaims{
		RegisteredClaims: t.registered(claims.UserID, now, t.refreshTTL),
		UserID:           claims.UserID,
		Email:            claims.Email,
		Role:             claims.Role,
		TokenVersion:     claims.TokenVersion,
		TokenType:        models.TokenTypeRefresh,
	}
	refreshToken, err = jwt.NewWithClaims(jwt.SigningMethodHS256, refreshClaims).SignedString(t.refreshSecret)
	if err != nil {
		return "", "", fmt.Errorf("sign refresh token: %w", err)
	}

	return accessToken, refreshToken, nil
}

// ParseAccessToken validates an access token and returns its claims.
func (t *TokenIssuer) ParseAccessToken(tokenStr string) (*models.UserClaims, error) {
	return t.parse(tokenStr, t.secret, models.TokenTypeAccess)
}

// ParseRefreshToken validates a refresh token and returns its claims.
func (t *TokenIssuer) ParseRefreshToken(tokenStr string) (*models.UserClaims, error) {
	return t.parse(tokenStr, t.refreshSecret, models.TokenTypeRefresh)
}

// parse also checks the typ claim, so a refresh token never passes as an
// access token even when both share a secret.
func (t *TokenIssuer) parse(tokenStr string, secret []byte, tokenType string) (*models.UserClaims, error) {
	token, err := jwt.ParseWithClaims(tokenStr, &models.UserClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", token.Header["alg"])
		}
		return secret, nil
	},
		jwt.WithIssuer(issuer),
		jwt.WithTimeFunc(t.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errInvalidToken, err)
	}

	claims, ok := token.Claims.(*models.UserClaims)
	if !ok || !token.Valid {
		return nil, errInvalidToken
	}
	if claims.TokenType != tokenType {
		return nil, fmt.Errorf("%w: expected %s token", errInvalidToken, tokenType)
	}
	return claims, nil
}

func (t *TokenIssuer) registered(userID uint, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		Issuer:    issuer,
		Subject:   strconv.FormatUint(uint64(userID), 10),
	}
}
