// Package auth registers users, issues JWTs and checks token versions.
package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/exp/slog"

	domainerrors "gridiron/internal/errors"
	"gridiron/internal/logger/sl"
	"gridiron/internal/models"
	"gridiron/internal/repositories"
)

type Service interface {
	Register(ctx context.Context, input RegisterInput) (*models.User, error)
	Login(ctx context.Context, email, password string) (*Session, error)
	RefreshTokens(ctx context.Context, refreshToken string) (string, string, error)
	Logout(ctx context.Context, userID uint) error

	// ParseAccessToken validates a bearer token's signature and expiry.
	ParseAccessToken(token string) (*models.UserClaims, error)
	GetUserTokenVersion(ctx context.Context, userID uint) (int, error)
}

// WalletCreator opens the balance ledger row for a new user.
type WalletCreator interface {
	EnsureWallet(ctx context.Context, userID uint) (*models.Wallet, error)
}

type RegisterInput struct {
	Email    string
	Password string
	Name     string
	Role     string
}

// Session is the result of a successful login.
type Session struct {
	User         *models.User
	AccessToken  string
	RefreshToken string
}

type service struct {
	users   repositories.UserRepository
	wallets WalletCreator
	tokens  *TokenIssuer
	log     *slog.Logger
}

func NewService(users repositories.UserRepository, wallets WalletCreator, tokens *TokenIssuer, log *slog.Logger) Service {
	if users == nil || tokens == nil {
		panic("user repository and token issuer are required")
	}
	return &service{
		users:   users,
		wallets: wallets,
		tokens:  tokens,
		log:     log,
	}
}

func (s *service) Register(ctx context.Context, input RegisterInput) (*models.User, error) {
	const op = "auth.Register"

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("%s: hash password: %w", op, err)
	}

	role := input.Role
	if role == "" {
		role = models.RoleUser
	}
	user := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(input.Email)),
		Password:     string(hashed),
		Name:         input.Name,
		Role:         role,
		Status:       "active",
		TokenVersion: 1,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrEmailTaken) {
			return nil, domainerrors.ErrEmailTaken
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if s.wallets != nil {
		if _, err := s.wallets.EnsureWallet(ctx, user.ID); err != nil {
			// no user is left without a wallet
			if delErr := s.users.Delete(ctx, user.ID); delErr != nil {
				s.log.Error("failed to remove user after wallet error",
					sl.Op(op), slog.Uint64("user_id", uint64(user.ID)), sl.Err(delErr))
			}
			return nil, fmt.Errorf("%s: create wallet: %w", op, err)
		}
	}

	s.log.Info("user registered", sl.Op(op), slog.Uint64("user_id", uint64(user.ID)), slog.String("role", role))
	return user, nil
}

func (s *service) Login(ctx context.Context, email, password string) (*Session, error) {
	const op = "auth.Login"
	log := s.log.With(sl.Op(op))

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			log.Info("login failed: unknown email")
			return nil, domainerrors.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		log.Info("login failed: wrong password", slog.Uint64("user_id", uint64(user.ID)))
		return nil, domainerrors.ErrInvalidCredentials
	}

	access, refresh, err := s.tokens.GenerateTokens(claimsFor(user))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.users.TouchLogin(ctx, user.ID); err != nil {
		log.Warn("failed to record login", sl.Err(err), slog.Uint64("user_id", uint64(user.ID)))
	}

	return &Session{User: user, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *service) RefreshTokens(ctx context.Context, refreshToken string) (string, string, error) {
	const op = "auth.RefreshTokens"

	claims, err := s.tokens.ParseRefreshToken(refreshToken)
	if err != nil {
		return "", "", domainerrors.ErrUnauthorized.WithMessage("invalid refresh token")
	}

	user, err := s.users.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return "", "", domainerrors.ErrUnauthorized.WithMessage("invalid refresh token")
		}
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	if user.TokenVersion != claims.TokenVersion {
		return "", "", domainerrors.ErrUnauthorized.WithMessage("session expired")
	}

	access, refresh, err := s.tokens.GenerateTokens(claimsFor(user))
	if err != nil {
		return "", "", fmt.Errorf("%s: %w", op, err)
	}
	return access, refresh, nil
}

// Logout invalidates every token issued to the user so far.
func (s *service) Logout(ctx context.Context, userID uint) error {
	const op = "auth.Logout"
	if err := s.users.IncrementTokenVersion(ctx, userID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *service) ParseAccessToken(token string) (*models.UserClaims, error) {
	claims, err := s.tokens.ParseAccessToken(token)
	if err != nil {
		return nil, domainerrors.ErrUnauthorized.WithMessage("invalid token")
	}
	return claims, nil
}

func (s *service) GetUserTokenVersion(ctx context.Context, userID uint) (int, error) {
	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return 0, domainerrors.ErrUnauthorized.WithMessage("invalid token")
		}
		return 0, err
	}
	return user.TokenVersion, nil
}

func claimsFor(user *models.User) *models.UserClaims {
	return &models.UserClaims{
		UserID:       user.ID,
		Email:        user.Email,
		Role:         user.Role,
		TokenVersion: user.TokenVersion,
		Permissions:  models.GetDefaultPermissions(user.Role),
	}
}
