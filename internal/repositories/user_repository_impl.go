package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/exp/slog"
	"gorm.io/gorm"

	"gridiron/internal/logger/sl"
	"gridiron/internal/models"
)

type userRepository struct {
	db    *gorm.DB
	cache UserCache
	log   *slog.Logger
}

// NewUserRepository creates a new instance of UserRepository. cache may be nil.
func NewUserRepository(db *gorm.DB, cache UserCache, log *slog.Logger) UserRepository {
	return &userRepository{
		db:    db,
		cache: cache,
		log:   log,
	}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id uint) (*models.User, error) {
	if r.cache != nil {
		user, err := r.cache.GetUser(ctx, id)
		if err != nil {
			r.log.Warn("user cache read failed", slog.Uint64("user_id", uint64(id)), sl.Err(err))
		}
		if user != nil {
			return user, nil
		}
	}

	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if r.cache != nil {
		if err := r.cache.CacheUser(ctx, &user); err != nil {
			r.log.Warn("failed to cache user", slog.Uint64("user_id", uint64(id)), sl.Err(err))
		}
	}

	return &user, nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) IncrementTokenVersion(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1"))
	if result.Error != nil {
		return fmt.Errorf("failed to increment token version: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *userRepository) TouchLogin(ctx context.Context, userID uint) error {
	err := r.db.WithContext(ctx).
		Model(&models.User{}).
		Where("id = ?", userID).
		UpdateColumn("last_login_at", time.Now()).Error
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}

func (r *userRepository) Delete(ctx context.Context, userID uint) error {
	result := r.db.WithContext(ctx).Unscoped().Delete(&models.User{}, userID)
	if result.Error != nil {
		return fmt.Errorf("failed to delete user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	r.invalidate(ctx, userID)
	return nil
}

func (r *userRepository) invalidate(ctx context.Context, userID uint) {
	if r.cache == nil {
		return
	}
	if err := r.cache.InvalidateUser(ctx, userID); err != nil {
		r.log.Warn("failed to invalidate user cache", slog.Uint64("user_id", uint64(userID)), sl.Err(err))
	}
}
