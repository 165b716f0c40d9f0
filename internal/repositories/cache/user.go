package cache

import (
	"time"

	"gridiron/internal/models"
)

// cachedUser keeps the fields the User model hides from JSON so auth checks
// can be served from redis.
type cachedUser struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	Password     string    `json:"password"`
	Name         string    `json:"name"`
	Role         string    `json:"role"`
	Status       string    `json:"status"`
	TokenVersion int       `json:"token_version"`
	CreatedAt    time.Time `json:"created_at"`
}

func newCachedUser(u *models.User) cachedUser {
	return cachedUser{
		ID:           u.ID,
		Email:        u.Email,
		Password:     u.Password,
		Name:         u.Name,
		Role:         u.Role,
		Status:       u.Status,
		TokenVersion: u.TokenVersion,
		CreatedAt:    u.CreatedAt,
	}
}

func (c cachedUser) toModel() *models.User {
	u := &models.User{
		Email:        c.Email,
		Password:     c.Password,
		Name:         c.Name,
		Role:         c.Role,
		Status:       c.Status,
		TokenVersion: c.TokenVersion,
	}
	u.ID = c.ID
	u.CreatedAt = c.CreatedAt
	return u
}
