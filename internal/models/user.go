package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	gorm.Model
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`
	Password     string     `gorm:"not null" json:"-"`
	Name         string     `json:"name"`
	Role         string     `gorm:"default:'user'" json:"role"`
	Status       string     `gorm:"default:'active'" json:"status"`
	LastLoginAt  *time.Time `json:"last_login_at,omitempty"`
	TokenVersion int        `gorm:"default:1" json:"-"`
}
