package models

import (
	"strings"
	"time"
)

type Role string

const (
	RoleStudent Role = "student"
	RoleFaculty Role = "faculty"
	RoleAdmin   Role = "admin"
)

// Account is a registered principal. CurrentSessionID mirrors the session id
// embedded in the most recently issued token; any other token is stale.
type Account struct {
	ID               string    `json:"id" gorm:"primaryKey;size:36"`
	Name             string    `json:"name" gorm:"not null;size:100"`
	Email            string    `json:"email" gorm:"uniqueIndex;not null;size:255"`
	PasswordHash     string    `json:"-" gorm:"not null;size:255"`
	Role             Role      `json:"role" gorm:"not null;size:20;default:student;index"`
	CurrentSessionID string    `json:"-" gorm:"size:64"`
	CreatedAt        time.Time `json:"createdAt"`
	UpdatedAt        time.Time `json:"updatedAt"`
}

func (Account) TableName() string {
	return "accounts"
}

// NormalizeEmail lower-cases and trims an address so lookups are case-insensitive.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
