package models

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User represents an owner or sitter account in the system
type User struct {
	// gorm.Model gives us ID (uint), CreatedAt, UpdatedAt, DeletedAt
	gorm.Model

	UserID      string `json:"user_id" gorm:"uniqueIndex"`
	Phone       string `json:"phone" gorm:"uniqueIndex"` // E.164, login key
	Name        string `json:"name"`
	Email       string `json:"email"`
	Address     string `json:"address"`
	UserType    string `json:"user_type"` // "OWNER" or "SITTER"
	IsOnboarded bool   `json:"is_onboarded" gorm:"default:false"`
	IsActive    bool   `json:"is_active" gorm:"default:true"`
}

// UserType constants
const (
	UserTypeOwner  = "OWNER"
	UserTypeSitter = "SITTER"
)

// BeforeCreate hook to auto-generate UserID and normalize data
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == "" {
		u.UserID = uuid.NewString()
	}

	if !strings.HasPrefix(u.Phone, "+") {
		u.Phone = "+" + u.Phone
	}

	if u.UserType == "" {
		u.UserType = UserTypeOwner
	}

	return nil
}

// IsSitter reports whether the account is a sitter account
func (u *User) IsSitter() bool {
	return strings.EqualFold(u.UserType, UserTypeSitter)
}
