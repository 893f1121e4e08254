package models

import (
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Base
	Email               string     `json:"email" gorm:"uniqueIndex;not null"`
	Password            string     `json:"-" gorm:"not null"`
	Name                string     `json:"name" gorm:"default:''"`
	Username            string     `json:"username" gorm:"default:''"`
	Role                string     `json:"role" gorm:"default:'user'"`
	ProfileImage        string     `json:"profileImage" gorm:"default:''"`
	LastLogin           *time.Time `json:"lastLogin"`
	FailedLoginAttempts int        `json:"-" gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"-"`
	BlockedUntil        *time.Time `json:"-"`
}

// DisplayName is the name printed on certificates and emails.
func (u *User) DisplayName(fallback string) string {
	if s := strings.TrimSpace(u.Username); s != "" {
		return s
	}
	if s := strings.TrimSpace(u.Name); s != "" {
		return s
	}
	return fallback
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// Validate checks the fields every stored user must carry.
func (u *User) Validate() error {
	if strings.TrimSpace(u.Email) == "" {
		return errors.New("email is required")
	}
	if u.Role != RoleUser && u.Role != RoleAdmin {
		return errors.New("role must be user or admin")
	}
	return nil
}

// BeforeSave normalizes the email and rejects invalid records.
func (u *User) BeforeSave(tx *gorm.DB) error {
	u.Email = strings.ToLower(strings.TrimSpace(u.Email))
	if u.Role == "" {
		u.Role = RoleUser
	}
	return u.Validate()
}
