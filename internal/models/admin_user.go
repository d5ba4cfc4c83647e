package models

import (
	"time"
)

// Admin roles
const (
	RoleAdmin   = "ADMIN"
	RoleManager = "MANAGER"
	RoleViewer  = "VIEWER"
)

type AdminUser struct {
	ID                 int64
	Username           string
	PasswordHash       string
	Email              string
	FullName           string
	Role               string // "ADMIN", "MANAGER", "VIEWER"
	IsActive           bool
	MustChangePassword bool
	LastLogin          *time.Time
	ResetTokenHash     *string    // SHA-256 of the outstanding reset token, nil when none
	ResetTokenExpiry   *time.Time // expiry of the outstanding reset token
	CreatedAt          time.Time
	UpdatedAt          time.Time
}

// ValidRole reports whether role is one of the known admin roles.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleManager, RoleViewer:
		return true
	}
	return false
}

// HasValidResetToken reports whether the user holds an unexpired reset token.
func (u *AdminUser) HasValidResetToken(now time.Time) bool {
	return u.ResetTokenHash != nil && u.ResetTokenExpiry != nil && now.Before(*u.ResetTokenExpiry)
}
