package handlers

import (
	"time"

	"github.com/sairajtravels/site-api/internal/models"
)

// AdminUserResponse is the API view of an admin account. Password hashes
// and reset token fields never leave the server.
type AdminUserResponse struct {
	ID                 int64      `json:"id"`
	Username           string     `json:"username"`
	Email              string     `json:"email"`
	FullName           string     `json:"fullName"`
	Role               string     `json:"role"`
	IsActive           bool       `json:"isActive"`
	MustChangePassword bool       `json:"mustChangePassword"`
	LastLogin          *time.Time `json:"lastLogin,omitempty"`
	CreatedAt          time.Time  `json:"createdAt"`
}

func toAdminUserResponse(u *models.AdminUser) AdminUserResponse {
	return AdminUserResponse{
		ID:                 u.ID,
		Username:           u.Username,
		Email:              u.Email,
		FullName:           u.FullName,
		Role:               u.Role,
		IsActive:           u.IsActive,
		MustChangePassword: u.MustChangePassword,
		LastLogin:          u.LastLogin,
		CreatedAt:          u.CreatedAt,
	}
}

func toAdminUserResponses(users []*models.AdminUser) []AdminUserResponse {
	out := make([]AdminUserResponse, 0, len(users))
	for _, u := range users {
		out = append(out, toAdminUserResponse(u))
	}
	return out
}

// EmailSettingsResponse is the API view of the settings row. The SMTP
// password is reported only as present or absent.
type EmailSettingsResponse struct {
	ID              int64     `json:"id"`
	EmailEnabled    bool      `json:"emailEnabled"`
	SMTPHost        string    `json:"smtpHost"`
	SMTPPort        int       `json:"smtpPort"`
	SMTPUsername    string    `json:"smtpUsername"`
	SMTPPasswordSet bool      `json:"smtpPasswordSet"`
	FromEmail       string    `json:"fromEmail"`
	AdminEmail      string    `json:"adminEmail"`
	UpdatedBy       string    `json:"updatedBy"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

func toEmailSettingsResponse(s *models.EmailSettings) EmailSettingsResponse {
	return EmailSettingsResponse{
		ID:              s.ID,
		EmailEnabled:    s.EmailEnabled,
		SMTPHost:        s.SMTPHost,
		SMTPPort:        s.SMTPPort,
		SMTPUsername:    s.SMTPUsername,
		SMTPPasswordSet: s.SMTPPassword != "",
		FromEmail:       s.FromEmail,
		AdminEmail:      s.AdminEmail,
		UpdatedBy:       s.UpdatedBy,
		UpdatedAt:       s.UpdatedAt,
	}
}
