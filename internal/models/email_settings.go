package models

import "time"

// EmailSettings is the runtime mail configuration. Rows are versioned: the
// most recently updated row (created_at breaks ties) is authoritative.
type EmailSettings struct {
	ID           int64     `json:"id"`
	EmailEnabled bool      `json:"emailEnabled"`
	SMTPHost     string    `json:"smtpHost"`
	SMTPPort     int       `json:"smtpPort"`
	SMTPUsername string    `json:"smtpUsername"`
	SMTPPassword string    `json:"-"`
	FromEmail    string    `json:"fromEmail"`
	AdminEmail   string    `json:"adminEmail"`
	UpdatedBy    string    `json:"updatedBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
