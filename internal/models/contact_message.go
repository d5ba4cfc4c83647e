package models

import "time"

// ContactMessage is an inbound enquiry from the public contact form.
// Immutable once created except for administrative deletion.
type ContactMessage struct {
	ID        int64
	Name      string
	Email     string // optional, confirmation email is skipped when empty
	Phone     string
	Message   string
	CreatedAt time.Time
}
