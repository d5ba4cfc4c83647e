package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sairajtravels/site-api/internal/config"
	"github.com/sairajtravels/site-api/internal/models"
)

func newEmailService(mailer Mailer, settings SettingsReader) *EmailService {
	cfg := config.EmailConfig{
		DefaultFromEmail:  "noreply@sairajtravels.com",
		DefaultAdminEmail: "admin@sairajtravels.com",
		FrontendURL:       "https://www.sairajtravels.com",
	}
	return NewEmailService(mailer, settings, cfg, testLogger(), testAudit())
}

func enabledSettings() *mockSettingsReader {
	return &mockSettingsReader{
		enabled: true,
		settings: &models.EmailSettings{
			EmailEnabled: true,
			FromEmail:    "bookings@sairajtravels.com",
			AdminEmail:   "owner@sairajtravels.com",
		},
	}
}

func TestEmailServiceSkipsWhenDisabled(t *testing.T) {
	mailer := &mockMailer{}
	settings := &mockSettingsReader{enabled: false, settings: &models.EmailSettings{}}
	svc := newEmailService(mailer, settings)

	err := svc.SendTestEmail(context.Background(), "someone@example.com")
	require.NoError(t, err, "a disabled transport is a skip, not a failure")
	assert.Empty(t, mailer.Sent())
}

func TestEmailServiceContactConfirmation(t *testing.T) {
	mailer := &mockMailer{}
	svc := newEmailService(mailer, enabledSettings())

	err := svc.SendContactConfirmation(context.Background(), &models.ContactMessage{
		Name:    "Asha <script>",
		Email:   "asha@example.com",
		Message: "Line one\nLine two",
	})
	require.NoError(t, err)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "bookings@sairajtravels.com", sent[0].From)
	assert.Equal(t, "asha@example.com", sent[0].To)
	assert.Equal(t, "Sairaj Travels - We received your message", sent[0].Subject)
	assert.Contains(t, sent[0].HTMLBody, "Asha &lt;script&gt;", "customer input is escaped")
	assert.Contains(t, sent[0].HTMLBody, "Line one<br>Line two")
	assert.Contains(t, sent[0].TextBody, "Line one\nLine two")
}

func TestEmailServiceContactAlert(t *testing.T) {
	mailer := &mockMailer{}
	svc := newEmailService(mailer, enabledSettings())

	err := svc.SendContactAlert(context.Background(), &models.ContactMessage{
		Name:    "Ravi",
		Phone:   "9876543210",
		Message: "Call me back",
	})
	require.NoError(t, err)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "owner@sairajtravels.com", sent[0].To)
	assert.Equal(t, "New Contact Message from Ravi", sent[0].Subject)
	assert.Contains(t, sent[0].HTMLBody, "not provided", "missing customer email is labelled")
	assert.Contains(t, sent[0].TextBody, "9876543210")
}

func TestEmailServicePasswordResetLink(t *testing.T) {
	mailer := &mockMailer{}
	svc := newEmailService(mailer, enabledSettings())

	user := &models.AdminUser{Username: "admin", Email: "admin@example.com", FullName: "Rajesh Pawar"}
	err := svc.SendPasswordReset(context.Background(), user, "tok-123")
	require.NoError(t, err)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTMLBody, "https://www.sairajtravels.com/admin/reset-password?token=tok-123")
	assert.Contains(t, sent[0].TextBody, "reset-password?token=tok-123")
	assert.Contains(t, sent[0].HTMLBody, "Rajesh Pawar")
}

func TestEmailServiceTemporaryPassword(t *testing.T) {
	mailer := &mockMailer{}
	svc := newEmailService(mailer, enabledSettings())

	user := &models.AdminUser{Username: "newadmin", Email: "new@example.com", FullName: "New Admin"}
	err := svc.SendTemporaryPassword(context.Background(), user, "Temp1234pass")
	require.NoError(t, err)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Contains(t, sent[0].HTMLBody, "Temp1234pass")
	assert.Contains(t, sent[0].TextBody, "newadmin")
}

func TestEmailServiceFallsBackToDefaultAddresses(t *testing.T) {
	mailer := &mockMailer{}
	settings := &mockSettingsReader{enabled: true, settings: &models.EmailSettings{EmailEnabled: true}}
	svc := newEmailService(mailer, settings)

	err := svc.SendTestEmail(context.Background(), "someone@example.com")
	require.NoError(t, err)

	sent := mailer.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "noreply@sairajtravels.com", sent[0].From)
}

func TestEmailServiceReportsTransportFailure(t *testing.T) {
	mailer := &mockMailer{err: assert.AnError}
	svc := newEmailService(mailer, enabledSettings())

	err := svc.SendTestEmail(context.Background(), "someone@example.com")
	assert.Error(t, err)
}
