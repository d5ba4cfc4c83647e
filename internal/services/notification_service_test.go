package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sairajtravels/site-api/internal/models"
)

// recordingEmailSender captures which deliveries were triggered.
type recordingEmailSender struct {
	mu            sync.Mutex
	confirmations []*models.ContactMessage
	alerts        []*models.ContactMessage
	resets        []string
	tempPasswords []string
	changeNotices []string
}

func (r *recordingEmailSender) SendContactConfirmation(ctx context.Context, msg *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.confirmations = append(r.confirmations, msg)
	return nil
}

func (r *recordingEmailSender) SendContactAlert(ctx context.Context, msg *models.ContactMessage) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts = append(r.alerts, msg)
	return nil
}

func (r *recordingEmailSender) SendPasswordReset(ctx context.Context, user *models.AdminUser, token string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets = append(r.resets, token)
	return nil
}

func (r *recordingEmailSender) SendTemporaryPassword(ctx context.Context, user *models.AdminUser, tempPassword string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.tempPasswords = append(r.tempPasswords, tempPassword)
	return nil
}

func (r *recordingEmailSender) SendPasswordChangeNotice(ctx context.Context, user *models.AdminUser) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.changeNotices = append(r.changeNotices, user.Username)
	return nil
}

func TestNotificationServiceContactMessageWithEmail(t *testing.T) {
	sender := &recordingEmailSender{}
	dispatcher := NewDispatcher(2, 8, time.Second, testLogger())
	svc := NewNotificationService(dispatcher, sender)

	svc.NotifyContactMessage(&models.ContactMessage{ID: 1, Name: "Asha", Email: "asha@example.com"})
	dispatcher.Close()

	require.Len(t, sender.alerts, 1)
	require.Len(t, sender.confirmations, 1)
	assert.Equal(t, "asha@example.com", sender.confirmations[0].Email)
}

func TestNotificationServiceContactMessageWithoutEmail(t *testing.T) {
	sender := &recordingEmailSender{}
	dispatcher := NewDispatcher(2, 8, time.Second, testLogger())
	svc := NewNotificationService(dispatcher, sender)

	svc.NotifyContactMessage(&models.ContactMessage{ID: 2, Name: "Ravi", Phone: "9876543210"})
	dispatcher.Close()

	assert.Len(t, sender.alerts, 1, "admin is always alerted")
	assert.Empty(t, sender.confirmations, "no confirmation without an address")
}

func TestNotificationServicePasswordEvents(t *testing.T) {
	sender := &recordingEmailSender{}
	dispatcher := NewDispatcher(1, 8, time.Second, testLogger())
	svc := NewNotificationService(dispatcher, sender)

	user := &models.AdminUser{ID: 3, Username: "admin", Email: "admin@example.com"}
	svc.NotifyPasswordReset(user, "plain-token")
	svc.NotifyTemporaryPassword(user, "Temp1234pass")
	svc.NotifyPasswordChanged(user)
	dispatcher.Close()

	assert.Equal(t, []string{"plain-token"}, sender.resets)
	assert.Equal(t, []string{"Temp1234pass"}, sender.tempPasswords)
	assert.Equal(t, []string{"admin"}, sender.changeNotices)
}
