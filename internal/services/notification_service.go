package services

import (
	"context"
	"fmt"

	"github.com/sairajtravels/site-api/internal/models"
)

// EmailSender is the set of deliveries the notification layer can trigger.
type EmailSender interface {
	SendContactConfirmation(ctx context.Context, msg *models.ContactMessage) error
	SendContactAlert(ctx context.Context, msg *models.ContactMessage) error
	SendPasswordReset(ctx context.Context, user *models.AdminUser, token string) error
	SendTemporaryPassword(ctx context.Context, user *models.AdminUser, tempPassword string) error
	SendPasswordChangeNotice(ctx context.Context, user *models.AdminUser) error
}

// NotificationService fans notification events out to background email
// tasks. Callers never block on transport and never see delivery errors;
// each task logs its own outcome.
type NotificationService struct {
	dispatcher *Dispatcher
	emails     EmailSender
}

func NewNotificationService(dispatcher *Dispatcher, emails EmailSender) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		emails:     emails,
	}
}

// NotifyContactMessage queues the admin alert and, when the customer left
// an address, their confirmation. The two deliveries are independent.
func (s *NotificationService) NotifyContactMessage(msg *models.ContactMessage) {
	saved := *msg

	s.dispatcher.Enqueue(fmt.Sprintf("contact-alert-%d", saved.ID), func(ctx context.Context) error {
		return s.emails.SendContactAlert(ctx, &saved)
	})

	if saved.Email != "" {
		s.dispatcher.Enqueue(fmt.Sprintf("contact-confirmation-%d", saved.ID), func(ctx context.Context) error {
			return s.emails.SendContactConfirmation(ctx, &saved)
		})
	}
}

// NotifyPasswordReset queues the reset link email.
func (s *NotificationService) NotifyPasswordReset(user *models.AdminUser, token string) {
	u := *user
	s.dispatcher.Enqueue(fmt.Sprintf("password-reset-%d", u.ID), func(ctx context.Context) error {
		return s.emails.SendPasswordReset(ctx, &u, token)
	})
}

// NotifyTemporaryPassword queues first-login credentials for a new admin.
func (s *NotificationService) NotifyTemporaryPassword(user *models.AdminUser, tempPassword string) {
	u := *user
	s.dispatcher.Enqueue(fmt.Sprintf("temp-password-%d", u.ID), func(ctx context.Context) error {
		return s.emails.SendTemporaryPassword(ctx, &u, tempPassword)
	})
}

// NotifyPasswordChanged queues the change confirmation.
func (s *NotificationService) NotifyPasswordChanged(user *models.AdminUser) {
	u := *user
	s.dispatcher.Enqueue(fmt.Sprintf("password-changed-%d", u.ID), func(ctx context.Context) error {
		return s.emails.SendPasswordChangeNotice(ctx, &u)
	})
}
