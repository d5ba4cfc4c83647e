package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sairajtravels/site-api/internal/models"
)

// ContactMessageStore is the persistence interface for contact messages.
type ContactMessageStore interface {
	Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error)
	GetByID(ctx context.Context, id int64) (*models.ContactMessage, error)
	List(ctx context.Context, limit, offset int) ([]*models.ContactMessage, error)
	Delete(ctx context.Context, id int64) error
}

// ContactNotifier queues the emails triggered by a new message.
type ContactNotifier interface {
	NotifyContactMessage(msg *models.ContactMessage)
}

// ContactService handles the public contact form and the admin inbox.
// Persistence is the source of truth: a message is accepted once stored,
// and notification delivery never affects the submission outcome.
type ContactService struct {
	messages ContactMessageStore
	notifier ContactNotifier
	logger   *slog.Logger
}

func NewContactService(messages ContactMessageStore, notifier ContactNotifier, logger *slog.Logger) *ContactService {
	return &ContactService{
		messages: messages,
		notifier: notifier,
		logger:   logger,
	}
}

// Submit stores the message and queues notifications. Only a storage
// failure is an error; email trouble surfaces in logs, not to the
// customer.
func (s *ContactService) Submit(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	saved, err := s.messages.Create(ctx, msg)
	if err != nil {
		return nil, fmt.Errorf("failed to store contact message: %w", err)
	}

	s.notifier.NotifyContactMessage(saved)

	s.logger.Info("contact message received",
		slog.Int64("message_id", saved.ID),
		slog.String("name", saved.Name))
	return saved, nil
}

// List returns stored messages, newest first.
func (s *ContactService) List(ctx context.Context, limit, offset int) ([]*models.ContactMessage, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.messages.List(ctx, limit, offset)
}

// GetByID returns one stored message.
func (s *ContactService) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	return s.messages.GetByID(ctx, id)
}

// Delete removes a handled message from the inbox.
func (s *ContactService) Delete(ctx context.Context, id int64) error {
	if err := s.messages.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("contact message deleted", slog.Int64("message_id", id))
	return nil
}
