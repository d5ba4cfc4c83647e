package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sairajtravels/site-api/internal/models"
	pkgauth "github.com/sairajtravels/site-api/pkg/auth"
)

// AdminUserAdminStore is the persistence interface for admin account
// management, separate from the narrower auth-flow store.
type AdminUserAdminStore interface {
	Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error)
	List(ctx context.Context, limit, offset int) ([]*models.AdminUser, error)
	SetActive(ctx context.Context, id int64, active bool) error
}

// UserNotifier delivers first-login credentials.
type UserNotifier interface {
	NotifyTemporaryPassword(user *models.AdminUser, tempPassword string)
}

// CreateUserInput is the validated request to provision an admin account.
type CreateUserInput struct {
	Username string
	Email    string
	FullName string
	Role     string
}

// UserService provisions and manages admin accounts. New accounts get a
// generated temporary password delivered by email and must change it on
// first login.
type UserService struct {
	users    AdminUserAdminStore
	notifier UserNotifier
	logger   *slog.Logger
}

func NewUserService(users AdminUserAdminStore, notifier UserNotifier, logger *slog.Logger) *UserService {
	return &UserService{
		users:    users,
		notifier: notifier,
		logger:   logger,
	}
}

// CreateUser provisions an account with a temporary password. The password
// is returned only through the notification email, never in the API
// response.
func (s *UserService) CreateUser(ctx context.Context, in CreateUserInput) (*models.AdminUser, error) {
	if !models.ValidRole(in.Role) {
		return nil, fmt.Errorf("unknown role %q: %w", in.Role, models.ErrValidation)
	}

	tempPassword, err := pkgauth.GenerateTempPassword()
	if err != nil {
		return nil, fmt.Errorf("failed to generate temporary password: %w", err)
	}

	hash, err := pkgauth.HashPassword(tempPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	created, err := s.users.Create(ctx, &models.AdminUser{
		Username:           in.Username,
		PasswordHash:       hash,
		Email:              in.Email,
		FullName:           in.FullName,
		Role:               in.Role,
		IsActive:           true,
		MustChangePassword: true,
	})
	if err != nil {
		return nil, err
	}

	s.notifier.NotifyTemporaryPassword(created, tempPassword)
	s.logger.Info("admin user created",
		slog.String("username", created.Username),
		slog.String("role", created.Role))

	return created, nil
}

// ListUsers returns admin accounts, newest first.
func (s *UserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.AdminUser, error) {
	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	return s.users.List(ctx, limit, offset)
}

// SetActive enables or disables an account. Disabling is the supported way
// to revoke access; accounts are never hard-deleted.
func (s *UserService) SetActive(ctx context.Context, id int64, active bool) error {
	if err := s.users.SetActive(ctx, id, active); err != nil {
		return err
	}

	s.logger.Info("admin user activation changed",
		slog.Int64("user_id", id),
		slog.Bool("active", active))
	return nil
}
