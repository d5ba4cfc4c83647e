package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/sairajtravels/site-api/internal/auth"
	"github.com/sairajtravels/site-api/internal/config"
	"github.com/sairajtravels/site-api/internal/models"
	pkgauth "github.com/sairajtravels/site-api/pkg/auth"
	pkglogger "github.com/sairajtravels/site-api/pkg/logger"
)

// AdminUserStore is the persistence interface the auth flow depends on.
type AdminUserStore interface {
	GetByUsername(ctx context.Context, username string) (*models.AdminUser, error)
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error
	UpdatePassword(ctx context.Context, id int64, passwordHash string) error
	SetResetToken(ctx context.Context, id int64, tokenHash string, expiresAt time.Time) error
	GetByResetToken(ctx context.Context, tokenHash string) (*models.AdminUser, error)
	ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string) (*models.AdminUser, error)
}

// AuthNotifier covers the notification events the auth flow emits.
type AuthNotifier interface {
	NotifyPasswordReset(user *models.AdminUser, token string)
	NotifyPasswordChanged(user *models.AdminUser)
}

// LoginResult is a successful authentication: the signed token plus the
// authenticated user for the response payload.
type LoginResult struct {
	Token string
	User  *models.AdminUser
}

// AuthService implements the admin authentication flow: login, password
// reset over emailed single-use tokens, and authenticated password change.
type AuthService struct {
	users    AdminUserStore
	tokens   *auth.TokenManager
	notifier AuthNotifier
	cfg      config.AuthConfig
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger
}

func NewAuthService(users AdminUserStore, tokens *auth.TokenManager, notifier AuthNotifier, cfg config.AuthConfig, logger *slog.Logger, audit *pkglogger.AuditLogger) *AuthService {
	return &AuthService{
		users:    users,
		tokens:   tokens,
		notifier: notifier,
		cfg:      cfg,
		logger:   logger,
		audit:    audit,
	}
}

// Login authenticates a username/password pair and issues a JWT. Unknown
// username, wrong password and disabled account all fail with the same
// error so the response reveals nothing about which check tripped.
func (s *AuthService) Login(ctx context.Context, username, password, ipAddress string) (*LoginResult, error) {
	fail := func(reason string) (*LoginResult, error) {
		s.audit.LogAuthAttempt(pkglogger.AuditEvent{
			EventType:     "login",
			Username:      username,
			IPAddress:     ipAddress,
			Success:       false,
			FailureReason: reason,
		})
		return nil, models.ErrInvalidCredentials
	}

	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			// Burn a bcrypt compare so an unknown username takes as
			// long as a wrong password.
			pkgauth.DummyCompare(password)
			return fail("unknown username")
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, password); err != nil {
		return fail("wrong password")
	}

	if !user.IsActive {
		return fail("account disabled")
	}

	token, err := s.tokens.Generate(user.Username, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to issue token: %w", err)
	}

	now := time.Now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		// Login still succeeds; the stamp is informational.
		s.logger.Warn("failed to update last login",
			slog.String("username", user.Username),
			slog.Any("error", err))
	} else {
		user.LastLogin = &now
	}

	s.audit.LogAuthAttempt(pkglogger.AuditEvent{
		EventType: "login",
		Username:  user.Username,
		IPAddress: ipAddress,
		Success:   true,
	})

	return &LoginResult{Token: token, User: user}, nil
}

// ForgotPassword issues a reset token and emails the link. It never reports
// whether the address exists: unknown or disabled accounts are logged and
// silently skipped so the endpoint cannot be used to enumerate admins.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.logger.Info("password reset requested for unknown email",
				slog.String("email", pkglogger.SanitizedEmail(email)))
			return nil
		}
		return fmt.Errorf("failed to look up email: %w", err)
	}

	if !user.IsActive {
		s.logger.Info("password reset requested for disabled account",
			slog.String("username", user.Username))
		return nil
	}

	token, err := pkgauth.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(s.cfg.ResetTokenTTL)
	if err := s.users.SetResetToken(ctx, user.ID, pkgauth.HashResetToken(token), expiresAt); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	s.notifier.NotifyPasswordReset(user, token)
	s.audit.LogPasswordEvent("reset_requested", user.Username, true)
	return nil
}

// ValidateResetToken checks a token without consuming it, so the frontend
// can show the reset form only for live tokens.
func (s *AuthService) ValidateResetToken(ctx context.Context, token string) error {
	if token == "" {
		return models.ErrTokenInvalid
	}

	_, err := s.users.GetByResetToken(ctx, pkgauth.HashResetToken(token))
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return models.ErrTokenInvalid
		}
		return fmt.Errorf("failed to validate reset token: %w", err)
	}
	return nil
}

// ResetPassword redeems a reset token for a new password. Consumption is a
// single atomic update, so a token can be redeemed at most once even under
// concurrent requests.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" {
		return models.ErrTokenInvalid
	}
	if err := pkgauth.ValidatePasswordLength(newPassword, s.cfg.MinPasswordLen); err != nil {
		return fmt.Errorf("%v: %w", err, models.ErrValidation)
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.ConsumeResetToken(ctx, pkgauth.HashResetToken(token), hash)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			s.audit.LogPasswordEvent("reset_completed", "", false)
			return models.ErrTokenInvalid
		}
		return fmt.Errorf("failed to consume reset token: %w", err)
	}

	s.notifier.NotifyPasswordChanged(user)
	s.audit.LogPasswordEvent("reset_completed", user.Username, true)
	return nil
}

// ChangePassword lets an authenticated admin rotate their own password
// after proving knowledge of the current one.
func (s *AuthService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return fmt.Errorf("failed to look up user: %w", err)
	}

	if err := pkgauth.ComparePassword(user.PasswordHash, currentPassword); err != nil {
		s.audit.LogPasswordEvent("change", username, false)
		return fmt.Errorf("current password is incorrect: %w", models.ErrBadRequest)
	}

	if err := pkgauth.ValidatePasswordLength(newPassword, s.cfg.MinPasswordLen); err != nil {
		return fmt.Errorf("%v: %w", err, models.ErrValidation)
	}

	hash, err := pkgauth.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.users.UpdatePassword(ctx, user.ID, hash); err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}

	s.notifier.NotifyPasswordChanged(user)
	s.audit.LogPasswordEvent("change", username, true)
	return nil
}
