package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/sairajtravels/site-api/internal/config"
	"github.com/sairajtravels/site-api/internal/models"
)

// EmailSettingsRepository defines the persistence interface for settings rows
type EmailSettingsRepository interface {
	GetLatest(ctx context.Context) (*models.EmailSettings, error)
	Create(ctx context.Context, s *models.EmailSettings) (*models.EmailSettings, error)
	Update(ctx context.Context, s *models.EmailSettings) (*models.EmailSettings, error)
	IsEnabled(ctx context.Context) (bool, error)
}

// settingsCacheTTL bounds how stale a cached settings read may be. Writes
// invalidate immediately; the TTL only covers changes made by another
// process against the same database.
const settingsCacheTTL = 30 * time.Second

// SettingsService serves the runtime email configuration. The newest row
// wins; a default row is created and persisted on first access. Reads go
// through an explicit cache invalidated on every write.
type SettingsService struct {
	repo     EmailSettingsRepository
	defaults config.EmailConfig
	logger   *slog.Logger

	mu       sync.RWMutex
	cached   *models.EmailSettings
	cachedAt time.Time
}

// NewSettingsService creates a new SettingsService
func NewSettingsService(repo EmailSettingsRepository, defaults config.EmailConfig, logger *slog.Logger) *SettingsService {
	return &SettingsService{
		repo:     repo,
		defaults: defaults,
		logger:   logger,
	}
}

// Get returns the authoritative settings row, creating the default row on
// first access when none exists. Callers always receive their own copy;
// the cached struct is never aliased outside the service.
func (s *SettingsService) Get(ctx context.Context) (*models.EmailSettings, error) {
	s.mu.RLock()
	if s.cached != nil && time.Since(s.cachedAt) < settingsCacheTTL {
		out := *s.cached
		s.mu.RUnlock()
		return &out, nil
	}
	s.mu.RUnlock()

	settings, err := s.repo.GetLatest(ctx)
	if errors.Is(err, models.ErrNotFound) {
		settings, err = s.createDefaults(ctx)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load email settings: %w", err)
	}

	s.store(settings)
	return settings, nil
}

func (s *SettingsService) createDefaults(ctx context.Context) (*models.EmailSettings, error) {
	defaults := &models.EmailSettings{
		EmailEnabled: true,
		SMTPHost:     s.defaults.DefaultSMTPHost,
		SMTPPort:     s.defaults.DefaultSMTPPort,
		SMTPUsername: s.defaults.DefaultSMTPUsername,
		SMTPPassword: s.defaults.DefaultSMTPPassword,
		FromEmail:    s.defaults.DefaultFromEmail,
		AdminEmail:   s.defaults.DefaultAdminEmail,
		UpdatedBy:    "System",
	}

	created, err := s.repo.Create(ctx, defaults)
	if err != nil {
		return nil, err
	}

	s.logger.Info("default email settings created", slog.String("smtp_host", created.SMTPHost))
	return created, nil
}

// Update applies new settings values, stamping the acting admin.
func (s *SettingsService) Update(ctx context.Context, in *models.EmailSettings, actor string) (*models.EmailSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	current.EmailEnabled = in.EmailEnabled
	current.SMTPHost = in.SMTPHost
	current.SMTPPort = in.SMTPPort
	current.SMTPUsername = in.SMTPUsername
	if in.SMTPPassword != "" {
		current.SMTPPassword = in.SMTPPassword
	}
	current.FromEmail = in.FromEmail
	current.AdminEmail = in.AdminEmail
	current.UpdatedBy = actor

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("failed to update email settings: %w", err)
	}

	s.invalidate()
	s.store(updated)

	s.logger.Info("email settings updated",
		slog.String("updated_by", actor),
		slog.Bool("enabled", updated.EmailEnabled))
	return updated, nil
}

// Toggle flips only the enabled flag.
func (s *SettingsService) Toggle(ctx context.Context, enabled bool, actor string) (*models.EmailSettings, error) {
	current, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	current.EmailEnabled = enabled
	current.UpdatedBy = actor

	updated, err := s.repo.Update(ctx, current)
	if err != nil {
		return nil, fmt.Errorf("failed to toggle email settings: %w", err)
	}

	s.invalidate()
	s.store(updated)

	s.logger.Info("email notifications toggled",
		slog.Bool("enabled", enabled),
		slog.String("updated_by", actor))
	return updated, nil
}

// IsEnabled reads the flag fresh from the database on every call so a
// runtime toggle affects the next notification attempt. Unreadable
// settings default to enabled.
func (s *SettingsService) IsEnabled(ctx context.Context) bool {
	enabled, err := s.repo.IsEnabled(ctx)
	if err != nil {
		if !errors.Is(err, models.ErrNotFound) {
			s.logger.Warn("failed to read email enabled flag, assuming enabled", slog.Any("error", err))
		}
		return true
	}
	return enabled
}

// SMTPConfig implements SMTPConfigSource for the SMTP mailer, falling back
// to deployment defaults for any blank field.
func (s *SettingsService) SMTPConfig(ctx context.Context) (*SMTPConfig, error) {
	settings, err := s.Get(ctx)
	if err != nil {
		return nil, err
	}

	cfg := &SMTPConfig{
		Host:     settings.SMTPHost,
		Port:     settings.SMTPPort,
		Username: settings.SMTPUsername,
		Password: settings.SMTPPassword,
	}
	if cfg.Host == "" {
		cfg.Host = s.defaults.DefaultSMTPHost
	}
	if cfg.Port == 0 {
		cfg.Port = s.defaults.DefaultSMTPPort
	}
	if cfg.Username == "" {
		cfg.Username = s.defaults.DefaultSMTPUsername
	}
	if cfg.Password == "" {
		cfg.Password = s.defaults.DefaultSMTPPassword
	}

	return cfg, nil
}

func (s *SettingsService) store(settings *models.EmailSettings) {
	copied := *settings
	s.mu.Lock()
	s.cached = &copied
	s.cachedAt = time.Now()
	s.mu.Unlock()
}

func (s *SettingsService) invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
