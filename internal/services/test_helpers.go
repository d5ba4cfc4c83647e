package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/sairajtravels/site-api/internal/models"
	pkglogger "github.com/sairajtravels/site-api/pkg/logger"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testAudit() *pkglogger.AuditLogger {
	return pkglogger.NewAuditLogger(testLogger())
}

type mockAdminUserStore struct {
	GetByUsernameFunc     func(ctx context.Context, username string) (*models.AdminUser, error)
	GetByEmailFunc        func(ctx context.Context, email string) (*models.AdminUser, error)
	UpdateLastLoginFunc   func(ctx context.Context, id int64, at time.Time) error
	UpdatePasswordFunc    func(ctx context.Context, id int64, passwordHash string) error
	SetResetTokenFunc     func(ctx context.Context, id int64, tokenHash string, expiresAt time.Time) error
	GetByResetTokenFunc   func(ctx context.Context, tokenHash string) (*models.AdminUser, error)
	ConsumeResetTokenFunc func(ctx context.Context, tokenHash, passwordHash string) (*models.AdminUser, error)
	CreateFunc            func(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error)
	ListFunc              func(ctx context.Context, limit, offset int) ([]*models.AdminUser, error)
	SetActiveFunc         func(ctx context.Context, id int64, active bool) error
}

func (m *mockAdminUserStore) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	return m.GetByUsernameFunc(ctx, username)
}

func (m *mockAdminUserStore) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	return m.GetByEmailFunc(ctx, email)
}

func (m *mockAdminUserStore) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	if m.UpdateLastLoginFunc == nil {
		return nil
	}
	return m.UpdateLastLoginFunc(ctx, id, at)
}

func (m *mockAdminUserStore) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	return m.UpdatePasswordFunc(ctx, id, passwordHash)
}

func (m *mockAdminUserStore) SetResetToken(ctx context.Context, id int64, tokenHash string, expiresAt time.Time) error {
	return m.SetResetTokenFunc(ctx, id, tokenHash, expiresAt)
}

func (m *mockAdminUserStore) GetByResetToken(ctx context.Context, tokenHash string) (*models.AdminUser, error) {
	return m.GetByResetTokenFunc(ctx, tokenHash)
}

func (m *mockAdminUserStore) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string) (*models.AdminUser, error) {
	return m.ConsumeResetTokenFunc(ctx, tokenHash, passwordHash)
}

func (m *mockAdminUserStore) Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error) {
	return m.CreateFunc(ctx, user)
}

func (m *mockAdminUserStore) List(ctx context.Context, limit, offset int) ([]*models.AdminUser, error) {
	return m.ListFunc(ctx, limit, offset)
}

func (m *mockAdminUserStore) SetActive(ctx context.Context, id int64, active bool) error {
	return m.SetActiveFunc(ctx, id, active)
}

type mockContactStore struct {
	CreateFunc  func(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error)
	GetByIDFunc func(ctx context.Context, id int64) (*models.ContactMessage, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*models.ContactMessage, error)
	DeleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockContactStore) Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	return m.CreateFunc(ctx, msg)
}

func (m *mockContactStore) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockContactStore) List(ctx context.Context, limit, offset int) ([]*models.ContactMessage, error) {
	return m.ListFunc(ctx, limit, offset)
}

func (m *mockContactStore) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

type mockSettingsRepo struct {
	GetLatestFunc func(ctx context.Context) (*models.EmailSettings, error)
	CreateFunc    func(ctx context.Context, s *models.EmailSettings) (*models.EmailSettings, error)
	UpdateFunc    func(ctx context.Context, s *models.EmailSettings) (*models.EmailSettings, error)
	IsEnabledFunc func(ctx context.Context) (bool, error)
}

func (m *mockSettingsRepo) GetLatest(ctx context.Context) (*models.EmailSettings, error) {
	return m.GetLatestFunc(ctx)
}

func (m *mockSettingsRepo) Create(ctx context.Context, s *models.EmailSettings) (*models.EmailSettings, error) {
	return m.CreateFunc(ctx, s)
}

func (m *mockSettingsRepo) Update(ctx context.Context, s *models.EmailSettings) (*models.EmailSettings, error) {
	return m.UpdateFunc(ctx, s)
}

func (m *mockSettingsRepo) IsEnabled(ctx context.Context) (bool, error) {
	return m.IsEnabledFunc(ctx)
}

// mockMailer records every send and can be told to fail.
type mockMailer struct {
	mu   sync.Mutex
	sent []*OutboundEmail
	err  error
}

func (m *mockMailer) Send(ctx context.Context, email *OutboundEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, email)
	return nil
}

func (m *mockMailer) Sent() []*OutboundEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*OutboundEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// mockSettingsReader serves fixed settings without a repository.
type mockSettingsReader struct {
	settings *models.EmailSettings
	enabled  bool
	err      error
}

func (m *mockSettingsReader) Get(ctx context.Context) (*models.EmailSettings, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.settings, nil
}

func (m *mockSettingsReader) IsEnabled(ctx context.Context) bool {
	return m.enabled
}

// recordingNotifier captures every notification event for assertions. It
// satisfies the notifier interfaces of all services.
type recordingNotifier struct {
	mu            sync.Mutex
	contactMsgs   []*models.ContactMessage
	resetUsers    []*models.AdminUser
	resetTokens   []string
	tempUsers     []*models.AdminUser
	tempPasswords []string
	changedUsers  []*models.AdminUser
}

func (n *recordingNotifier) NotifyContactMessage(msg *models.ContactMessage) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.contactMsgs = append(n.contactMsgs, msg)
}

func (n *recordingNotifier) NotifyPasswordReset(user *models.AdminUser, token string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.resetUsers = append(n.resetUsers, user)
	n.resetTokens = append(n.resetTokens, token)
}

func (n *recordingNotifier) NotifyTemporaryPassword(user *models.AdminUser, tempPassword string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.tempUsers = append(n.tempUsers, user)
	n.tempPasswords = append(n.tempPasswords, tempPassword)
}

func (n *recordingNotifier) NotifyPasswordChanged(user *models.AdminUser) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.changedUsers = append(n.changedUsers, user)
}
