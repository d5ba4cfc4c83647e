package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/sairajtravels/site-api/internal/auth"
	"github.com/sairajtravels/site-api/internal/models"
	"github.com/sairajtravels/site-api/internal/services"
	pkghttp "github.com/sairajtravels/site-api/pkg/http"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// NewTestRequest creates an HTTP request with JSON body for testing
func NewTestRequest(t *testing.T, method, url string, body interface{}) *http.Request {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("failed to encode request body: %v", err)
		}
	}
	req := httptest.NewRequest(method, url, &buf)
	req.Header.Set("Content-Type", "application/json")
	return req
}

// WithAuthContext adds claims to the request context, as the auth
// middleware would after validating a bearer token.
func WithAuthContext(req *http.Request, username, role string) *http.Request {
	claims := &models.TokenClaims{
		Username: username,
		Role:     role,
	}
	ctx := context.WithValue(req.Context(), auth.UserContextKey, claims)
	return req.WithContext(ctx)
}

// AssertResponse checks the status code and the uniform {success, message}
// body shape.
func AssertResponse(t *testing.T, w *httptest.ResponseRecorder, expectedStatus int, expectedSuccess bool) pkghttp.Response {
	t.Helper()
	assert.Equal(t, expectedStatus, w.Code, "response status mismatch")

	var resp pkghttp.Response
	err := json.Unmarshal(w.Body.Bytes(), &resp)
	assert.NoError(t, err, "failed to decode response JSON")
	assert.Equal(t, expectedSuccess, resp.Success)
	assert.NotEmpty(t, resp.Message)
	return resp
}

type mockAuthService struct {
	LoginFunc              func(ctx context.Context, username, password, ipAddress string) (*services.LoginResult, error)
	ForgotPasswordFunc     func(ctx context.Context, email string) error
	ValidateResetTokenFunc func(ctx context.Context, token string) error
	ResetPasswordFunc      func(ctx context.Context, token, newPassword string) error
	ChangePasswordFunc     func(ctx context.Context, username, currentPassword, newPassword string) error
}

func (m *mockAuthService) Login(ctx context.Context, username, password, ipAddress string) (*services.LoginResult, error) {
	return m.LoginFunc(ctx, username, password, ipAddress)
}

func (m *mockAuthService) ForgotPassword(ctx context.Context, email string) error {
	return m.ForgotPasswordFunc(ctx, email)
}

func (m *mockAuthService) ValidateResetToken(ctx context.Context, token string) error {
	return m.ValidateResetTokenFunc(ctx, token)
}

func (m *mockAuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	return m.ResetPasswordFunc(ctx, token, newPassword)
}

func (m *mockAuthService) ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error {
	return m.ChangePasswordFunc(ctx, username, currentPassword, newPassword)
}

type mockContactService struct {
	SubmitFunc  func(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error)
	ListFunc    func(ctx context.Context, limit, offset int) ([]*models.ContactMessage, error)
	GetByIDFunc func(ctx context.Context, id int64) (*models.ContactMessage, error)
	DeleteFunc  func(ctx context.Context, id int64) error
}

func (m *mockContactService) Submit(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	return m.SubmitFunc(ctx, msg)
}

func (m *mockContactService) List(ctx context.Context, limit, offset int) ([]*models.ContactMessage, error) {
	return m.ListFunc(ctx, limit, offset)
}

func (m *mockContactService) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	return m.GetByIDFunc(ctx, id)
}

func (m *mockContactService) Delete(ctx context.Context, id int64) error {
	return m.DeleteFunc(ctx, id)
}

type mockSettingsService struct {
	GetFunc    func(ctx context.Context) (*models.EmailSettings, error)
	UpdateFunc func(ctx context.Context, in *models.EmailSettings, actor string) (*models.EmailSettings, error)
	ToggleFunc func(ctx context.Context, enabled bool, actor string) (*models.EmailSettings, error)
}

func (m *mockSettingsService) Get(ctx context.Context) (*models.EmailSettings, error) {
	return m.GetFunc(ctx)
}

func (m *mockSettingsService) Update(ctx context.Context, in *models.EmailSettings, actor string) (*models.EmailSettings, error) {
	return m.UpdateFunc(ctx, in, actor)
}

func (m *mockSettingsService) Toggle(ctx context.Context, enabled bool, actor string) (*models.EmailSettings, error) {
	return m.ToggleFunc(ctx, enabled, actor)
}

type mockEmailTester struct {
	SendTestEmailFunc func(ctx context.Context, recipient string) error
}

func (m *mockEmailTester) SendTestEmail(ctx context.Context, recipient string) error {
	return m.SendTestEmailFunc(ctx, recipient)
}

type mockUserService struct {
	CreateUserFunc func(ctx context.Context, in services.CreateUserInput) (*models.AdminUser, error)
	ListUsersFunc  func(ctx context.Context, limit, offset int) ([]*models.AdminUser, error)
	SetActiveFunc  func(ctx context.Context, id int64, active bool) error
}

func (m *mockUserService) CreateUser(ctx context.Context, in services.CreateUserInput) (*models.AdminUser, error) {
	return m.CreateUserFunc(ctx, in)
}

func (m *mockUserService) ListUsers(ctx context.Context, limit, offset int) ([]*models.AdminUser, error) {
	return m.ListUsersFunc(ctx, limit, offset)
}

func (m *mockUserService) SetActive(ctx context.Context, id int64, active bool) error {
	return m.SetActiveFunc(ctx, id, active)
}
