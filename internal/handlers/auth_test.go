package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sairajtravels/site-api/internal/auth"
	"github.com/sairajtravels/site-api/internal/models"
	"github.com/sairajtravels/site-api/internal/services"
)

const testSecret = "unit-test-secret-32-characters!!"

func newAuthHandler(service AuthServiceInterface) *AuthHandler {
	return NewAuthHandler(service, auth.NewTokenManager(testSecret, time.Hour), testLogger())
}

func TestLoginSuccess(t *testing.T) {
	service := &mockAuthService{
		LoginFunc: func(ctx context.Context, username, password, ipAddress string) (*services.LoginResult, error) {
			assert.Equal(t, "admin", username)
			assert.Equal(t, "secret123", password)
			return &services.LoginResult{
				Token: "signed-token",
				User: &models.AdminUser{
					ID:       1,
					Username: "admin",
					Email:    "admin@example.com",
					Role:     models.RoleAdmin,
					IsActive: true,
				},
			}, nil
		},
	}
	h := newAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
		Username: "admin",
		Password: "secret123",
	})
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp LoginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, "signed-token", resp.Token)
	assert.Equal(t, "admin", resp.User.Username)
	assert.NotContains(t, rec.Body.String(), "passwordHash")
}

func TestLoginInvalidCredentials(t *testing.T) {
	service := &mockAuthService{
		LoginFunc: func(ctx context.Context, username, password, ipAddress string) (*services.LoginResult, error) {
			return nil, models.ErrInvalidCredentials
		},
	}
	h := newAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/auth/login", LoginRequest{
		Username: "admin",
		Password: "wrong",
	})
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	resp := AssertResponse(t, rec, http.StatusBadRequest, false)
	assert.Equal(t, "Invalid username or password", resp.Message)
}

func TestLoginMissingFields(t *testing.T) {
	h := newAuthHandler(&mockAuthService{})

	req := NewTestRequest(t, http.MethodPost, "/api/auth/login", map[string]string{"username": "admin"})
	rec := httptest.NewRecorder()
	h.Login(rec, req)

	AssertResponse(t, rec, http.StatusBadRequest, false)
}

func TestValidateToken(t *testing.T) {
	tokens := auth.NewTokenManager(testSecret, time.Hour)
	h := NewAuthHandler(&mockAuthService{}, tokens, testLogger())

	token, err := tokens.Generate("admin", models.RoleAdmin)
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()
	h.Validate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Token is valid")
	assert.Contains(t, rec.Body.String(), "admin")
}

func TestValidateTokenRejectsBad(t *testing.T) {
	h := newAuthHandler(&mockAuthService{})

	tests := []struct {
		name   string
		header string
	}{
		{"missing header", ""},
		{"not a bearer", "Basic abc"},
		{"garbage token", "Bearer not.a.jwt"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/auth/validate", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			h.Validate(rec, req)

			AssertResponse(t, rec, http.StatusUnauthorized, false)
		})
	}
}

func TestLogout(t *testing.T) {
	h := newAuthHandler(&mockAuthService{})

	rec := httptest.NewRecorder()
	h.Logout(rec, httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil))

	AssertResponse(t, rec, http.StatusOK, true)
}

// The forgot-password response must be byte-identical for every outcome.
func TestForgotPasswordUniformResponse(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
	}{
		{"known email", nil},
		{"unknown email", nil},
		{"internal failure", errors.New("database down")},
	}

	var bodies []string
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			service := &mockAuthService{
				ForgotPasswordFunc: func(ctx context.Context, email string) error {
					return tt.serviceErr
				},
			}
			h := newAuthHandler(service)

			req := NewTestRequest(t, http.MethodPost, "/api/auth/forgot-password", ForgotPasswordRequest{
				Email: "someone@example.com",
			})
			rec := httptest.NewRecorder()
			h.ForgotPassword(rec, req)

			resp := AssertResponse(t, rec, http.StatusOK, true)
			assert.Equal(t, forgotPasswordMessage, resp.Message)
			bodies = append(bodies, rec.Body.String())
		})
	}

	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i], "responses must be indistinguishable")
	}
}

func TestForgotPasswordInvalidEmail(t *testing.T) {
	h := newAuthHandler(&mockAuthService{})

	req := NewTestRequest(t, http.MethodPost, "/api/auth/forgot-password", ForgotPasswordRequest{
		Email: "not-an-email",
	})
	rec := httptest.NewRecorder()
	h.ForgotPassword(rec, req)

	AssertResponse(t, rec, http.StatusBadRequest, false)
}

func TestValidateResetTokenEndpoint(t *testing.T) {
	service := &mockAuthService{
		ValidateResetTokenFunc: func(ctx context.Context, token string) error {
			if token == "live" {
				return nil
			}
			return models.ErrTokenInvalid
		},
	}
	h := newAuthHandler(service)

	rec := httptest.NewRecorder()
	h.ValidateResetToken(rec, httptest.NewRequest(http.MethodGet, "/api/auth/validate-reset-token?token=live", nil))
	AssertResponse(t, rec, http.StatusOK, true)

	rec = httptest.NewRecorder()
	h.ValidateResetToken(rec, httptest.NewRequest(http.MethodGet, "/api/auth/validate-reset-token?token=stale", nil))
	resp := AssertResponse(t, rec, http.StatusBadRequest, false)
	assert.Equal(t, "Invalid or expired token", resp.Message)
}

func TestResetPassword(t *testing.T) {
	service := &mockAuthService{
		ResetPasswordFunc: func(ctx context.Context, token, newPassword string) error {
			if token != "live" {
				return models.ErrTokenInvalid
			}
			return nil
		},
	}
	h := newAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/auth/reset-password", ResetPasswordRequest{
		Token:       "live",
		NewPassword: "newsecret",
	})
	rec := httptest.NewRecorder()
	h.ResetPassword(rec, req)
	AssertResponse(t, rec, http.StatusOK, true)

	req = NewTestRequest(t, http.MethodPost, "/api/auth/reset-password", ResetPasswordRequest{
		Token:       "stale",
		NewPassword: "newsecret",
	})
	rec = httptest.NewRecorder()
	h.ResetPassword(rec, req)
	AssertResponse(t, rec, http.StatusBadRequest, false)
}

func TestResetPasswordTooShort(t *testing.T) {
	h := newAuthHandler(&mockAuthService{})

	req := NewTestRequest(t, http.MethodPost, "/api/auth/reset-password", ResetPasswordRequest{
		Token:       "live",
		NewPassword: "short",
	})
	rec := httptest.NewRecorder()
	h.ResetPassword(rec, req)

	resp := AssertResponse(t, rec, http.StatusBadRequest, false)
	assert.Contains(t, resp.Message, "at least 6 characters")
}

func TestChangePassword(t *testing.T) {
	service := &mockAuthService{
		ChangePasswordFunc: func(ctx context.Context, username, currentPassword, newPassword string) error {
			assert.Equal(t, "admin", username)
			return nil
		},
	}
	h := newAuthHandler(service)

	req := NewTestRequest(t, http.MethodPost, "/api/auth/change-password", ChangePasswordRequest{
		CurrentPassword: "oldsecret",
		NewPassword:     "newsecret",
	})
	req = WithAuthContext(req, "admin", models.RoleAdmin)

	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)
	AssertResponse(t, rec, http.StatusOK, true)
}

func TestChangePasswordRequiresAuth(t *testing.T) {
	h := newAuthHandler(&mockAuthService{})

	req := NewTestRequest(t, http.MethodPost, "/api/auth/change-password", ChangePasswordRequest{
		CurrentPassword: "oldsecret",
		NewPassword:     "newsecret",
	})
	rec := httptest.NewRecorder()
	h.ChangePassword(rec, req)

	AssertResponse(t, rec, http.StatusUnauthorized, false)
}
