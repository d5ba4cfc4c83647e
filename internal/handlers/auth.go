package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sairajtravels/site-api/internal/auth"
	"github.com/sairajtravels/site-api/internal/services"
	pkghttp "github.com/sairajtravels/site-api/pkg/http"
)

// forgotPasswordMessage is returned for every forgot-password request,
// whether or not the address exists, so responses cannot be used to
// enumerate admin accounts.
const forgotPasswordMessage = "If the email address exists in our system, you will receive a password reset link."

// AuthServiceInterface defines the interface for auth business logic
type AuthServiceInterface interface {
	Login(ctx context.Context, username, password, ipAddress string) (*services.LoginResult, error)
	ForgotPassword(ctx context.Context, email string) error
	ValidateResetToken(ctx context.Context, token string) error
	ResetPassword(ctx context.Context, token, newPassword string) error
	ChangePassword(ctx context.Context, username, currentPassword, newPassword string) error
}

var _ AuthServiceInterface = (*services.AuthService)(nil)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	service AuthServiceInterface
	tokens  *auth.TokenManager
	logger  *slog.Logger
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(service AuthServiceInterface, tokens *auth.TokenManager, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		tokens:  tokens,
		logger:  logger,
	}
}

// Request DTOs

type LoginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=6"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required,min=6"`
}

// LoginResponse is the success payload for POST /api/auth/login.
type LoginResponse struct {
	Success bool              `json:"success"`
	Message string            `json:"message"`
	Token   string            `json:"token"`
	User    AdminUserResponse `json:"user"`
}

// Login authenticates a username/password pair and returns a bearer token.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	req.Username = strings.TrimSpace(req.Username)

	result, err := h.service.Login(r.Context(), req.Username, req.Password, r.RemoteAddr)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, LoginResponse{
		Success: true,
		Message: "Login successful",
		Token:   result.Token,
		User:    toAdminUserResponse(result.User),
	})
}

// Validate reports whether the presented bearer token is still good. The
// admin panel calls this on load to decide between dashboard and login.
func (h *AuthHandler) Validate(w http.ResponseWriter, r *http.Request) {
	tokenString, ok := auth.BearerToken(r)
	if !ok {
		pkghttp.WriteUnauthorized(w, "Missing or invalid authorization header")
		return
	}

	claims, err := h.tokens.Validate(tokenString)
	if err != nil {
		pkghttp.WriteUnauthorized(w, "Invalid or expired token")
		return
	}

	pkghttp.WriteJSON(w, http.StatusOK, struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}{true, "Token is valid", claims.Username, claims.Role})
}

// Logout exists for the admin panel's sake. Tokens are stateless, so the
// server has nothing to revoke; the client discards its copy.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	pkghttp.WriteSuccess(w, "Logged out successfully")
}

// ForgotPassword triggers the reset email. The response is identical for
// known and unknown addresses; internal failures are logged but still
// answered with the same message.
func (h *AuthHandler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req ForgotPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ForgotPassword(r.Context(), strings.TrimSpace(req.Email)); err != nil {
		h.logger.Error("forgot password flow failed", slog.Any("error", err))
	}

	pkghttp.WriteSuccess(w, forgotPasswordMessage)
}

// ValidateResetToken lets the frontend check a reset link before showing
// the new-password form.
func (h *AuthHandler) ValidateResetToken(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")

	if err := h.service.ValidateResetToken(r.Context(), token); err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteSuccess(w, "Token is valid")
}

// ResetPassword redeems a reset token for a new password.
func (h *AuthHandler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req ResetPasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteSuccess(w, "Password has been reset successfully")
}

// ChangePassword rotates the authenticated admin's own password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	claims := auth.ClaimsFromContext(r.Context())
	if claims == nil {
		pkghttp.WriteUnauthorized(w, "Authentication required")
		return
	}

	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	if err := h.service.ChangePassword(r.Context(), claims.Username, req.CurrentPassword, req.NewPassword); err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteSuccess(w, "Password changed successfully")
}
