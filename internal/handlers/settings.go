package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sairajtravels/site-api/internal/auth"
	"github.com/sairajtravels/site-api/internal/models"
	"github.com/sairajtravels/site-api/internal/services"
	pkghttp "github.com/sairajtravels/site-api/pkg/http"
)

// SettingsServiceInterface defines the interface for email settings logic
type SettingsServiceInterface interface {
	Get(ctx context.Context) (*models.EmailSettings, error)
	Update(ctx context.Context, in *models.EmailSettings, actor string) (*models.EmailSettings, error)
	Toggle(ctx context.Context, enabled bool, actor string) (*models.EmailSettings, error)
}

var _ SettingsServiceInterface = (*services.SettingsService)(nil)

// EmailTester sends a test email through the active configuration.
type EmailTester interface {
	SendTestEmail(ctx context.Context, recipient string) error
}

var _ EmailTester = (*services.EmailService)(nil)

// SettingsHandler manages the runtime email configuration.
type SettingsHandler struct {
	service SettingsServiceInterface
	tester  EmailTester
}

func NewSettingsHandler(service SettingsServiceInterface, tester EmailTester) *SettingsHandler {
	return &SettingsHandler{service: service, tester: tester}
}

type UpdateSettingsRequest struct {
	EmailEnabled bool   `json:"emailEnabled"`
	SMTPHost     string `json:"smtpHost" validate:"required,max=255"`
	SMTPPort     int    `json:"smtpPort" validate:"required,gt=0,lte=65535"`
	SMTPUsername string `json:"smtpUsername" validate:"max=255"`
	SMTPPassword string `json:"smtpPassword" validate:"max=255"`
	FromEmail    string `json:"fromEmail" validate:"required,email"`
	AdminEmail   string `json:"adminEmail" validate:"required,email"`
}

type ToggleSettingsRequest struct {
	Enabled *bool `json:"enabled" validate:"required"`
}

type TestEmailRequest struct {
	Recipient string `json:"recipient" validate:"omitempty,email"`
}

// Get returns the active settings with the SMTP password masked.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	settings, err := h.service.Get(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, toEmailSettingsResponse(settings))
}

// Update replaces the settings row. A blank password keeps the stored one.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	var req UpdateSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	updated, err := h.service.Update(r.Context(), &models.EmailSettings{
		EmailEnabled: req.EmailEnabled,
		SMTPHost:     req.SMTPHost,
		SMTPPort:     req.SMTPPort,
		SMTPUsername: req.SMTPUsername,
		SMTPPassword: req.SMTPPassword,
		FromEmail:    req.FromEmail,
		AdminEmail:   req.AdminEmail,
	}, h.actor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, toEmailSettingsResponse(updated))
}

// Toggle flips only the enabled flag, leaving transport settings alone.
func (h *SettingsHandler) Toggle(w http.ResponseWriter, r *http.Request) {
	var req ToggleSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		pkghttp.WriteBadRequest(w, "Invalid request body")
		return
	}
	if req.Enabled == nil {
		pkghttp.WriteBadRequest(w, "Enabled is required")
		return
	}

	updated, err := h.service.Toggle(r.Context(), *req.Enabled, h.actor(r))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	pkghttp.WriteJSON(w, http.StatusOK, toEmailSettingsResponse(updated))
}

// Test sends a test email, defaulting to the configured admin address.
func (h *SettingsHandler) Test(w http.ResponseWriter, r *http.Request) {
	var req TestEmailRequest
	if r.Body != nil {
		// An empty body means "send to the admin address".
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if err := ValidateRequest(req); err != nil {
		pkghttp.WriteBadRequest(w, err.Error())
		return
	}

	recipient := req.Recipient
	if recipient == "" {
		settings, err := h.service.Get(r.Context())
		if err != nil {
			writeServiceError(w, err)
			return
		}
		recipient = settings.AdminEmail
	}
	if recipient == "" {
		pkghttp.WriteBadRequest(w, "No recipient configured")
		return
	}

	if err := h.tester.SendTestEmail(r.Context(), recipient); err != nil {
		pkghttp.WriteInternalError(w, "Test email could not be sent, check the SMTP settings")
		return
	}
	pkghttp.WriteSuccess(w, "Test email sent")
}

func (h *SettingsHandler) actor(r *http.Request) string {
	if claims := auth.ClaimsFromContext(r.Context()); claims != nil {
		return claims.Username
	}
	return "System"
}
