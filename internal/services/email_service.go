package services

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/sairajtravels/site-api/internal/config"
	"github.com/sairajtravels/site-api/internal/models"
	pkglogger "github.com/sairajtravels/site-api/pkg/logger"
)

// SettingsReader is the slice of SettingsService the email layer needs.
type SettingsReader interface {
	Get(ctx context.Context) (*models.EmailSettings, error)
	IsEnabled(ctx context.Context) bool
}

// EmailService builds and delivers transactional email. Every send checks
// the enabled flag first, so a runtime toggle takes effect on the very next
// notification without a restart.
type EmailService struct {
	mailer   Mailer
	settings SettingsReader
	cfg      config.EmailConfig
	logger   *slog.Logger
	audit    *pkglogger.AuditLogger
}

func NewEmailService(mailer Mailer, settings SettingsReader, cfg config.EmailConfig, logger *slog.Logger, audit *pkglogger.AuditLogger) *EmailService {
	return &EmailService{
		mailer:   mailer,
		settings: settings,
		cfg:      cfg,
		logger:   logger,
		audit:    audit,
	}
}

// addresses resolves the active from/admin addresses, falling back to
// deployment defaults when the settings row leaves them blank.
func (s *EmailService) addresses(ctx context.Context) (from, admin string) {
	from = s.cfg.DefaultFromEmail
	admin = s.cfg.DefaultAdminEmail

	settings, err := s.settings.Get(ctx)
	if err != nil {
		s.logger.Warn("email settings unavailable, using defaults", slog.Any("error", err))
		return from, admin
	}

	if settings.FromEmail != "" {
		from = settings.FromEmail
	}
	if settings.AdminEmail != "" {
		admin = settings.AdminEmail
	}
	return from, admin
}

func (s *EmailService) send(ctx context.Context, email *OutboundEmail) error {
	if !s.settings.IsEnabled(ctx) {
		s.logger.Info("email notifications disabled, skipping send",
			slog.String("subject", email.Subject))
		return nil
	}

	if err := s.mailer.Send(ctx, email); err != nil {
		s.audit.LogDeliveryFailure(email.To, email.Subject, err)
		return fmt.Errorf("failed to send %q: %w", email.Subject, err)
	}
	return nil
}

// SendContactConfirmation thanks the customer for reaching out.
func (s *EmailService) SendContactConfirmation(ctx context.Context, msg *models.ContactMessage) error {
	from, _ := s.addresses(ctx)

	name := html.EscapeString(msg.Name)
	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Thank you for contacting Sairaj Travels!</h2>
<p>Dear %s,</p>
<p>We have received your message and our team will get back to you shortly.</p>
<blockquote style="border-left: 3px solid #ccc; padding-left: 12px; color: #555;">%s</blockquote>
<p>Warm regards,<br>Sairaj Travels Team</p>
</body></html>`, name, nl2br(html.EscapeString(msg.Message)))

	text := fmt.Sprintf("Dear %s,\n\nWe have received your message and our team will get back to you shortly.\n\nYour message:\n%s\n\nWarm regards,\nSairaj Travels Team",
		msg.Name, msg.Message)

	return s.send(ctx, &OutboundEmail{
		From:     from,
		To:       msg.Email,
		Subject:  "Sairaj Travels - We received your message",
		HTMLBody: body,
		TextBody: text,
	})
}

// SendContactAlert notifies the site admin of a new contact message.
func (s *EmailService) SendContactAlert(ctx context.Context, msg *models.ContactMessage) error {
	from, admin := s.addresses(ctx)

	customerEmail := msg.Email
	if customerEmail == "" {
		customerEmail = "not provided"
	}

	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>New Contact Message</h2>
<table cellpadding="4">
<tr><td><b>Name:</b></td><td>%s</td></tr>
<tr><td><b>Email:</b></td><td>%s</td></tr>
<tr><td><b>Phone:</b></td><td>%s</td></tr>
</table>
<p><b>Message:</b></p>
<p>%s</p>
</body></html>`,
		html.EscapeString(msg.Name),
		html.EscapeString(customerEmail),
		html.EscapeString(msg.Phone),
		nl2br(html.EscapeString(msg.Message)))

	text := fmt.Sprintf("New contact message\n\nName: %s\nEmail: %s\nPhone: %s\n\nMessage:\n%s",
		msg.Name, customerEmail, msg.Phone, msg.Message)

	return s.send(ctx, &OutboundEmail{
		From:     from,
		To:       admin,
		Subject:  fmt.Sprintf("New Contact Message from %s", msg.Name),
		HTMLBody: body,
		TextBody: text,
	})
}

// SendPasswordReset delivers the reset link built from the raw token. The
// link expires after the configured reset TTL.
func (s *EmailService) SendPasswordReset(ctx context.Context, user *models.AdminUser, token string) error {
	from, _ := s.addresses(ctx)

	link := s.cfg.FrontendURL + "/admin/reset-password?token=" + token
	displayName := user.FullName
	if displayName == "" {
		displayName = user.Username
	}

	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Password Reset Request</h2>
<p>Hello %s,</p>
<p>We received a request to reset the password for your admin account.</p>
<p><a href="%s" style="background: #1a73e8; color: #fff; padding: 10px 20px; text-decoration: none; border-radius: 4px;">Reset Password</a></p>
<p>This link expires in 1 hour. If you did not request a reset, you can safely ignore this email.</p>
</body></html>`, html.EscapeString(displayName), link)

	text := fmt.Sprintf("Hello %s,\n\nWe received a request to reset the password for your admin account.\n\nReset link: %s\n\nThis link expires in 1 hour. If you did not request a reset, you can safely ignore this email.",
		displayName, link)

	return s.send(ctx, &OutboundEmail{
		From:     from,
		To:       user.Email,
		Subject:  "Sairaj Travels Admin - Password Reset",
		HTMLBody: body,
		TextBody: text,
	})
}

// SendTemporaryPassword delivers first-login credentials to a new admin.
func (s *EmailService) SendTemporaryPassword(ctx context.Context, user *models.AdminUser, tempPassword string) error {
	from, _ := s.addresses(ctx)

	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Your Admin Account</h2>
<p>Hello %s,</p>
<p>An administrator account has been created for you.</p>
<p><b>Username:</b> %s<br><b>Temporary password:</b> %s</p>
<p>You will be asked to choose a new password on first login.</p>
</body></html>`,
		html.EscapeString(user.FullName),
		html.EscapeString(user.Username),
		html.EscapeString(tempPassword))

	text := fmt.Sprintf("Hello %s,\n\nAn administrator account has been created for you.\n\nUsername: %s\nTemporary password: %s\n\nYou will be asked to choose a new password on first login.",
		user.FullName, user.Username, tempPassword)

	return s.send(ctx, &OutboundEmail{
		From:     from,
		To:       user.Email,
		Subject:  "Sairaj Travels Admin - Your Account",
		HTMLBody: body,
		TextBody: text,
	})
}

// SendPasswordChangeNotice confirms a completed password change.
func (s *EmailService) SendPasswordChangeNotice(ctx context.Context, user *models.AdminUser) error {
	from, _ := s.addresses(ctx)

	displayName := user.FullName
	if displayName == "" {
		displayName = user.Username
	}

	body := fmt.Sprintf(`<html><body style="font-family: Arial, sans-serif;">
<h2>Password Changed</h2>
<p>Hello %s,</p>
<p>The password for your admin account was just changed. If this was not you, contact your administrator immediately.</p>
</body></html>`, html.EscapeString(displayName))

	text := fmt.Sprintf("Hello %s,\n\nThe password for your admin account was just changed. If this was not you, contact your administrator immediately.",
		displayName)

	return s.send(ctx, &OutboundEmail{
		From:     from,
		To:       user.Email,
		Subject:  "Sairaj Travels Admin - Password Changed",
		HTMLBody: body,
		TextBody: text,
	})
}

// SendTestEmail verifies the active transport configuration end to end.
func (s *EmailService) SendTestEmail(ctx context.Context, recipient string) error {
	from, _ := s.addresses(ctx)

	return s.send(ctx, &OutboundEmail{
		From:     from,
		To:       recipient,
		Subject:  "Sairaj Travels - Test Email",
		HTMLBody: "<html><body><p>This is a test email from the Sairaj Travels admin panel. Your email configuration is working.</p></body></html>",
		TextBody: "This is a test email from the Sairaj Travels admin panel. Your email configuration is working.",
	})
}

// nl2br converts newlines to <br> tags. Callers escape first.
func nl2br(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "<br>")
	return strings.ReplaceAll(s, "\n", "<br>")
}
