package services

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"mime"
	"net"
	"net/smtp"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
)

// OutboundEmail is one message handed to a mail transport.
type OutboundEmail struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
	TextBody string
}

// Mailer is the transport boundary: it either delivers or returns a
// transport error. Retries, gating and logging live above it.
type Mailer interface {
	Send(ctx context.Context, email *OutboundEmail) error
}

// SESMailer delivers through AWS SES.
type SESMailer struct {
	client *ses.Client
	logger *slog.Logger
}

// NewSESMailer creates a new SES-backed mailer for the given region.
func NewSESMailer(region string, logger *slog.Logger) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESMailer{
		client: ses.NewFromConfig(cfg),
		logger: logger,
	}, nil
}

func (m *SESMailer) Send(ctx context.Context, email *OutboundEmail) error {
	input := &ses.SendEmailInput{
		Source: aws.String(email.From),
		Destination: &types.Destination{
			ToAddresses: []string{email.To},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(email.Subject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(email.HTMLBody),
				},
				Text: &types.Content{
					Data: aws.String(email.TextBody),
				},
			},
		},
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("ses send failed: %w", err)
	}

	m.logger.Debug("email sent via ses", slog.String("message_id", aws.ToString(result.MessageId)))
	return nil
}

// SMTPConfig is the per-send transport configuration, resolved from the
// active email_settings row at send time so runtime changes take effect
// without a restart.
type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
}

// SMTPConfigSource yields the current SMTP configuration.
type SMTPConfigSource interface {
	SMTPConfig(ctx context.Context) (*SMTPConfig, error)
}

// SMTPMailer delivers through a plain SMTP relay, upgrading to STARTTLS
// when the server offers it.
type SMTPMailer struct {
	source SMTPConfigSource
	logger *slog.Logger
}

func NewSMTPMailer(source SMTPConfigSource, logger *slog.Logger) *SMTPMailer {
	return &SMTPMailer{source: source, logger: logger}
}

func (m *SMTPMailer) Send(ctx context.Context, email *OutboundEmail) error {
	cfg, err := m.source.SMTPConfig(ctx)
	if err != nil {
		return fmt.Errorf("smtp config unavailable: %w", err)
	}

	dialer := net.Dialer{Timeout: 15 * time.Second}
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining > 0 {
			dialer.Timeout = remaining
		}
	}

	address := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := dialer.DialContext(ctx, "tcp", address)
	if err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp client: %w", err)
	}
	defer client.Quit()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}

	if ok, _ := client.Extension("STARTTLS"); ok {
		if err := client.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
			return fmt.Errorf("smtp starttls: %w", err)
		}
	}

	if cfg.Username != "" {
		auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(email.From); err != nil {
		return fmt.Errorf("smtp MAIL FROM: %w", err)
	}
	if err := client.Rcpt(email.To); err != nil {
		return fmt.Errorf("smtp RCPT TO %s: %w", email.To, err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp DATA: %w", err)
	}
	if _, err := w.Write(buildMIMEMessage(email)); err != nil {
		_ = w.Close()
		return fmt.Errorf("smtp write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}

	m.logger.Debug("email sent via smtp", slog.String("host", cfg.Host))
	return nil
}

// buildMIMEMessage assembles a multipart/alternative message so clients
// can fall back from HTML to plain text.
func buildMIMEMessage(email *OutboundEmail) []byte {
	const boundary = "sairaj-mail-boundary"

	msg := fmt.Sprintf("From: %s\r\n", email.From)
	msg += fmt.Sprintf("To: %s\r\n", email.To)
	msg += fmt.Sprintf("Subject: %s\r\n", mime.QEncoding.Encode("utf-8", email.Subject))
	msg += "MIME-Version: 1.0\r\n"
	msg += fmt.Sprintf("Content-Type: multipart/alternative; boundary=%q\r\n", boundary)
	msg += "\r\n"

	msg += fmt.Sprintf("--%s\r\n", boundary)
	msg += "Content-Type: text/plain; charset=\"utf-8\"\r\n\r\n"
	msg += email.TextBody + "\r\n"

	msg += fmt.Sprintf("--%s\r\n", boundary)
	msg += "Content-Type: text/html; charset=\"utf-8\"\r\n\r\n"
	msg += email.HTMLBody + "\r\n"

	msg += fmt.Sprintf("--%s--\r\n", boundary)

	return []byte(msg)
}
