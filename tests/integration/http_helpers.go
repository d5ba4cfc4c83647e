package integration

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/sairajtravels/site-api/internal/auth"
	"github.com/sairajtravels/site-api/internal/config"
	"github.com/sairajtravels/site-api/internal/database"
	"github.com/sairajtravels/site-api/internal/handlers"
	middlewareCustom "github.com/sairajtravels/site-api/internal/middleware"
	"github.com/sairajtravels/site-api/internal/repositories"
	"github.com/sairajtravels/site-api/internal/routes"
	"github.com/sairajtravels/site-api/internal/services"
	pkglogger "github.com/sairajtravels/site-api/pkg/logger"
)

// CapturingMailer records every outbound email instead of delivering it.
type CapturingMailer struct {
	mu   sync.Mutex
	sent []*services.OutboundEmail
}

func (m *CapturingMailer) Send(ctx context.Context, email *services.OutboundEmail) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	copied := *email
	m.sent = append(m.sent, &copied)
	return nil
}

// Sent returns a snapshot of all captured emails.
func (m *CapturingMailer) Sent() []*services.OutboundEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]*services.OutboundEmail, len(m.sent))
	copy(out, m.sent)
	return out
}

// LastTo returns the most recent email sent to the given address, or nil.
func (m *CapturingMailer) LastTo(address string) *services.OutboundEmail {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := len(m.sent) - 1; i >= 0; i-- {
		if m.sent[i].To == address {
			return m.sent[i]
		}
	}
	return nil
}

// TestServer wires the full HTTP stack against a real database with the
// mail transport captured in memory.
type TestServer struct {
	Server     *httptest.Server
	Mailer     *CapturingMailer
	Dispatcher *services.Dispatcher
	Config     *config.Config
}

// NewTestServer builds the complete application the way main does, minus
// the real SMTP/SES transport.
func NewTestServer(db *database.DB) *TestServer {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	cfg := &config.Config{
		Auth: config.AuthConfig{
			JWTSecret:       "test-secret-32-characters-long!!",
			TokenExpiry:     time.Hour,
			ResetTokenTTL:   time.Hour,
			MinPasswordLen:  6,
			CleanupInterval: time.Hour,
		},
		Email: config.EmailConfig{
			Provider:          "smtp",
			DefaultSMTPHost:   "smtp.sendgrid.net",
			DefaultSMTPPort:   2525,
			DefaultFromEmail:  "noreply@sairajtravels.test",
			DefaultAdminEmail: "admin@sairajtravels.test",
			FrontendURL:       "http://localhost:5173",
			SendTimeout:       5 * time.Second,
		},
		Server: config.ServerConfig{
			Env:            "test",
			AllowedOrigins: []string{"http://localhost:5173"},
		},
		Notification: config.NotificationConfig{
			Workers:   1,
			QueueSize: 16,
		},
	}

	userRepo := repositories.NewAdminUserRepository(db)
	messageRepo := repositories.NewContactMessageRepository(db)
	settingsRepo := repositories.NewEmailSettingsRepository(db)

	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	auditLogger := pkglogger.NewAuditLogger(logger)

	settingsService := services.NewSettingsService(settingsRepo, cfg.Email, logger)
	mailer := &CapturingMailer{}
	emailService := services.NewEmailService(mailer, settingsService, cfg.Email, logger, auditLogger)

	dispatcher := services.NewDispatcher(cfg.Notification.Workers, cfg.Notification.QueueSize, cfg.Email.SendTimeout, logger)
	notificationService := services.NewNotificationService(dispatcher, emailService)

	authService := services.NewAuthService(userRepo, tokenManager, notificationService, cfg.Auth, logger, auditLogger)
	contactService := services.NewContactService(messageRepo, notificationService, logger)
	userService := services.NewUserService(userRepo, notificationService, logger)

	authHandler := handlers.NewAuthHandler(authService, tokenManager, logger)
	contactHandler := handlers.NewContactHandler(contactService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, emailService)
	usersHandler := handlers.NewUsersHandler(userService)

	router := chi.NewRouter()
	router.Use(chiMiddleware.RequestID)
	router.Use(chiMiddleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(cfg.Server.AllowedOrigins))
	router.Use(chiMiddleware.Recoverer)

	routes.RegisterRoutes(router, authHandler, contactHandler, settingsHandler, usersHandler, tokenManager)

	return &TestServer{
		Server:     httptest.NewServer(router),
		Mailer:     mailer,
		Dispatcher: dispatcher,
		Config:     cfg,
	}
}

// Close shuts the server down and drains queued notification tasks.
func (ts *TestServer) Close() {
	ts.Server.Close()
	ts.Dispatcher.Close()
}

// DoJSON performs a request with an optional JSON body and optional bearer
// token, decoding the JSON response into out when out is non-nil.
func (ts *TestServer) DoJSON(method, path string, body interface{}, token string, out interface{}) (*http.Response, error) {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
	}

	req, err := http.NewRequest(method, ts.Server.URL+path, &buf)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := ts.Server.Client().Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if out != nil {
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp, fmt.Errorf("failed to decode response: %w", err)
		}
	} else {
		io.Copy(io.Discard, resp.Body)
	}
	return resp, nil
}

// Login authenticates and returns the bearer token.
func (ts *TestServer) Login(username, password string) (string, error) {
	var resp struct {
		Success bool   `json:"success"`
		Token   string `json:"token"`
		Message string `json:"message"`
	}

	httpResp, err := ts.DoJSON(http.MethodPost, "/api/auth/login", map[string]string{
		"username": username,
		"password": password,
	}, "", &resp)
	if err != nil {
		return "", err
	}
	if httpResp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("login failed: %d %s", httpResp.StatusCode, resp.Message)
	}
	return resp.Token, nil
}
