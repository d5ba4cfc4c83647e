package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/sairajtravels/site-api/internal/auth"
	"github.com/sairajtravels/site-api/internal/background"
	"github.com/sairajtravels/site-api/internal/config"
	"github.com/sairajtravels/site-api/internal/database"
	"github.com/sairajtravels/site-api/internal/handlers"
	middlewareCustom "github.com/sairajtravels/site-api/internal/middleware"
	"github.com/sairajtravels/site-api/internal/models"
	"github.com/sairajtravels/site-api/internal/repositories"
	"github.com/sairajtravels/site-api/internal/routes"
	"github.com/sairajtravels/site-api/internal/services"
	"github.com/sairajtravels/site-api/migrations"
	pkgauth "github.com/sairajtravels/site-api/pkg/auth"
	pkglogger "github.com/sairajtravels/site-api/pkg/logger"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	slog.SetDefault(logger)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}

	logger.Info("configuration loaded", slog.String("env", cfg.Server.Env))

	// Run migrations before opening the pool
	if err := database.Migrate(cfg.Database.DSN(), migrations.FS); err != nil {
		logger.Error("failed to run migrations", slog.Any("error", err))
		os.Exit(1)
	}

	// Initialize database
	db, err := database.NewConnection(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer db.Close()

	// Initialize repositories
	userRepo := repositories.NewAdminUserRepository(db)
	messageRepo := repositories.NewContactMessageRepository(db)
	settingsRepo := repositories.NewEmailSettingsRepository(db)

	// Token manager and audit logging
	tokenManager := auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.TokenExpiry)
	auditLogger := pkglogger.NewAuditLogger(logger)

	// Runtime email settings
	settingsService := services.NewSettingsService(settingsRepo, cfg.Email, logger)

	// Mail transport
	mailer, err := buildMailer(cfg, settingsService, logger)
	if err != nil {
		logger.Error("failed to initialize mail transport", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("mail transport ready", slog.String("provider", cfg.Email.Provider))

	emailService := services.NewEmailService(mailer, settingsService, cfg.Email, logger, auditLogger)

	// Background notification workers
	dispatcher := services.NewDispatcher(
		cfg.Notification.Workers,
		cfg.Notification.QueueSize,
		cfg.Email.SendTimeout,
		logger,
	)
	notificationService := services.NewNotificationService(dispatcher, emailService)

	// Initialize services
	authService := services.NewAuthService(userRepo, tokenManager, notificationService, cfg.Auth, logger, auditLogger)
	contactService := services.NewContactService(messageRepo, notificationService, logger)
	userService := services.NewUserService(userRepo, notificationService, logger)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService, tokenManager, logger)
	contactHandler := handlers.NewContactHandler(contactService)
	settingsHandler := handlers.NewSettingsHandler(settingsService, emailService)
	usersHandler := handlers.NewUsersHandler(userService)

	// Bootstrap first admin user if configured
	bootCtx, bootCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := ensureAdminUser(bootCtx, userRepo, logger); err != nil {
		logger.Error("failed to ensure admin user", slog.Any("error", err))
	}
	bootCancel()

	// Reset token cleanup
	cleanupManager := background.NewCleanupManager(userRepo, cfg.Auth.CleanupInterval, logger)
	cleanupManager.Start()

	// Setup router
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middlewareCustom.SecurityHeaders(middlewareCustom.SecurityHeadersConfig{Env: cfg.Server.Env}))
	router.Use(middlewareCustom.CORS(cfg.Server.AllowedOrigins))
	router.Use(middlewareCustom.SecureLogger(logger))
	router.Use(middleware.Recoverer)
	router.Use(middleware.Timeout(60 * time.Second))

	// Register routes
	routes.RegisterRoutes(router, authHandler, contactHandler, settingsHandler, usersHandler, tokenManager)

	// Health check with database
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		w.Header().Set("Content-Type", "application/json")
		if err := db.HealthCheck(ctx); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			w.Write([]byte(`{"status":"unhealthy","database":"down"}`))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy","database":"up"}`))
	})

	// Create server
	server := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	// Start server
	go func() {
		logger.Info("starting server", slog.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
	}()

	// Graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	logger.Info("shutdown signal received")

	cleanupManager.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Let queued notification emails finish before exiting.
	dispatcher.Close()

	logger.Info("server stopped gracefully")
}

// buildMailer selects the mail transport. SMTP reads its connection
// settings from the database on every send; SES uses the ambient AWS
// credential chain.
func buildMailer(cfg *config.Config, settings *services.SettingsService, logger *slog.Logger) (services.Mailer, error) {
	switch cfg.Email.Provider {
	case "ses":
		return services.NewSESMailer(cfg.Email.AWSRegion, logger)
	default:
		return services.NewSMTPMailer(settings, logger), nil
	}
}

// ensureAdminUser creates the first admin account when ADMIN_USERNAME,
// ADMIN_PASSWORD and ADMIN_EMAIL are set and the username is free.
func ensureAdminUser(ctx context.Context, userRepo *repositories.AdminUserRepository, logger *slog.Logger) error {
	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	adminEmail := os.Getenv("ADMIN_EMAIL")

	if adminUsername == "" || adminPassword == "" || adminEmail == "" {
		logger.Info("admin bootstrap env not set, skipping admin user creation")
		return nil
	}

	_, err := userRepo.GetByUsername(ctx, adminUsername)
	if err == nil {
		logger.Info("admin user already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("failed to check if admin exists: %w", err)
	}

	hashedPassword, err := pkgauth.HashPassword(adminPassword)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := &models.AdminUser{
		Username:     adminUsername,
		PasswordHash: hashedPassword,
		Email:        adminEmail,
		FullName:     "Administrator",
		Role:         models.RoleAdmin,
		IsActive:     true,
	}

	if _, err := userRepo.Create(ctx, admin); err != nil {
		return fmt.Errorf("failed to create admin user: %w", err)
	}

	logger.Info("admin user created successfully", slog.String("username", adminUsername))
	return nil
}
