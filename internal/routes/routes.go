package routes

import (
	"github.com/go-chi/chi/v5"

	"github.com/sairajtravels/site-api/internal/auth"
	"github.com/sairajtravels/site-api/internal/handlers"
	"github.com/sairajtravels/site-api/internal/middleware"
	"github.com/sairajtravels/site-api/internal/models"
)

// RegisterRoutes registers all application routes
func RegisterRoutes(
	router chi.Router,
	authHandler *handlers.AuthHandler,
	contactHandler *handlers.ContactHandler,
	settingsHandler *handlers.SettingsHandler,
	usersHandler *handlers.UsersHandler,
	tokenManager *auth.TokenManager,
) {
	authLimit := middleware.RateLimitByIP(middleware.DefaultAuthRateLimit())
	contactLimit := middleware.RateLimitByIP(middleware.DefaultContactRateLimit())

	// Public routes - no authentication required
	router.With(contactLimit).Post("/api/contact", contactHandler.Submit)
	router.With(authLimit).Post("/api/auth/login", authHandler.Login)
	router.With(authLimit).Post("/api/auth/forgot-password", authHandler.ForgotPassword)
	router.With(authLimit).Post("/api/auth/reset-password", authHandler.ResetPassword)
	router.Get("/api/auth/validate-reset-token", authHandler.ValidateResetToken)
	router.Post("/api/auth/validate", authHandler.Validate)
	router.Get("/api/auth/validate", authHandler.Validate)
	router.Post("/api/auth/logout", authHandler.Logout)

	// Protected routes - authentication required
	router.Group(func(r chi.Router) {
		r.Use(auth.Middleware(tokenManager))

		r.Post("/api/auth/change-password", authHandler.ChangePassword)

		// Message inbox: any authenticated role may read
		r.Get("/api/admin/messages", contactHandler.List)
		r.Get("/api/admin/messages/{id}", contactHandler.Get)

		// Admin-only routes
		r.Group(func(r chi.Router) {
			r.Use(auth.RequireRole(models.RoleAdmin))

			r.Delete("/api/admin/messages/{id}", contactHandler.Delete)

			r.Get("/api/admin/settings/email", settingsHandler.Get)
			r.Put("/api/admin/settings/email", settingsHandler.Update)
			r.Post("/api/admin/settings/email/toggle", settingsHandler.Toggle)
			r.Post("/api/admin/settings/email/test", settingsHandler.Test)

			r.Get("/api/admin/users", usersHandler.List)
			r.Post("/api/admin/users", usersHandler.Create)
			r.Put("/api/admin/users/{id}/active", usersHandler.SetActive)
		})
	})
}
