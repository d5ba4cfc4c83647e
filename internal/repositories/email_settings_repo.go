package repositories

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sairajtravels/site-api/internal/database"
	"github.com/sairajtravels/site-api/internal/models"
)

type EmailSettingsRepository struct {
	pool *pgxpool.Pool
}

func NewEmailSettingsRepository(db *database.DB) *EmailSettingsRepository {
	return &EmailSettingsRepository{pool: db.Pool}
}

const emailSettingsColumns = `id, email_enabled, smtp_host, smtp_port, smtp_username,
	smtp_password, from_email, admin_email, updated_by, created_at, updated_at`

func scanEmailSettings(scanner rowScanner) (*models.EmailSettings, error) {
	var s models.EmailSettings
	var host, username, password, from, admin, updatedBy *string
	var port *int

	err := scanner.Scan(
		&s.ID, &s.EmailEnabled, &host, &port, &username,
		&password, &from, &admin, &updatedBy, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	if host != nil {
		s.SMTPHost = *host
	}
	if port != nil {
		s.SMTPPort = *port
	}
	if username != nil {
		s.SMTPUsername = *username
	}
	if password != nil {
		s.SMTPPassword = *password
	}
	if from != nil {
		s.FromEmail = *from
	}
	if admin != nil {
		s.AdminEmail = *admin
	}
	if updatedBy != nil {
		s.UpdatedBy = *updatedBy
	}

	return &s, nil
}

// GetLatest returns the authoritative settings row: the most recently
// updated one, with created_at breaking ties.
func (r *EmailSettingsRepository) GetLatest(ctx context.Context) (*models.EmailSettings, error) {
	query := `SELECT ` + emailSettingsColumns + `
		FROM email_settings
		ORDER BY updated_at DESC, created_at DESC
		LIMIT 1`
	return scanEmailSettings(r.pool.QueryRow(ctx, query))
}

func (r *EmailSettingsRepository) Create(ctx context.Context, s *models.EmailSettings) (*models.EmailSettings, error) {
	now := time.Now()
	query := `
		INSERT INTO email_settings (email_enabled, smtp_host, smtp_port, smtp_username, smtp_password, from_email, admin_email, updated_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + emailSettingsColumns

	return scanEmailSettings(r.pool.QueryRow(ctx, query,
		s.EmailEnabled, s.SMTPHost, s.SMTPPort, s.SMTPUsername,
		s.SMTPPassword, s.FromEmail, s.AdminEmail, s.UpdatedBy, now, now,
	))
}

func (r *EmailSettingsRepository) Update(ctx context.Context, s *models.EmailSettings) (*models.EmailSettings, error) {
	query := `
		UPDATE email_settings
		SET email_enabled = $2, smtp_host = $3, smtp_port = $4, smtp_username = $5,
		    smtp_password = $6, from_email = $7, admin_email = $8, updated_by = $9,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING ` + emailSettingsColumns

	return scanEmailSettings(r.pool.QueryRow(ctx, query,
		s.ID, s.EmailEnabled, s.SMTPHost, s.SMTPPort, s.SMTPUsername,
		s.SMTPPassword, s.FromEmail, s.AdminEmail, s.UpdatedBy,
	))
}

// IsEnabled reads only the enabled flag of the authoritative row.
func (r *EmailSettingsRepository) IsEnabled(ctx context.Context) (bool, error) {
	query := `
		SELECT email_enabled FROM email_settings
		ORDER BY updated_at DESC, created_at DESC
		LIMIT 1`

	var enabled bool
	if err := r.pool.QueryRow(ctx, query).Scan(&enabled); err != nil {
		return false, database.MapPostgresError(err)
	}
	return enabled, nil
}
