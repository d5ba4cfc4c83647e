package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sairajtravels/site-api/internal/database"
	"github.com/sairajtravels/site-api/internal/models"
)

type AdminUserRepository struct {
	pool *pgxpool.Pool
}

func NewAdminUserRepository(db *database.DB) *AdminUserRepository {
	return &AdminUserRepository{pool: db.Pool}
}

const adminUserColumns = `id, username, password_hash, email, full_name, role, is_active,
	must_change_password, last_login, reset_token_hash, reset_token_expiry, created_at, updated_at`

// rowScanner covers both pgx.Row and pgx.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanAdminUser(scanner rowScanner) (*models.AdminUser, error) {
	var user models.AdminUser

	err := scanner.Scan(
		&user.ID, &user.Username, &user.PasswordHash, &user.Email, &user.FullName,
		&user.Role, &user.IsActive, &user.MustChangePassword, &user.LastLogin,
		&user.ResetTokenHash, &user.ResetTokenExpiry, &user.CreatedAt, &user.UpdatedAt,
	)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &user, nil
}

func (r *AdminUserRepository) GetByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	query := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE id = $1`
	return scanAdminUser(r.pool.QueryRow(ctx, query, id))
}

func (r *AdminUserRepository) GetByUsername(ctx context.Context, username string) (*models.AdminUser, error) {
	query := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE username = $1`
	return scanAdminUser(r.pool.QueryRow(ctx, query, username))
}

func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	query := `SELECT ` + adminUserColumns + ` FROM admin_users WHERE LOWER(email) = LOWER($1)`
	return scanAdminUser(r.pool.QueryRow(ctx, query, email))
}

func (r *AdminUserRepository) List(ctx context.Context, limit, offset int) ([]*models.AdminUser, error) {
	query := `SELECT ` + adminUserColumns + ` FROM admin_users ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query admin users: %w", err)
	}
	defer rows.Close()

	users := make([]*models.AdminUser, 0)
	for rows.Next() {
		user, err := scanAdminUser(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan admin user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return users, nil
}

func (r *AdminUserRepository) Create(ctx context.Context, user *models.AdminUser) (*models.AdminUser, error) {
	now := time.Now()

	if user.Role == "" {
		user.Role = models.RoleViewer
	}

	query := `
		INSERT INTO admin_users (username, password_hash, email, full_name, role, is_active, must_change_password, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + adminUserColumns

	return scanAdminUser(r.pool.QueryRow(ctx, query,
		user.Username, user.PasswordHash, user.Email, user.FullName,
		user.Role, user.IsActive, user.MustChangePassword, now, now,
	))
}

// UpdateLastLogin stamps the login time without touching updated_at.
func (r *AdminUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	_, err := r.pool.Exec(ctx, `UPDATE admin_users SET last_login = $2 WHERE id = $1`, id, at)
	return database.MapPostgresError(err)
}

// UpdatePassword replaces the hash and clears must_change_password.
func (r *AdminUserRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	query := `
		UPDATE admin_users
		SET password_hash = $2, must_change_password = FALSE, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, passwordHash)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// SetResetToken stores the hash and expiry of a freshly issued reset token,
// replacing any outstanding one.
func (r *AdminUserRepository) SetResetToken(ctx context.Context, id int64, tokenHash string, expiresAt time.Time) error {
	query := `
		UPDATE admin_users
		SET reset_token_hash = $2, reset_token_expiry = $3, updated_at = NOW()
		WHERE id = $1`

	tag, err := r.pool.Exec(ctx, query, id, tokenHash, expiresAt)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}

// GetByResetToken finds the holder of an unexpired reset token without
// consuming it.
func (r *AdminUserRepository) GetByResetToken(ctx context.Context, tokenHash string) (*models.AdminUser, error) {
	query := `SELECT ` + adminUserColumns + `
		FROM admin_users
		WHERE reset_token_hash = $1 AND reset_token_expiry > NOW()`
	return scanAdminUser(r.pool.QueryRow(ctx, query, tokenHash))
}

// ConsumeResetToken atomically redeems a reset token: in one statement it
// sets the new password hash, clears must_change_password and invalidates
// the token. A second call with the same token matches no row and returns
// ErrNotFound, which is what makes the token single-use.
func (r *AdminUserRepository) ConsumeResetToken(ctx context.Context, tokenHash, passwordHash string) (*models.AdminUser, error) {
	query := `
		UPDATE admin_users
		SET password_hash = $2,
		    must_change_password = FALSE,
		    reset_token_hash = NULL,
		    reset_token_expiry = NULL,
		    updated_at = NOW()
		WHERE reset_token_hash = $1 AND reset_token_expiry > NOW()
		RETURNING ` + adminUserColumns

	return scanAdminUser(r.pool.QueryRow(ctx, query, tokenHash, passwordHash))
}

// ClearExpiredResetTokens nulls out reset tokens past their expiry.
func (r *AdminUserRepository) ClearExpiredResetTokens(ctx context.Context) (int64, error) {
	query := `
		UPDATE admin_users
		SET reset_token_hash = NULL, reset_token_expiry = NULL
		WHERE reset_token_expiry IS NOT NULL AND reset_token_expiry <= NOW()`

	tag, err := r.pool.Exec(ctx, query)
	if err != nil {
		return 0, database.MapPostgresError(err)
	}
	return tag.RowsAffected(), nil
}

// SetActive flips the activation flag; admin users are never hard-deleted.
func (r *AdminUserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE admin_users SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, active)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
