package repositories

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sairajtravels/site-api/internal/database"
	"github.com/sairajtravels/site-api/internal/models"
)

type ContactMessageRepository struct {
	pool *pgxpool.Pool
}

func NewContactMessageRepository(db *database.DB) *ContactMessageRepository {
	return &ContactMessageRepository{pool: db.Pool}
}

func (r *ContactMessageRepository) Create(ctx context.Context, msg *models.ContactMessage) (*models.ContactMessage, error) {
	query := `
		INSERT INTO contact_messages (name, email, phone, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, name, email, phone, message, created_at`

	var saved models.ContactMessage
	err := r.pool.QueryRow(ctx, query,
		msg.Name, msg.Email, msg.Phone, msg.Message, time.Now(),
	).Scan(&saved.ID, &saved.Name, &saved.Email, &saved.Phone, &saved.Message, &saved.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &saved, nil
}

func (r *ContactMessageRepository) GetByID(ctx context.Context, id int64) (*models.ContactMessage, error) {
	query := `SELECT id, name, email, phone, message, created_at FROM contact_messages WHERE id = $1`

	var msg models.ContactMessage
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&msg.ID, &msg.Name, &msg.Email, &msg.Phone, &msg.Message, &msg.CreatedAt)
	if err != nil {
		return nil, database.MapPostgresError(err)
	}

	return &msg, nil
}

func (r *ContactMessageRepository) List(ctx context.Context, limit, offset int) ([]*models.ContactMessage, error) {
	query := `
		SELECT id, name, email, phone, message, created_at
		FROM contact_messages ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query contact messages: %w", err)
	}
	defer rows.Close()

	messages := make([]*models.ContactMessage, 0)
	for rows.Next() {
		var msg models.ContactMessage
		if err := rows.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Phone, &msg.Message, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan contact message: %w", err)
		}
		messages = append(messages, &msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}

	return messages, nil
}

func (r *ContactMessageRepository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return database.MapPostgresError(err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}
	return nil
}
