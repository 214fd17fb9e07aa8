package store

import (
	"context"
	"time"

	"github.com/khalfanathman/portfolio-api/internal/db"
	"github.com/khalfanathman/portfolio-api/types"
)

// ContactRepository handles persistence for contact messages.
type ContactRepository struct {
	db db.DBTX
}

func NewContactRepository(db db.DBTX) *ContactRepository {
	return &ContactRepository{db: db}
}

func scanContactMessage(row rowScanner) (types.ContactMessage, error) {
	var msg types.ContactMessage
	err := row.Scan(&msg.ID, &msg.Name, &msg.Email, &msg.Subject, &msg.Message, &msg.CreatedAt)
	return msg, err
}

// List returns messages newest first.
func (r *ContactRepository) List(ctx context.Context) ([]types.ContactMessage, error) {
	const query = `
		SELECT id, name, email, subject, message, created_at
		FROM contact_messages
		ORDER BY created_at DESC, id DESC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := make([]types.ContactMessage, 0)
	for rows.Next() {
		msg, err := scanContactMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return messages, nil
}

func (r *ContactRepository) Get(ctx context.Context, id int) (types.ContactMessage, error) {
	const query = `SELECT id, name, email, subject, message, created_at FROM contact_messages WHERE id = $1`
	msg, err := scanContactMessage(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return types.ContactMessage{}, notFound(err)
	}
	return msg, nil
}

func (r *ContactRepository) Create(ctx context.Context, msg types.ContactMessage) (types.ContactMessage, error) {
	msg.CreatedAt = time.Now()

	const query = `
		INSERT INTO contact_messages (name, email, subject, message, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	if err := r.db.QueryRowContext(ctx, query, msg.Name, msg.Email, msg.Subject, msg.Message, msg.CreatedAt).
		Scan(&msg.ID); err != nil {
		return types.ContactMessage{}, translateError(err)
	}
	return msg, nil
}

func (r *ContactRepository) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_messages WHERE id = $1`, id)
	if err != nil {
		return err
	}
	return requireAffected(result)
}
