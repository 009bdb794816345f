package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/medtrack-api/internal/model"
	"github.com/jwalitptl/medtrack-api/internal/repository"
)

const messageColumns = `id, sender_id, receiver_id, content, is_read, read_at, created_at`

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(db *sqlx.DB) repository.MessageRepository {
	return &messageRepository{BaseRepository: NewBaseRepository(db)}
}

func (r *messageRepository) Create(ctx context.Context, m *model.Message) error {
	query := `
		INSERT INTO messages (sender_id, receiver_id, content, is_read, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`
	err := r.conn(ctx).QueryRowxContext(ctx, query,
		m.SenderID,
		m.ReceiverID,
		m.Content,
		m.IsRead,
		m.CreatedAt,
	).Scan(&m.ID)
	if err != nil {
		return mapError(err, "message")
	}
	return nil
}

func (r *messageRepository) Get(ctx context.Context, id int64) (*model.Message, error) {
	var m model.Message
	query := `SELECT ` + messageColumns + ` FROM messages WHERE id = $1`
	if err := sqlx.GetContext(ctx, r.conn(ctx), &m, query, id); err != nil {
		return nil, mapError(err, "message")
	}
	return &m, nil
}

// ListByParticipant returns the conversation oldest first.
func (r *messageRepository) ListByParticipant(ctx context.Context, userID int64) ([]*model.Message, error) {
	messages := []*model.Message{}
	query := `SELECT ` + messageColumns + ` FROM messages
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at ASC, id ASC`
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &messages, query, userID); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", err)
	}
	return messages, nil
}

// ListUnread returns unread messages newest first.
func (r *messageRepository) ListUnread(ctx context.Context, receiverID int64) ([]*model.Message, error) {
	messages := []*model.Message{}
	query := `SELECT ` + messageColumns + ` FROM messages
		WHERE receiver_id = $1 AND is_read = FALSE
		ORDER BY created_at DESC, id DESC`
	if err := sqlx.SelectContext(ctx, r.conn(ctx), &messages, query, receiverID); err != nil {
		return nil, fmt.Errorf("failed to list unread messages: %w", err)
	}
	return messages, nil
}

func (r *messageRepository) MarkRead(ctx context.Context, id int64, at time.Time) (*model.Message, error) {
	var m model.Message
	query := `
		UPDATE messages
		SET is_read = TRUE, read_at = COALESCE(read_at, $2)
		WHERE id = $1
		RETURNING ` + messageColumns
	if err := sqlx.GetContext(ctx, r.conn(ctx), &m, query, id, at); err != nil {
		return nil, mapError(err, "message")
	}
	return &m, nil
}
