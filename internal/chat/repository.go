package chat

//go:generate mockgen -destination=./repository_mock_test.go -package=chat -source=repository.go Repository

import (
	"context"
	"database/sql"
	"fmt"

	"finance-companion/internal/domain"

	"github.com/google/uuid"
)

// Repository persists chat messages per user.
type Repository interface {
	// SaveMessage inserts one message for the user.
	SaveMessage(ctx context.Context, userID uuid.UUID, msg *domain.Message) error
	// ListMessages returns every message for the user, oldest first.
	ListMessages(ctx context.Context, userID uuid.UUID) ([]domain.Message, error)
	// DeleteMessages removes all of the user's messages.
	DeleteMessages(ctx context.Context, userID uuid.UUID) error
}

// postgresRepository stores messages in the chat_messages table.
type postgresRepository struct {
	db *sql.DB
}

// NewPostgresRepository is the constructor for the repository.
func NewPostgresRepository(db *sql.DB) Repository {
	return &postgresRepository{
		db: db,
	}
}

// SaveMessage inserts a new row into the chat_messages table.
func (pr *postgresRepository) SaveMessage(ctx context.Context, userID uuid.UUID, msg *domain.Message) error {
	query := `
		INSERT INTO chat_messages (message_id, user_id, role, content, file_name, file_size, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	var fileName sql.NullString
	var fileSize sql.NullInt64
	if msg.Attachment != nil {
		fileName = sql.NullString{String: msg.Attachment.Name, Valid: true}
		fileSize = sql.NullInt64{Int64: msg.Attachment.SizeBytes, Valid: true}
	}

	_, err := pr.db.ExecContext(ctx, query,
		msg.ID,
		userID,
		msg.Role,
		msg.Content,
		fileName,
		fileSize,
		msg.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("could not insert chat message: %w", err)
	}
	return nil
}

// ListMessages reads the user's history in creation order.
func (pr *postgresRepository) ListMessages(ctx context.Context, userID uuid.UUID) ([]domain.Message, error) {
	query := `
		SELECT message_id, role, content, file_name, file_size, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at ASC, message_id ASC
	`

	rows, err := pr.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("could not query chat messages: %w", err)
	}
	defer rows.Close()

	messages := []domain.Message{}
	for rows.Next() {
		var msg domain.Message
		var fileName sql.NullString
		var fileSize sql.NullInt64
		if err := rows.Scan(&msg.ID, &msg.Role, &msg.Content, &fileName, &fileSize, &msg.CreatedAt); err != nil {
			return nil, fmt.Errorf("could not scan chat message: %w", err)
		}
		if fileName.Valid {
			msg.Attachment = &domain.Attachment{Name: fileName.String, SizeBytes: fileSize.Int64}
		}
		messages = append(messages, msg)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("could not read chat messages: %w", err)
	}
	return messages, nil
}

// DeleteMessages removes every row for the user. Deleting an empty history is not an error.
func (pr *postgresRepository) DeleteMessages(ctx context.Context, userID uuid.UUID) error {
	if _, err := pr.db.ExecContext(ctx, `DELETE FROM chat_messages WHERE user_id = $1`, userID); err != nil {
		return fmt.Errorf("could not delete chat messages: %w", err)
	}
	return nil
}
