package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"dating-service/internal/models"
)

var ErrMessageNotFound = errors.New("message not found")

// MessageRepository defines interactions for direct messages.
type MessageRepository interface {
	CreateMessage(ctx context.Context, senderID, receiverID, content string, msgType models.MessageType) (models.Message, error)
	GetMessage(ctx context.Context, messageID string) (models.Message, error)
	ListBetween(ctx context.Context, viewerID, otherID string) ([]models.Message, error)
	ListVisibleForUser(ctx context.Context, userID string) ([]models.Message, error)
	SoftDeleteMessageForUser(ctx context.Context, messageID string, isSender bool) error
	HideConversationForUser(ctx context.Context, userID, otherID string) error
	UpdateContent(ctx context.Context, messageID, content string) (models.Message, error)
}

// MessageRepo is a sqlx-backed repository.
type MessageRepo struct {
	db *sqlx.DB
}

// NewMessageRepo constructs MessageRepo.
func NewMessageRepo(db *sqlx.DB) *MessageRepo {
	return &MessageRepo{db: db}
}

const messageColumns = `id, sender_id, receiver_id, content, type, is_read, is_edited, is_deleted_by_sender, is_deleted_by_receiver, created_at, updated_at`

// CreateMessage stores a message. A foreign-key violation means one of the
// parties does not exist.
func (r *MessageRepo) CreateMessage(ctx context.Context, senderID, receiverID, content string, msgType models.MessageType) (models.Message, error) {
	if !validID(senderID) || !validID(receiverID) {
		return models.Message{}, ErrUserNotFound
	}
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `INSERT INTO messages (sender_id, receiver_id, content, type) VALUES ($1, $2, $3, $4) RETURNING `+messageColumns,
		senderID, receiverID, content, msgType).StructScan(&msg)
	if pqCode(err) == pgForeignKeyViolation {
		return models.Message{}, ErrUserNotFound
	}
	return msg, err
}

// GetMessage retrieves a single message.
func (r *MessageRepo) GetMessage(ctx context.Context, messageID string) (models.Message, error) {
	if !validID(messageID) {
		return models.Message{}, ErrMessageNotFound
	}
	var msg models.Message
	err := r.db.GetContext(ctx, &msg, `SELECT `+messageColumns+` FROM messages WHERE id=$1`, messageID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}

// ListBetween returns the thread between two users oldest first, as seen by viewerID.
func (r *MessageRepo) ListBetween(ctx context.Context, viewerID, otherID string) ([]models.Message, error) {
	msgs := []models.Message{}
	if !validID(viewerID) || !validID(otherID) {
		return msgs, nil
	}
	query := `SELECT ` + messageColumns + `
        FROM messages
        WHERE (sender_id=$1 AND receiver_id=$2 AND is_deleted_by_sender = FALSE)
        OR (sender_id=$2 AND receiver_id=$1 AND is_deleted_by_receiver = FALSE)
        ORDER BY created_at ASC, id ASC`
	err := r.db.SelectContext(ctx, &msgs, query, viewerID, otherID)
	return msgs, err
}

// ListVisibleForUser returns every message userID can still see, newest first.
func (r *MessageRepo) ListVisibleForUser(ctx context.Context, userID string) ([]models.Message, error) {
	msgs := []models.Message{}
	if !validID(userID) {
		return msgs, nil
	}
	query := `SELECT ` + messageColumns + `
        FROM messages
        WHERE (sender_id=$1 AND is_deleted_by_sender = FALSE)
        OR (receiver_id=$1 AND is_deleted_by_receiver = FALSE)
        ORDER BY created_at DESC, id DESC`
	err := r.db.SelectContext(ctx, &msgs, query, userID)
	return msgs, err
}

// SoftDeleteMessageForUser marks a message as deleted for either sender or
// receiver. ErrMessageNotFound when no row matched.
func (r *MessageRepo) SoftDeleteMessageForUser(ctx context.Context, messageID string, isSender bool) error {
	if !validID(messageID) {
		return ErrMessageNotFound
	}
	query := `UPDATE messages SET is_deleted_by_receiver = TRUE, updated_at = NOW() WHERE id=$1`
	if isSender {
		query = `UPDATE messages SET is_deleted_by_sender = TRUE, updated_at = NOW() WHERE id=$1`
	}
	res, err := r.db.ExecContext(ctx, query, messageID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrMessageNotFound
	}
	return nil
}

// HideConversationForUser masks the whole thread for userID in one statement;
// otherID's view is untouched.
func (r *MessageRepo) HideConversationForUser(ctx context.Context, userID, otherID string) error {
	if !validID(userID) || !validID(otherID) {
		return nil
	}
	_, err := r.db.ExecContext(ctx, `UPDATE messages SET
            is_deleted_by_sender = CASE WHEN sender_id=$1 THEN TRUE ELSE is_deleted_by_sender END,
            is_deleted_by_receiver = CASE WHEN receiver_id=$1 THEN TRUE ELSE is_deleted_by_receiver END,
            updated_at = NOW()
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)`, userID, otherID)
	return err
}

// UpdateContent replaces the content and flags the message as edited.
func (r *MessageRepo) UpdateContent(ctx context.Context, messageID, content string) (models.Message, error) {
	var msg models.Message
	err := r.db.QueryRowxContext(ctx, `UPDATE messages SET content=$2, is_edited = TRUE, updated_at = NOW() WHERE id=$1 RETURNING `+messageColumns, messageID, content).
		StructScan(&msg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Message{}, ErrMessageNotFound
	}
	return msg, err
}
