package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/jmoiron/sqlx"

	"dating-service/internal/models"
)

var ErrInteractionNotFound = errors.New("interaction not found")

// LikeTx is the set of operations available while a user pair is locked.
type LikeTx interface {
	FindInteraction(ctx context.Context, senderID, receiverID string) (models.Interaction, error)
	CreateInteraction(ctx context.Context, senderID, receiverID string, status models.InteractionStatus) (models.Interaction, error)
	SetStatus(ctx context.Context, interactionID string, status models.InteractionStatus) error
	DowngradeMatch(ctx context.Context, senderID, receiverID string) error
	MarkPairMatched(ctx context.Context, userA, userB string) error
}

// LikeRepository abstracts like/dislike persistence.
type LikeRepository interface {
	// WithPairLock runs fn in one transaction that holds an exclusive lock on
	// the unordered pair {userA, userB}. Any error from fn rolls back.
	WithPairLock(ctx context.Context, userA, userB string, fn func(tx LikeTx) error) error
	ListReceivedPending(ctx context.Context, userID string) ([]models.ReceivedLike, error)
}

// LikeRepo is a sqlx implementation of LikeRepository.
type LikeRepo struct {
	db *sqlx.DB
}

// NewLikeRepo constructs a LikeRepo.
func NewLikeRepo(db *sqlx.DB) *LikeRepo {
	return &LikeRepo{db: db}
}

// WithPairLock serialises every transaction touching the same pair with a
// transaction-scoped advisory lock. Row locks alone cannot cover the case
// where neither direction has a row yet.
func (r *LikeRepo) WithPairLock(ctx context.Context, userA, userB string, fn func(tx LikeTx) error) (err error) {
	tx, err := r.db.BeginTxx(ctx, &sql.TxOptions{Isolation: sql.LevelReadCommitted})
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
		if err != nil {
			tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, pairKey(userA, userB)); err != nil {
		return fmt.Errorf("lock pair: %w", err)
	}

	if err = fn(&likeTx{tx: tx}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit: %w", err)
	}
	return nil
}

// ListReceivedPending returns pending likes addressed to userID, hiding
// senders that userID has rejected.
func (r *LikeRepo) ListReceivedPending(ctx context.Context, userID string) ([]models.ReceivedLike, error) {
	if !validID(userID) {
		return []models.ReceivedLike{}, nil
	}
	query := `SELECT l.id AS like_id, u.id AS user_id, u.name, p.photo, p.city, l.created_at AS liked_at
        FROM likes l
        JOIN users u ON u.id = l.sender_id
        LEFT JOIN user_profiles p ON p.user_id = u.id
        WHERE l.receiver_id=$1
        AND l.status = 'pending'
        AND NOT EXISTS (
            SELECT 1 FROM likes r
            WHERE r.sender_id=$1 AND r.receiver_id = l.sender_id AND r.status = 'rejected'
        )
        ORDER BY l.created_at DESC`
	likes := []models.ReceivedLike{}
	err := r.db.SelectContext(ctx, &likes, query, userID)
	return likes, err
}

func pairKey(userA, userB string) string {
	participants := []string{userA, userB}
	sort.Strings(participants)
	return participants[0] + ":" + participants[1]
}

type likeTx struct {
	tx *sqlx.Tx
}

const interactionColumns = `id, sender_id, receiver_id, status, created_at, updated_at`

func (t *likeTx) FindInteraction(ctx context.Context, senderID, receiverID string) (models.Interaction, error) {
	if !validID(senderID) || !validID(receiverID) {
		return models.Interaction{}, ErrInteractionNotFound
	}
	var in models.Interaction
	err := t.tx.GetContext(ctx, &in, `SELECT `+interactionColumns+` FROM likes WHERE sender_id=$1 AND receiver_id=$2 FOR UPDATE`, senderID, receiverID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Interaction{}, ErrInteractionNotFound
	}
	return in, err
}

func (t *likeTx) CreateInteraction(ctx context.Context, senderID, receiverID string, status models.InteractionStatus) (models.Interaction, error) {
	if !validID(senderID) || !validID(receiverID) {
		return models.Interaction{}, ErrUserNotFound
	}
	var in models.Interaction
	err := t.tx.QueryRowxContext(ctx, `INSERT INTO likes (sender_id, receiver_id, status) VALUES ($1, $2, $3) RETURNING `+interactionColumns, senderID, receiverID, status).
		StructScan(&in)
	if pqCode(err) == pgForeignKeyViolation {
		return models.Interaction{}, ErrUserNotFound
	}
	return in, err
}

func (t *likeTx) SetStatus(ctx context.Context, interactionID string, status models.InteractionStatus) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE likes SET status=$2, updated_at=NOW() WHERE id=$1`, interactionID, status)
	return err
}

func (t *likeTx) DowngradeMatch(ctx context.Context, senderID, receiverID string) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE likes SET status='pending', updated_at=NOW()
        WHERE sender_id=$1 AND receiver_id=$2 AND status='matched'`, senderID, receiverID)
	return err
}

func (t *likeTx) MarkPairMatched(ctx context.Context, userA, userB string) error {
	_, err := t.tx.ExecContext(ctx, `UPDATE likes SET status='matched', updated_at=NOW()
        WHERE (sender_id=$1 AND receiver_id=$2) OR (sender_id=$2 AND receiver_id=$1)`, userA, userB)
	return err
}
