package repositories

import (
	"context"
	"errors"

	"github.com/jmoiron/sqlx"

	"dating-service/internal/models"
)

var (
	ErrBlockNotFound  = errors.New("block record not found")
	ErrAlreadyBlocked = errors.New("user is already blocked")
)

// BlockRepository abstracts the block list.
type BlockRepository interface {
	Block(ctx context.Context, blockerID, blockedID string) error
	Unblock(ctx context.Context, blockerID, blockedID string) error
	ListBlocked(ctx context.Context, blockerID string) ([]models.BlockedUser, error)
}

// BlockRepo is a sqlx implementation of BlockRepository.
type BlockRepo struct {
	db *sqlx.DB
}

// NewBlockRepo constructs a BlockRepo.
func NewBlockRepo(db *sqlx.DB) *BlockRepo {
	return &BlockRepo{db: db}
}

// Block adds blockedID to blockerID's block list.
func (r *BlockRepo) Block(ctx context.Context, blockerID, blockedID string) error {
	if !validID(blockerID) || !validID(blockedID) {
		return ErrUserNotFound
	}
	res, err := r.db.ExecContext(ctx, `INSERT INTO blocked_users (blocker_id, blocked_id) VALUES ($1, $2)
        ON CONFLICT (blocker_id, blocked_id) DO NOTHING`, blockerID, blockedID)
	if err != nil {
		if pqCode(err) == pgForeignKeyViolation {
			return ErrUserNotFound
		}
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrAlreadyBlocked
	}
	return nil
}

// Unblock removes an entry from the block list.
func (r *BlockRepo) Unblock(ctx context.Context, blockerID, blockedID string) error {
	if !validID(blockerID) || !validID(blockedID) {
		return ErrBlockNotFound
	}
	res, err := r.db.ExecContext(ctx, `DELETE FROM blocked_users WHERE blocker_id=$1 AND blocked_id=$2`, blockerID, blockedID)
	if err != nil {
		return err
	}
	count, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if count == 0 {
		return ErrBlockNotFound
	}
	return nil
}

// ListBlocked returns the block list with each blocked user's card.
func (r *BlockRepo) ListBlocked(ctx context.Context, blockerID string) ([]models.BlockedUser, error) {
	blocked := []models.BlockedUser{}
	if !validID(blockerID) {
		return blocked, nil
	}
	err := r.db.SelectContext(ctx, &blocked, `SELECT b.blocked_id, u.name, p.photo, b.created_at AS blocked_at
        FROM blocked_users b
        JOIN users u ON u.id = b.blocked_id
        LEFT JOIN user_profiles p ON p.user_id = u.id
        WHERE b.blocker_id=$1
        ORDER BY b.created_at DESC`, blockerID)
	return blocked, err
}
