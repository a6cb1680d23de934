package repositories

import (
	"context"

	"github.com/jmoiron/sqlx"
)

// SubscriptionRepository answers premium entitlement questions.
type SubscriptionRepository interface {
	IsPremium(ctx context.Context, userID string) (bool, error)
}

// SubscriptionRepo is a sqlx implementation of SubscriptionRepository.
type SubscriptionRepo struct {
	db *sqlx.DB
}

// NewSubscriptionRepo constructs a SubscriptionRepo.
func NewSubscriptionRepo(db *sqlx.DB) *SubscriptionRepo {
	return &SubscriptionRepo{db: db}
}

// IsPremium reports whether the user holds an active, unexpired subscription.
func (r *SubscriptionRepo) IsPremium(ctx context.Context, userID string) (bool, error) {
	if !validID(userID) {
		return false, nil
	}
	var exists bool
	err := r.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM subscriptions WHERE user_id=$1 AND status='active' AND end_date > NOW())`, userID)
	return exists, err
}
