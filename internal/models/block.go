package models

import "time"

// BlockedUser is an entry in a user's block list.
type BlockedUser struct {
	BlockedID string    `db:"blocked_id" json:"blockedId"`
	Name      string    `db:"name" json:"name"`
	Photo     *string   `db:"photo" json:"photo"`
	BlockedAt time.Time `db:"blocked_at" json:"blockedAt"`
}
