package models

import "time"

// User is the account record the service reads for identity checks.
type User struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Email     string    `db:"email" json:"email"`
	IsActive  bool      `db:"is_active" json:"isActive"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// UserSummary is the public card shown next to likes and conversations.
type UserSummary struct {
	ID    string  `db:"id" json:"id"`
	Name  string  `db:"name" json:"name"`
	Email string  `db:"email" json:"email,omitempty"`
	Photo *string `db:"photo" json:"photo"`
	City  *string `db:"city" json:"city,omitempty"`
}
