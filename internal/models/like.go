package models

import "time"

// InteractionStatus is the state of one directed like/dislike edge.
type InteractionStatus string

const (
	StatusPending  InteractionStatus = "pending"
	StatusMatched  InteractionStatus = "matched"
	StatusRejected InteractionStatus = "rejected"
)

// Action is what a user does to another user's card.
type Action string

const (
	ActionLike    Action = "like"
	ActionDislike Action = "dislike"
)

// Valid reports whether a is a recognised action.
func (a Action) Valid() bool {
	return a == ActionLike || a == ActionDislike
}

// TargetStatus is the status an action moves the actor's own edge to.
func (a Action) TargetStatus() InteractionStatus {
	if a == ActionDislike {
		return StatusRejected
	}
	return StatusPending
}

// Interaction is the directed sender -> receiver edge. At most one exists
// per ordered pair.
type Interaction struct {
	ID         string            `db:"id" json:"id"`
	SenderID   string            `db:"sender_id" json:"senderId"`
	ReceiverID string            `db:"receiver_id" json:"receiverId"`
	Status     InteractionStatus `db:"status" json:"status"`
	CreatedAt  time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time         `db:"updated_at" json:"updatedAt"`
}

// ReceivedLike is a pending like joined with the sender's card.
type ReceivedLike struct {
	LikeID  string    `db:"like_id" json:"likeId"`
	UserID  string    `db:"user_id" json:"userId"`
	Name    string    `db:"name" json:"name"`
	Photo   *string   `db:"photo" json:"photo"`
	City    *string   `db:"city" json:"city"`
	LikedAt time.Time `db:"liked_at" json:"likedAt"`
}
