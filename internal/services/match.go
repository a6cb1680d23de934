package services

import (
	"context"
	"errors"
	"fmt"

	"dating-service/internal/models"
	"dating-service/internal/observability"
	"dating-service/internal/repositories"
)

// MatchResult is the outcome of one like/dislike action.
type MatchResult struct {
	IsMatch bool `json:"isMatch"`
	// Changed is false when the call was an idempotent repeat.
	Changed bool `json:"-"`
	// NewMatch is true only for the call that committed the match.
	NewMatch bool `json:"-"`
}

// ReceivedLikes is the "likes you" inbox.
type ReceivedLikes struct {
	Count     int                   `json:"count"`
	Likes     []models.ReceivedLike `json:"likes"`
	IsPremium bool                  `json:"isPremium"`
}

// MatchService turns directed like/dislike actions into mutual matches.
type MatchService struct {
	likes         repositories.LikeRepository
	subscriptions repositories.SubscriptionRepository
}

// NewMatchService builds a MatchService.
func NewMatchService(likes repositories.LikeRepository, subscriptions repositories.SubscriptionRepository) *MatchService {
	return &MatchService{likes: likes, subscriptions: subscriptions}
}

// RecordInteraction applies action from senderID toward receiverID.
//
// Every read and write for the pair happens under one pair-locked
// transaction, so two concurrent opposite likes are serialised: the second
// one always sees the first one's pending row and commits the match.
func (s *MatchService) RecordInteraction(ctx context.Context, senderID, receiverID string, action models.Action) (MatchResult, error) {
	if !action.Valid() {
		return MatchResult{}, ErrInvalidAction
	}
	if senderID == receiverID {
		return MatchResult{}, ErrSelfInteraction
	}

	var result MatchResult
	err := s.likes.WithPairLock(ctx, senderID, receiverID, func(tx repositories.LikeTx) error {
		result = MatchResult{}
		return applyAction(ctx, tx, senderID, receiverID, action, &result)
	})
	if err != nil {
		observability.IncLikeAction(string(action), "error")
		if errors.Is(err, repositories.ErrUserNotFound) {
			return MatchResult{}, ErrReceiverNotFound
		}
		return MatchResult{}, fmt.Errorf("record interaction: %w", err)
	}

	switch {
	case result.NewMatch:
		observability.IncLikeAction(string(action), "matched")
		observability.IncMatchCreated()
		_ = observability.PublishEvent(ctx, observability.RoutingKeyMatches, observability.NewMatchEvent(senderID, receiverID), nil)
	case !result.Changed:
		observability.IncLikeAction(string(action), "unchanged")
	default:
		observability.IncLikeAction(string(action), "applied")
	}
	return result, nil
}

func applyAction(ctx context.Context, tx repositories.LikeTx, senderID, receiverID string, action models.Action, result *MatchResult) error {
	target := action.TargetStatus()

	current, err := tx.FindInteraction(ctx, senderID, receiverID)
	switch {
	case err == nil:
		if current.Status == target || (action == models.ActionLike && current.Status == models.StatusMatched) {
			result.IsMatch = current.Status == models.StatusMatched
			return nil
		}
		result.Changed = true

		if action == models.ActionDislike {
			if err := tx.SetStatus(ctx, current.ID, models.StatusRejected); err != nil {
				return err
			}
			// The disliked party falls back to a one-sided like.
			return tx.DowngradeMatch(ctx, receiverID, senderID)
		}

		// Second chance: rejected -> pending, then look for a match.
		if err := tx.SetStatus(ctx, current.ID, models.StatusPending); err != nil {
			return err
		}
	case errors.Is(err, repositories.ErrInteractionNotFound):
		if _, err := tx.CreateInteraction(ctx, senderID, receiverID, target); err != nil {
			return err
		}
		result.Changed = true
		if action == models.ActionDislike {
			return nil
		}
	default:
		return err
	}

	reverse, err := tx.FindInteraction(ctx, receiverID, senderID)
	if errors.Is(err, repositories.ErrInteractionNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if reverse.Status != models.StatusPending {
		return nil
	}

	if err := tx.MarkPairMatched(ctx, senderID, receiverID); err != nil {
		return err
	}
	result.IsMatch = true
	result.NewMatch = true
	return nil
}

// ListReceivedLikes returns pending likes addressed to userID, minus the
// senders userID has rejected, plus the caller's premium flag.
func (s *MatchService) ListReceivedLikes(ctx context.Context, userID string) (ReceivedLikes, error) {
	likes, err := s.likes.ListReceivedPending(ctx, userID)
	if err != nil {
		return ReceivedLikes{}, fmt.Errorf("list received likes: %w", err)
	}
	if likes == nil {
		likes = []models.ReceivedLike{}
	}

	premium, err := s.subscriptions.IsPremium(ctx, userID)
	if err != nil {
		return ReceivedLikes{}, fmt.Errorf("check premium: %w", err)
	}

	return ReceivedLikes{Count: len(likes), Likes: likes, IsPremium: premium}, nil
}
