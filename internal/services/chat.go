package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"dating-service/internal/models"
	"dating-service/internal/repositories"
)

// ChatService owns direct-message rules: who may see, edit or hide what.
type ChatService struct {
	messages repositories.MessageRepository
	users    repositories.UserRepository
}

// NewChatService builds a ChatService.
func NewChatService(messages repositories.MessageRepository, users repositories.UserRepository) *ChatService {
	return &ChatService{messages: messages, users: users}
}

// SendMessage persists a message from senderID to receiverID. An empty
// type defaults to text.
func (s *ChatService) SendMessage(ctx context.Context, senderID, receiverID, content string, msgType models.MessageType) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, ErrEmptyContent
	}
	if msgType == "" {
		msgType = models.MessageTypeText
	}
	if !msgType.Valid() {
		return models.Message{}, ErrInvalidMessageType
	}

	if _, err := s.users.GetUser(ctx, receiverID); err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.Message{}, ErrReceiverNotFound
		}
		return models.Message{}, fmt.Errorf("lookup receiver: %w", err)
	}

	msg, err := s.messages.CreateMessage(ctx, senderID, receiverID, content, msgType)
	if err != nil {
		if errors.Is(err, repositories.ErrUserNotFound) {
			return models.Message{}, ErrReceiverNotFound
		}
		return models.Message{}, fmt.Errorf("create message: %w", err)
	}
	return msg, nil
}

// ListMessages returns the thread between userID and otherID, oldest first,
// without the messages userID has hidden.
func (s *ChatService) ListMessages(ctx context.Context, userID, otherID string) ([]models.Message, error) {
	msgs, err := s.messages.ListBetween(ctx, userID, otherID)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	if msgs == nil {
		msgs = []models.Message{}
	}
	return msgs, nil
}

// ListConversations returns one entry per counterparty, newest first.
func (s *ChatService) ListConversations(ctx context.Context, userID string) ([]models.Conversation, error) {
	msgs, err := s.messages.ListVisibleForUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list visible messages: %w", err)
	}

	heads := LatestPerCounterparty(userID, msgs)
	if len(heads) == 0 {
		return []models.Conversation{}, nil
	}

	ids := make([]string, 0, len(heads))
	for _, h := range heads {
		ids = append(ids, h.Counterparty(userID))
	}
	summaries, err := s.users.BulkUsers(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("load counterparties: %w", err)
	}
	byID := make(map[string]models.UserSummary, len(summaries))
	for _, u := range summaries {
		byID[u.ID] = u
	}

	out := make([]models.Conversation, 0, len(heads))
	for _, h := range heads {
		otherID := h.Counterparty(userID)
		user, ok := byID[otherID]
		if !ok {
			user = models.UserSummary{ID: otherID}
		}
		out = append(out, models.Conversation{
			User:        user,
			LastMessage: h.Content,
			Timestamp:   h.CreatedAt,
		})
	}
	return out, nil
}

// LatestPerCounterparty groups msgs (newest first) by the other participant
// and keeps the first visible message of each group. Output order follows
// the input, so it is newest first as well.
func LatestPerCounterparty(userID string, msgs []models.Message) []models.Message {
	seen := make(map[string]struct{})
	heads := make([]models.Message, 0)
	for _, m := range msgs {
		if !m.VisibleTo(userID) {
			continue
		}
		other := m.Counterparty(userID)
		if _, ok := seen[other]; ok {
			continue
		}
		seen[other] = struct{}{}
		heads = append(heads, m)
	}
	return heads
}

// DeleteConversation hides every message between userID and otherID from
// userID only. Idempotent.
func (s *ChatService) DeleteConversation(ctx context.Context, userID, otherID string) error {
	if err := s.messages.HideConversationForUser(ctx, userID, otherID); err != nil {
		return fmt.Errorf("hide conversation: %w", err)
	}
	return nil
}

// DeleteMessage hides one message from whichever side userID is on.
func (s *ChatService) DeleteMessage(ctx context.Context, userID, messageID string) error {
	msg, err := s.getMessage(ctx, messageID)
	if err != nil {
		return err
	}

	var isSender bool
	switch userID {
	case msg.SenderID:
		isSender = true
	case msg.ReceiverID:
		isSender = false
	default:
		return ErrUnauthorized
	}

	if err := s.messages.SoftDeleteMessageForUser(ctx, messageID, isSender); err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return ErrMessageNotFound
		}
		return fmt.Errorf("soft delete message: %w", err)
	}
	return nil
}

// UpdateMessage replaces the content of a message userID sent and marks it
// edited.
func (s *ChatService) UpdateMessage(ctx context.Context, userID, messageID, content string) (models.Message, error) {
	if strings.TrimSpace(content) == "" {
		return models.Message{}, ErrEmptyContent
	}
	msg, err := s.getMessage(ctx, messageID)
	if err != nil {
		return models.Message{}, err
	}
	if msg.SenderID != userID {
		return models.Message{}, ErrNotSender
	}

	updated, err := s.messages.UpdateContent(ctx, messageID, content)
	if err != nil {
		if errors.Is(err, repositories.ErrMessageNotFound) {
			return models.Message{}, ErrMessageNotFound
		}
		return models.Message{}, fmt.Errorf("update message: %w", err)
	}
	return updated, nil
}

func (s *ChatService) getMessage(ctx context.Context, messageID string) (models.Message, error) {
	msg, err := s.messages.GetMessage(ctx, messageID)
	if errors.Is(err, repositories.ErrMessageNotFound) {
		return models.Message{}, ErrMessageNotFound
	}
	if err != nil {
		return models.Message{}, fmt.Errorf("get message: %w", err)
	}
	return msg, nil
}
