package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"dating-service/internal/models"
	"dating-service/internal/repositories"
)

type UserRepositoryMock struct {
	mock.Mock
}

func (m *UserRepositoryMock) GetUser(ctx context.Context, userID string) (models.User, error) {
	args := m.Called(ctx, userID)
	var user models.User
	if val := args.Get(0); val != nil {
		user = val.(models.User)
	}
	return user, args.Error(1)
}

func (m *UserRepositoryMock) BulkUsers(ctx context.Context, ids []string) ([]models.UserSummary, error) {
	args := m.Called(ctx, ids)
	var users []models.UserSummary
	if val := args.Get(0); val != nil {
		users = val.([]models.UserSummary)
	}
	return users, args.Error(1)
}

type MessageRepositoryMock struct {
	mock.Mock
}

func (m *MessageRepositoryMock) CreateMessage(ctx context.Context, senderID, receiverID, content string, msgType models.MessageType) (models.Message, error) {
	args := m.Called(ctx, senderID, receiverID, content, msgType)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) GetMessage(ctx context.Context, messageID string) (models.Message, error) {
	args := m.Called(ctx, messageID)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

func (m *MessageRepositoryMock) ListBetween(ctx context.Context, viewerID, otherID string) ([]models.Message, error) {
	args := m.Called(ctx, viewerID, otherID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) ListVisibleForUser(ctx context.Context, userID string) ([]models.Message, error) {
	args := m.Called(ctx, userID)
	var msgs []models.Message
	if val := args.Get(0); val != nil {
		msgs = val.([]models.Message)
	}
	return msgs, args.Error(1)
}

func (m *MessageRepositoryMock) SoftDeleteMessageForUser(ctx context.Context, messageID string, isSender bool) error {
	args := m.Called(ctx, messageID, isSender)
	return args.Error(0)
}

func (m *MessageRepositoryMock) HideConversationForUser(ctx context.Context, userID, otherID string) error {
	args := m.Called(ctx, userID, otherID)
	return args.Error(0)
}

func (m *MessageRepositoryMock) UpdateContent(ctx context.Context, messageID, content string) (models.Message, error) {
	args := m.Called(ctx, messageID, content)
	var msg models.Message
	if val := args.Get(0); val != nil {
		msg = val.(models.Message)
	}
	return msg, args.Error(1)
}

// LikeRepositoryMock runs fn against Tx when WithPairLock is expected to
// succeed, so tests can script the transactional calls on Tx.
type LikeRepositoryMock struct {
	mock.Mock
	Tx *LikeTxMock
}

func (m *LikeRepositoryMock) WithPairLock(ctx context.Context, userA, userB string, fn func(tx repositories.LikeTx) error) error {
	args := m.Called(ctx, userA, userB)
	if err := args.Error(0); err != nil {
		return err
	}
	return fn(m.Tx)
}

func (m *LikeRepositoryMock) ListReceivedPending(ctx context.Context, userID string) ([]models.ReceivedLike, error) {
	args := m.Called(ctx, userID)
	var likes []models.ReceivedLike
	if val := args.Get(0); val != nil {
		likes = val.([]models.ReceivedLike)
	}
	return likes, args.Error(1)
}

type LikeTxMock struct {
	mock.Mock
}

func (m *LikeTxMock) FindInteraction(ctx context.Context, senderID, receiverID string) (models.Interaction, error) {
	args := m.Called(ctx, senderID, receiverID)
	var in models.Interaction
	if val := args.Get(0); val != nil {
		in = val.(models.Interaction)
	}
	return in, args.Error(1)
}

func (m *LikeTxMock) CreateInteraction(ctx context.Context, senderID, receiverID string, status models.InteractionStatus) (models.Interaction, error) {
	args := m.Called(ctx, senderID, receiverID, status)
	var in models.Interaction
	if val := args.Get(0); val != nil {
		in = val.(models.Interaction)
	}
	return in, args.Error(1)
}

func (m *LikeTxMock) SetStatus(ctx context.Context, interactionID string, status models.InteractionStatus) error {
	args := m.Called(ctx, interactionID, status)
	return args.Error(0)
}

func (m *LikeTxMock) DowngradeMatch(ctx context.Context, senderID, receiverID string) error {
	args := m.Called(ctx, senderID, receiverID)
	return args.Error(0)
}

func (m *LikeTxMock) MarkPairMatched(ctx context.Context, userA, userB string) error {
	args := m.Called(ctx, userA, userB)
	return args.Error(0)
}

type SubscriptionRepositoryMock struct {
	mock.Mock
}

func (m *SubscriptionRepositoryMock) IsPremium(ctx context.Context, userID string) (bool, error) {
	args := m.Called(ctx, userID)
	return args.Bool(0), args.Error(1)
}

type BlockRepositoryMock struct {
	mock.Mock
}

func (m *BlockRepositoryMock) Block(ctx context.Context, blockerID, blockedID string) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

func (m *BlockRepositoryMock) Unblock(ctx context.Context, blockerID, blockedID string) error {
	args := m.Called(ctx, blockerID, blockedID)
	return args.Error(0)
}

func (m *BlockRepositoryMock) ListBlocked(ctx context.Context, blockerID string) ([]models.BlockedUser, error) {
	args := m.Called(ctx, blockerID)
	var users []models.BlockedUser
	if val := args.Get(0); val != nil {
		users = val.([]models.BlockedUser)
	}
	return users, args.Error(1)
}

type TokenValidatorMock struct {
	mock.Mock
}

func (m *TokenValidatorMock) ValidateToken(ctx context.Context, token string) (string, error) {
	args := m.Called(ctx, token)
	return args.String(0), args.Error(1)
}
