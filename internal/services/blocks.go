package services

import (
	"context"
	"errors"
	"fmt"

	"dating-service/internal/models"
	"dating-service/internal/repositories"
)

// BlockService manages a user's block list.
type BlockService struct {
	blocks repositories.BlockRepository
}

func NewBlockService(blocks repositories.BlockRepository) *BlockService {
	return &BlockService{blocks: blocks}
}

func (s *BlockService) Block(ctx context.Context, blockerID, blockedID string) error {
	if blockerID == blockedID {
		return ErrSelfBlock
	}
	err := s.blocks.Block(ctx, blockerID, blockedID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrAlreadyBlocked):
		return ErrAlreadyBlocked
	case errors.Is(err, repositories.ErrUserNotFound):
		return ErrUserNotFound
	}
	return fmt.Errorf("block user: %w", err)
}

func (s *BlockService) Unblock(ctx context.Context, blockerID, blockedID string) error {
	err := s.blocks.Unblock(ctx, blockerID, blockedID)
	if errors.Is(err, repositories.ErrBlockNotFound) {
		return ErrBlockNotFound
	}
	if err != nil {
		return fmt.Errorf("unblock user: %w", err)
	}
	return nil
}

func (s *BlockService) ListBlocked(ctx context.Context, blockerID string) ([]models.BlockedUser, error) {
	users, err := s.blocks.ListBlocked(ctx, blockerID)
	if err != nil {
		return nil, fmt.Errorf("list blocked users: %w", err)
	}
	if users == nil {
		users = []models.BlockedUser{}
	}
	return users, nil
}
