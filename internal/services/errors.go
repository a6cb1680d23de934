package services

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidAction      = errors.New("invalid action, must be 'like' or 'dislike'")
	ErrSelfInteraction    = errors.New("you cannot interact with yourself")
	ErrUserNotFound       = errors.New("user not found")
	ErrReceiverNotFound   = errors.New("receiver not found")
	ErrMessageNotFound    = errors.New("message not found")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrNotSender          = fmt.Errorf("%w: only sender can edit message", ErrUnauthorized)
	ErrEmptyContent       = errors.New("content is required")
	ErrInvalidMessageType = errors.New("type must be one of text, image, file")
	ErrSelfBlock          = errors.New("you cannot block yourself")
	ErrAlreadyBlocked     = errors.New("user is already blocked")
	ErrBlockNotFound      = errors.New("block record not found")
)
