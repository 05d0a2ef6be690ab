package chat

import "errors"

var (
	ErrMissingUser         = errors.New("chat: user id is required")
	ErrMissingConversation = errors.New("chat: conversation id is required")
	ErrMessageTooLong      = errors.New("chat: message is too long")
	ErrAssistantFailed     = errors.New("chat: assistant unavailable")
)
