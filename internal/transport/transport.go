// Package transport defines the chat-platform contract the gate depends on
// and its Telegram implementation. File bytes always flow through the
// transport; the core only ever holds opaque references.
package transport

import (
	"context"
	"errors"

	"filegate/internal/models"
)

// ErrNotFound reports that a referenced entity (file, message, user) no longer
// resolves on the platform side.
var ErrNotFound = errors.New("transport: referenced entity not found")

// Transport is the full surface the bot consumes. Core components depend on
// narrower interfaces declared where they are used.
type Transport interface {
	// SendFile delivers the file behind fileRef to a chat and returns the
	// resulting message reference.
	SendFile(ctx context.Context, chatID int64, fileRef string) (string, error)

	// SendMessage delivers a plain text message.
	SendMessage(ctx context.Context, chatID int64, text string) error

	// DeleteMessage removes a message from a chat, best effort.
	DeleteMessage(ctx context.Context, chatID int64, messageRef string) error

	// GetChatMemberStatus queries the user's membership status in a channel.
	GetChatMemberStatus(ctx context.Context, channelRef string, userID int64) (models.SubscriptionStatus, error)
}
