package transport

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"filegate/internal/common/logger"
	"filegate/internal/models"

	"github.com/go-telegram-bot-api/telegram-bot-api"
)

// Telegram adapts the Bot API client to the Transport contract. The client
// owns its own request timeouts; contexts are accepted for interface symmetry
// but the underlying library does not thread them through.
type Telegram struct {
	api    *tgbotapi.BotAPI
	logger logger.Logger
}

func NewTelegram(api *tgbotapi.BotAPI, log logger.Logger) *Telegram {
	return &Telegram{
		api:    api,
		logger: log.WithFields(map[string]interface{}{"component": "telegram"}),
	}
}

// API exposes the underlying client for the update polling loop.
func (t *Telegram) API() *tgbotapi.BotAPI {
	return t.api
}

func (t *Telegram) SendFile(_ context.Context, chatID int64, fileRef string) (string, error) {
	msg, err := t.api.Send(tgbotapi.NewDocumentShare(chatID, fileRef))
	if err != nil {
		if isGoneError(err) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("send file: %w", err)
	}
	return strconv.Itoa(msg.MessageID), nil
}

func (t *Telegram) SendMessage(_ context.Context, chatID int64, text string) error {
	m := tgbotapi.NewMessage(chatID, text)
	m.ParseMode = tgbotapi.ModeMarkdown
	if _, err := t.api.Send(m); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}

func (t *Telegram) DeleteMessage(_ context.Context, chatID int64, messageRef string) error {
	messageID, err := strconv.Atoi(messageRef)
	if err != nil {
		return fmt.Errorf("bad message ref %q: %w", messageRef, err)
	}
	if _, err := t.api.DeleteMessage(tgbotapi.DeleteMessageConfig{
		ChatID:    chatID,
		MessageID: messageID,
	}); err != nil {
		if isGoneError(err) {
			return ErrNotFound
		}
		return fmt.Errorf("delete message: %w", err)
	}
	return nil
}

func (t *Telegram) GetChatMemberStatus(_ context.Context, channelRef string, userID int64) (models.SubscriptionStatus, error) {
	cfg := tgbotapi.ChatConfigWithUser{UserID: int(userID)}
	if strings.HasPrefix(channelRef, "@") {
		cfg.SuperGroupUsername = channelRef
	} else {
		chatID, err := strconv.ParseInt(channelRef, 10, 64)
		if err != nil {
			return models.StatusUnknown, fmt.Errorf("bad channel ref %q: %w", channelRef, err)
		}
		cfg.ChatID = chatID
	}

	member, err := t.api.GetChatMember(cfg)
	if err != nil {
		return models.StatusUnknown, fmt.Errorf("get chat member: %w", err)
	}

	switch member.Status {
	case "creator":
		return models.StatusOwner, nil
	case "administrator":
		return models.StatusAdmin, nil
	case "member":
		return models.StatusMember, nil
	default:
		return models.StatusNone, nil
	}
}

// isGoneError matches Bot API rejections that mean the referenced entity no
// longer exists, as opposed to transient delivery failures.
func isGoneError(err error) bool {
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "wrong file") ||
		strings.Contains(msg, "file_id") ||
		strings.Contains(msg, "message to delete not found")
}
