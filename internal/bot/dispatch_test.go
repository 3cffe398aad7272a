package bot

import (
	"context"
	"strings"
	"testing"
	"time"

	"filegate/internal/models"

	"github.com/go-telegram-bot-api/telegram-bot-api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func commandUpdate(chatID int64, text string) tgbotapi.Update {
	cmd := text
	if i := strings.Index(text, " "); i != -1 {
		cmd = text[:i]
	}
	entities := []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID, Type: "private"},
		Text:     text,
		Entities: &entities,
	}}
}

func documentUpdate(chatID int64, fileID string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: chatID, Type: "private"},
		Document: &tgbotapi.Document{FileID: fileID},
	}}
}

func TestHandleUpdate_RoutesCommands(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := &fakeTransport{statuses: map[int64]models.SubscriptionStatus{42: models.StatusMember}}
	h := newTestHandler(t, tr, clock)
	ctx := context.Background()

	h.HandleUpdate(ctx, commandUpdate(42, "/start"))
	require.Len(t, tr.sentTexts, 1)
	assert.Contains(t, tr.sentTexts[0], "Welcome")

	h.HandleUpdate(ctx, documentUpdate(42, "F1"))
	require.Len(t, tr.sentTexts, 2)
	assert.Contains(t, tr.sentTexts[1], "/get_file link-1")
	require.Len(t, tr.sentFiles, 1)
	assert.Equal(t, archiveChannelID, tr.sentFiles[0].chatID)

	h.HandleUpdate(ctx, commandUpdate(42, "/get_file link-1"))
	require.Len(t, tr.sentFiles, 2)
	assert.Equal(t, int64(42), tr.sentFiles[1].chatID)
	// A served file needs no text reply.
	assert.Len(t, tr.sentTexts, 2)

	h.HandleUpdate(ctx, commandUpdate(42, "/token"))
	require.Len(t, tr.sentTexts, 3)
	assert.Contains(t, tr.sentTexts[2], "https://t.me/gatebot?start=")
}

func TestHandleUpdate_GetFileWithoutArgument(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := &fakeTransport{statuses: map[int64]models.SubscriptionStatus{42: models.StatusMember}}
	h := newTestHandler(t, tr, clock)

	h.HandleUpdate(context.Background(), commandUpdate(42, "/get_file"))
	require.Len(t, tr.sentTexts, 1)
	assert.Contains(t, tr.sentTexts[0], "Usage")
}

func TestHandleUpdate_IgnoresNonPrivateAndEmptyUpdates(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	tr := &fakeTransport{}
	h := newTestHandler(t, tr, clock)
	ctx := context.Background()

	h.HandleUpdate(ctx, tgbotapi.Update{})

	group := commandUpdate(-500, "/start")
	group.Message.Chat.Type = "supergroup"
	h.HandleUpdate(ctx, group)

	// Plain text in a private chat is not a command either.
	h.HandleUpdate(ctx, tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: 42, Type: "private"},
		Text: "hello",
	}})

	assert.Empty(t, tr.sentTexts)
	assert.Empty(t, tr.sentFiles)
}
