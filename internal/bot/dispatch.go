package bot

import (
	"context"

	"github.com/go-telegram-bot-api/telegram-bot-api"
)

// HandleUpdate routes one polled update to the matching command flow and
// delivers the reply. Errors are logged here; the user already got a
// human-readable message from the flow itself.
func (h *Handler) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil || msg.Chat == nil || !msg.Chat.IsPrivate() {
		return
	}
	userID := msg.Chat.ID

	var reply string
	var err error

	switch {
	case msg.IsCommand() && msg.Command() == "start":
		reply, err = h.Start(ctx, userID, msg.CommandArguments())
	case msg.IsCommand() && msg.Command() == "token":
		reply, err = h.IssueToken(ctx, userID)
	case msg.IsCommand() && msg.Command() == "get_file":
		link := msg.CommandArguments()
		if link == "" {
			reply = "Usage: /get_file <link>"
		} else {
			reply, err = h.GetFile(ctx, userID, link)
		}
	case msg.Document != nil:
		reply, err = h.StoreFile(ctx, userID, msg.Document.FileID)
	default:
		return
	}

	if err != nil {
		h.logger.WithError(err).Error("command failed", map[string]interface{}{
			"userId":  userID,
			"command": msg.Command(),
		})
	}
	if reply == "" {
		return
	}
	if err := h.tr.SendMessage(ctx, userID, reply); err != nil {
		h.logger.WithError(err).Error("failed to send reply", map[string]interface{}{
			"userId": userID,
		})
	}
}
