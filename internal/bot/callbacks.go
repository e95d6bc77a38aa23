package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"civic_ingest/internal/model"
)

const (
	cmdScan     = "scan"
	cmdStatus   = "status"
	cmdResolve  = "resolve"
	cmdProgress = "progress"

	maxButtons = 10
)

// replyWithResolveButtons sends text with one resolve button per record.
func (b *Bot) replyWithResolveButtons(chatID int64, text string, records []model.ComplaintRecord) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true

	var rows [][]tgbotapi.InlineKeyboardButton
	for i, r := range records {
		if i == maxButtons {
			break
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Resolve "+r.DisplayCode, cmdResolve+":"+r.DisplayCode),
		))
	}
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}

	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil || cb.Message.Chat == nil {
		return
	}
	chatID := cb.Message.Chat.ID

	callback := tgbotapi.NewCallback(cb.ID, "")
	if _, err := b.api.Send(callback); err != nil {
		b.log.Error("send callback ack", "error", err)
	}

	action, arg, ok := strings.Cut(cb.Data, ":")
	if !ok {
		return
	}

	attrs := []any{"action", action, "arg", arg, "chat_id", chatID}
	if cb.From != nil {
		attrs = append(attrs, "user_id", cb.From.ID, "username", cb.From.UserName)
	}
	b.log.Info("callback", attrs...)

	switch action {
	case cmdResolve:
		b.handleSetStatus(ctx, chatID, arg, model.StatusResolved)
	case cmdProgress:
		b.handleSetStatus(ctx, chatID, arg, model.StatusInProgress)
	case cmdStatus:
		b.handleStatus(chatID, arg)
	case cmdScan:
		b.handleScan(ctx, chatID)
	}
}
