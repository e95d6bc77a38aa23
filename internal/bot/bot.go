package bot

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"civic_ingest/internal/config"
	"civic_ingest/internal/model"
	"civic_ingest/internal/scheduler"
	"civic_ingest/internal/source"
	"civic_ingest/internal/storage"
)

type telegramAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// Ingestor starts ingestion runs and reports on them.
type Ingestor interface {
	StartFrom(ctx context.Context, src scheduler.PostSource) (int, error)
	Snapshot() scheduler.Snapshot
}

// Deps are the services the bot commands operate on.
type Deps struct {
	Store    storage.Storage
	Ingestor Ingestor
	Feed     source.Feed
	Inbox    *source.Inbox
}

// Bot is the Telegram bot that handles operator commands, collects group
// messages for the next run and sends complaint notifications.
type Bot struct {
	api   telegramAPI
	store storage.Storage
	runs  Ingestor
	feed  source.Feed
	inbox *source.Inbox
	cfg   *config.Config
	log   *slog.Logger
	now   func() time.Time
}

// New creates a Bot with the given Telegram token.
func New(token string, cfg *config.Config, deps Deps, log *slog.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	return &Bot{
		api:   api,
		store: deps.Store,
		runs:  deps.Ingestor,
		feed:  deps.Feed,
		inbox: deps.Inbox,
		cfg:   cfg,
		log:   log,
		now:   time.Now,
	}, nil
}

// Run starts the bot's long-polling loop, blocking until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return
		case update := <-updates:
			b.handleUpdate(ctx, update)
		}
	}
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		if update.CallbackQuery.From != nil && !b.cfg.IsUserAllowed(update.CallbackQuery.From.ID) {
			return
		}
		b.handleCallback(ctx, update.CallbackQuery)
		return
	}

	msg := update.Message
	if msg == nil {
		return
	}
	if !msg.IsCommand() {
		b.handleGroupMessage(msg)
		return
	}
	if msg.From == nil || !b.cfg.IsUserAllowed(msg.From.ID) {
		b.reply(msg.Chat.ID, "Access denied.")
		return
	}
	b.handleCommand(ctx, msg)
}

// SendMessage sends a text message to the given chat.
func (b *Bot) SendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.DisableWebPagePreview = true
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send message", "chat_id", chatID, "error", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.SendMessage(chatID, text)
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	cmd := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())
	chatID := msg.Chat.ID

	b.log.Debug("command", "cmd", cmd, "args", args, "chat_id", chatID)

	switch cmd {
	case "start":
		b.handleStart(chatID)
	case "help":
		b.handleHelp(chatID)
	case cmdScan:
		b.handleScan(ctx, chatID)
	case cmdStatus:
		b.handleStatus(chatID, args)
	case "neglected":
		b.handleNeglected(ctx, chatID)
	case "recent":
		b.handleRecent(ctx, chatID, args)
	case "complaint":
		b.handleComplaint(ctx, chatID, args)
	case cmdResolve:
		b.handleSetStatus(ctx, chatID, args, model.StatusResolved)
	case cmdProgress:
		b.handleSetStatus(ctx, chatID, args, model.StatusInProgress)
	case "reopen":
		b.handleSetStatus(ctx, chatID, args, model.StatusOpen)
	default:
		b.reply(chatID, "Unknown command. Use /help for a list of commands.")
	}
}

// handleGroupMessage queues plain group messages as posts for the next run.
func (b *Bot) handleGroupMessage(msg *tgbotapi.Message) {
	if b.inbox == nil || msg.Chat == nil || !(msg.Chat.IsGroup() || msg.Chat.IsSuperGroup()) {
		return
	}
	text := strings.TrimSpace(msg.Text)
	if text == "" {
		text = strings.TrimSpace(msg.Caption)
	}
	if text == "" {
		return
	}

	post := model.RawPost{
		ID:            fmt.Sprintf("tg-%d-%d", msg.Chat.ID, msg.MessageID),
		Source:        model.SourceGroup,
		OriginHandle:  messageHandle(msg),
		ReceivedLabel: msg.Time().UTC().Format(time.RFC3339),
		Text:          text,
	}
	if dropped := b.inbox.Push(post); dropped {
		b.log.Warn("inbox full, dropped oldest post", "chat_id", msg.Chat.ID)
	}
	b.log.Debug("queued group message", "post_id", post.ID, "chat_id", msg.Chat.ID)
}

func messageHandle(msg *tgbotapi.Message) string {
	if msg.From != nil {
		if msg.From.UserName != "" {
			return "@" + msg.From.UserName
		}
		name := strings.TrimSpace(msg.From.FirstName + " " + msg.From.LastName)
		if name != "" {
			return name
		}
	}
	return msg.Chat.Title
}
