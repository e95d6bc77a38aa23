package bot

import (
	"context"
	"errors"
	"fmt"

	"civic_ingest/internal/model"
	"civic_ingest/internal/neglect"
	"civic_ingest/internal/scheduler"
	"civic_ingest/internal/storage"
)

func (b *Bot) handleStart(chatID int64) {
	b.reply(chatID, `Welcome to Civic Ingest!

Posts from social feeds, group chats and email are screened for spam,
classified by department and filed as complaints.

Quick start:
1. /scan — run the configured feeds through the pipeline
2. /status — follow the run
3. /neglected — complaints open for 30+ days

Use /help for the full command reference.`)
}

func (b *Bot) handleHelp(chatID int64) {
	b.reply(chatID, `Ingestion:
/scan — start a run over the configured feeds
/status [all|queued|scanning|approved|fake] — run progress and stats

Complaints:
/recent [n] — latest complaints (default 5, max 25)
/complaint <code> — complaint details
/neglected — open complaints older than 30 days
/resolve <code> — mark resolved
/progress <code> — mark in progress
/reopen <code> — mark open again

Plain messages in group chats are queued for the next run.`)
}

func (b *Bot) handleScan(ctx context.Context, chatID int64) {
	n, err := b.runs.StartFrom(ctx, b.feed)
	switch {
	case errors.Is(err, scheduler.ErrRunning):
		b.reply(chatID, "A run is already in progress. Use /status to follow it.")
		return
	case errors.Is(err, scheduler.ErrNoPosts):
		b.reply(chatID, "No posts to scan.")
		return
	case err != nil:
		b.reply(chatID, fmt.Sprintf("Scan failed: %v", err))
		return
	}
	b.log.Info("run requested", "chat_id", chatID, "posts", n)
	b.reply(chatID, fmt.Sprintf("Scanning %d post(s). Use /status to follow the run.", n))
}

func (b *Bot) handleStatus(chatID int64, args string) {
	tab, err := ParseStatusArg(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}
	b.reply(chatID, FormatStatus(b.runs.Snapshot(), tab))
}

func (b *Bot) handleNeglected(ctx context.Context, chatID int64) {
	records, err := b.store.ListComplaints(ctx, storage.ListOptions{})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	now := b.now()
	var neglected []model.ComplaintRecord
	for _, r := range records {
		if neglect.IsNeglectedAt(r, now) {
			neglected = append(neglected, r)
		}
	}

	b.replyWithResolveButtons(chatID, FormatNeglected(neglected, now), neglected)
}

func (b *Bot) handleRecent(ctx context.Context, chatID int64, args string) {
	n, err := ParseLimitArg(args)
	if err != nil {
		b.reply(chatID, err.Error())
		return
	}

	records, err := b.store.ListComplaints(ctx, storage.ListOptions{Limit: n})
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatComplaintList(records, b.now()))
}

func (b *Bot) handleComplaint(ctx context.Context, chatID int64, args string) {
	code, err := ParseCodeArg(args)
	if err != nil {
		b.reply(chatID, "Usage: /complaint <code>")
		return
	}

	rec, err := b.store.GetComplaintByCode(ctx, code)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, fmt.Sprintf("Complaint %s not found.", code))
		return
	}
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}
	b.reply(chatID, FormatComplaint(rec, b.now()))
}

func (b *Bot) handleSetStatus(ctx context.Context, chatID int64, args string, status model.Status) {
	code, err := ParseCodeArg(args)
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Usage: /%s <code>", statusCommand(status)))
		return
	}

	err = b.store.UpdateStatus(ctx, code, status)
	if errors.Is(err, storage.ErrNotFound) {
		b.reply(chatID, fmt.Sprintf("Complaint %s not found.", code))
		return
	}
	if err != nil {
		b.reply(chatID, fmt.Sprintf("Error: %v", err))
		return
	}

	b.log.Info("complaint status changed", "code", code, "status", status, "chat_id", chatID)
	b.reply(chatID, fmt.Sprintf("Complaint %s marked %s.", code, status))
}

func statusCommand(s model.Status) string {
	switch s {
	case model.StatusResolved:
		return cmdResolve
	case model.StatusInProgress:
		return cmdProgress
	default:
		return "reopen"
	}
}
