package bot

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"civic_ingest/internal/model"
)

// Sender is the interface for sending Telegram messages.
type Sender interface {
	SendMessage(chatID int64, text string)
}

// Notifier posts every filed complaint to a chat. It implements the
// pipeline sink interface.
type Notifier struct {
	sender  Sender
	chatID  int64
	limiter *rate.Limiter
}

// NewNotifier sends at most perSecond messages per second to chatID.
func NewNotifier(sender Sender, chatID int64, perSecond float64) *Notifier {
	burst := max(int(perSecond), 1)
	return &Notifier{
		sender:  sender,
		chatID:  chatID,
		limiter: rate.NewLimiter(rate.Limit(perSecond), burst),
	}
}

// Append implements pipeline.Sink.
func (n *Notifier) Append(ctx context.Context, rec model.ComplaintRecord) error {
	if err := n.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("notify %s: %w", rec.DisplayCode, err)
	}
	n.sender.SendMessage(n.chatID, FormatNotification(rec))
	return nil
}
