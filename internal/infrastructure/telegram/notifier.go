package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/ports"
)

// Notifier sends run summaries to a Telegram chat via bot API.
type Notifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot client and chat identifier.
func NewNotifier(api *tgbotapi.BotAPI, chatID int64) *Notifier {
	return &Notifier{
		api:    api,
		chatID: chatID,
	}
}

// PublishDigest posts a plain text message to Telegram.
func (n *Notifier) PublishDigest(ctx context.Context, digest string) error {
	if n.api == nil || n.chatID == 0 {
		return fmt.Errorf("telegram notifier misconfigured")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	msg := tgbotapi.NewMessage(n.chatID, digest)
	msg.DisableWebPagePreview = true

	if _, err := n.api.Send(msg); err != nil {
		return fmt.Errorf("send message: %w", err)
	}
	return nil
}
