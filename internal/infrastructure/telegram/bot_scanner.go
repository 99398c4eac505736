package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/domain"
	"github.com/sunflowergalaxy888-cell/sudpraktika/internal/scanner"
)

// Bot API returns at most this many updates per call.
const maxUpdates = 100

// BotScanner reads channel posts delivered to a bot that is a channel admin.
type BotScanner struct {
	api    *tgbotapi.BotAPI
	logger *slog.Logger
}

var _ scanner.Scanner = (*BotScanner)(nil)

// NewBotScanner wraps an authenticated Bot API client.
func NewBotScanner(api *tgbotapi.BotAPI, log *slog.Logger) *BotScanner {
	return &BotScanner{api: api, logger: log}
}

// Name identifies the strategy inside the registry.
func (b *BotScanner) Name() string {
	return "bot"
}

// Scan asks for the last Limit updates and keeps channel posts from the requested channel.
func (b *BotScanner) Scan(ctx context.Context, req scanner.Request) ([]domain.Post, error) {
	if b.api == nil {
		return nil, fmt.Errorf("telegram bot api is not configured")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	channel := strings.TrimPrefix(strings.TrimSpace(req.Channel), "@")
	if channel == "" {
		return nil, fmt.Errorf("no channel provided for bot scanner")
	}

	limit := req.Limit
	if limit <= 0 || limit > maxUpdates {
		limit = maxUpdates
	}

	cfg := tgbotapi.NewUpdate(-limit)
	cfg.Limit = limit
	cfg.AllowedUpdates = []string{"channel_post"}

	updates, err := b.api.GetUpdates(cfg)
	if err != nil {
		return nil, fmt.Errorf("get updates: %w", err)
	}

	posts := make([]domain.Post, 0, len(updates))
	for _, update := range updates {
		msg := update.ChannelPost
		if msg == nil || msg.Chat == nil {
			continue
		}
		if !strings.EqualFold(msg.Chat.UserName, channel) {
			b.debug("skip post from other chat", "chat", msg.Chat.UserName, "post", msg.MessageID)
			continue
		}
		posts = append(posts, toPost(msg, channel))
	}

	b.debug("bot updates scanned", "updates", len(updates), "posts", len(posts))
	return posts, nil
}

func toPost(msg *tgbotapi.Message, channel string) domain.Post {
	text := msg.Text
	if text == "" {
		text = msg.Caption
	}
	return domain.Post{
		ID:      int64(msg.MessageID),
		Date:    int64(msg.Date),
		Text:    text,
		Channel: channel,
		ChatID:  msg.Chat.ID,
	}
}

func (b *BotScanner) debug(msg string, args ...interface{}) {
	if b.logger != nil {
		b.logger.Debug(msg, args...)
	}
}
