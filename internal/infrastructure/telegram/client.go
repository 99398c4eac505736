package telegram

import (
	"fmt"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// NewAPI builds a Bot API client; endpoint is a "%s/%s" template like tgbotapi.APIEndpoint.
// The library calls getMe on construction, so a bad token fails here.
func NewAPI(token, endpoint string, timeout time.Duration) (*tgbotapi.BotAPI, error) {
	if token == "" {
		return nil, fmt.Errorf("telegram bot token is empty")
	}
	if endpoint == "" {
		endpoint = tgbotapi.APIEndpoint
	}
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	api, err := tgbotapi.NewBotAPIWithClient(token, endpoint, &http.Client{Timeout: timeout})
	if err != nil {
		return nil, fmt.Errorf("connect bot api: %w", err)
	}
	return api, nil
}
