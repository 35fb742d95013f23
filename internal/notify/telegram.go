package notify

import (
	"context"
	"fmt"
	"html"
	"net/http"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// TelegramSender delivers alerts to one Telegram chat.
type TelegramSender struct {
	token    string
	chatID   int64
	endpoint string
	client   *http.Client

	mu  sync.Mutex
	bot *tgbotapi.BotAPI
}

// NewTelegramSender creates a sender. No request is made until Ready or Send.
func NewTelegramSender(botToken string, chatID int64) *TelegramSender {
	return &TelegramSender{
		token:    botToken,
		chatID:   chatID,
		endpoint: tgbotapi.APIEndpoint,
		client:   &http.Client{Timeout: 30 * time.Second},
	}
}

// WithEndpoint points the sender at another Bot API server. The endpoint
// uses the tgbotapi format "<base>/bot%s/%s".
func (t *TelegramSender) WithEndpoint(endpoint string, client *http.Client) *TelegramSender {
	t.endpoint = endpoint
	if client != nil {
		t.client = client
	}
	return t
}

// Ready checks the token with getMe.
func (t *TelegramSender) Ready(context.Context) error {
	_, err := t.api()
	return err
}

// Send posts the alert as an HTML message. tgbotapi has no context support,
// so ctx only bounds the wait through the client timeout.
func (t *TelegramSender) Send(_ context.Context, c Content) error {
	bot, err := t.api()
	if err != nil {
		return err
	}

	text := fmt.Sprintf("⏰ <b>%s</b>\n\n%s", html.EscapeString(c.Title), html.EscapeString(c.Body))
	msg := tgbotapi.NewMessage(t.chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML

	if _, err := bot.Send(msg); err != nil {
		return fmt.Errorf("failed to send telegram message: %w", err)
	}
	return nil
}

func (t *TelegramSender) api() (*tgbotapi.BotAPI, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.bot != nil {
		return t.bot, nil
	}
	if t.token == "" {
		return nil, fmt.Errorf("telegram bot token is not configured")
	}

	bot, err := tgbotapi.NewBotAPIWithClient(t.token, t.endpoint, t.client)
	if err != nil {
		return nil, fmt.Errorf("failed to create Telegram API: %w", err)
	}
	t.bot = bot
	return bot, nil
}
