// internal/notify/telegram.go
package notify

import (
	"context"
	"fmt"

	"github.com/cenkalti/backoff/v5"
	"go.uber.org/zap"
	tb "gopkg.in/tucnak/telebot.v2"
)

const sendMaxTries = 3

// Notifier delivers a user-facing message. Implementations log failures
// instead of surfacing them to the caller.
type Notifier interface {
	Notify(text string)
}

// Telegram sends notifications to one configured chat.
type Telegram struct {
	client *tb.Bot
	chat   tb.Recipient
	logger *zap.Logger
}

// NewTelegram creates a Telegram notifier. A bad token or unreachable API
// is an error here, which makes it fatal at startup.
func NewTelegram(botToken string, chatID int64, logger *zap.Logger) (*Telegram, error) {
	client, err := tb.NewBot(tb.Settings{Token: botToken})
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}
	return &Telegram{
		client: client,
		chat:   tb.ChatID(chatID),
		logger: logger.Named("telegram"),
	}, nil
}

// Notify sends the text to the configured chat, retrying transient failures
// a few times before giving up. Failures are logged, never returned.
func (t *Telegram) Notify(text string) {
	_, err := backoff.Retry(context.Background(), func() (struct{}, error) {
		_, err := t.client.Send(t.chat, text)
		return struct{}{}, err
	}, backoff.WithBackOff(backoff.NewExponentialBackOff()), backoff.WithMaxTries(sendMaxTries))
	if err != nil {
		t.logger.Error("telegram notification error", zap.Error(err))
	}
}
