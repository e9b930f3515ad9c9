// internal/notify/toxi.go
package notify

import (
	"fmt"

	"go.uber.org/zap"
	tb "gopkg.in/tucnak/telebot.v2"
)

const toxiBotUsername = "@toxi_solana_bot"

// ChatSender delivers a message to a chat recipient. *tb.Bot satisfies it.
type ChatSender interface {
	Send(to tb.Recipient, what interface{}, options ...interface{}) (*tb.Message, error)
}

// ToxiBot drives a third-party chat trading bot with free-text commands.
// It is a plain command formatter; amounts and percentages are taken as-is.
type ToxiBot struct {
	client ChatSender
	to     tb.Recipient
	logger *zap.Logger
}

// NewToxiBot creates a bridge that talks to the trading bot's chat.
func NewToxiBot(client ChatSender, logger *zap.Logger) *ToxiBot {
	return &ToxiBot{
		client: client,
		to:     chatName(toxiBotUsername),
		logger: logger.Named("toxibot"),
	}
}

// Buy sends a /buy command for the given mint and SOL amount.
func (b *ToxiBot) Buy(mint string, amountSol float64) error {
	return b.send(fmt.Sprintf("/buy %s %g", mint, amountSol))
}

// Sell sends a /sell command for the given mint and percentage of holdings.
func (b *ToxiBot) Sell(mint string, percent int) error {
	return b.send(fmt.Sprintf("/sell %s %d%%", mint, percent))
}

func (b *ToxiBot) send(text string) error {
	msg, err := b.client.Send(b.to, text)
	if err != nil {
		return fmt.Errorf("send command to trading bot: %w", err)
	}
	// Keep the resolved chat so later commands skip the username lookup.
	if msg != nil && msg.Chat != nil {
		b.to = msg.Chat
	}
	b.logger.Info("command sent to trading bot", zap.String("command", text))
	return nil
}

// chatName addresses a chat by username, which telebot only models for IDs.
type chatName string

func (c chatName) Recipient() string {
	return string(c)
}
