package notify

import (
	"fmt"

	"claimflow/backend/internal/models"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"
)

// TelegramAlerter posts a short operations alert when a claim reaches a
// terminal state. It is optional: the server runs without it when no
// bot token is configured.
type TelegramAlerter struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramAlerter connects the bot and targets the given chat.
func NewTelegramAlerter(token string, chatID int64, logger *zap.Logger) (*TelegramAlerter, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("connect telegram bot: %w", err)
	}
	return &TelegramAlerter{
		bot:    bot,
		chatID: chatID,
		logger: logger.With(zap.String("component", "telegram_alerter")),
	}, nil
}

// Alert sends the terminal-decision notice. Failures are logged, never
// escalated: the workflow transition has already committed.
func (t *TelegramAlerter) Alert(event models.ClaimEvent) {
	var text string
	switch event.Status {
	case models.StatusApproved:
		text = fmt.Sprintf("Claim %s approved by %s", event.ClaimID, event.ActorID)
	case models.StatusDenied:
		text = fmt.Sprintf("Claim %s denied by %s", event.ClaimID, event.ActorID)
	default:
		return
	}

	msg := tgbotapi.NewMessage(t.chatID, text)
	if _, err := t.bot.Send(msg); err != nil {
		t.logger.Warn("telegram alert failed", zap.String("claim_id", event.ClaimID), zap.Error(err))
	}
}
