// Package notify reports retraining results to the operator.
package notify

import (
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/joshibibhushan/HumanLoopML/internal/models"
)

// TelegramNotifier sends a summary message to a configured chat when a
// retraining run completes. Retraining itself never depends on the
// notifier; delivery failures are logged and swallowed.
type TelegramNotifier struct {
	api    *tgbotapi.BotAPI
	chatID int64
	logger *zap.Logger
}

// NewTelegramNotifier connects to the Telegram bot API.
func NewTelegramNotifier(token string, chatID int64, logger *zap.Logger) (*TelegramNotifier, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %w", err)
	}
	return &TelegramNotifier{api: api, chatID: chatID, logger: logger}, nil
}

// RetrainingComplete announces a newly promoted version with its
// headline metrics and, when available, the delta against the previous
// version.
func (n *TelegramNotifier) RetrainingComplete(version int, metrics *models.Metrics, previous *models.MetricsSummary) {
	var b strings.Builder
	fmt.Fprintf(&b, "Retraining complete: model v%d promoted\n", version)
	fmt.Fprintf(&b, "Accuracy: %.4f\n", metrics.Accuracy)
	fmt.Fprintf(&b, "F1 (macro): %.4f", metrics.F1Macro)
	if previous != nil {
		fmt.Fprintf(&b, "\nvs previous: accuracy %+.4f, F1 (macro) %+.4f",
			metrics.Accuracy-previous.Accuracy, metrics.F1Macro-previous.F1Macro)
	}

	msg := tgbotapi.NewMessage(n.chatID, b.String())
	if _, err := n.api.Send(msg); err != nil {
		n.logger.Warn("Failed to send retraining notification", zap.Error(err))
	}
}
