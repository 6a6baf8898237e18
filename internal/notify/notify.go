// Package notify pushes best-effort Telegram alerts for low-stock items and
// high-confidence trends. A missing bot token disables it entirely; a failed
// send never fails the calling pipeline.
package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/sirupsen/logrus"

	"github.com/tawfik37/atim-go/internal/config"
	"github.com/tawfik37/atim-go/internal/models"
)

type NotificationService struct {
	bot    *bot.Bot
	chatID int64
	logger *logrus.Logger
}

// NewNotificationService initializes the Telegram bot when a token is
// configured; otherwise all notification calls are no-ops.
func NewNotificationService(cfg config.TelegramConfig, logger *logrus.Logger) *NotificationService {
	if logger == nil {
		logger = logrus.New()
	}

	var telegramBot *bot.Bot
	if cfg.BotToken != "" {
		var err error
		telegramBot, err = bot.New(cfg.BotToken)
		if err != nil {
			logger.WithError(err).Warn("Failed to initialize Telegram bot, notifications disabled")
			telegramBot = nil
		}
	}

	return &NotificationService{
		bot:    telegramBot,
		chatID: cfg.ChatID,
		logger: logger,
	}
}

// Enabled reports whether notifications can be sent
func (ns *NotificationService) Enabled() bool {
	return ns.bot != nil && ns.chatID != 0
}

// NotifyLowStock sends a low-stock alert digest
func (ns *NotificationService) NotifyLowStock(ctx context.Context, items []models.InventoryItem) {
	if !ns.Enabled() || len(items) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString("⚠️ Low stock alerts\n\n")
	for _, item := range items {
		fmt.Fprintf(&sb, "• %s: %d on hand (reorder point %d), reorder %d units\n",
			item.ProductName, item.CurrentStock, item.ReorderPoint, item.ReorderQuantity)
	}

	ns.send(ctx, sb.String())
}

// NotifyTrends sends a digest of the ranked high-confidence trends
func (ns *NotificationService) NotifyTrends(ctx context.Context, trends models.RankedTrendList) {
	if !ns.Enabled() || len(trends) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString("📈 Trend digest\n\n")
	for i, t := range trends {
		fmt.Fprintf(&sb, "%d. %s — %s (confidence %.0f, velocity %+.1f)\n",
			i+1, t.Keyword, t.Status, t.Confidence, t.Velocity)
	}

	ns.send(ctx, sb.String())
}

func (ns *NotificationService) send(ctx context.Context, text string) {
	_, err := ns.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: ns.chatID,
		Text:   text,
	})
	if err != nil {
		ns.logger.WithError(err).Warn("Failed to send Telegram notification")
		return
	}
	ns.logger.Debug("Telegram notification sent")
}
