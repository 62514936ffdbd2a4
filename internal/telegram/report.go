package telegram

import (
	"context"
	"errors"
	"fmt"

	"wellness-chatter/internal/analytics"
)

var errNoRecorder = errors.New("interaction log not configured")

// SendDailyReport posts today's wellbeing report to the admin chat.
func (b *Bot) SendDailyReport(ctx context.Context) error {
	if b.adminUserID == 0 {
		return errors.New("admin user id not configured")
	}
	return b.generateDailyReport(ctx, b.adminUserID)
}

func (b *Bot) generateDailyReport(ctx context.Context, chatID int64) error {
	if b.recorder == nil {
		return errNoRecorder
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	events, err := b.recorder.LoadInteractions()
	if err != nil {
		return fmt.Errorf("load interactions: %w", err)
	}

	stats := analytics.AnalyzeDailyLogs(events, b.now())
	b.logger.Info("daily report generated", "date", stats.Date, "messages", stats.TotalMessages, "crises", stats.CrisisCount)
	b.sendMessage(chatID, stats.GenerateReportSummary())
	return nil
}
