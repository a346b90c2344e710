// Package notify delivers screen notifications to the log, to connected
// admin browsers and, for failures, to the alert mailbox.
package notify

import (
	"context"
	"log/slog"

	"farmequip-backoffice/internal/domain"
	"farmequip-backoffice/internal/logger"
)

// Notifier receives fire-and-forget notifications.
type Notifier interface {
	Notify(ctx context.Context, n domain.Notification)
}

// LogNotifier writes every notification to the structured log.
type LogNotifier struct {
	log *slog.Logger
}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{log: logger.WithComponent("notify")}
}

func (l *LogNotifier) Notify(ctx context.Context, n domain.Notification) {
	level := slog.LevelInfo
	if n.Kind == domain.NotificationError {
		level = slog.LevelWarn
	}
	l.log.Log(ctx, level, n.Message, "kind", n.Kind, "screen", n.Screen, "id", n.ID)
}

// Multi fans a notification out to every target in order.
type Multi []Notifier

func (m Multi) Notify(ctx context.Context, n domain.Notification) {
	for _, target := range m {
		if target != nil {
			target.Notify(ctx, n)
		}
	}
}
