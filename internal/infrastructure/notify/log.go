package notify

import (
	"context"

	"hwcatalog/internal/domain/hardware"
	"hwcatalog/pkg/logger"
)

// LogNotifier writes notifications to the log. Used when NATS is disabled.
type LogNotifier struct {
	log *logger.Logger
}

func NewLogNotifier(log *logger.Logger) *LogNotifier {
	return &LogNotifier{log: log.WithComponent("notify")}
}

func (l *LogNotifier) Notify(ctx context.Context, n hardware.Notification) error {
	l.log.WithContext(ctx).Infow("notification", "subject", n.Subject, "body", n.Body)
	return nil
}
