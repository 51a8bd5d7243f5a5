package notifier

import (
	"context"
	"log/slog"
)

// Notifier delivers alert messages.
type Notifier interface {
	Send(ctx context.Context, text string) error
	Name() string
}

// LogNotifier writes messages to the log; used when Telegram is not configured.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger.With("component", "notifier")}
}

func (l *LogNotifier) Name() string { return "log" }

func (l *LogNotifier) Send(ctx context.Context, text string) error {
	l.logger.InfoContext(ctx, "alert", "text", text)
	return nil
}
