// Package notify delivers transient, user-facing notices (the toast analog).
package notify

import "log/slog"

// Notifier receives user-facing notices. Implementations must not block.
type Notifier interface {
	Success(message, description string)
	Error(message, description string)
	Info(message, description string)
}

// LogNotifier writes notices to the structured log.
type LogNotifier struct {
	logger *slog.Logger
}

// NewLogNotifier creates a Notifier backed by the given logger.
func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Success(message, description string) {
	n.logger.Info("notice", slog.String("kind", "success"), slog.String("message", message), slog.String("description", description))
}

func (n *LogNotifier) Error(message, description string) {
	n.logger.Warn("notice", slog.String("kind", "error"), slog.String("message", message), slog.String("description", description))
}

func (n *LogNotifier) Info(message, description string) {
	n.logger.Info("notice", slog.String("kind", "info"), slog.String("message", message), slog.String("description", description))
}
