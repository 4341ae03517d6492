package lifecycle

import "go.uber.org/zap"

// Notifier receives user-facing outcome messages from the controller. The
// success notification for a transition fires as soon as the optimistic
// update lands and is never retracted; a failure produces an additional
// error notification after rollback.
type Notifier interface {
	Success(message string)
	Error(message string)
}

// LogNotifier emits notifications through the service logger. The HTTP layer
// wraps it when a response body should carry the message as well.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Success implements Notifier.
func (n *LogNotifier) Success(message string) {
	n.logger.Info("booking action succeeded", zap.String("message", message))
}

// Error implements Notifier.
func (n *LogNotifier) Error(message string) {
	n.logger.Warn("booking action failed", zap.String("message", message))
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

// Success implements Notifier.
func (NopNotifier) Success(string) {}

// Error implements Notifier.
func (NopNotifier) Error(string) {}
