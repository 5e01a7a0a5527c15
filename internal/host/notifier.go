package host

import "go.uber.org/zap"

// LogNotifier is a Notifier that writes notices to a structured log. Useful
// for headless hosts (simulations, migrations) that have no user channel.
type LogNotifier struct {
	logger *zap.Logger
}

// NewLogNotifier creates a LogNotifier.
//
// Precondition: logger must be non-nil.
func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

// Notify logs the message at a level matching its severity.
func (n *LogNotifier) Notify(message, severity string) {
	switch severity {
	case SeverityError:
		n.logger.Error(message, zap.String("severity", severity))
	case SeverityWarning:
		n.logger.Warn(message, zap.String("severity", severity))
	default:
		n.logger.Info(message, zap.String("severity", severity))
	}
}
