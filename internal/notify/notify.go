// Package notify is the sink for user-visible import diagnostics. Both fatal
// (whole-import abort) and non-fatal (per-page skip) failures surface here;
// only the propagation differs.
package notify

import "log"

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

// Notifier receives (message, severity) pairs.
type Notifier interface {
	Notify(message string, severity Severity)
}

// LogNotifier writes notifications to the standard logger.
type LogNotifier struct{}

func (LogNotifier) Notify(message string, severity Severity) {
	log.Printf("[NOTIFY %s] %s", severity, message)
}

// Compile-time interface check
var _ Notifier = (*LogNotifier)(nil)
