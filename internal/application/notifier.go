package application

import (
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-live-inventory/internal/domain/entity"
)

// Severity tags a user-visible message.
type Severity string

const (
	SeveritySuccess Severity = "success"
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Notifier is the transient, fire-and-forget message surface.
type Notifier interface {
	Notify(message string, severity Severity)
}

// Renderer redraws the displayed list from the full current item list.
type Renderer interface {
	Render(items []entity.Item)
}

// LoggingNotifier keeps a console record of every message before handing it
// to the visible sink.
type LoggingNotifier struct {
	Logger *logrus.Logger
	Sink   Notifier
}

func NewLoggingNotifier(logger *logrus.Logger, sink Notifier) *LoggingNotifier {
	if logger == nil {
		logger = discardLogger
	}
	return &LoggingNotifier{Logger: logger, Sink: sink}
}

func (n *LoggingNotifier) Notify(message string, severity Severity) {
	n.Logger.WithField("severity", string(severity)).Info("message: " + message)
	if n.Sink != nil {
		n.Sink.Notify(message, severity)
	}
}
