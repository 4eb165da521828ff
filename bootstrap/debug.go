package bootstrap

import (
	"github.com/sirupsen/logrus"
)

// DebugSeverity mirrors VkDebugUtilsMessageSeverityFlagBitsEXT.
type DebugSeverity int

const (
	SeverityVerbose DebugSeverity = 0x1
	SeverityInfo    DebugSeverity = 0x10
	SeverityWarning DebugSeverity = 0x100
	SeverityError   DebugSeverity = 0x1000
)

func (s DebugSeverity) String() string {
	switch {
	case s&SeverityError != 0:
		return "error"
	case s&SeverityWarning != 0:
		return "warning"
	case s&SeverityInfo != 0:
		return "info"
	default:
		return "verbose"
	}
}

// DebugMessage is one message from the validation layers.
type DebugMessage struct {
	Severity DebugSeverity
	Type     string
	Message  string
}

// DebugSink receives validation messages. It is called from driver threads.
type DebugSink func(msg DebugMessage)

// LogSink logs every message at the logrus level matching its severity.
func LogSink(logger logrus.FieldLogger) DebugSink {
	return func(msg DebugMessage) {
		entry := logger.WithFields(logrus.Fields{
			"severity": msg.Severity.String(),
			"type":     msg.Type,
		})

		switch {
		case msg.Severity&SeverityError != 0:
			entry.Error("validation layer: ", msg.Message)
		case msg.Severity&SeverityWarning != 0:
			entry.Warn("validation layer: ", msg.Message)
		case msg.Severity&SeverityInfo != 0:
			entry.Info("validation layer: ", msg.Message)
		default:
			entry.Debug("validation layer: ", msg.Message)
		}
	}
}
