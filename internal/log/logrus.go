package log

import (
	"github.com/sirupsen/logrus"
)

// LogrusLogger mirrors game events into a logrus logger as structured entries.
// Routine events go out at Debug, turning points at Info and refusals at Warn.
type LogrusLogger struct {
	MemoryLogger
	entry *logrus.Entry
}

// NewLogrusLogger wraps l; base fields (for example the match id) are attached to every entry.
func NewLogrusLogger(l logrus.FieldLogger, base logrus.Fields) *LogrusLogger {
	return &LogrusLogger{
		MemoryLogger: MemoryLogger{max: DefaultMaxEvents},
		entry:        l.WithFields(base),
	}
}

func (l *LogrusLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)

	fields := logrus.Fields{
		"event": event.Type.String(),
		"turn":  event.Turn,
		"round": event.Round,
		"phase": event.Phase,
	}
	if event.Player >= 0 {
		fields["player"] = event.Player
	}
	if event.Card != "" {
		fields["card"] = event.Card
	}
	for k, v := range event.Fields {
		fields[k] = v
	}

	e := l.entry.WithFields(fields)
	switch event.Type {
	case EventRefused, EventOfferFallback:
		e.Warn(event.Details)
	case EventKnockout, EventGameOver, EventDecisionOverride, EventBluffCaught, EventClaimTrue:
		e.Info(event.Details)
	default:
		e.Debug(event.Details)
	}
}
