package log

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// DefaultMaxEvents caps how many events a MemoryLogger retains.
const DefaultMaxEvents = 2000

// EventLogger is the interface for logging game events.
type EventLogger interface {
	Log(event GameEvent)
	Events() []GameEvent
}

// --- MemoryLogger: stores events in memory for test assertions ---

type MemoryLogger struct {
	mu     sync.Mutex
	events []GameEvent
	seq    int
	max    int
}

func NewMemoryLogger() *MemoryLogger {
	return &MemoryLogger{max: DefaultMaxEvents}
}

func (l *MemoryLogger) Log(event GameEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.seq++
	event.Seq = l.seq
	l.events = append(l.events, event)
	if l.max > 0 && len(l.events) > l.max {
		l.events = append([]GameEvent(nil), l.events[len(l.events)-l.max:]...)
	}
}

func (l *MemoryLogger) Events() []GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]GameEvent, len(l.events))
	copy(out, l.events)
	return out
}

// EventsOfType returns all events matching the given type.
func (l *MemoryLogger) EventsOfType(t EventType) []GameEvent {
	var result []GameEvent
	for _, e := range l.Events() {
		if e.Type == t {
			result = append(result, e)
		}
	}
	return result
}

// LastEvent returns the most recent event, or a zero event if none.
func (l *MemoryLogger) LastEvent() GameEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.events) == 0 {
		return GameEvent{}
	}
	return l.events[len(l.events)-1]
}

// --- TextLogger: writes human-readable lines to an io.Writer ---

type TextLogger struct {
	MemoryLogger
	w io.Writer
}

func NewTextLogger(w io.Writer) *TextLogger {
	return &TextLogger{MemoryLogger: MemoryLogger{max: DefaultMaxEvents}, w: w}
}

func (l *TextLogger) Log(event GameEvent) {
	l.MemoryLogger.Log(event)
	fmt.Fprintln(l.w, FormatEvent(event))
}

// --- MultiLogger: fans events out to several loggers ---

// MultiLogger forwards every event to each child. Events() reports the first child's view.
type MultiLogger struct {
	loggers []EventLogger
}

func NewMultiLogger(loggers ...EventLogger) *MultiLogger {
	var ls []EventLogger
	for _, l := range loggers {
		if l != nil {
			ls = append(ls, l)
		}
	}
	return &MultiLogger{loggers: ls}
}

func (m *MultiLogger) Log(event GameEvent) {
	for _, l := range m.loggers {
		l.Log(event)
	}
}

func (m *MultiLogger) Events() []GameEvent {
	if len(m.loggers) == 0 {
		return nil
	}
	return m.loggers[0].Events()
}

// --- Formatting ---

// FormatEvent formats a single event as a human-readable line.
func FormatEvent(e GameEvent) string {
	phase := e.Phase
	if phase == "" {
		phase = "          "
	}
	// Pad phase to 20 chars for alignment
	for len(phase) < 20 {
		phase += " "
	}

	return fmt.Sprintf("R%-2d T%-3d %s| %s", e.Round, e.Turn, phase, e.Details)
}

// FormatAll formats all events as a multi-line string.
func FormatAll(events []GameEvent) string {
	var sb strings.Builder
	for _, e := range events {
		sb.WriteString(FormatEvent(e))
		sb.WriteByte('\n')
	}
	return sb.String()
}
