// Package trace provides lightweight phase tracing for the indexing
// pipeline. It is off by default and costs one branch per event when
// disabled.
package trace

import (
	"fmt"
	"time"
)

// Level controls tracing verbosity.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelPhase               // driver and per-phase boundaries
	LevelDetail              // per-file events
	LevelDebug               // everything
)

func (l Level) String() string {
	switch l {
	case LevelOff:
		return "off"
	case LevelPhase:
		return "phase"
	case LevelDetail:
		return "detail"
	case LevelDebug:
		return "debug"
	default:
		return "unknown"
	}
}

// ParseLevel converts a string to a Level.
func ParseLevel(s string) (Level, error) {
	switch s {
	case "", "off":
		return LevelOff, nil
	case "phase":
		return LevelPhase, nil
	case "detail":
		return LevelDetail, nil
	case "debug":
		return LevelDebug, nil
	default:
		return LevelOff, fmt.Errorf("invalid trace level %q (expected off|phase|detail|debug)", s)
	}
}

// Event is one trace record.
type Event struct {
	Level Level
	Phase string // "walk", "parse", "index", "check", "cache"
	File  string // file path for per-file events, empty for phase events
	Msg   string
	Dur   time.Duration
	Time  time.Time
}

// Tracer receives events. Implementations must be goroutine-safe.
type Tracer interface {
	Emit(ev Event)
	Level() Level
	Enabled() bool
}

// Span traces a timed region: call Span, defer the returned func.
func Span(t Tracer, level Level, phase, file string) func() {
	if t == nil || !t.Enabled() || t.Level() < level {
		return func() {}
	}
	start := time.Now()
	return func() {
		t.Emit(Event{
			Level: level,
			Phase: phase,
			File:  file,
			Dur:   time.Since(start),
			Time:  start,
		})
	}
}

// Emitf records a formatted message event.
func Emitf(t Tracer, level Level, phase, format string, args ...any) {
	if t == nil || !t.Enabled() || t.Level() < level {
		return
	}
	t.Emit(Event{
		Level: level,
		Phase: phase,
		Msg:   fmt.Sprintf(format, args...),
		Time:  time.Now(),
	})
}
