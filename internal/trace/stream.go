package trace

import (
	"fmt"
	"io"
	"sync"
)

// StreamTracer writes events to a writer as they arrive, one text line per
// event. Writes are best-effort; a broken trace pipe never fails indexing.
type StreamTracer struct {
	mu    sync.Mutex
	w     io.Writer
	level Level
}

func NewStreamTracer(w io.Writer, level Level) *StreamTracer {
	return &StreamTracer{w: w, level: level}
}

func (t *StreamTracer) Emit(ev Event) {
	if ev.Level > t.level {
		return
	}
	line := fmt.Sprintf("[%s]", ev.Phase)
	if ev.File != "" {
		line += " " + ev.File
	}
	if ev.Msg != "" {
		line += " " + ev.Msg
	}
	if ev.Dur > 0 {
		line += fmt.Sprintf(" (%s)", ev.Dur)
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintln(t.w, line) //nolint:errcheck
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }

type nopTracer struct{}

func (nopTracer) Emit(Event)    {}
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// Nop is the shared disabled tracer.
var Nop Tracer = nopTracer{}
