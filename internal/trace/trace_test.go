package trace

import (
	"strings"
	"testing"
)

type captureTracer struct {
	level  Level
	events []Event
}

func (c *captureTracer) Emit(ev Event) { c.events = append(c.events, ev) }
func (c *captureTracer) Level() Level  { return c.level }
func (c *captureTracer) Enabled() bool { return c.level > LevelOff }

func TestParseLevelRoundTrip(t *testing.T) {
	for _, name := range []string{"off", "phase", "detail", "debug"} {
		level, err := ParseLevel(name)
		if err != nil {
			t.Fatalf("ParseLevel(%q): %v", name, err)
		}
		if level.String() != name {
			t.Fatalf("round trip %q -> %v", name, level)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Fatalf("unknown level accepted")
	}
}

func TestSpanEmitsTimedEvent(t *testing.T) {
	c := &captureTracer{level: LevelDetail}
	end := Span(c, LevelDetail, "parse", "a.py")
	end()
	if len(c.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(c.events))
	}
	ev := c.events[0]
	if ev.Phase != "parse" || ev.File != "a.py" {
		t.Fatalf("event fields wrong: %+v", ev)
	}
	if ev.Dur < 0 {
		t.Fatalf("negative duration")
	}
}

func TestSpanRespectsLevel(t *testing.T) {
	c := &captureTracer{level: LevelPhase}
	Span(c, LevelDetail, "parse", "a.py")()
	if len(c.events) != 0 {
		t.Fatalf("detail span emitted at phase level")
	}
	Span(nil, LevelPhase, "parse", "")()
}

func TestStreamTracerFormat(t *testing.T) {
	var sb strings.Builder
	tr := NewStreamTracer(&sb, LevelDetail)
	tr.Emit(Event{Level: LevelDetail, Phase: "cache", File: "a.py", Msg: "hit"})
	line := sb.String()
	if !strings.Contains(line, "[cache]") || !strings.Contains(line, "a.py") || !strings.Contains(line, "hit") {
		t.Fatalf("unexpected line %q", line)
	}
}

func TestNopTracerIsDisabled(t *testing.T) {
	if Nop.Enabled() {
		t.Fatalf("nop tracer reports enabled")
	}
}
