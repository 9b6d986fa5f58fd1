package rigview

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func TestLoggerPrefixes(t *testing.T) {
	var buf bytes.Buffer
	l := newLogger(log.New(&buf, "", 0), false)
	l.Printf("load %s failed", "hero")
	l.Debugf("hidden")
	if got := buf.String(); got != "rigview: load hero failed\n" {
		t.Errorf("output = %q", got)
	}

	buf.Reset()
	l.debug = true
	l.Debugf("frame %d", 3)
	if got := buf.String(); got != "[rigview] frame 3\n" {
		t.Errorf("debug output = %q", got)
	}
}

func TestDebugLogInterval(t *testing.T) {
	var buf bytes.Buffer
	v := newTestViewport(t, newFakeEngine("idle"), nil)
	defer v.Dispose()
	v.log = newLogger(log.New(&buf, "", 0), true)
	v.frames = 0

	for range debugReportInterval - 1 {
		v.debugLog(debugStats{})
	}
	if buf.Len() != 0 {
		t.Fatalf("logged early: %q", buf.String())
	}
	v.debugLog(debugStats{subscribers: 2})
	out := buf.String()
	if strings.Count(out, "\n") != 2 {
		t.Fatalf("want 2 lines, got %q", out)
	}
	if !strings.Contains(out, `clip: "idle"`) || !strings.Contains(out, "subscribers: 2") {
		t.Errorf("output = %q", out)
	}
}

func TestDebugTickAfterDisposePanics(t *testing.T) {
	v := newTestViewport(t, newFakeEngine("idle"), nil)
	v.Dispose()

	// Without debug a disposed viewport ignores ticks.
	v.Tick(0)

	v.log = newLogger(log.New(&bytes.Buffer{}, "", 0), true)
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected panic")
		}
		if msg, _ := r.(string); !strings.Contains(msg, "Tick on disposed viewport") {
			t.Errorf("panic = %v", r)
		}
	}()
	v.Tick(0)
}
