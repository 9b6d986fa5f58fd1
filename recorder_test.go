package rigview

import (
	"context"
	"errors"
	"testing"
	"time"
)

type recHarness struct {
	rec      *Recorder
	enc      *fakeEncoder
	sink     *memSink
	bus      *EventBus
	restarts []bool
	changes  []bool
	notices  []string
}

func newRecHarness() *recHarness {
	h := &recHarness{
		enc:  &fakeEncoder{supported: map[string]bool{DefaultCodecs[1].MIME: true}},
		sink: &memSink{},
		bus:  &EventBus{},
	}
	h.rec = NewRecorder(h.enc, h.sink, h.bus, discardLogger())
	h.rec.Restart = func(loop bool) bool {
		h.restarts = append(h.restarts, loop)
		return true
	}
	h.rec.Name = func(ext string) string { return "Hero_Summer_1." + ext }
	h.rec.OnChange = func(on bool) { h.changes = append(h.changes, on) }
	h.rec.OnNotice = func(msg string) { h.notices = append(h.notices, msg) }
	return h
}

func TestRecorderAutoStopSavesOnce(t *testing.T) {
	h := newRecHarness()
	c := &fakeCanvas{w: 8, h: 6, fill: [4]byte{1, 2, 3, 255}}
	if err := h.rec.Start(context.Background(), c); err != nil {
		t.Fatal(err)
	}
	if !h.rec.Recording() || !h.bus.Has(SubscriberRecording) {
		t.Fatal("recording not armed")
	}
	if got := h.rec.Codec().MIME; got != DefaultCodecs[1].MIME {
		t.Errorf("codec = %q", got)
	}
	h.rec.Capture(c, 0)

	h.bus.Publish("idle")
	h.bus.Publish("idle")

	if h.rec.Recording() {
		t.Error("still recording after completion")
	}
	if len(h.sink.blobs) != 1 {
		t.Fatalf("saved %d blobs, want 1", len(h.sink.blobs))
	}
	if h.sink.names[0] != "Hero_Summer_1.webm" {
		t.Errorf("name = %q", h.sink.names[0])
	}
	if len(h.restarts) != 2 || h.restarts[0] || !h.restarts[1] {
		t.Errorf("restarts = %v, want [false true]", h.restarts)
	}
	if len(h.changes) != 2 || !h.changes[0] || h.changes[1] {
		t.Errorf("changes = %v, want [true false]", h.changes)
	}
	if h.bus.Has(SubscriberRecording) {
		t.Error("recording subscriber left behind")
	}
}

func TestRecorderNoCanvas(t *testing.T) {
	h := newRecHarness()
	if err := h.rec.Start(context.Background(), nil); !errors.Is(err, ErrNoCanvas) {
		t.Errorf("err = %v", err)
	}
	if h.rec.Recording() || len(h.enc.sessions) != 0 {
		t.Error("recording started without a canvas")
	}
	if len(h.notices) != 1 {
		t.Errorf("notices = %v", h.notices)
	}
}

func TestRecorderAlreadyRecording(t *testing.T) {
	h := newRecHarness()
	c := &fakeCanvas{w: 2, h: 2}
	h.rec.Start(context.Background(), c)
	if err := h.rec.Start(context.Background(), c); !errors.Is(err, ErrRecording) {
		t.Errorf("err = %v", err)
	}
	if len(h.enc.sessions) != 1 {
		t.Errorf("sessions = %d", len(h.enc.sessions))
	}
}

func TestRecorderStartFailure(t *testing.T) {
	h := newRecHarness()
	h.enc.startErr = errors.New("no ffmpeg")
	if err := h.rec.Start(context.Background(), &fakeCanvas{w: 2, h: 2}); err == nil {
		t.Fatal("expected error")
	}
	if h.rec.Recording() || len(h.changes) != 0 || len(h.restarts) != 0 {
		t.Error("failed start changed state")
	}
	if len(h.notices) != 1 {
		t.Errorf("notices = %v", h.notices)
	}
}

func TestRecorderThrottle(t *testing.T) {
	h := newRecHarness()
	c := &fakeCanvas{w: 2, h: 2}
	h.rec.Start(context.Background(), c)

	h.rec.Capture(c, 0)
	h.rec.Capture(c, 10*time.Millisecond)
	if h.rec.Frames() != 1 {
		t.Fatalf("frames = %d, want 1", h.rec.Frames())
	}
	h.rec.Capture(c, 10*time.Millisecond)
	if h.rec.Frames() != 2 {
		t.Errorf("frames = %d, want 2", h.rec.Frames())
	}
	if h.enc.sessions[0].frames != 2 {
		t.Errorf("session frames = %d", h.enc.sessions[0].frames)
	}
}

func TestRecorderSkipsResizedCanvas(t *testing.T) {
	h := newRecHarness()
	c := &fakeCanvas{w: 4, h: 4}
	h.rec.Start(context.Background(), c)
	h.rec.Capture(&fakeCanvas{w: 8, h: 8}, 0)
	if h.rec.Frames() != 0 {
		t.Errorf("frames = %d, want 0", h.rec.Frames())
	}
}

func TestRecorderWriteFailureAborts(t *testing.T) {
	h := newRecHarness()
	h.enc.failOn = "write"
	c := &fakeCanvas{w: 2, h: 2}
	h.rec.Start(context.Background(), c)
	h.rec.Capture(c, 0)
	if h.rec.Recording() {
		t.Error("recording survived a write failure")
	}
	if !h.enc.sessions[0].aborted {
		t.Error("session not aborted")
	}
	if len(h.sink.blobs) != 0 {
		t.Error("aborted recording was saved")
	}
	if len(h.notices) != 1 || h.notices[0] != "Recording failed" {
		t.Errorf("notices = %v", h.notices)
	}
}

func TestRecorderFinishFailureClearsFlag(t *testing.T) {
	h := newRecHarness()
	h.enc.failOn = "finish"
	h.rec.Start(context.Background(), &fakeCanvas{w: 2, h: 2})
	if err := h.rec.Stop(); err == nil {
		t.Error("expected finish error")
	}
	if h.rec.Recording() {
		t.Error("flag not cleared")
	}
	if len(h.sink.blobs) != 0 {
		t.Error("failed recording was saved")
	}
	if len(h.changes) != 2 || h.changes[1] {
		t.Errorf("changes = %v", h.changes)
	}
}

func TestRecorderSinkFailure(t *testing.T) {
	h := newRecHarness()
	h.sink.err = errors.New("disk full")
	h.rec.Start(context.Background(), &fakeCanvas{w: 2, h: 2})
	if err := h.rec.Stop(); err == nil {
		t.Error("expected save error")
	}
	if h.rec.Recording() {
		t.Error("flag not cleared")
	}
}

func TestRecorderStopIdle(t *testing.T) {
	h := newRecHarness()
	if err := h.rec.Stop(); err != nil {
		t.Errorf("Stop while idle = %v", err)
	}
	h.rec.Abort()
	if len(h.changes) != 0 {
		t.Errorf("changes = %v", h.changes)
	}
}
