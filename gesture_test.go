package rigview

import "testing"

func unlocked() GestureState { return GestureState{Zoom: 1} }

func TestGestureClickAdvances(t *testing.T) {
	var g GestureController
	st := unlocked()
	g.Press(Vec2{X: 10, Y: 10}, st)
	g.Move(Vec2{X: 12, Y: 13}, st)
	if in := g.Release(st); in.Kind != IntentAdvance {
		t.Errorf("intent = %v, want advance", in.Kind)
	}
}

func TestGestureDragSuppressesClick(t *testing.T) {
	var g GestureController
	st := unlocked()
	st.Pan = Vec2{X: 5, Y: 5}
	g.Press(Vec2{X: 100, Y: 100}, st)
	in := g.Move(Vec2{X: 140, Y: 90}, st)
	if in.Kind != IntentPan {
		t.Fatalf("intent = %v, want pan", in.Kind)
	}
	if in.Pan != (Vec2{X: 45, Y: -5}) {
		t.Errorf("pan = %+v, want {45 -5}", in.Pan)
	}
	if !g.Dragging() || !g.HasMoved() {
		t.Error("expected dragging with movement")
	}
	if in := g.Release(st); in.Kind != IntentNone {
		t.Errorf("release after drag = %v, want none", in.Kind)
	}
	if g.Dragging() {
		t.Error("still dragging after release")
	}
}

func TestGestureThresholdPerAxis(t *testing.T) {
	tests := []struct {
		name  string
		to    Vec2
		moved bool
	}{
		{"inside", Vec2{X: 5, Y: 5}, false},
		{"x beyond", Vec2{X: 6, Y: 0}, true},
		{"y beyond", Vec2{X: 0, Y: -6}, true},
	}
	for _, tt := range tests {
		var g GestureController
		g.Press(Vec2{}, unlocked())
		g.Move(tt.to, unlocked())
		if g.HasMoved() != tt.moved {
			t.Errorf("%s: HasMoved = %v, want %v", tt.name, g.HasMoved(), tt.moved)
		}
	}
}

func TestGestureLockedNoPan(t *testing.T) {
	var g GestureController
	st := GestureState{Lock: true, Zoom: 1}
	g.Press(Vec2{}, st)
	if in := g.Move(Vec2{X: 50}, st); in.Kind != IntentNone {
		t.Errorf("locked move = %v", in.Kind)
	}
	if in := g.Release(st); in.Kind != IntentAdvance {
		t.Errorf("locked release = %v, want advance", in.Kind)
	}
}

func TestGestureAutoplaySuppressesClick(t *testing.T) {
	var g GestureController
	st := unlocked()
	st.Autoplay = true
	g.Press(Vec2{}, st)
	if in := g.Release(st); in.Kind != IntentNone {
		t.Errorf("release under autoplay = %v, want none", in.Kind)
	}
}

func TestGestureTouchTapAlwaysClicks(t *testing.T) {
	var g GestureController
	st := GestureState{Touch: true, Zoom: 1}
	g.Press(Vec2{}, st)
	if in := g.Move(Vec2{X: 80, Y: 80}, st); in.Kind != IntentNone {
		t.Errorf("touch move = %v, want none", in.Kind)
	}
	if in := g.Release(st); in.Kind != IntentAdvance {
		t.Errorf("touch release = %v, want advance", in.Kind)
	}
}

func TestGestureReleaseDoesNotPan(t *testing.T) {
	var g GestureController
	st := unlocked()
	g.Press(Vec2{}, st)
	g.Move(Vec2{X: 3}, st)
	// The far release position was never passed to Move, so the
	// interaction is still a click.
	if in := g.Release(st); in.Kind != IntentAdvance {
		t.Errorf("release = %v, want advance", in.Kind)
	}
	if g.HasMoved() {
		t.Error("release position counted as movement")
	}
}

func TestGestureReleaseWithoutPress(t *testing.T) {
	var g GestureController
	if in := g.Release(unlocked()); in.Kind != IntentNone {
		t.Errorf("stray release = %v", in.Kind)
	}
}

func TestGestureCancel(t *testing.T) {
	var g GestureController
	g.Press(Vec2{}, unlocked())
	g.Cancel()
	if g.Dragging() {
		t.Error("dragging after Cancel")
	}
	if in := g.Release(unlocked()); in.Kind != IntentNone {
		t.Errorf("release after Cancel = %v", in.Kind)
	}
}

func TestGestureWheel(t *testing.T) {
	tests := []struct {
		name   string
		st     GestureState
		delta  float64
		kind   IntentKind
		zoomTo float64
	}{
		{"up zooms in", GestureState{Zoom: 1}, -120, IntentZoom, 1.1},
		{"down zooms out", GestureState{Zoom: 1}, 3, IntentZoom, 0.9},
		{"clamp max", GestureState{Zoom: 2}, -1, IntentZoom, 2},
		{"clamp min", GestureState{Zoom: 0.5}, 1, IntentZoom, 0.5},
		{"locked", GestureState{Zoom: 1, Lock: true}, -1, IntentNone, 0},
		{"touch", GestureState{Zoom: 1, Touch: true}, -1, IntentNone, 0},
		{"zero delta", GestureState{Zoom: 1}, 0, IntentNone, 0},
	}
	for _, tt := range tests {
		var g GestureController
		in := g.Wheel(tt.delta, tt.st)
		if in.Kind != tt.kind {
			t.Errorf("%s: kind = %v, want %v", tt.name, in.Kind, tt.kind)
			continue
		}
		if tt.kind == IntentZoom && !approxEqual(in.Zoom, tt.zoomTo, 1e-9) {
			t.Errorf("%s: zoom = %v, want %v", tt.name, in.Zoom, tt.zoomTo)
		}
	}
}

func TestGestureWheelRepeatedStaysInRange(t *testing.T) {
	var g GestureController
	st := GestureState{Zoom: 1}
	for i := 0; i < 30; i++ {
		st.Zoom = g.Wheel(-1, st).Zoom
	}
	if st.Zoom != MaxZoom {
		t.Errorf("zoom after many wheel-ups = %v", st.Zoom)
	}
	for i := 0; i < 30; i++ {
		st.Zoom = g.Wheel(1, st).Zoom
	}
	if st.Zoom != MinZoom {
		t.Errorf("zoom after many wheel-downs = %v", st.Zoom)
	}
}
