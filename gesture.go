package rigview

import "math"

// DragThreshold is the distance in pixels, along either axis, a pointer
// must travel while held before the interaction counts as a drag. A drag
// suppresses the click that would otherwise follow the release.
const DragThreshold = 5.0

// IntentKind identifies what a gesture asks the viewport to do.
type IntentKind uint8

const (
	IntentNone    IntentKind = iota // nothing to do
	IntentPan                       // set pan to Intent.Pan
	IntentZoom                      // set zoom to Intent.Zoom
	IntentAdvance                   // manual advance to the next clip
)

// Intent is the outcome of one input event.
type Intent struct {
	Kind IntentKind
	Pan  Vec2
	Zoom float64
}

// GestureState is the viewport state a gesture is evaluated against.
type GestureState struct {
	Lock     bool
	Touch    bool
	Autoplay bool
	Zoom     float64
	Pan      Vec2
}

// GestureController turns pointer, wheel and touch events into intents.
// It holds only the state of the interaction in progress; everything else
// is passed in through GestureState.
type GestureController struct {
	down     bool
	dragging bool
	hasMoved bool
	origin   Vec2
	startPan Vec2
}

// Dragging reports whether a pan drag is in progress.
func (g *GestureController) Dragging() bool { return g.dragging }

// HasMoved reports whether the current or most recent interaction moved
// beyond DragThreshold. It is cleared by the next press.
func (g *GestureController) HasMoved() bool { return g.hasMoved }

// Press begins an interaction at p. While locked, or on a touch form
// factor, no drag is started.
func (g *GestureController) Press(p Vec2, st GestureState) {
	g.down = true
	g.hasMoved = false
	g.dragging = false
	if st.Touch || st.Lock {
		return
	}
	g.dragging = true
	g.origin = p
	g.startPan = st.Pan
}

// Move updates a drag in progress. The returned pan is the pan at press
// time plus the pointer delta.
func (g *GestureController) Move(p Vec2, st GestureState) Intent {
	if !g.dragging || st.Touch || st.Lock {
		return Intent{}
	}
	dx := p.X - g.origin.X
	dy := p.Y - g.origin.Y
	if math.Abs(dx) > DragThreshold || math.Abs(dy) > DragThreshold {
		g.hasMoved = true
	}
	return Intent{
		Kind: IntentPan,
		Pan:  Vec2{X: g.startPan.X + dx, Y: g.startPan.Y + dy},
	}
}

// Release ends the interaction. A release that completes a click, i.e.
// a press without a drag, advances unless autoplay is on. Touch taps
// always count as clicks. Release never pans: when the release position
// differs from the last move, the caller passes it to Move first.
func (g *GestureController) Release(st GestureState) Intent {
	if !g.down {
		return Intent{}
	}
	g.down = false
	g.dragging = false
	if st.Autoplay {
		return Intent{}
	}
	if st.Touch || !g.hasMoved {
		return Intent{Kind: IntentAdvance}
	}
	return Intent{}
}

// Cancel abandons the interaction without producing a click, e.g. when
// the pointer leaves the window.
func (g *GestureController) Cancel() {
	g.down = false
	g.dragging = false
}

// Wheel applies a wheel delta. Negative deltaY (scrolling up) zooms in by
// ZoomStep; positive zooms out. The result is clamped to
// [MinZoom, MaxZoom]. Disabled on touch form factors and while locked.
func (g *GestureController) Wheel(deltaY float64, st GestureState) Intent {
	if st.Touch || st.Lock || deltaY == 0 {
		return Intent{}
	}
	z := st.Zoom
	if deltaY < 0 {
		z += ZoomStep
	} else {
		z -= ZoomStep
	}
	return Intent{Kind: IntentZoom, Zoom: clampZoom(z)}
}
