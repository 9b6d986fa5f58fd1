package rigview

import (
	"github.com/hajimehoshi/ebiten/v2"
)

// InputSource supplies raw pointer input once per frame.
type InputSource interface {
	// Pointer returns the primary pointer position in screen pixels and
	// whether it is pressed. ok is false when no pointer is present.
	Pointer() (pos Vec2, pressed, ok bool)
	// Wheel returns the vertical wheel delta since the last frame.
	// Negative values scroll up.
	Wheel() float64
}

// EbitenInput reads the mouse, wheel and first touch from Ebitengine.
type EbitenInput struct {
	touchIDs  []ebiten.TouchID
	lastTouch Vec2
	touching  bool
}

// Pointer implements InputSource. An active touch takes precedence over
// the mouse; a touch that ends reports a release at its last position.
func (in *EbitenInput) Pointer() (Vec2, bool, bool) {
	in.touchIDs = ebiten.AppendTouchIDs(in.touchIDs[:0])
	if len(in.touchIDs) > 0 {
		x, y := ebiten.TouchPosition(in.touchIDs[0])
		in.lastTouch = Vec2{X: float64(x), Y: float64(y)}
		in.touching = true
		return in.lastTouch, true, true
	}
	if in.touching {
		in.touching = false
		return in.lastTouch, false, true
	}
	mx, my := ebiten.CursorPosition()
	return Vec2{X: float64(mx), Y: float64(my)}, ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft), true
}

// Wheel implements InputSource. Ebitengine reports positive y for
// scrolling up, so the sign is flipped.
func (in *EbitenInput) Wheel() float64 {
	_, dy := ebiten.Wheel()
	return -dy
}

// pointerTracker turns per-frame pointer samples into press, move and
// release edges.
type pointerTracker struct {
	down bool
	last Vec2
}

// processInput feeds one frame of input through the gesture controller.
// Injected events take precedence over real input for the frame.
func (v *Viewport) processInput() {
	if v.processInjectedInput() {
		return
	}
	if v.input == nil {
		return
	}
	if dy := v.input.Wheel(); dy != 0 && v.contains(v.ptr.last) {
		v.applyIntent(v.gesture.Wheel(dy, v.gestureState()))
	}
	pos, pressed, ok := v.input.Pointer()
	if !ok {
		return
	}
	v.processPointer(pos, pressed)
}

// processPointer runs the press/move/release state machine for one
// sample. Presses outside the viewport are ignored; leaving the viewport
// while pressed cancels the interaction without a click.
func (v *Viewport) processPointer(pos Vec2, pressed bool) {
	st := v.gestureState()
	p := &v.ptr
	switch {
	case pressed && !p.down:
		if !v.contains(pos) {
			break
		}
		p.down = true
		v.gesture.Press(pos, st)
	case !pressed && p.down:
		p.down = false
		if pos != p.last {
			v.applyIntent(v.gesture.Move(pos, st))
			st = v.gestureState()
		}
		v.applyIntent(v.gesture.Release(st))
	case pressed && p.down:
		if pos == p.last {
			break
		}
		if !v.contains(pos) && !st.Touch {
			p.down = false
			v.gesture.Cancel()
			break
		}
		v.applyIntent(v.gesture.Move(pos, st))
	}
	p.last = pos
}

func (v *Viewport) contains(p Vec2) bool {
	return v.rect.Contains(p.X, p.Y)
}
