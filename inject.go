package rigview

// syntheticEvent is a queued input event in screen coordinates. Each event
// is consumed by one frame, identical to real input.
type syntheticEvent struct {
	pos     Vec2
	pressed bool
	wheel   float64
}

// InjectPress queues a pointer press at the given screen coordinates. The
// event is consumed on the next Update.
func (v *Viewport) InjectPress(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticEvent{pos: Vec2{X: x, Y: y}, pressed: true})
}

// InjectMove queues a move with the pointer held down. Use this between
// InjectPress and InjectRelease to simulate a drag.
func (v *Viewport) InjectMove(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticEvent{pos: Vec2{X: x, Y: y}, pressed: true})
}

// InjectRelease queues a pointer release at the given screen coordinates.
func (v *Viewport) InjectRelease(x, y float64) {
	v.injectQueue = append(v.injectQueue, syntheticEvent{pos: Vec2{X: x, Y: y}})
}

// InjectClick queues a press followed by a release at the same
// coordinates. Consumes two frames.
func (v *Viewport) InjectClick(x, y float64) {
	v.InjectPress(x, y)
	v.InjectRelease(x, y)
}

// InjectDrag queues a full drag sequence: press at (fromX, fromY),
// linearly interpolated moves over frames-2 intermediate frames, and
// release at (toX, toY). Minimum frames is 2.
func (v *Viewport) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	v.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		v.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	v.InjectRelease(toX, toY)
}

// InjectWheel queues a wheel event over the viewport center. Negative
// deltaY zooms in.
func (v *Viewport) InjectWheel(deltaY float64) {
	c := v.rect.Center()
	v.injectQueue = append(v.injectQueue, syntheticEvent{pos: c, wheel: deltaY})
}

// processInjectedInput pops one queued event and runs it through the same
// path as real input. It reports whether an event was consumed.
func (v *Viewport) processInjectedInput() bool {
	if len(v.injectQueue) == 0 {
		return false
	}
	evt := v.injectQueue[0]
	copy(v.injectQueue, v.injectQueue[1:])
	v.injectQueue = v.injectQueue[:len(v.injectQueue)-1]

	if evt.wheel != 0 {
		v.applyIntent(v.gesture.Wheel(evt.wheel, v.gestureState()))
		return true
	}
	v.processPointer(evt.pos, evt.pressed)
	return true
}
