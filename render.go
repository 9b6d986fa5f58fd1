package rigview

import (
	"image"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Draw renders the skeleton into the viewport's canvas through the fitted
// camera, services queued captures, and composites the canvas onto screen
// with the presentation layout and the eased zoom, pan and fade.
func (v *Viewport) Draw(screen *ebiten.Image) {
	if v.disposed {
		return
	}
	var t0 time.Time
	if v.log.debug {
		t0 = time.Now()
	}

	if v.binding.State() == BindingFailed {
		v.drawFallback(screen)
		v.drawHUD(screen)
		return
	}
	if !v.binding.Ready() {
		v.drawHUD(screen)
		return
	}

	canvas := v.ensureCanvas()
	canvas.Clear()
	v.binding.Draw(canvas, v.camera.ViewMatrix())

	v.flushSnapshots(canvas)
	v.captureFrame(canvas)

	l := v.Layout()
	m := l.Matrix(v.rect.X, v.rect.Y, v.rect.Width, v.rect.Height,
		v.shown.Zoom, Vec2{X: v.shown.PanX, Y: v.shown.PanY})

	var op ebiten.DrawImageOptions
	op.GeoM = GeoM(m)
	op.ColorScale.ScaleAlpha(float32(v.shown.Alpha))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(canvas, &op)

	v.drawHUD(screen)

	if v.log.debug {
		v.drawTime = time.Since(t0)
	}
}

// captureFrame hands the canvas to the recorder with the game time elapsed
// since the previous draw, so extra draws between ticks add nothing.
func (v *Viewport) captureFrame(canvas Canvas) {
	v.recorder.Capture(canvas, v.sinceDraw)
	v.sinceDraw = 0
}

// ensureCanvas returns the offscreen canvas, reallocating it when the
// viewport size changed.
func (v *Viewport) ensureCanvas() *ebiten.Image {
	w, h := int(v.rect.Width), int(v.rect.Height)
	w, h = max(w, 1), max(h, 1)
	if v.canvas != nil {
		if b := v.canvas.Bounds(); b.Dx() == w && b.Dy() == h {
			return v.canvas
		}
		if v.recorder.Recording() {
			// Frame size is fixed for the recording.
			return v.canvas
		}
		v.canvas.Deallocate()
	}
	v.canvas = ebiten.NewImage(w, h)
	return v.canvas
}

// flushSnapshots saves one PNG per queued snapshot request.
func (v *Viewport) flushSnapshots(canvas Canvas) {
	if v.snapshots == 0 {
		return
	}
	n := v.snapshots
	v.snapshots = 0

	data, err := Snapshot(canvas, v.cfg.SnapshotSize)
	if err != nil {
		v.log.Printf("snapshot: %v", err)
		v.raiseNotice("Could not capture image")
		return
	}
	if v.cfg.Sink == nil {
		return
	}
	for range n {
		name := CaptureName(v.cfg.Character, v.cfg.Costume, v.cfg.Clock(), "png")
		if err := v.cfg.Sink.Save(name, data); err != nil {
			v.log.Printf("snapshot: %v", err)
			v.raiseNotice("Could not save image")
			return
		}
		v.emit(ViewportEvent{Type: EventSnapshot, Message: name})
	}
}

// drawFallback draws the fallback image scaled to fit the viewport,
// centered.
func (v *Viewport) drawFallback(screen *ebiten.Image) {
	img := v.cfg.FallbackImage
	if img == nil {
		return
	}
	var op ebiten.DrawImageOptions
	op.GeoM = GeoM(fitMatrix(img.Bounds(), v.rect))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(img, &op)
}

// fitMatrix scales src uniformly to fit inside dst and centers it.
func fitMatrix(src image.Rectangle, dst Rect) [6]float64 {
	w, h := float64(src.Dx()), float64(src.Dy())
	if w <= 0 || h <= 0 {
		return identityTransform
	}
	s := min(dst.Width/w, dst.Height/h)
	m := translateAffine(dst.X+(dst.Width-w*s)/2, dst.Y+(dst.Height-h*s)/2)
	return multiplyAffine(m, scaleAffine(s))
}
