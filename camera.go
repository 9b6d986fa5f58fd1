package rigview

import "math"

// Camera fit constants. Both are overridable per viewport through Config.
const (
	// DefaultFitDamping scales the fitted zoom down so the posed skeleton
	// fills only a fraction of the raw camera frame; the presentation layer
	// does the final framing.
	DefaultFitDamping = 0.1
	// FitHeightPadding is added to the bounds height, in local units,
	// before the aspect comparison.
	FitHeightPadding = 100.0
)

// Frame is a camera placement derived from pose bounds. It is never
// stored; viewports recompute it after clip switches, breakpoint crossings,
// and reset requests.
type Frame struct {
	Center Vec2
	// Zoom is in screen pixels per local unit.
	Zoom float64
}

// FitCamera computes the camera frame for a posed skeleton. The frame is
// centered on the bounds; the zoom is the axis-limiting ratio between the
// canvas and the padded bounds, multiplied by damping. It reports false
// when either the bounds or the canvas are empty, in which case the
// returned frame keeps a zoom of 1.
func FitCamera(bounds Rect, canvasW, canvasH, damping float64) (Frame, bool) {
	f := Frame{Center: bounds.Center(), Zoom: 1}
	if bounds.Empty() || canvasW <= 0 || canvasH <= 0 {
		return f, false
	}
	if damping <= 0 {
		damping = DefaultFitDamping
	}

	paddedW := bounds.Width
	paddedH := bounds.Height + FitHeightPadding

	// Local units per pixel along the limiting axis.
	var unitsPerPixel float64
	if canvasH/canvasW > paddedH/paddedW {
		unitsPerPixel = paddedW / canvasW
	} else {
		unitsPerPixel = paddedH / canvasH
	}
	f.Zoom = damping / unitsPerPixel
	return f, true
}

// Camera maps the engine's local animation space onto the render canvas.
type Camera struct {
	// X and Y are the local-space position the camera centers on.
	X, Y float64
	// Zoom is the scale factor in pixels per local unit.
	Zoom float64
	// Viewport is the canvas-space rectangle this camera renders into.
	Viewport Rect

	viewMatrix    [6]float64
	invViewMatrix [6]float64
	dirty         bool
}

// NewCamera creates a Camera with zoom 1 and the given viewport.
func NewCamera(viewport Rect) *Camera {
	return &Camera{
		Zoom:     1.0,
		Viewport: viewport,
		dirty:    true,
	}
}

// ApplyFrame moves the camera onto a fitted frame.
func (c *Camera) ApplyFrame(f Frame) {
	c.X = f.Center.X
	c.Y = f.Center.Y
	c.Zoom = f.Zoom
	c.dirty = true
}

// Frame returns the camera's current placement.
func (c *Camera) Frame() Frame {
	return Frame{Center: Vec2{X: c.X, Y: c.Y}, Zoom: c.Zoom}
}

// SetViewport changes the canvas rectangle, e.g. after a resize.
func (c *Camera) SetViewport(vp Rect) {
	if c.Viewport != vp {
		c.Viewport = vp
		c.dirty = true
	}
}

// MarkDirty forces a recomputation of the view matrix.
func (c *Camera) MarkDirty() {
	c.dirty = true
}

// ViewMatrix returns the local-to-canvas affine matrix.
//
// viewMatrix = Translate(cx, cy) * Scale(zoom) * Translate(-X, -Y)
// where cx, cy = viewport center.
func (c *Camera) ViewMatrix() [6]float64 {
	if !c.dirty {
		return c.viewMatrix
	}
	c.dirty = false

	cx := c.Viewport.X + c.Viewport.Width/2
	cy := c.Viewport.Y + c.Viewport.Height/2
	z := c.Zoom

	c.viewMatrix = [6]float64{z, 0, 0, z, cx - z*c.X, cy - z*c.Y}
	c.invViewMatrix = invertAffine(c.viewMatrix)
	return c.viewMatrix
}

// WorldToScreen converts local animation coordinates to canvas coordinates.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	c.ViewMatrix()
	sx, sy = transformPoint(c.viewMatrix, wx, wy)
	return
}

// ScreenToWorld converts canvas coordinates to local animation coordinates.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	c.ViewMatrix()
	wx, wy = transformPoint(c.invViewMatrix, sx, sy)
	return
}

// VisibleBounds returns the local-space rectangle visible through the
// camera's viewport.
func (c *Camera) VisibleBounds() Rect {
	c.ViewMatrix()
	inv := c.invViewMatrix

	x0, y0 := transformPoint(inv, c.Viewport.X, c.Viewport.Y)
	x1, y1 := transformPoint(inv, c.Viewport.X+c.Viewport.Width, c.Viewport.Y+c.Viewport.Height)

	return Rect{
		X:      math.Min(x0, x1),
		Y:      math.Min(y0, y1),
		Width:  math.Abs(x1 - x0),
		Height: math.Abs(y1 - y0),
	}
}
