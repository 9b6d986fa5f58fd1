package rigview

import (
	"time"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// Presentation transition timings.
const (
	// TransformEase is how long displayed zoom and pan take to reach a new
	// value.
	TransformEase = 100 * time.Millisecond
	// FadeIn is how long the canvas takes to become opaque after a load.
	FadeIn = 300 * time.Millisecond
)

// display holds the values actually drawn. They trail the viewport's
// logical zoom, pan, and visibility through tweens.
type display struct {
	Zoom  float64
	PanX  float64
	PanY  float64
	Alpha float64
}

// TweenGroup animates up to 4 float64 fields simultaneously. Call Update
// each frame; values are written to the fields as they change.
//
// There is no global animation manager; viewports update their own groups.
type TweenGroup struct {
	tweens [4]*gween.Tween
	count  int
	fields [4]*float64
	Done   bool
}

// Update advances all tweens by dt and writes values to the target fields.
func (g *TweenGroup) Update(dt time.Duration) {
	if g == nil || g.Done {
		return
	}
	allDone := true
	for i := 0; i < g.count; i++ {
		val, finished := g.tweens[i].Update(float32(dt.Seconds()))
		*g.fields[i] = float64(val)
		if !finished {
			allDone = false
		}
	}
	g.Done = allDone
}

// Finish jumps every field to its end value.
func (g *TweenGroup) Finish() {
	if g == nil || g.Done {
		return
	}
	for i := 0; i < g.count; i++ {
		val, _ := g.tweens[i].Update(float32(1 << 20))
		*g.fields[i] = float64(val)
	}
	g.Done = true
}

func (g *TweenGroup) add(field *float64, to float64, d time.Duration, fn ease.TweenFunc) {
	g.tweens[g.count] = gween.New(float32(*field), float32(to), float32(d.Seconds()), fn)
	g.fields[g.count] = field
	g.count++
}

// tweenTransform eases displayed zoom and pan toward their targets.
func tweenTransform(d *display, zoom float64, pan Vec2) *TweenGroup {
	g := &TweenGroup{}
	g.add(&d.Zoom, zoom, TransformEase, ease.OutQuad)
	g.add(&d.PanX, pan.X, TransformEase, ease.OutQuad)
	g.add(&d.PanY, pan.Y, TransformEase, ease.OutQuad)
	return g
}

// tweenAlpha fades the displayed alpha toward to.
func tweenAlpha(d *display, to float64, duration time.Duration) *TweenGroup {
	g := &TweenGroup{}
	g.add(&d.Alpha, to, duration, ease.Linear)
	return g
}
