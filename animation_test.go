package rigview

import (
	"testing"
	"time"
)

func TestTweenGroupNilSafe(t *testing.T) {
	var g *TweenGroup
	g.Update(time.Second)
	g.Finish()
}

func TestTweenTransform(t *testing.T) {
	d := display{Zoom: 1}
	g := tweenTransform(&d, 2, Vec2{X: 40, Y: -20})

	g.Update(TransformEase / 2)
	if d.Zoom <= 1 || d.Zoom >= 2 {
		t.Errorf("mid zoom = %v", d.Zoom)
	}
	if g.Done {
		t.Error("done halfway")
	}

	g.Update(TransformEase)
	if !g.Done {
		t.Error("not done after full duration")
	}
	if !approxEqual(d.Zoom, 2, 1e-5) || !approxEqual(d.PanX, 40, 1e-4) || !approxEqual(d.PanY, -20, 1e-4) {
		t.Errorf("display = %+v", d)
	}
}

func TestTweenAlphaFinish(t *testing.T) {
	var d display
	g := tweenAlpha(&d, 1, FadeIn)
	g.Update(FadeIn / 3)
	if !approxEqual(d.Alpha, 1.0/3, 1e-3) {
		t.Errorf("linear fade at a third = %v", d.Alpha)
	}
	g.Finish()
	if d.Alpha != 1 || !g.Done {
		t.Errorf("alpha = %v done = %v", d.Alpha, g.Done)
	}
}
