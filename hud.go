package rigview

import (
	"fmt"
	"image/color"
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

// HintText returns the status line shown over the viewport: the active
// clip with its position in the list, the zoom percentage, and the
// interaction hint for the current form factor.
func (v *Viewport) HintText() string {
	switch v.binding.State() {
	case BindingLoading, BindingIdle:
		return "Loading..."
	case BindingFailed:
		return "Failed to load animation"
	case BindingDisposed:
		return ""
	}

	clip := v.seq.Current()
	status := fmt.Sprintf("%s (%d/%d)", clip, v.seq.Index()+1, len(v.seq.clips))
	if v.recorder.Recording() {
		status += " REC"
	}

	hint := "click: next clip"
	switch {
	case v.seq.Autoplay():
		hint = "autoplay"
	case v.bp.Touch:
		hint = "tap: next clip"
	}
	if !v.bp.Touch {
		status += fmt.Sprintf(" | zoom %d%%", int(math.Round(v.zoom*100)))
		if !v.lock {
			hint += ", drag: pan, wheel: zoom"
		}
	}
	return status + "\n" + hint
}

var (
	hudBackground = color.RGBA{0, 0, 0, 128}
	hudForeground = color.White
)

// drawHUD prints the hint text in the viewport's top-left corner.
func (v *Viewport) drawHUD(screen *ebiten.Image) {
	if !v.cfg.HUD {
		return
	}
	if v.cfg.HUDFont == nil {
		v.cfg.HUDFont = defaultHUDFont()
	}
	s := v.HintText()
	if v.notice != "" {
		s += "\n" + v.notice
	}
	if v.log.debug {
		s += fmt.Sprintf("\nFPS %.1f  TPS %.1f", ebiten.ActualFPS(), ebiten.ActualTPS())
	}
	f := v.cfg.HUDFont
	w, h := f.MeasureString(s)
	x, y := v.rect.X+4, v.rect.Y+4
	vector.DrawFilledRect(screen, float32(x), float32(y), float32(w+8), float32(h+4), hudBackground, false)
	f.draw(screen, s, x+4, y+2, hudForeground)
}
