package rigview

import (
	"bytes"
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/basicfont"
)

// HUDFont is the face used for the status line.
type HUDFont struct {
	face text.Face
	lh   float64 // cached line height
}

// LoadHUDFont loads a TrueType or OpenType font at the given size.
func LoadHUDFont(ttfData []byte, size float64) (*HUDFont, error) {
	source, err := text.NewGoTextFaceSource(bytes.NewReader(ttfData))
	if err != nil {
		return nil, fmt.Errorf("rigview: parse hud font: %w", err)
	}
	return newHUDFont(&text.GoTextFace{Source: source, Size: size}), nil
}

// defaultHUDFont is a 7x13 bitmap face.
func defaultHUDFont() *HUDFont {
	return newHUDFont(text.NewGoXFace(basicfont.Face7x13))
}

func newHUDFont(face text.Face) *HUDFont {
	m := face.Metrics()
	return &HUDFont{face: face, lh: m.HAscent + m.HDescent + m.HLineGap}
}

// MeasureString returns the width and height of the rendered text.
func (f *HUDFont) MeasureString(s string) (width, height float64) {
	return text.Measure(s, f.face, f.lh)
}

// LineHeight returns the vertical distance between baselines.
func (f *HUDFont) LineHeight() float64 {
	return f.lh
}

// draw renders s with its top-left corner at (x, y).
func (f *HUDFont) draw(dst *ebiten.Image, s string, x, y float64, clr color.Color) {
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	op.LineSpacing = f.lh
	text.Draw(dst, s, f.face, op)
}
