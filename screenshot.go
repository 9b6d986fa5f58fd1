package rigview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/png"
	"strings"
	"time"

	"golang.org/x/image/draw"
)

// ErrNoCanvas is returned by capture operations when no render canvas
// exists yet.
var ErrNoCanvas = errors.New("rigview: no canvas to capture")

// Canvas is a readable render target. *ebiten.Image implements it.
type Canvas interface {
	Bounds() image.Rectangle
	ReadPixels(pixels []byte)
}

// readStraight reads the canvas and converts its premultiplied RGBA
// pixels to straight-alpha NRGBA.
func readStraight(c Canvas) *image.NRGBA {
	bounds := c.Bounds()
	w, h := bounds.Dx(), bounds.Dy()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	c.ReadPixels(img.Pix)
	unpremultiply(img.Pix)
	return img
}

func unpremultiply(pix []byte) {
	for i := 0; i+3 < len(pix); i += 4 {
		a := pix[i+3]
		if a > 0 && a < 255 {
			pix[i] = uint8(min(int(pix[i])*255/int(a), 255))
			pix[i+1] = uint8(min(int(pix[i+1])*255/int(a), 255))
			pix[i+2] = uint8(min(int(pix[i+2])*255/int(a), 255))
		}
	}
}

// Snapshot captures the canvas as a PNG. When size is non-zero the image
// is resampled to it first.
func Snapshot(c Canvas, size image.Point) ([]byte, error) {
	if c == nil {
		return nil, ErrNoCanvas
	}
	if c.Bounds().Empty() {
		return nil, ErrNoCanvas
	}
	img := readStraight(c)
	var out image.Image = img
	if size.X > 0 && size.Y > 0 && size != img.Rect.Size() {
		scaled := image.NewNRGBA(image.Rectangle{Max: size})
		draw.CatmullRom.Scale(scaled, scaled.Bounds(), img, img.Bounds(), draw.Src, nil)
		out = scaled
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return nil, fmt.Errorf("rigview: encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// CaptureName builds the download name for a capture:
// <character>_<costume>_<unix millis>.<ext>.
func CaptureName(character, costume string, at time.Time, ext string) string {
	return fmt.Sprintf("%s_%s_%d.%s",
		sanitizeLabel(character), sanitizeLabel(costume), at.UnixMilli(), strings.TrimPrefix(ext, "."))
}

// sanitizeLabel replaces characters that are unsafe in file names with
// underscores and falls back to "unlabeled" for empty strings.
func sanitizeLabel(label string) string {
	label = strings.TrimSpace(label)
	if label == "" {
		return "unlabeled"
	}
	var b strings.Builder
	b.Grow(len(label))
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z',
			r >= '0' && r <= '9', r == '-', r == '.':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	return b.String()
}
