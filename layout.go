package rigview

// Band is a responsive width band. Bands are selected by fixed pixel
// thresholds; the values in the tables below are a behavioral contract and
// must not be derived from anything else.
type Band uint8

const (
	BandBase Band = iota // narrower than 1400px
	Band1400             // 1400px to 1599px
	Band1600             // 1600px to 1899px
	Band1900             // 1900px to 2399px
	Band2400             // 2400px and wider
	bandCount
)

// Band thresholds in pixels.
var bandThresholds = [bandCount]int{0, 1400, 1600, 1900, 2400}

// BandFor returns the width band for a pixel width.
func BandFor(width int) Band {
	for b := bandCount - 1; b > BandBase; b-- {
		if width >= bandThresholds[b] {
			return b
		}
	}
	return BandBase
}

// Breakpoint identifies the responsive preset a width maps to. Two widths
// with equal breakpoints produce identical layouts.
type Breakpoint struct {
	Band  Band
	Touch bool
}

// BreakpointFor returns the breakpoint for a pixel width.
func BreakpointFor(width int) Breakpoint {
	return Breakpoint{Band: BandFor(width), Touch: IsTouchWidth(width)}
}

// Presentation tables, indexed by Band.
var (
	standardTranslateX       = [bandCount]float64{5, -20, 0, 10, 25}
	guestTranslateX          = [bandCount]float64{0, -321, -135, -105, -150}
	guestFullscreenTranslate = [bandCount]float64{0, -200, -185, -135, -150}
	standardScale            = [bandCount]float64{0.6, 0.7, 0.7, 0.9, 1.0}
	cutsceneScale            = [bandCount]float64{0.2, 0.3, 0.4, 0.5, 0.5}
	guestScale               = [bandCount]float64{0.2, 0.25, 0.25, 0.25, 0.2}
	standardOriginX          = [bandCount]float64{50, 85, 50, 55, 75}
)

const (
	touchBaseScale    = 0.8
	touchModeScale    = 1.0
	defaultTranslateY = -5.0
	centerOriginPct   = 50.0
)

// Layout is the presentational transform applied on top of the fitted
// camera. Translations and origins are percentages of the element size.
type Layout struct {
	TranslateX float64
	TranslateY float64
	BaseScale  float64
	ModeScale  float64
	OriginX    float64
	OriginY    float64
	Touch      bool
}

// Presentation returns the layout for a pixel width, mode, and fullscreen
// flag. It is a pure function of its inputs. TranslateY carries the default
// vertical offset; use WithOffset to apply a descriptor hint.
func Presentation(width int, m Mode, fullscreen bool) Layout {
	band := BandFor(width)
	touch := IsTouchWidth(width)

	l := Layout{
		BaseScale: touchBaseScale,
		ModeScale: modeScale(band, touch, m),
		OriginX:   centerOriginPct,
		OriginY:   centerOriginPct,
		Touch:     touch,
	}
	if touch {
		return l
	}

	l.BaseScale = standardScale[band]
	l.TranslateX = translateX(band, m, fullscreen)
	l.TranslateY = defaultTranslateY
	if !fullscreen {
		l.OriginX = standardOriginX[band]
	}
	return l
}

func translateX(band Band, m Mode, fullscreen bool) float64 {
	if m == ModeAlternateGuest && band > BandBase {
		if fullscreen {
			return guestFullscreenTranslate[band]
		}
		return guestTranslateX[band]
	}
	if fullscreen {
		return 0
	}
	return standardTranslateX[band]
}

func modeScale(band Band, touch bool, m Mode) float64 {
	var table *[bandCount]float64
	switch m {
	case ModeCutscene:
		table = &cutsceneScale
	case ModeAlternateGuest:
		table = &guestScale
	default:
		return 1
	}
	if band > BandBase {
		return table[band]
	}
	if touch {
		return touchModeScale
	}
	return table[BandBase]
}

// WithOffset applies a descriptor's presentation hint: Y replaces the
// vertical translate. Offset.Scale is carried but never read, so the
// breakpoint scale is the same for every costume. Touch layouts ignore it.
func (l Layout) WithOffset(o *Offset) Layout {
	if o == nil || l.Touch {
		return l
	}
	l.TranslateY = o.Y
	return l
}

// Scale returns the combined scale for a user zoom level.
func (l Layout) Scale(zoom float64) float64 {
	return l.BaseScale * zoom * l.ModeScale
}

// Matrix returns the affine transform that places a canvas of size (w, h)
// at (x, y) on screen with the given user zoom and pan:
//
//	Translate(x, y) * Translate(origin) * Translate(pan) * Scale(s) *
//	Translate(tx% * w, ty% * h) * Translate(-origin)
func (l Layout) Matrix(x, y, w, h, zoom float64, pan Vec2) [6]float64 {
	ox := l.OriginX / 100 * w
	oy := l.OriginY / 100 * h

	m := translateAffine(x+ox+pan.X, y+oy+pan.Y)
	m = multiplyAffine(m, scaleAffine(l.Scale(zoom)))
	m = multiplyAffine(m, translateAffine(l.TranslateX/100*w-ox, l.TranslateY/100*h-oy))
	return m
}
