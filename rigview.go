package rigview

import (
	"fmt"
	"strings"
)

// Vec2 is a 2D vector used for positions, offsets, sizes, and pan deltas
// throughout the API.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned rectangle. Skeleton bounds are expressed as a Rect
// in the engine's local animation units.
type Rect struct {
	X, Y, Width, Height float64
}

// Center returns the midpoint of the rectangle.
func (r Rect) Center() Vec2 {
	return Vec2{X: r.X + r.Width/2, Y: r.Y + r.Height/2}
}

// Empty reports whether the rectangle has no area.
func (r Rect) Empty() bool {
	return r.Width <= 0 || r.Height <= 0
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Mode selects which asset variant a viewport shows. Exactly one mode is
// active at a time; the zero value is ModeStandard.
type Mode uint8

const (
	ModeStandard       Mode = iota // regular costume asset
	ModeRestricted                 // alternate atlas over the standard skeleton
	ModeCutscene                   // cutscene skeleton and atlas
	ModeAlternateGuest             // alternate-guest skeleton and atlas
)

var modeNames = [...]string{
	ModeStandard:       "standard",
	ModeRestricted:     "restricted",
	ModeCutscene:       "cutscene",
	ModeAlternateGuest: "alternate-guest",
}

// String returns the lower-case name of the mode.
func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", m)
}

// FullCycle reports whether manual advances walk the whole clip list
// instead of toggling between idle and motion.
func (m Mode) FullCycle() bool {
	return m == ModeCutscene || m == ModeAlternateGuest
}

// ParseMode converts a mode name (as produced by Mode.String) back into a
// Mode. Matching is case-insensitive; "" parses as ModeStandard.
func ParseMode(s string) (Mode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return ModeStandard, nil
	}
	for i, name := range modeNames {
		if s == name {
			return Mode(i), nil
		}
	}
	return ModeStandard, fmt.Errorf("rigview: unknown mode %q", s)
}

// UnmarshalText implements encoding.TextUnmarshaler so modes can be read
// from config files and flags.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Zoom limits and step for wheel input.
const (
	MinZoom     = 0.5
	MaxZoom     = 2.0
	DefaultZoom = 1.0
	ZoomStep    = 0.1
)

// TouchWidth is the pixel width below which a viewport is treated as a
// small touch form factor: pan and zoom are disabled and taps advance clips.
const TouchWidth = 768

// IsTouchWidth reports whether width selects the touch form factor.
func IsTouchWidth(width int) bool {
	return width < TouchWidth
}

func clampZoom(z float64) float64 {
	if z < MinZoom {
		return MinZoom
	}
	if z > MaxZoom {
		return MaxZoom
	}
	return z
}
