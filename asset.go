package rigview

import (
	"path"
	"strings"
)

// AtlasExt is the extension used when an atlas path is derived from a
// binary skeleton path.
const AtlasExt = ".atlas"

// Offset carries per-asset presentation hints authored alongside the
// skeleton. Y is a vertical translate in percent of the element height.
type Offset struct {
	Y float64 `yaml:"y" json:"y"`
	// Scale is kept for asset files that author it; layouts ignore it.
	Scale float64 `yaml:"scale" json:"scale"`
}

// AssetDescriptor describes one costume or skin's skeletal assets and its
// optional mode variants. Descriptors are owned by the host and treated as
// immutable by the viewport.
type AssetDescriptor struct {
	// ID identifies the asset for logging.
	ID string `yaml:"id" json:"id"`
	// Clip is the declared default clip, used when neither "idle" nor
	// "motion" exist.
	Clip string `yaml:"clip" json:"clip"`
	// Binary is the standard skeleton binary path.
	Binary string `yaml:"binary" json:"binary"`
	// Atlas overrides the standard atlas path. When empty it is derived
	// from Binary.
	Atlas string `yaml:"atlas,omitempty" json:"atlas,omitempty"`
	// Restricted is an alternate atlas path used with the standard binary.
	Restricted string `yaml:"restricted,omitempty" json:"restricted,omitempty"`
	// Cutscene is a cutscene skeleton binary path; its atlas is derived.
	Cutscene string `yaml:"cutscene,omitempty" json:"cutscene,omitempty"`
	// AlternateGuest is an alternate-guest skeleton binary path; its atlas
	// is derived.
	AlternateGuest string `yaml:"alternateGuest,omitempty" json:"alternateGuest,omitempty"`
	// Skin is applied after load unless empty or "default".
	Skin string `yaml:"skin,omitempty" json:"skin,omitempty"`
	// Offset is an optional presentation hint.
	Offset *Offset `yaml:"offset,omitempty" json:"offset,omitempty"`
}

// AssetPair is a resolved binary and atlas path.
type AssetPair struct {
	Binary string
	Atlas  string
	// Variant is the mode whose variant was actually used, which differs
	// from the requested mode after a fallback.
	Variant Mode
}

// HasVariant reports whether the descriptor declares an asset for mode.
// The standard variant is always considered present.
func (d AssetDescriptor) HasVariant(m Mode) bool {
	switch m {
	case ModeRestricted:
		return d.Restricted != ""
	case ModeCutscene:
		return d.Cutscene != ""
	case ModeAlternateGuest:
		return d.AlternateGuest != ""
	default:
		return true
	}
}

// Resolve picks the asset pair for mode. Variants are ranked
// AlternateGuest > Cutscene > Restricted > Standard; when the requested
// variant is missing, resolution falls back to the next lower variant that
// is declared, ending at Standard. Resolve never fails.
//
// The restricted variant only swaps the atlas: restricted assets share the
// standard skeleton and ship alternate textures.
func Resolve(d AssetDescriptor, m Mode) AssetPair {
	for v := m; v > ModeStandard; v-- {
		if d.HasVariant(v) {
			return d.pair(v)
		}
	}
	return d.pair(ModeStandard)
}

func (d AssetDescriptor) pair(v Mode) AssetPair {
	switch v {
	case ModeAlternateGuest:
		return AssetPair{Binary: d.AlternateGuest, Atlas: DeriveAtlas(d.AlternateGuest), Variant: v}
	case ModeCutscene:
		return AssetPair{Binary: d.Cutscene, Atlas: DeriveAtlas(d.Cutscene), Variant: v}
	case ModeRestricted:
		return AssetPair{Binary: d.Binary, Atlas: d.Restricted, Variant: v}
	}
	atlas := d.Atlas
	if atlas == "" {
		atlas = DeriveAtlas(d.Binary)
	}
	return AssetPair{Binary: d.Binary, Atlas: atlas, Variant: ModeStandard}
}

// DeriveAtlas replaces the extension of a skeleton path with AtlasExt.
// A path without an extension gets AtlasExt appended.
func DeriveAtlas(binary string) string {
	if binary == "" {
		return ""
	}
	ext := path.Ext(binary)
	if ext == "" || strings.Contains(ext, "/") {
		return binary + AtlasExt
	}
	return strings.TrimSuffix(binary, ext) + AtlasExt
}
