package sheet

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// DefaultFPS is the playback rate used when neither the manifest nor the
// clip specifies one.
const DefaultFPS = 30

// Manifest is the skeleton file of a sheet rig. It lists the clips as
// frame-by-frame poses of atlas regions, plus optional skins that swap the
// region shown in a slot.
//
//	name: hero
//	fps: 24
//	skins:
//	  summer:
//	    hat: hat_straw
//	clips:
//	  - name: idle
//	    frames:
//	      - parts:
//	          - {slot: body, region: body, y: -60}
//	          - {slot: hat, region: hat_plain, y: -130}
type Manifest struct {
	Name  string                       `yaml:"name"`
	FPS   float64                      `yaml:"fps"`
	Skins map[string]map[string]string `yaml:"skins"`
	Clips []ClipDef                    `yaml:"clips"`
}

// ClipDef is one named animation.
type ClipDef struct {
	Name   string     `yaml:"name"`
	FPS    float64    `yaml:"fps"`
	Frames []FrameDef `yaml:"frames"`
}

// FrameDef is a single pose, drawn back to front.
type FrameDef struct {
	Parts []PartDef `yaml:"parts"`
}

// PartDef places one region. X and Y locate the center of the region's
// original rectangle in local units, y down. Rotation is in degrees,
// clockwise.
type PartDef struct {
	Slot     string  `yaml:"slot"`
	Region   string  `yaml:"region"`
	X        float64 `yaml:"x"`
	Y        float64 `yaml:"y"`
	Scale    float64 `yaml:"scale"`
	Rotation float64 `yaml:"rotation"`
}

// ParseManifest decodes and validates a manifest.
func ParseManifest(data []byte) (*Manifest, error) {
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("sheet: parse manifest: %w", err)
	}
	if len(m.Clips) == 0 {
		return nil, fmt.Errorf("sheet: manifest %q has no clips", m.Name)
	}
	if m.FPS <= 0 {
		m.FPS = DefaultFPS
	}
	seen := make(map[string]bool, len(m.Clips))
	for i := range m.Clips {
		c := &m.Clips[i]
		if c.Name == "" {
			return nil, fmt.Errorf("sheet: clip %d has no name", i)
		}
		if seen[c.Name] {
			return nil, fmt.Errorf("sheet: duplicate clip %q", c.Name)
		}
		seen[c.Name] = true
		if len(c.Frames) == 0 {
			return nil, fmt.Errorf("sheet: clip %q has no frames", c.Name)
		}
		if c.FPS <= 0 {
			c.FPS = m.FPS
		}
		for _, f := range c.Frames {
			for j := range f.Parts {
				if f.Parts[j].Scale == 0 {
					f.Parts[j].Scale = 1
				}
			}
		}
	}
	return &m, nil
}

// regions returns every region name the manifest can reference, including
// skin substitutions.
func (m *Manifest) regions() []string {
	set := make(map[string]struct{})
	var out []string
	add := func(name string) {
		if name == "" {
			return
		}
		if _, ok := set[name]; ok {
			return
		}
		set[name] = struct{}{}
		out = append(out, name)
	}
	for _, c := range m.Clips {
		for _, f := range c.Frames {
			for _, p := range f.Parts {
				add(p.Region)
			}
		}
	}
	for _, skin := range m.Skins {
		for _, r := range skin {
			add(r)
		}
	}
	return out
}
