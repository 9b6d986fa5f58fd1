package sheet

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/png"
	"math"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	_ "golang.org/x/image/webp"

	"github.com/phanxgames/rigview"
)

// Engine loads sheet rigs: a YAML manifest as the skeleton binary and a
// text atlas whose pages sit next to it. The zero value is ready to use.
type Engine struct {
	// Filter is the texture filter used when drawing. Zero means nearest.
	Filter ebiten.Filter
}

var _ rigview.Engine = Engine{}

// Load implements rigview.Engine. Page images are decoded here but only
// uploaded to the GPU on the first Draw, so Load is safe off the game loop.
func (e Engine) Load(ctx context.Context, src rigview.Fetcher, pair rigview.AssetPair) (rigview.Instance, error) {
	files, err := rigview.FetchAll(ctx, src, pair.Binary, pair.Atlas)
	if err != nil {
		return nil, err
	}
	m, err := ParseManifest(files[pair.Binary])
	if err != nil {
		return nil, err
	}
	atlas, err := ParseAtlas(files[pair.Atlas])
	if err != nil {
		return nil, err
	}
	for _, name := range m.regions() {
		if _, ok := atlas.Region(name); !ok {
			return nil, fmt.Errorf("sheet: %s: region %q not in atlas %s", pair.Binary, name, pair.Atlas)
		}
	}

	names := make([]string, len(atlas.Pages))
	for i, p := range atlas.Pages {
		names[i] = sibling(pair.Atlas, p.Name)
	}
	raw, err := rigview.FetchAll(ctx, src, names...)
	if err != nil {
		return nil, err
	}
	pages := make([]image.Image, len(names))
	for i, name := range names {
		img, _, err := image.Decode(bytes.NewReader(raw[name]))
		if err != nil {
			return nil, fmt.Errorf("sheet: decode page %s: %w", name, err)
		}
		pages[i] = img
	}
	return newInstance(m, atlas, pages, e.Filter), nil
}

// sibling resolves name against the directory of ref. It works on plain
// slash paths so URL-style fetcher paths keep their scheme intact.
func sibling(ref, name string) string {
	i := strings.LastIndex(ref, "/")
	if i < 0 {
		return name
	}
	return ref[:i+1] + name
}

// Instance is a loaded sheet rig. It implements rigview.Instance and
// rigview.CompletionSource.
type Instance struct {
	manifest *Manifest
	atlas    *Atlas
	pages    []image.Image
	textures []*ebiten.Image
	filter   ebiten.Filter

	skin    map[string]string
	clip    *ClipDef
	loop    bool
	elapsed time.Duration
	frame   int
	done    bool

	onComplete []func(string)
	op         ebiten.DrawImageOptions
	disposed   bool
}

var (
	_ rigview.Instance         = (*Instance)(nil)
	_ rigview.CompletionSource = (*Instance)(nil)
)

func newInstance(m *Manifest, a *Atlas, pages []image.Image, filter ebiten.Filter) *Instance {
	return &Instance{
		manifest: m,
		atlas:    a,
		pages:    pages,
		textures: make([]*ebiten.Image, len(pages)),
		filter:   filter,
		clip:     &m.Clips[0],
		loop:     true,
	}
}

// Name returns the manifest name.
func (in *Instance) Name() string { return in.manifest.Name }

// Clips implements rigview.Instance.
func (in *Instance) Clips() []string {
	out := make([]string, len(in.manifest.Clips))
	for i, c := range in.manifest.Clips {
		out[i] = c.Name
	}
	return out
}

// Clip returns the current clip name and frame index.
func (in *Instance) Clip() (string, int) {
	return in.clip.Name, in.frame
}

// SetClip implements rigview.Instance.
func (in *Instance) SetClip(name string, loop bool) error {
	for i := range in.manifest.Clips {
		if in.manifest.Clips[i].Name == name {
			in.clip = &in.manifest.Clips[i]
			in.loop = loop
			in.elapsed = 0
			in.frame = 0
			in.done = false
			return nil
		}
	}
	return fmt.Errorf("sheet: %w: %q", rigview.ErrUnknownClip, name)
}

// SetSkin implements rigview.Instance. "default" and the empty name clear
// any skin.
func (in *Instance) SetSkin(name string) error {
	if name == "" || name == "default" {
		in.skin = nil
		return nil
	}
	skin, ok := in.manifest.Skins[name]
	if !ok {
		return fmt.Errorf("sheet: unknown skin %q", name)
	}
	in.skin = skin
	return nil
}

// OnComplete implements rigview.CompletionSource.
func (in *Instance) OnComplete(fn func(clip string)) {
	in.onComplete = append(in.onComplete, fn)
}

// Update implements rigview.Instance. A looping clip reports completion
// once per Update in which it wrapped; a one-shot clip reports once and
// holds its last frame.
func (in *Instance) Update(dt time.Duration) {
	if in.disposed || in.done || dt <= 0 {
		return
	}
	frameDur := time.Duration(float64(time.Second) / in.clip.FPS)
	if frameDur <= 0 {
		frameDur = time.Nanosecond
	}
	n := len(in.clip.Frames)
	in.elapsed += dt
	idx := int(in.elapsed / frameDur)
	if idx < n {
		in.frame = idx
		return
	}
	if !in.loop {
		in.frame = n - 1
		in.done = true
		in.complete()
		return
	}
	in.elapsed %= frameDur * time.Duration(n)
	in.frame = int(in.elapsed / frameDur)
	in.complete()
}

func (in *Instance) complete() {
	name := in.clip.Name
	for _, fn := range in.onComplete {
		fn(name)
	}
}

// region resolves the region a part shows under the active skin.
func (in *Instance) region(p PartDef) (Region, bool) {
	name := p.Region
	if alt, ok := in.skin[p.Slot]; ok && p.Slot != "" {
		name = alt
	}
	return in.atlas.Region(name)
}

// partGeoM maps a region's original rectangle, with its top-left at the
// origin, into local animation units.
func partGeoM(p PartDef, r Region) ebiten.GeoM {
	var g ebiten.GeoM
	g.Translate(-float64(r.OrigW)/2, -float64(r.OrigH)/2)
	g.Scale(p.Scale, p.Scale)
	if p.Rotation != 0 {
		g.Rotate(p.Rotation * math.Pi / 180)
	}
	g.Translate(p.X, p.Y)
	return g
}

// Bounds implements rigview.Instance. It is the union of every part's
// original rectangle in the current frame.
func (in *Instance) Bounds() rigview.Rect {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range in.clip.Frames[in.frame].Parts {
		r, ok := in.region(p)
		if !ok {
			continue
		}
		g := partGeoM(p, r)
		w, h := float64(r.OrigW), float64(r.OrigH)
		for _, c := range [4][2]float64{{0, 0}, {w, 0}, {0, h}, {w, h}} {
			x, y := g.Apply(c[0], c[1])
			minX = math.Min(minX, x)
			minY = math.Min(minY, y)
			maxX = math.Max(maxX, x)
			maxY = math.Max(maxY, y)
		}
	}
	if math.IsInf(minX, 1) {
		return rigview.Rect{}
	}
	return rigview.Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// regionGeoM maps the stored pixels of r into its original rectangle.
// Rotated regions are stored 90 degrees clockwise, so they are turned back
// and shifted down by their upright height.
func regionGeoM(r Region) ebiten.GeoM {
	var g ebiten.GeoM
	if r.Rotated {
		g.Rotate(-math.Pi / 2)
		g.Translate(0, float64(r.Height))
	}
	if r.OffsetX != 0 || r.OffsetY != 0 {
		g.Translate(float64(r.OffsetX), float64(r.OffsetY))
	}
	return g
}

func (in *Instance) texture(page int) *ebiten.Image {
	if in.textures[page] == nil {
		in.textures[page] = ebiten.NewImageFromImage(in.pages[page])
	}
	return in.textures[page]
}

// Draw implements rigview.Instance.
func (in *Instance) Draw(dst *ebiten.Image, view [6]float64) {
	if in.disposed || dst == nil {
		return
	}
	world := rigview.GeoM(view)
	in.op.Filter = in.filter
	for _, p := range in.clip.Frames[in.frame].Parts {
		r, ok := in.region(p)
		if !ok || r.Page < 0 || r.Page >= len(in.pages) {
			continue
		}
		w, h := r.Width, r.Height
		if r.Rotated {
			w, h = h, w
		}
		sub := in.texture(r.Page).SubImage(image.Rect(r.X, r.Y, r.X+w, r.Y+h)).(*ebiten.Image)

		in.op.GeoM = regionGeoM(r)
		g := partGeoM(p, r)
		in.op.GeoM.Concat(g)
		in.op.GeoM.Concat(world)
		dst.DrawImage(sub, &in.op)
	}
}

// Dispose implements rigview.Instance.
func (in *Instance) Dispose() {
	if in.disposed {
		return
	}
	in.disposed = true
	for i, t := range in.textures {
		if t != nil {
			t.Deallocate()
		}
		in.textures[i] = nil
	}
	in.pages = nil
	in.onComplete = nil
}
