package rigview

import (
	"context"

	"github.com/hajimehoshi/ebiten/v2"
)

// StageKey identifies a viewport instance. Two configs with the same key
// share a viewport; a different key remounts.
type StageKey struct {
	Asset   string
	Costume string
	Skin    string
	Mode    Mode
}

// KeyOf returns the stage key for cfg.
func KeyOf(cfg Config) StageKey {
	return StageKey{Asset: cfg.Asset.ID, Costume: cfg.Costume, Skin: cfg.Asset.Skin, Mode: cfg.Mode}
}

// Stage holds the host's current viewport and remounts it whenever the
// costume, skin or mode changes. Remounting disposes the old viewport
// before creating the new one, so no timer, subscriber or runtime outlives
// its key. Lock and autoplay are carried across remounts; everything else
// starts fresh.
type Stage struct {
	ctx     context.Context
	current *Viewport
	key     StageKey
	mounts  int
}

// NewStage creates an empty stage.
func NewStage(ctx context.Context) *Stage {
	return &Stage{ctx: ctx}
}

// Viewport returns the mounted viewport, or nil.
func (s *Stage) Viewport() *Viewport { return s.current }

// Mounts returns how many viewports the stage has created.
func (s *Stage) Mounts() int { return s.mounts }

// Show mounts a viewport for cfg. When cfg has the same key as the
// mounted viewport, the existing one is kept and returned.
func (s *Stage) Show(cfg Config) *Viewport {
	key := KeyOf(cfg)
	if s.current != nil && key == s.key {
		return s.current
	}
	if s.current != nil {
		cfg.Settings = Settings{Lock: s.current.Locked(), Autoplay: s.current.Autoplay()}
		if cfg.Width == 0 {
			cfg.X, cfg.Y = s.current.rect.X, s.current.rect.Y
			cfg.Width, cfg.Height = int(s.current.rect.Width), int(s.current.rect.Height)
		}
		s.current.Dispose()
	}
	s.current = NewViewport(s.ctx, cfg)
	s.key = key
	s.mounts++
	return s.current
}

// Update ticks the mounted viewport.
func (s *Stage) Update() error {
	if s.current == nil {
		return nil
	}
	return s.current.Update()
}

// Draw draws the mounted viewport.
func (s *Stage) Draw(screen *ebiten.Image) {
	if s.current != nil {
		s.current.Draw(screen)
	}
}

// Close disposes the mounted viewport.
func (s *Stage) Close() {
	if s.current != nil {
		s.current.Dispose()
		s.current = nil
	}
}
