package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/spf13/cobra"

	"github.com/phanxgames/rigview"
	"github.com/phanxgames/rigview/sheet"
)

type viewFlags struct {
	costume string
	mode    string
	script  string
	assets  string
	noHUD   bool
}

func newViewCmd() *cobra.Command {
	var f viewFlags
	cmd := &cobra.Command{
		Use:   "view [character]",
		Short: "open a viewer window",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runView(cmd.Context(), args[0], f)
		},
	}
	cmd.Flags().StringVar(&f.costume, "costume", "", "costume name (default: first listed)")
	cmd.Flags().StringVar(&f.mode, "mode", "", "standard, restricted, cutscene or alternate-guest")
	cmd.Flags().StringVar(&f.script, "script", "", "capture script (yaml); the window closes when it finishes")
	cmd.Flags().StringVar(&f.assets, "assets", "", "asset directory or base URL (overrides config)")
	cmd.Flags().BoolVar(&f.noHUD, "no-hud", false, "hide the status line")
	return cmd
}

func runView(ctx context.Context, name string, f viewFlags) error {
	if ctx == nil {
		ctx = context.Background()
	}
	cfg, err := Load(configFile)
	if err != nil {
		return err
	}
	if f.assets != "" {
		cfg.Assets = f.assets
	}
	if f.noHUD {
		cfg.Window.HUD = false
	}
	g, err := newViewer(ctx, cfg, name, f)
	if err != nil {
		return err
	}
	if f.script != "" {
		data, err := os.ReadFile(f.script)
		if err != nil {
			return err
		}
		if g.script, err = rigview.LoadScript(data); err != nil {
			return err
		}
	}

	ebiten.SetWindowSize(cfg.Window.Width, cfg.Window.Height)
	ebiten.SetWindowTitle(fmt.Sprintf("%s - %s", cfg.Window.Title, name))
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)

	g.mount()
	runErr := ebiten.RunGame(g)
	if err := g.close(); err != nil {
		log.Printf("rigview: save settings: %v", err)
	}
	if runErr != nil {
		return runErr
	}
	if g.script != nil {
		return g.script.Err()
	}
	return nil
}

var modes = []rigview.Mode{
	rigview.ModeStandard,
	rigview.ModeRestricted,
	rigview.ModeCutscene,
	rigview.ModeAlternateGuest,
}

// nextMode returns the next mode after m that d declares, wrapping around.
func nextMode(d rigview.AssetDescriptor, m rigview.Mode) rigview.Mode {
	for i := 1; i <= len(modes); i++ {
		c := modes[(int(m)+i)%len(modes)]
		if d.HasVariant(c) {
			return c
		}
	}
	return m
}

// viewer is the ebiten.Game behind "rigview view". Keys:
//
//	space  next clip      L  lock         A  autoplay
//	R      reset view     S  snapshot     V  record
//	F      fullscreen     M  next mode    C  next costume
type viewer struct {
	cfg      *Config
	stage    *rigview.Stage
	base     rigview.Config
	costumes []CharacterConfig
	costume  int
	mode     rigview.Mode
	resets   int
	script   *rigview.ScriptRunner
	w, h     int
}

func newViewer(ctx context.Context, cfg *Config, name string, f viewFlags) (*viewer, error) {
	costumes := cfg.Costumes(name)
	if len(costumes) == 0 {
		return nil, fmt.Errorf("no character %q in %s", name, configFile)
	}
	ch, err := cfg.Character(name, f.costume)
	if err != nil {
		return nil, err
	}
	idx := 0
	for i, c := range costumes {
		if c.Costume == ch.Costume {
			idx = i
			break
		}
	}
	mode := ch.Mode
	if f.mode != "" {
		if mode, err = rigview.ParseMode(f.mode); err != nil {
			return nil, err
		}
	}
	settings, err := rigview.LoadSettings(cfg.Settings)
	if err != nil {
		log.Printf("rigview: %v; using defaults", err)
	}

	logger := log.New(os.Stderr, "", log.LstdFlags)
	g := &viewer{
		cfg:      cfg,
		stage:    rigview.NewStage(ctx),
		costumes: costumes,
		costume:  idx,
		mode:     mode,
		w:        cfg.Window.Width,
		h:        cfg.Window.Height,
	}
	g.base = rigview.Config{
		Settings: settings,
		Engine:   sheet.Engine{Filter: ebiten.FilterLinear},
		Fetcher:  cfg.Fetcher(),
		Encoder:  &rigview.FFmpegEncoder{Path: cfg.FFmpeg},
		Sink:     rigview.DirSink{Dir: cfg.Captures},
		Logger:   logger,
		Debug:    debug,
		HUD:      cfg.Window.HUD,
		Callbacks: rigview.Callbacks{
			OnNotice: func(msg string) { logger.Printf("rigview: %s", msg) },
		},
		SnapshotSize: image.Pt(cfg.Snapshot.Width, cfg.Snapshot.Height),
	}
	if debug {
		g.base.Events = logStore{logger}
	}
	return g, nil
}

// mount shows the current costume and mode, remounting when either
// changed. A running script follows the viewport across remounts.
func (g *viewer) mount() {
	ch := g.costumes[g.costume]
	c := g.base
	c.Asset = ch.Asset
	c.Character = ch.Name
	c.Costume = ch.Costume
	c.SelectedClip = ch.Clip
	c.Mode = g.mode
	c.Width, c.Height = g.w, g.h
	v := g.stage.Show(c)
	if g.script != nil && !g.script.Done() {
		v.SetScript(g.script)
	}
}

func (g *viewer) Update() error {
	g.handleKeys()
	if err := g.stage.Update(); err != nil {
		return err
	}
	if g.script != nil && g.script.Done() {
		return ebiten.Termination
	}
	return nil
}

func (g *viewer) handleKeys() {
	v := g.stage.Viewport()
	if v == nil {
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		v.Advance()
	case inpututil.IsKeyJustPressed(ebiten.KeyL):
		v.SetLock(!v.Locked())
	case inpututil.IsKeyJustPressed(ebiten.KeyA):
		v.SetAutoplay(!v.Autoplay())
	case inpututil.IsKeyJustPressed(ebiten.KeyR):
		g.resets++
		v.SetReset(g.resets)
	case inpututil.IsKeyJustPressed(ebiten.KeyS):
		v.Snapshot()
	case inpututil.IsKeyJustPressed(ebiten.KeyV):
		var err error
		if v.Recording() {
			err = v.StopRecording()
		} else {
			err = v.StartRecording()
		}
		if err != nil && !errors.Is(err, rigview.ErrRecording) {
			log.Printf("rigview: recording: %v", err)
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyF):
		on := !ebiten.IsFullscreen()
		ebiten.SetFullscreen(on)
		v.SetFullscreen(on)
	case inpututil.IsKeyJustPressed(ebiten.KeyM):
		if m := nextMode(g.costumes[g.costume].Asset, g.mode); m != g.mode {
			g.mode = m
			g.mount()
		}
	case inpututil.IsKeyJustPressed(ebiten.KeyC):
		if len(g.costumes) > 1 {
			g.costume = (g.costume + 1) % len(g.costumes)
			g.mount()
		}
	}
}

func (g *viewer) Draw(screen *ebiten.Image) {
	g.stage.Draw(screen)
}

func (g *viewer) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.w || outsideHeight != g.h {
		g.w, g.h = outsideWidth, outsideHeight
		if v := g.stage.Viewport(); v != nil {
			v.Resize(g.w, g.h)
		}
	}
	return g.w, g.h
}

// close persists the viewer preferences and disposes the viewport.
func (g *viewer) close() error {
	defer g.stage.Close()
	v := g.stage.Viewport()
	if v == nil {
		return nil
	}
	return rigview.SaveSettings(g.cfg.Settings, rigview.Settings{Lock: v.Locked(), Autoplay: v.Autoplay()})
}

// logStore prints viewport events in debug mode.
type logStore struct {
	l *log.Logger
}

func (s logStore) EmitEvent(e rigview.ViewportEvent) {
	s.l.Printf("[rigview] event %s asset=%s mode=%s clip=%q zoom=%.2f", e.Type, e.Asset, e.Mode, e.Clip, e.Zoom)
}
