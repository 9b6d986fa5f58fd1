package rigview

import (
	"context"
	"image"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Settle delays before the camera is refitted. The runtime needs a moment
// after a clip switch before its pose bounds reflect the new clip.
const (
	SettleDelay        = 50 * time.Millisecond
	InitialSettleDelay = 100 * time.Millisecond
)

// Callbacks report viewport state changes to the host. All fields are
// optional. Callbacks run on the game loop goroutine.
type Callbacks struct {
	OnZoomChange      func(zoom float64)
	OnPanChange       func(pan Vec2)
	OnClipsLoaded     func(clips []string)
	OnClipChange      func(clip string)
	OnRecordingChange func(recording bool)
	OnNotice          func(msg string)
}

// Config configures a Viewport. Asset, Engine and Fetcher are required.
type Config struct {
	Asset     AssetDescriptor
	Character string
	Costume   string
	// FallbackImage is drawn in place of the skeleton when loading fails.
	FallbackImage *ebiten.Image
	Mode          Mode
	Settings      Settings
	Fullscreen    bool
	// Placement of the viewport on screen. Width also selects the
	// responsive breakpoint.
	X, Y          float64
	Width, Height int
	// SelectedClip is played first when the asset has it.
	SelectedClip string

	Engine  Engine
	Fetcher Fetcher
	Encoder Encoder
	Sink    Sink
	// Input defaults to Ebitengine mouse, wheel and touch input.
	Input InputSource
	// Events optionally receives every viewport event.
	Events EventStore

	Callbacks Callbacks
	Logger    *log.Logger
	Debug     bool
	// HUD draws the status line over the viewport.
	HUD bool
	// HUDFont defaults to a 7x13 bitmap face.
	HUDFont *HUDFont

	// Zero values select the package defaults.
	FitDamping         float64
	SettleDelay        time.Duration
	InitialSettleDelay time.Duration
	// SnapshotSize resamples stills to this size when non-zero.
	SnapshotSize image.Point
	// Clock stamps capture names. Defaults to time.Now.
	Clock func() time.Time
}

// Viewport shows one skeletal asset and owns everything needed to do so:
// the runtime binding, the camera, the playback sequencer, gestures,
// capture, and every timer and subscriber. A viewport serves a single
// (costume, skin, mode) combination; changing any of them means disposing
// it and creating a new one (see Stage).
type Viewport struct {
	cfg Config
	log *logger
	ctx context.Context

	cancel   context.CancelFunc
	sched    scheduler
	bus      EventBus
	binding  *Binding
	camera   *Camera
	seq      *Sequencer
	recorder *Recorder
	gesture  GestureController
	input    InputSource
	pair     AssetPair

	zoom       float64
	pan        Vec2
	lock       bool
	fullscreen bool
	rect       Rect
	bp         Breakpoint
	reset      int

	shown     display
	transform *TweenGroup
	fade      *TweenGroup
	visible   bool
	fitTimer  TimerHandle
	canvas    *ebiten.Image
	snapshots int
	sinceDraw time.Duration // tick time not yet seen by Draw
	drawTime  time.Duration
	notice    string
	frames    int
	disposed  bool

	ptr         pointerTracker
	injectQueue []syntheticEvent
	script      *ScriptRunner
}

// NewViewport creates a viewport and starts loading its asset.
func NewViewport(ctx context.Context, cfg Config) *Viewport {
	if cfg.SettleDelay <= 0 {
		cfg.SettleDelay = SettleDelay
	}
	if cfg.InitialSettleDelay <= 0 {
		cfg.InitialSettleDelay = InitialSettleDelay
	}
	if cfg.FitDamping <= 0 {
		cfg.FitDamping = DefaultFitDamping
	}
	if cfg.Clock == nil {
		cfg.Clock = time.Now
	}

	v := &Viewport{
		cfg:        cfg,
		log:        newLogger(cfg.Logger, cfg.Debug),
		zoom:       DefaultZoom,
		lock:       cfg.Settings.Lock,
		fullscreen: cfg.Fullscreen,
		input:      cfg.Input,
	}
	if v.input == nil {
		v.input = &EbitenInput{}
	}
	v.ctx, v.cancel = context.WithCancel(ctx)
	v.shown = display{Zoom: DefaultZoom}
	v.rect = Rect{X: cfg.X, Y: cfg.Y, Width: float64(cfg.Width), Height: float64(cfg.Height)}
	v.bp = BreakpointFor(cfg.Width)
	v.camera = NewCamera(Rect{Width: float64(cfg.Width), Height: float64(cfg.Height)})

	v.binding = NewBinding(cfg.Engine, cfg.Fetcher, v.log)
	v.binding.OnComplete(v.bus.Publish)

	v.seq = NewSequencer(cfg.Mode, v.binding, &v.sched, &v.bus)
	v.seq.OnChange = v.onClipChange
	v.seq.SetAutoplay(cfg.Settings.Autoplay)

	v.recorder = NewRecorder(cfg.Encoder, cfg.Sink, &v.bus, v.log)
	v.recorder.Restart = v.seq.Restart
	v.recorder.Name = func(ext string) string {
		return CaptureName(cfg.Character, cfg.Costume, cfg.Clock(), ext)
	}
	v.recorder.OnChange = v.onRecordingChange
	v.recorder.OnNotice = v.raiseNotice

	v.pair = Resolve(cfg.Asset, cfg.Mode)
	if v.pair.Variant != cfg.Mode {
		v.log.Debugf("asset %q has no %s variant, using %s", cfg.Asset.ID, cfg.Mode, v.pair.Variant)
	}
	v.binding.Load(v.ctx, v.pair)
	return v
}

// Update advances the viewport by one tick at the current TPS.
func (v *Viewport) Update() error {
	v.Tick(time.Second / time.Duration(ebiten.TPS()))
	return nil
}

// Tick advances the viewport by dt: settles a pending load, processes
// input, advances playback, fires due timers, and eases the displayed
// transform.
func (v *Viewport) Tick(dt time.Duration) {
	if v.disposed {
		if v.log.debug {
			debugCheckDisposed(v, "Tick")
		}
		return
	}
	var t0 time.Time
	if v.log.debug {
		t0 = time.Now()
	}
	v.sinceDraw += dt

	switch v.binding.Poll() {
	case LoadReady:
		v.onLoaded()
	case LoadFailed:
		v.onLoadFailed()
	}
	if v.script != nil {
		v.script.step(v)
	}
	v.processInput()
	v.binding.Update(dt)
	v.sched.advance(dt)
	if v.disposed {
		return
	}
	v.transform.Update(dt)
	v.fade.Update(dt)

	if v.log.debug {
		v.debugLog(debugStats{
			updateTime:  time.Since(t0),
			drawTime:    v.drawTime,
			timers:      v.sched.snapshot(),
			subscribers: v.bus.Len(),
		})
	}
}

func (v *Viewport) onLoaded() {
	clips := v.binding.Clips()
	v.binding.SetSkin(v.cfg.Asset.Skin)
	first := v.seq.Start(clips, v.cfg.SelectedClip, v.cfg.Asset.Clip)
	v.log.Debugf("loaded %q (%s): %d clips, playing %q", v.cfg.Asset.ID, v.pair.Variant, len(clips), first)

	if fn := v.cfg.Callbacks.OnClipsLoaded; fn != nil {
		fn(clips)
	}
	v.emit(ViewportEvent{Type: EventLoaded, Clip: first})
	if first != "" {
		if fn := v.cfg.Callbacks.OnClipChange; fn != nil {
			fn(first)
		}
		v.emit(ViewportEvent{Type: EventClipChange, Clip: first})
	}
	v.scheduleFit(v.cfg.InitialSettleDelay)
}

func (v *Viewport) onLoadFailed() {
	v.emit(ViewportEvent{Type: EventLoadFailed, Message: v.binding.Err().Error()})
	v.raiseNotice("Could not load animation")
}

func (v *Viewport) onClipChange(clip string) {
	if fn := v.cfg.Callbacks.OnClipChange; fn != nil {
		fn(clip)
	}
	v.emit(ViewportEvent{Type: EventClipChange, Clip: clip})
	v.scheduleFit(v.cfg.SettleDelay)
}

func (v *Viewport) onRecordingChange(recording bool) {
	if fn := v.cfg.Callbacks.OnRecordingChange; fn != nil {
		fn(recording)
	}
	v.emit(ViewportEvent{Type: EventRecordingChange, Recording: recording})
}

func (v *Viewport) raiseNotice(msg string) {
	v.notice = msg
	if fn := v.cfg.Callbacks.OnNotice; fn != nil {
		fn(msg)
	}
	v.emit(ViewportEvent{Type: EventNotice, Message: msg})
}

func (v *Viewport) emit(e ViewportEvent) {
	if v.cfg.Events == nil {
		return
	}
	e.Asset = v.cfg.Asset.ID
	e.Mode = v.cfg.Mode
	v.cfg.Events.EmitEvent(e)
}

// scheduleFit replaces any pending camera fit with one after d.
func (v *Viewport) scheduleFit(d time.Duration) {
	v.fitTimer.Cancel()
	v.fitTimer = v.sched.after(d, v.fit)
}

// fit places the camera on the current pose bounds and reveals the
// canvas after the first fit.
func (v *Viewport) fit() {
	v.fitTimer = TimerHandle{}
	if bounds, ok := v.binding.Bounds(); ok {
		if f, ok := FitCamera(bounds, v.rect.Width, v.rect.Height, v.cfg.FitDamping); ok {
			v.camera.ApplyFrame(f)
		}
	}
	if !v.visible {
		v.visible = true
		v.fade = tweenAlpha(&v.shown, 1, FadeIn)
	}
}

// --- Gestures ---

func (v *Viewport) gestureState() GestureState {
	return GestureState{
		Lock:     v.lock,
		Touch:    v.bp.Touch,
		Autoplay: v.seq.Autoplay(),
		Zoom:     v.zoom,
		Pan:      v.pan,
	}
}

func (v *Viewport) applyIntent(in Intent) {
	switch in.Kind {
	case IntentPan:
		v.setPan(in.Pan)
	case IntentZoom:
		v.setZoom(in.Zoom)
	case IntentAdvance:
		v.seq.Advance()
	}
}

func (v *Viewport) setZoom(z float64) {
	if z == v.zoom {
		return
	}
	v.zoom = z
	v.transform = tweenTransform(&v.shown, v.zoom, v.pan)
	if fn := v.cfg.Callbacks.OnZoomChange; fn != nil {
		fn(z)
	}
	v.emit(ViewportEvent{Type: EventZoomChange, Zoom: z})
}

func (v *Viewport) setPan(p Vec2) {
	if p == v.pan {
		return
	}
	v.pan = p
	v.transform = tweenTransform(&v.shown, v.zoom, v.pan)
	if fn := v.cfg.Callbacks.OnPanChange; fn != nil {
		fn(p)
	}
	v.emit(ViewportEvent{Type: EventPanChange, Pan: p})
}

func (v *Viewport) resetView() {
	v.setZoom(DefaultZoom)
	v.setPan(Vec2{})
}

// --- Host controls ---

// SetLock sets the lock flag. Locking resets zoom and pan.
func (v *Viewport) SetLock(on bool) {
	v.lock = on
	if on {
		v.resetView()
	}
}

// SetAutoplay turns autoplay on or off.
func (v *Viewport) SetAutoplay(on bool) {
	v.seq.SetAutoplay(on)
}

// SetFullscreen switches between the fullscreen and windowed layouts.
func (v *Viewport) SetFullscreen(on bool) {
	v.fullscreen = on
}

// SetReset resets zoom and pan whenever n differs from the last value
// passed, then refits the camera after the settle delay. Hosts bump a
// counter to request a reset.
func (v *Viewport) SetReset(n int) {
	if n == v.reset {
		return
	}
	v.reset = n
	v.resetView()
	if v.binding.Ready() {
		v.scheduleFit(v.cfg.SettleDelay)
	}
}

// Resize changes the viewport size. Crossing a responsive breakpoint
// refits the camera after the settle delay; entering the touch form
// factor resets zoom and pan.
func (v *Viewport) Resize(w, h int) {
	v.rect.Width, v.rect.Height = float64(w), float64(h)
	v.camera.SetViewport(Rect{Width: float64(w), Height: float64(h)})

	bp := BreakpointFor(w)
	if bp == v.bp {
		return
	}
	v.bp = bp
	if bp.Touch {
		v.gesture.Cancel()
		v.resetView()
	}
	if v.binding.Ready() {
		v.scheduleFit(v.cfg.SettleDelay)
	}
}

// Move places the viewport at (x, y) on screen.
func (v *Viewport) Move(x, y float64) {
	v.rect.X, v.rect.Y = x, y
}

// Select plays clip if it is available and not already playing.
func (v *Viewport) Select(clip string) bool {
	return v.seq.Select(clip)
}

// Advance performs a manual advance, as a click would.
func (v *Viewport) Advance() bool {
	return v.seq.Advance()
}

// Snapshot queues a still capture of the next drawn frame.
func (v *Viewport) Snapshot() {
	v.snapshots++
}

// StartRecording starts recording the canvas. The recording stops by
// itself when the active clip completes.
func (v *Viewport) StartRecording() error {
	return v.recorder.Start(v.ctx, v.captureCanvas())
}

// StopRecording stops the recording and saves it.
func (v *Viewport) StopRecording() error {
	return v.recorder.Stop()
}

func (v *Viewport) captureCanvas() Canvas {
	if v.canvas == nil || !v.binding.Ready() {
		return nil
	}
	return v.canvas
}

// --- Accessors ---

// Zoom returns the logical zoom.
func (v *Viewport) Zoom() float64 { return v.zoom }

// Pan returns the logical pan in screen pixels.
func (v *Viewport) Pan() Vec2 { return v.pan }

// Locked reports whether the lock flag is set.
func (v *Viewport) Locked() bool { return v.lock }

// Autoplay reports whether autoplay is on.
func (v *Viewport) Autoplay() bool { return v.seq.Autoplay() }

// Fullscreen reports whether the fullscreen layout is used.
func (v *Viewport) Fullscreen() bool { return v.fullscreen }

// Mode returns the requested mode.
func (v *Viewport) Mode() Mode { return v.cfg.Mode }

// Pair returns the resolved asset pair.
func (v *Viewport) Pair() AssetPair { return v.pair }

// Clip returns the active clip.
func (v *Viewport) Clip() string { return v.seq.Current() }

// Clips returns the available clips.
func (v *Viewport) Clips() []string { return v.seq.Clips() }

// Recording reports whether a recording is in progress.
func (v *Viewport) Recording() bool { return v.recorder.Recording() }

// State returns the runtime binding state.
func (v *Viewport) State() BindingState { return v.binding.State() }

// Err returns the load error, if loading failed.
func (v *Viewport) Err() error { return v.binding.Err() }

// Camera returns the viewport's camera.
func (v *Viewport) Camera() *Camera { return v.camera }

// Breakpoint returns the active responsive breakpoint.
func (v *Viewport) Breakpoint() Breakpoint { return v.bp }

// TimerStats reports scheduler activity. After Dispose, Pending is zero
// and Scheduled == Fired + Cancelled.
func (v *Viewport) TimerStats() TimerStats { return v.sched.snapshot() }

// Notice returns the most recent user-facing notice.
func (v *Viewport) Notice() string { return v.notice }

// Layout returns the presentation layout for the current width, mode and
// fullscreen flag.
func (v *Viewport) Layout() Layout {
	return Presentation(int(v.rect.Width), v.cfg.Mode, v.fullscreen).WithOffset(v.cfg.Asset.Offset)
}

// Disposed reports whether Dispose has been called.
func (v *Viewport) Disposed() bool { return v.disposed }

// Dispose releases the runtime, discards any recording in progress,
// cancels every timer and removes every subscriber. Safe to call more than
// once.
func (v *Viewport) Dispose() {
	if v.disposed {
		return
	}
	v.recorder.Abort()
	v.seq.Stop()
	v.fitTimer.Cancel()
	v.sched.close()
	v.bus.Clear()
	v.binding.Dispose()
	v.cancel()
	if v.canvas != nil {
		v.canvas.Deallocate()
		v.canvas = nil
	}
	v.injectQueue = nil
	v.disposed = true
	v.log.Debugf("disposed %q", v.cfg.Asset.ID)
}
