package rigview

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

// Runtime errors. Binding methods swallow these; they are exposed for
// engines and tests.
var (
	ErrNotReady    = errors.New("rigview: runtime not ready")
	ErrUnknownClip = errors.New("rigview: unknown clip")
	ErrDisposed    = errors.New("rigview: runtime disposed")
)

// DefaultSkin is the skin name that is never applied explicitly.
const DefaultSkin = "default"

// Engine loads skeletal assets into playable instances. Load is called on
// a background goroutine and must honor ctx cancellation.
type Engine interface {
	Load(ctx context.Context, src Fetcher, pair AssetPair) (Instance, error)
}

// Instance is a loaded skeleton. Its methods are only called from the game
// loop goroutine, with one exception: an instance whose load is still in
// flight when its Binding is disposed is disposed by the loading goroutine
// once it arrives.
type Instance interface {
	// Clips returns the clip names in authoring order.
	Clips() []string
	// SetClip restarts playback on the named clip.
	SetClip(name string, loop bool) error
	// SetSkin applies a named skin and resets slots to the setup pose.
	SetSkin(name string) error
	// Bounds returns the axis-aligned bounds of the current pose in local
	// animation units.
	Bounds() Rect
	// Update advances playback.
	Update(dt time.Duration)
	// Draw renders the current pose with the given local-to-canvas matrix.
	Draw(dst *ebiten.Image, view [6]float64)
	// Dispose releases all resources held by the instance.
	Dispose()
}

// CompletionSource is implemented by instances that report the end of a
// non-looping clip, or the end of each loop of a looping clip.
type CompletionSource interface {
	OnComplete(fn func(clip string))
}

// BindingState is the lifecycle state of a Binding.
type BindingState uint8

const (
	BindingIdle     BindingState = iota // nothing loaded
	BindingLoading                      // load in flight
	BindingReady                        // instance available
	BindingFailed                       // last load failed
	BindingDisposed                     // disposed; a new Load revives it
)

// LoadEvent is returned by Binding.Poll when a load settles.
type LoadEvent uint8

const (
	LoadPending LoadEvent = iota // nothing settled this poll
	LoadReady                    // the instance became ready
	LoadFailed                   // the load failed; see Err
)

type loadResult struct {
	gen  uint64
	inst Instance
	err  error
}

// Binding owns the lifecycle of at most one engine instance. Loads run on
// a background goroutine and settle on the game loop through Poll. Starting
// a new load fully disposes the previous instance and abandons any load
// still in flight; an abandoned load's instance is disposed by the first
// Poll after it arrives.
type Binding struct {
	engine  Engine
	fetcher Fetcher
	log     *logger

	state   BindingState
	inst    Instance
	clips   []string
	err     error
	gen     uint64
	cancel  context.CancelFunc
	results chan loadResult
	stale   []chan loadResult

	onComplete func(clip string)
	completion bool
}

// NewBinding creates an idle binding.
func NewBinding(engine Engine, fetcher Fetcher, log *logger) *Binding {
	if log == nil {
		log = newLogger(nil, false)
	}
	return &Binding{engine: engine, fetcher: fetcher, log: log}
}

// State returns the binding's lifecycle state.
func (b *Binding) State() BindingState { return b.state }

// Ready reports whether an instance is loaded.
func (b *Binding) Ready() bool { return b.state == BindingReady && b.inst != nil }

// Err returns the error from the last failed load.
func (b *Binding) Err() error { return b.err }

// Clips returns the clip names reported by the instance after load.
func (b *Binding) Clips() []string { return slices.Clone(b.clips) }

// HasClip reports whether the loaded instance has a clip named name.
func (b *Binding) HasClip(name string) bool { return slices.Contains(b.clips, name) }

// HasCompletion reports whether the instance reports clip completion.
func (b *Binding) HasCompletion() bool { return b.Ready() && b.completion }

// OnComplete sets the function that receives clip-complete events from
// the instance.
func (b *Binding) OnComplete(fn func(clip string)) { b.onComplete = fn }

// Load starts loading pair asynchronously. Any current instance is
// disposed first and any load in flight is abandoned.
func (b *Binding) Load(ctx context.Context, pair AssetPair) {
	b.release()

	ctx, cancel := context.WithCancel(ctx)
	b.gen++
	gen := b.gen
	ch := make(chan loadResult, 1)
	b.cancel = cancel
	b.results = ch
	b.state = BindingLoading
	b.err = nil

	engine, fetcher := b.engine, b.fetcher
	go func() {
		if engine == nil {
			ch <- loadResult{gen: gen, err: errors.New("rigview: no engine configured")}
			return
		}
		inst, err := engine.Load(ctx, fetcher, pair)
		if err == nil && inst == nil {
			err = errors.New("rigview: engine returned no instance")
		}
		ch <- loadResult{gen: gen, inst: inst, err: err}
	}()
}

// Poll applies a settled load, if any. It must be called from the game
// loop.
func (b *Binding) Poll() LoadEvent {
	b.drainStale()
	if b.results == nil {
		return LoadPending
	}
	var r loadResult
	select {
	case r = <-b.results:
	default:
		return LoadPending
	}
	b.results = nil
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}

	if r.gen != b.gen {
		if r.inst != nil {
			r.inst.Dispose()
		}
		return LoadPending
	}
	if r.err != nil {
		b.state = BindingFailed
		b.err = fmt.Errorf("rigview: load: %w", r.err)
		b.log.Printf("asset load failed: %v", r.err)
		return LoadFailed
	}

	b.inst = r.inst
	b.state = BindingReady
	b.clips = b.safeClips()
	if src, ok := r.inst.(CompletionSource); ok {
		b.completion = true
		loaded := r.gen
		src.OnComplete(func(clip string) {
			if b.onComplete != nil && b.gen == loaded {
				b.onComplete(clip)
			}
		})
	}
	return LoadReady
}

// SetClip switches the active clip. It reports whether the switch was
// applied; calls on a binding that is not ready, or with an unknown clip
// name, are ignored.
func (b *Binding) SetClip(name string, loop bool) bool {
	if !b.Ready() || !b.HasClip(name) {
		b.log.Debugf("set clip %q ignored (state %d)", name, b.state)
		return false
	}
	return b.guard("set clip", func() error { return b.inst.SetClip(name, loop) })
}

// SetSkin applies a named skin. Empty and "default" names are skipped.
func (b *Binding) SetSkin(name string) bool {
	if name == "" || name == DefaultSkin || !b.Ready() {
		return false
	}
	return b.guard("set skin", func() error { return b.inst.SetSkin(name) })
}

// Bounds returns the current pose bounds.
func (b *Binding) Bounds() (Rect, bool) {
	if !b.Ready() {
		return Rect{}, false
	}
	var r Rect
	ok := b.guard("bounds", func() error {
		r = b.inst.Bounds()
		return nil
	})
	return r, ok && !r.Empty()
}

// Update advances the instance.
func (b *Binding) Update(dt time.Duration) {
	if b.Ready() {
		b.guard("update", func() error {
			b.inst.Update(dt)
			return nil
		})
	}
}

// Draw renders the instance through view.
func (b *Binding) Draw(dst *ebiten.Image, view [6]float64) {
	if b.Ready() {
		b.guard("draw", func() error {
			b.inst.Draw(dst, view)
			return nil
		})
	}
}

// Dispose releases the instance and abandons any load in flight. Safe to
// call more than once.
func (b *Binding) Dispose() {
	b.release()
	b.drainStale()
	// Nothing polls a disposed binding.
	for _, ch := range b.stale {
		go reap(ch)
	}
	b.stale = nil
	b.state = BindingDisposed
}

// release disposes the current instance and abandons the pending load.
func (b *Binding) release() {
	b.gen++
	if b.cancel != nil {
		b.cancel()
		b.cancel = nil
	}
	if ch := b.results; ch != nil {
		b.results = nil
		b.stale = append(b.stale, ch)
	}
	if b.inst != nil {
		inst := b.inst
		b.inst = nil
		b.guard("dispose", func() error {
			inst.Dispose()
			return nil
		})
	}
	b.clips = nil
	b.completion = false
	b.state = BindingIdle
}

// drainStale disposes the instances of abandoned loads that have arrived.
func (b *Binding) drainStale() {
	if len(b.stale) == 0 {
		return
	}
	live := b.stale[:0]
	for _, ch := range b.stale {
		select {
		case r := <-ch:
			if inst := r.inst; inst != nil {
				b.guard("dispose stale", func() error {
					inst.Dispose()
					return nil
				})
			}
		default:
			live = append(live, ch)
		}
	}
	clear(b.stale[len(live):])
	b.stale = live
}

// StaleLoads returns the number of abandoned loads not yet disposed.
func (b *Binding) StaleLoads() int { return len(b.stale) }

// reap waits for an abandoned load and disposes whatever it produced.
func reap(ch <-chan loadResult) {
	if r := <-ch; r.inst != nil {
		r.inst.Dispose()
	}
}

func (b *Binding) safeClips() []string {
	var clips []string
	b.guard("clips", func() error {
		clips = slices.Clone(b.inst.Clips())
		return nil
	})
	return clips
}

// guard runs a runtime call, converting panics and errors into a false
// result. Runtime failures never reach the host.
func (b *Binding) guard(op string, fn func() error) (ok bool) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Debugf("%s: recovered: %v", op, r)
			ok = false
		}
	}()
	if err := fn(); err != nil {
		b.log.Debugf("%s: %v", op, err)
		return false
	}
	return true
}
