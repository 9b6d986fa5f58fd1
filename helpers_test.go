package rigview

import (
	"context"
	"errors"
	"image"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func assertNear(t *testing.T, name string, got, want float64) {
	t.Helper()
	if math.Abs(got-want) > epsilon {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func assertMatrix(t *testing.T, name string, got, want [6]float64) {
	t.Helper()
	for i := range got {
		if math.Abs(got[i]-want[i]) > epsilon {
			t.Errorf("%s[%d] = %v, want %v (full: %v vs %v)", name, i, got[i], want[i], got, want)
		}
	}
}

// --- Fake runtime ---

type fakeInstance struct {
	clips    []string
	bounds   Rect
	current  string
	loop     bool
	skin     string
	calls    []string
	disposed atomic.Int32
	failClip string
	panicky  bool
	updated  time.Duration
}

func (f *fakeInstance) Clips() []string { return f.clips }

func (f *fakeInstance) SetClip(name string, loop bool) error {
	if f.panicky {
		panic("runtime exploded")
	}
	if name == f.failClip {
		return errors.New("clip failed")
	}
	f.current = name
	f.loop = loop
	f.calls = append(f.calls, name)
	return nil
}

func (f *fakeInstance) SetSkin(name string) error {
	f.skin = name
	return nil
}

func (f *fakeInstance) Bounds() Rect {
	if f.panicky {
		panic("runtime exploded")
	}
	return f.bounds
}

func (f *fakeInstance) Update(dt time.Duration)                 { f.updated += dt }
func (f *fakeInstance) Draw(dst *ebiten.Image, view [6]float64) {}
func (f *fakeInstance) Dispose()                                { f.disposed.Add(1) }

// completingInstance reports clip completion.
type completingInstance struct {
	*fakeInstance
	onComplete func(clip string)
}

func (c *completingInstance) OnComplete(fn func(clip string)) { c.onComplete = fn }

// complete fires a completion for the active clip.
func (c *completingInstance) complete() {
	if c.onComplete != nil {
		c.onComplete(c.current)
	}
}

type fakeEngine struct {
	mu         sync.Mutex
	clips      []string
	bounds     Rect
	completion bool
	err        error
	gate       chan struct{}
	pairs      []AssetPair
	made       []*fakeInstance
	last       *completingInstance
}

func newFakeEngine(clips ...string) *fakeEngine {
	return &fakeEngine{
		clips:  clips,
		bounds: Rect{X: -200, Y: 0, Width: 400, Height: 800},
	}
}

func (e *fakeEngine) Load(ctx context.Context, src Fetcher, pair AssetPair) (Instance, error) {
	if e.gate != nil {
		select {
		case <-e.gate:
		case <-ctx.Done():
		}
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.pairs = append(e.pairs, pair)
	if e.err != nil {
		return nil, e.err
	}
	inst := &fakeInstance{clips: append([]string(nil), e.clips...), bounds: e.bounds}
	e.made = append(e.made, inst)
	if e.completion {
		c := &completingInstance{fakeInstance: inst}
		e.last = c
		return c, nil
	}
	return inst, nil
}

func (e *fakeEngine) instances() []*fakeInstance {
	e.mu.Lock()
	defer e.mu.Unlock()
	return append([]*fakeInstance(nil), e.made...)
}

// pollUntilSettled polls the binding until its load settles.
func pollUntilSettled(t *testing.T, b *Binding) LoadEvent {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ev := b.Poll(); ev != LoadPending {
			return ev
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("load did not settle")
	return LoadPending
}

// --- Fake capture ---

type fakeCanvas struct {
	w, h  int
	fill  [4]byte
	reads int
}

func (c *fakeCanvas) Bounds() image.Rectangle { return image.Rect(0, 0, c.w, c.h) }

func (c *fakeCanvas) ReadPixels(pix []byte) {
	c.reads++
	for i := 0; i+3 < len(pix); i += 4 {
		copy(pix[i:i+4], c.fill[:])
	}
}

type fakeSession struct {
	frames   int
	finished bool
	aborted  bool
	failOn   string
}

func (s *fakeSession) WriteFrame(rgba []byte) error {
	if s.failOn == "write" {
		return errors.New("pipe closed")
	}
	s.frames++
	return nil
}

func (s *fakeSession) Finish() ([]byte, error) {
	s.finished = true
	if s.failOn == "finish" {
		return nil, errors.New("encoder crashed")
	}
	return []byte("video"), nil
}

func (s *fakeSession) Abort() { s.aborted = true }

type fakeEncoder struct {
	supported map[string]bool
	startErr  error
	failOn    string
	sessions  []*fakeSession
	started   []Codec
}

func (e *fakeEncoder) Supports(c Codec) bool { return e.supported[c.MIME] }

func (e *fakeEncoder) Start(ctx context.Context, c Codec, w, h, fps int) (EncoderSession, error) {
	if e.startErr != nil {
		return nil, e.startErr
	}
	s := &fakeSession{failOn: e.failOn}
	e.sessions = append(e.sessions, s)
	e.started = append(e.started, c)
	return s, nil
}

type memSink struct {
	names []string
	blobs [][]byte
	err   error
}

func (s *memSink) Save(name string, data []byte) error {
	if s.err != nil {
		return s.err
	}
	s.names = append(s.names, name)
	s.blobs = append(s.blobs, data)
	return nil
}

// --- Viewport harness ---

type nopInput struct{}

func (nopInput) Pointer() (Vec2, bool, bool) { return Vec2{}, false, false }
func (nopInput) Wheel() float64              { return 0 }

type eventLog struct {
	events []ViewportEvent
}

func (l *eventLog) EmitEvent(e ViewportEvent) { l.events = append(l.events, e) }

func (l *eventLog) count(t EventType) int {
	n := 0
	for _, e := range l.events {
		if e.Type == t {
			n++
		}
	}
	return n
}

func testConfig(engine Engine) Config {
	return Config{
		Asset:     AssetDescriptor{ID: "hero", Binary: "hero/hero.skel"},
		Character: "Hero",
		Costume:   "Summer",
		Width:     1500,
		Height:    800,
		Settings:  Settings{Lock: false},
		Engine:    engine,
		Fetcher:   DirFetcher{Root: "."},
		Input:     nopInput{},
		Clock:     func() time.Time { return time.UnixMilli(1700000000000) },
	}
}

// waitLoaded ticks v until its load settles.
func waitLoaded(t *testing.T, v *Viewport) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		v.Tick(0)
		if s := v.State(); s != BindingLoading {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatal("viewport did not load")
}

// run ticks v for d in 10ms steps.
func run(v *Viewport, d time.Duration) {
	for elapsed := time.Duration(0); elapsed < d; elapsed += 10 * time.Millisecond {
		v.Tick(10 * time.Millisecond)
	}
}

func newTestViewport(t *testing.T, engine *fakeEngine, mutate func(*Config)) *Viewport {
	t.Helper()
	cfg := testConfig(engine)
	if mutate != nil {
		mutate(&cfg)
	}
	v := NewViewport(context.Background(), cfg)
	v.log = discardLogger()
	v.binding.log = v.log
	v.recorder.log = v.log
	waitLoaded(t, v)
	return v
}
