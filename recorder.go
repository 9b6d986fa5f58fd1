package rigview

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ErrRecording is returned when a recording is already in progress.
var ErrRecording = errors.New("rigview: already recording")

// Recorder captures canvas frames into one video per recording. A
// recording restarts the active clip without looping and stops by itself
// when that clip completes.
type Recorder struct {
	enc   Encoder
	sink  Sink
	bus   *EventBus
	log   *logger
	prefs []Codec

	session   EncoderSession
	codec     Codec
	recording bool
	size      [2]int
	acc       time.Duration
	frames    int
	frame     []byte

	// Restart replays the active clip with the given loop flag.
	Restart func(loop bool) bool
	// Name returns the file name for a finished recording.
	Name func(ext string) string
	// OnChange is called whenever the recording flag changes.
	OnChange func(recording bool)
	// OnNotice receives user-facing failure messages.
	OnNotice func(msg string)
}

// NewRecorder creates a recorder that negotiates from DefaultCodecs.
func NewRecorder(enc Encoder, sink Sink, bus *EventBus, log *logger) *Recorder {
	if log == nil {
		log = newLogger(nil, false)
	}
	return &Recorder{enc: enc, sink: sink, bus: bus, log: log, prefs: DefaultCodecs}
}

// Recording reports whether a recording is in progress.
func (r *Recorder) Recording() bool { return r.recording }

// Codec returns the codec of the current or last recording.
func (r *Recorder) Codec() Codec { return r.codec }

// Frames returns the number of frames written to the current or last
// recording.
func (r *Recorder) Frames() int { return r.frames }

// Start begins a recording of c. A missing canvas is reported through
// OnNotice and leaves the recorder untouched.
func (r *Recorder) Start(ctx context.Context, c Canvas) error {
	if r.recording {
		return ErrRecording
	}
	if c == nil || c.Bounds().Empty() {
		r.notice("Nothing to record yet")
		return ErrNoCanvas
	}
	codec, err := NegotiateCodec(r.enc, r.prefs)
	if err != nil {
		r.notice("Recording is not supported")
		return err
	}
	b := c.Bounds()
	session, err := r.enc.Start(ctx, codec, b.Dx(), b.Dy(), RecordFPS)
	if err != nil {
		r.notice("Could not start recording")
		r.log.Printf("recording start: %v", err)
		return fmt.Errorf("rigview: start recording: %w", err)
	}

	r.session = session
	r.codec = codec
	r.size = [2]int{b.Dx(), b.Dy()}
	r.acc = 0
	r.frames = 0
	r.recording = true
	if r.Restart != nil {
		r.Restart(false)
	}
	r.bus.Subscribe(SubscriberRecording, func(string) {
		if err := r.Stop(); err != nil {
			r.log.Printf("recording auto stop: %v", err)
		}
	})
	r.changed()
	return nil
}

// Capture writes the canvas as the next frame when at least one frame
// interval has elapsed since the previous one. The first call after Start
// always writes a frame.
func (r *Recorder) Capture(c Canvas, dt time.Duration) {
	if !r.recording || c == nil {
		return
	}
	interval := time.Second / RecordFPS
	if r.frames > 0 {
		r.acc += dt
		if r.acc < interval {
			return
		}
		r.acc -= interval
		if r.acc > interval {
			r.acc = 0
		}
	}
	b := c.Bounds()
	if b.Dx() != r.size[0] || b.Dy() != r.size[1] {
		// Canvas resized mid-recording; keep the original frame size.
		return
	}
	if len(r.frame) != b.Dx()*b.Dy()*4 {
		r.frame = make([]byte, b.Dx()*b.Dy()*4)
	}
	c.ReadPixels(r.frame)
	unpremultiply(r.frame)
	if err := r.session.WriteFrame(r.frame); err != nil {
		r.log.Printf("recording frame: %v", err)
		r.Abort()
		r.notice("Recording failed")
		return
	}
	r.frames++
}

// Stop finishes the recording and saves one video through the sink. The
// recording flag is cleared even when finishing fails.
func (r *Recorder) Stop() error {
	if !r.recording {
		return nil
	}
	session := r.session
	r.session = nil
	r.recording = false
	r.bus.Unsubscribe(SubscriberRecording)
	defer func() {
		if r.Restart != nil {
			r.Restart(true)
		}
		r.changed()
	}()

	data, err := session.Finish()
	if err != nil {
		r.notice("Could not finish recording")
		return fmt.Errorf("rigview: finish recording: %w", err)
	}
	name := "recording." + r.codec.Ext
	if r.Name != nil {
		name = r.Name(r.codec.Ext)
	}
	if r.sink == nil {
		return nil
	}
	if err := r.sink.Save(name, data); err != nil {
		r.notice("Could not save recording")
		return fmt.Errorf("rigview: save recording: %w", err)
	}
	return nil
}

// Abort discards the recording without saving.
func (r *Recorder) Abort() {
	if !r.recording {
		return
	}
	session := r.session
	r.session = nil
	r.recording = false
	r.bus.Unsubscribe(SubscriberRecording)
	session.Abort()
	if r.Restart != nil {
		r.Restart(true)
	}
	r.changed()
}

func (r *Recorder) changed() {
	if r.OnChange != nil {
		r.OnChange(r.recording)
	}
}

func (r *Recorder) notice(msg string) {
	r.log.Debugf("notice: %s", msg)
	if r.OnNotice != nil {
		r.OnNotice(msg)
	}
}
