package rigview

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// ErrNoCodec is returned when no codec can be negotiated.
var ErrNoCodec = errors.New("rigview: no supported video codec")

// Codec describes one entry of the recording preference list.
type Codec struct {
	// MIME is the container type with codec parameters, e.g.
	// "video/mp4;codecs=avc1.42E01E".
	MIME string
	// Ext is the file extension of the container.
	Ext string
	// Bitrate is the target video bitrate in bits per second.
	Bitrate int
	// FFmpeg names the ffmpeg encoder. Empty selects the container's
	// default encoder.
	FFmpeg string
}

// DefaultCodecs is the recording preference list, best first. The last
// entry is the default the list falls back to.
var DefaultCodecs = []Codec{
	{MIME: "video/mp4;codecs=avc1.42E01E", Ext: "mp4", Bitrate: 12_000_000, FFmpeg: "libx264"},
	{MIME: "video/webm;codecs=vp9", Ext: "webm", Bitrate: 10_000_000, FFmpeg: "libvpx-vp9"},
	{MIME: "video/webm;codecs=vp8", Ext: "webm", Bitrate: 8_000_000, FFmpeg: "libvpx"},
	{MIME: "video/webm", Ext: "webm", Bitrate: 6_000_000},
}

// RecordFPS is the capture rate for recordings.
const RecordFPS = 60

// Encoder turns raw frames into a video file.
type Encoder interface {
	// Supports reports whether the encoder can produce c.
	Supports(c Codec) bool
	// Start opens a session for frames of w x h pixels at fps.
	Start(ctx context.Context, c Codec, w, h, fps int) (EncoderSession, error)
}

// EncoderSession receives the frames of one recording.
type EncoderSession interface {
	// WriteFrame appends one frame of straight-alpha RGBA pixels.
	WriteFrame(rgba []byte) error
	// Finish flushes the session and returns the encoded video.
	Finish() ([]byte, error)
	// Abort discards the session.
	Abort()
}

// NegotiateCodec returns the first codec in prefs the encoder supports.
// When none is supported the last entry, the default, is returned and the
// encoder decides at Start whether it can produce it.
func NegotiateCodec(enc Encoder, prefs []Codec) (Codec, error) {
	if enc == nil || len(prefs) == 0 {
		return Codec{}, ErrNoCodec
	}
	for _, c := range prefs {
		if enc.Supports(c) {
			return c, nil
		}
	}
	return prefs[len(prefs)-1], nil
}

// FFmpegEncoder encodes by piping raw RGBA frames into an ffmpeg process.
type FFmpegEncoder struct {
	// Path is the ffmpeg executable. Defaults to "ffmpeg".
	Path string
	// TempDir holds the output until a session finishes. Defaults to
	// os.TempDir().
	TempDir string

	once     sync.Once
	encoders string
	probeErr error
}

func (e *FFmpegEncoder) bin() string {
	if e.Path == "" {
		return "ffmpeg"
	}
	return e.Path
}

// probe lists the encoders ffmpeg was built with.
func (e *FFmpegEncoder) probe() {
	e.once.Do(func() {
		out, err := exec.Command(e.bin(), "-hide_banner", "-encoders").CombinedOutput()
		if err != nil {
			e.probeErr = fmt.Errorf("rigview: ffmpeg -encoders: %w", err)
			return
		}
		e.encoders = string(out)
	})
}

// Supports implements Encoder.
func (e *FFmpegEncoder) Supports(c Codec) bool {
	e.probe()
	if e.probeErr != nil {
		return false
	}
	if c.FFmpeg == "" {
		return true
	}
	for _, line := range strings.Split(e.encoders, "\n") {
		fields := strings.Fields(line)
		if len(fields) >= 2 && fields[1] == c.FFmpeg {
			return true
		}
	}
	return false
}

// Start implements Encoder.
func (e *FFmpegEncoder) Start(ctx context.Context, c Codec, w, h, fps int) (EncoderSession, error) {
	e.probe()
	if e.probeErr != nil {
		return nil, e.probeErr
	}
	if w <= 0 || h <= 0 {
		return nil, ErrNoCanvas
	}
	tmp, err := os.CreateTemp(e.TempDir, "rigview-*."+c.Ext)
	if err != nil {
		return nil, fmt.Errorf("rigview: temp file: %w", err)
	}
	out := tmp.Name()
	tmp.Close()

	ctx, cancel := context.WithCancel(ctx)
	cmd := exec.CommandContext(ctx, e.bin(), buildFFmpegArgs(c, w, h, fps, out)...)
	stdin, err := cmd.StdinPipe()
	if err != nil {
		cancel()
		os.Remove(out)
		return nil, fmt.Errorf("rigview: stdin pipe: %w", err)
	}
	s := &ffmpegSession{cmd: cmd, stdin: stdin, out: out, cancel: cancel, frameSize: w * h * 4}
	cmd.Stderr = &s.stderr
	if err := cmd.Start(); err != nil {
		cancel()
		os.Remove(out)
		return nil, fmt.Errorf("rigview: ffmpeg start: %w", err)
	}
	return s, nil
}

func buildFFmpegArgs(c Codec, w, h, fps int, out string) []string {
	args := []string{
		"-y", "-hide_banner", "-loglevel", "error",
		"-f", "rawvideo",
		"-pixel_format", "rgba",
		"-video_size", fmt.Sprintf("%dx%d", w, h),
		"-framerate", fmt.Sprintf("%d", fps),
		"-i", "-",
	}
	if c.FFmpeg != "" {
		args = append(args, "-c:v", c.FFmpeg)
	}
	if c.Bitrate > 0 {
		args = append(args, "-b:v", fmt.Sprintf("%dk", c.Bitrate/1000))
	}
	// yuv420p needs even dimensions.
	args = append(args, "-vf", "pad=ceil(iw/2)*2:ceil(ih/2)*2", "-pix_fmt", "yuv420p", out)
	return args
}

type ffmpegSession struct {
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stderr    bytes.Buffer
	out       string
	cancel    context.CancelFunc
	frameSize int
	done      bool
}

func (s *ffmpegSession) WriteFrame(rgba []byte) error {
	if s.done {
		return errors.New("rigview: session finished")
	}
	if len(rgba) != s.frameSize {
		return fmt.Errorf("rigview: frame is %d bytes, want %d", len(rgba), s.frameSize)
	}
	if _, err := s.stdin.Write(rgba); err != nil {
		return fmt.Errorf("rigview: write frame: %w", err)
	}
	return nil
}

func (s *ffmpegSession) Finish() ([]byte, error) {
	if s.done {
		return nil, errors.New("rigview: session finished")
	}
	s.done = true
	defer s.cancel()
	defer os.Remove(s.out)

	s.stdin.Close()
	if err := s.cmd.Wait(); err != nil {
		return nil, fmt.Errorf("rigview: ffmpeg: %w: %s", err, strings.TrimSpace(s.stderr.String()))
	}
	data, err := os.ReadFile(s.out)
	if err != nil {
		return nil, fmt.Errorf("rigview: read recording: %w", err)
	}
	return data, nil
}

func (s *ffmpegSession) Abort() {
	if s.done {
		return
	}
	s.done = true
	s.stdin.Close()
	s.cancel()
	_ = s.cmd.Wait()
	os.Remove(s.out)
}
