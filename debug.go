package rigview

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"
)

// logger writes warnings through a *log.Logger and, when debug is on,
// verbose diagnostics to the same destination.
type logger struct {
	out   *log.Logger
	debug bool
}

// newLogger wraps l. A nil l logs to stderr with the standard flags.
func newLogger(l *log.Logger, debug bool) *logger {
	if l == nil {
		l = log.New(os.Stderr, "", log.LstdFlags)
	}
	return &logger{out: l, debug: debug}
}

// discardLogger drops everything. Used by tests that exercise failure paths.
func discardLogger() *logger {
	return &logger{out: log.New(io.Discard, "", 0)}
}

// Printf logs a warning.
func (l *logger) Printf(format string, args ...any) {
	l.out.Printf("rigview: "+format, args...)
}

// Debugf logs only when debug mode is enabled.
func (l *logger) Debugf(format string, args ...any) {
	if !l.debug {
		return
	}
	l.out.Printf("[rigview] "+format, args...)
}

// debugStats holds per-frame timings and scheduler counters. Only populated
// when the viewport runs in debug mode.
type debugStats struct {
	updateTime  time.Duration
	drawTime    time.Duration
	timers      TimerStats
	subscribers int
}

// debugReportInterval is how many frames pass between stat lines.
const debugReportInterval = 120

// debugLog prints frame stats every debugReportInterval frames.
func (v *Viewport) debugLog(stats debugStats) {
	if !v.log.debug {
		return
	}
	v.frames++
	if v.frames%debugReportInterval != 0 {
		return
	}
	v.log.Debugf("update: %v | draw: %v | clip: %q | zoom: %.2f",
		stats.updateTime, stats.drawTime, v.seq.Current(), v.zoom)
	v.log.Debugf("timers: %d pending, %d fired, %d cancelled | subscribers: %d",
		stats.timers.Pending, stats.timers.Fired, stats.timers.Cancelled, stats.subscribers)
}

// debugCheckDisposed panics with a descriptive message when a disposed
// viewport is driven. Only called in debug mode.
func debugCheckDisposed(v *Viewport, op string) {
	if v.disposed {
		panic(fmt.Sprintf("rigview debug: %s on disposed viewport %q", op, v.cfg.Asset.ID))
	}
}
