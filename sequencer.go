package rigview

import (
	"slices"
	"time"
)

// Clip names with special meaning for the idle cycle.
const (
	ClipIdle   = "idle"
	ClipMotion = "motion"
)

// Autoplay timing.
const (
	// AutoplayCompleteDelay is the pause between a clip completing and the
	// next clip starting under autoplay.
	AutoplayCompleteDelay = 100 * time.Millisecond
	// AutoplayFallback advances autoplay when the runtime reports no
	// completion events.
	AutoplayFallback = 2 * time.Second
)

// Player is the playback surface the sequencer drives. Binding implements
// it.
type Player interface {
	SetClip(name string, loop bool) bool
	HasCompletion() bool
}

// Sequencer decides which clip is active and how playback moves between
// clips. Standard and Restricted modes cycle between "idle" and "motion";
// Cutscene and AlternateGuest step through every clip. Autoplay overrides
// manual advances and steps through every clip on completion, or on a
// fallback timer when the runtime reports no completions.
type Sequencer struct {
	mode     Mode
	clips    []string
	current  string
	autoplay bool

	player Player
	sched  *scheduler
	bus    *EventBus

	autoTimer TimerHandle

	// OnChange is called after every applied transition.
	OnChange func(clip string)
}

// NewSequencer creates a sequencer for mode. sched and bus belong to the
// owning viewport.
func NewSequencer(mode Mode, player Player, sched *scheduler, bus *EventBus) *Sequencer {
	return &Sequencer{mode: mode, player: player, sched: sched, bus: bus}
}

// Current returns the active clip name.
func (s *Sequencer) Current() string { return s.current }

// Clips returns the available clips.
func (s *Sequencer) Clips() []string { return slices.Clone(s.clips) }

// Index returns the position of the active clip, or -1.
func (s *Sequencer) Index() int { return slices.Index(s.clips, s.current) }

// Autoplay reports whether autoplay is on.
func (s *Sequencer) Autoplay() bool { return s.autoplay }

// InitialClip picks the first clip to play: the preselected name if
// available, then "idle", then "motion", then the descriptor hint, then the
// first clip.
func InitialClip(clips []string, preselected, hint string) string {
	for _, name := range []string{preselected, ClipIdle, ClipMotion, hint} {
		if name != "" && slices.Contains(clips, name) {
			return name
		}
	}
	if len(clips) > 0 {
		return clips[0]
	}
	return ""
}

// Start installs the clip list and plays the initial clip, looping. It
// returns the clip chosen. OnChange is not called; the caller handles the
// initial placement.
func (s *Sequencer) Start(clips []string, preselected, hint string) string {
	s.clips = slices.Clone(clips)
	first := InitialClip(s.clips, preselected, hint)
	s.current = first
	if first != "" {
		s.player.SetClip(first, true)
	}
	if s.autoplay {
		s.arm()
	}
	return s.current
}

// NextManual returns the clip a manual advance moves to.
func (s *Sequencer) NextManual() string {
	if len(s.clips) == 0 {
		return ""
	}
	if s.mode.FullCycle() {
		return s.nextSequential()
	}
	has := func(n string) bool { return slices.Contains(s.clips, n) }
	switch {
	case s.current == ClipIdle && has(ClipMotion):
		return ClipMotion
	case s.current == ClipMotion && has(ClipIdle):
		return ClipIdle
	case has(ClipIdle):
		return ClipIdle
	case has(ClipMotion):
		return ClipMotion
	default:
		return s.clips[0]
	}
}

func (s *Sequencer) nextSequential() string {
	if len(s.clips) == 0 {
		return ""
	}
	i := slices.Index(s.clips, s.current)
	return s.clips[(i+1)%len(s.clips)]
}

// Advance performs a manual advance. It is ignored while autoplay is on.
// It reports whether a transition happened.
func (s *Sequencer) Advance() bool {
	if s.autoplay {
		return false
	}
	return s.transition(s.NextManual())
}

// Select switches to name if it is available and differs from the active
// clip.
func (s *Sequencer) Select(name string) bool {
	if name == s.current || !slices.Contains(s.clips, name) {
		return false
	}
	return s.transition(name)
}

// Restart replays the active clip with the given loop flag without
// counting as a transition.
func (s *Sequencer) Restart(loop bool) bool {
	if s.current == "" {
		return false
	}
	return s.player.SetClip(s.current, loop)
}

// SetAutoplay turns autoplay on or off. Turning it on with a single clip
// only records the flag.
func (s *Sequencer) SetAutoplay(on bool) {
	if s.autoplay == on {
		return
	}
	s.autoplay = on
	s.disarm()
	if on {
		s.arm()
	}
}

// Stop cancels the pending autoplay timer and removes the autoplay
// subscriber.
func (s *Sequencer) Stop() {
	s.disarm()
}

func (s *Sequencer) arm() {
	if len(s.clips) <= 1 {
		return
	}
	if s.player.HasCompletion() {
		s.bus.Subscribe(SubscriberAutoplay, s.onComplete)
		return
	}
	s.autoTimer = s.sched.after(AutoplayFallback, s.autoAdvance)
}

func (s *Sequencer) disarm() {
	s.autoTimer.Cancel()
	s.autoTimer = TimerHandle{}
	s.bus.Unsubscribe(SubscriberAutoplay)
}

func (s *Sequencer) onComplete(string) {
	if !s.autoplay {
		return
	}
	s.autoTimer.Cancel()
	s.autoTimer = s.sched.after(AutoplayCompleteDelay, s.autoAdvance)
}

func (s *Sequencer) autoAdvance() {
	s.autoTimer = TimerHandle{}
	if !s.autoplay {
		return
	}
	s.transition(s.nextSequential())
}

// transition applies a clip change. Every applied transition cancels the
// pending autoplay timer, re-arms the fallback when needed, and notifies
// OnChange.
func (s *Sequencer) transition(name string) bool {
	if name == "" {
		return false
	}
	s.autoTimer.Cancel()
	s.autoTimer = TimerHandle{}
	ok := s.player.SetClip(name, true)
	if ok {
		s.current = name
	}
	if s.autoplay && !s.player.HasCompletion() && len(s.clips) > 1 {
		s.autoTimer = s.sched.after(AutoplayFallback, s.autoAdvance)
	}
	if ok && s.OnChange != nil {
		s.OnChange(name)
	}
	return ok
}
