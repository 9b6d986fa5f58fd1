package rigview

import "time"

// TimerHandle allows cancelling a timer scheduled on a viewport. The zero
// value is a valid handle that cancels nothing.
type TimerHandle struct {
	id uint64
	s  *scheduler
}

// Cancel stops the timer if it has not fired yet. It reports whether a
// pending timer was removed. Safe to call more than once.
func (h TimerHandle) Cancel() bool {
	if h.s == nil || h.id == 0 {
		return false
	}
	return h.s.cancel(h.id)
}

// Active reports whether the timer is still pending.
func (h TimerHandle) Active() bool {
	if h.s == nil || h.id == 0 {
		return false
	}
	for i := range h.s.timers {
		if h.s.timers[i].id == h.id {
			return true
		}
	}
	return false
}

type timer struct {
	id  uint64
	due time.Duration
	fn  func()
}

// TimerStats counts scheduler activity. Every scheduled timer ends up
// either fired or cancelled, so for an idle scheduler
// Scheduled == Fired + Cancelled.
type TimerStats struct {
	Scheduled int
	Fired     int
	Cancelled int
	Pending   int
}

// scheduler runs deferred callbacks against game-loop time. It is advanced
// explicitly from Update so a timer can never fire on another goroutine or
// after its owner has been disposed.
type scheduler struct {
	now    time.Duration
	timers []timer
	nextID uint64
	stats  TimerStats
	closed bool
}

// after schedules fn to run once d has elapsed. Scheduling on a closed
// scheduler returns an inert handle.
func (s *scheduler) after(d time.Duration, fn func()) TimerHandle {
	if s.closed {
		return TimerHandle{}
	}
	s.nextID++
	s.timers = append(s.timers, timer{id: s.nextID, due: s.now + d, fn: fn})
	s.stats.Scheduled++
	return TimerHandle{id: s.nextID, s: s}
}

func (s *scheduler) cancel(id uint64) bool {
	for i := range s.timers {
		if s.timers[i].id == id {
			copy(s.timers[i:], s.timers[i+1:])
			s.timers[len(s.timers)-1] = timer{}
			s.timers = s.timers[:len(s.timers)-1]
			s.stats.Cancelled++
			return true
		}
	}
	return false
}

// advance moves the clock forward and fires due timers in due order.
// Callbacks may schedule or cancel other timers.
func (s *scheduler) advance(dt time.Duration) {
	if s.closed {
		return
	}
	s.now += dt
	for {
		idx := -1
		for i := range s.timers {
			if s.timers[i].due <= s.now && (idx < 0 || s.timers[i].due < s.timers[idx].due) {
				idx = i
			}
		}
		if idx < 0 {
			return
		}
		t := s.timers[idx]
		copy(s.timers[idx:], s.timers[idx+1:])
		s.timers[len(s.timers)-1] = timer{}
		s.timers = s.timers[:len(s.timers)-1]
		s.stats.Fired++
		t.fn()
		if s.closed {
			return
		}
	}
}

// close cancels every pending timer and rejects new ones.
func (s *scheduler) close() {
	for len(s.timers) > 0 {
		s.cancel(s.timers[0].id)
	}
	s.closed = true
}

func (s *scheduler) snapshot() TimerStats {
	st := s.stats
	st.Pending = len(s.timers)
	return st
}
