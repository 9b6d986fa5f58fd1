package rigview

import (
	"testing"
	"time"
)

func TestSchedulerFiresInDueOrder(t *testing.T) {
	var s scheduler
	var order []int
	s.after(30*time.Millisecond, func() { order = append(order, 3) })
	s.after(10*time.Millisecond, func() { order = append(order, 1) })
	s.after(20*time.Millisecond, func() { order = append(order, 2) })

	s.advance(5 * time.Millisecond)
	if len(order) != 0 {
		t.Fatalf("fired early: %v", order)
	}
	s.advance(25 * time.Millisecond)
	if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
		t.Errorf("order = %v, want [1 2 3]", order)
	}
}

func TestSchedulerCancel(t *testing.T) {
	var s scheduler
	fired := false
	h := s.after(10*time.Millisecond, func() { fired = true })
	if !h.Active() {
		t.Error("handle should be active")
	}
	if !h.Cancel() {
		t.Error("first Cancel should report true")
	}
	if h.Cancel() {
		t.Error("second Cancel should report false")
	}
	s.advance(time.Second)
	if fired {
		t.Error("cancelled timer fired")
	}
	if h.Active() {
		t.Error("handle should be inactive")
	}
}

func TestSchedulerZeroHandle(t *testing.T) {
	var h TimerHandle
	if h.Cancel() || h.Active() {
		t.Error("zero handle should be inert")
	}
}

func TestSchedulerCallbackSchedules(t *testing.T) {
	var s scheduler
	n := 0
	var tick func()
	tick = func() {
		n++
		if n < 3 {
			s.after(10*time.Millisecond, tick)
		}
	}
	s.after(10*time.Millisecond, tick)
	for i := 0; i < 5; i++ {
		s.advance(10 * time.Millisecond)
	}
	if n != 3 {
		t.Errorf("n = %d, want 3", n)
	}
}

func TestSchedulerCallbackCancelsSibling(t *testing.T) {
	var s scheduler
	var other TimerHandle
	fired := false
	s.after(10*time.Millisecond, func() { other.Cancel() })
	other = s.after(10*time.Millisecond, func() { fired = true })
	s.advance(10 * time.Millisecond)
	if fired {
		t.Error("sibling should have been cancelled")
	}
}

func TestSchedulerCloseAccounting(t *testing.T) {
	var s scheduler
	s.after(10*time.Millisecond, func() {})
	s.after(20*time.Millisecond, func() {})
	h := s.after(30*time.Millisecond, func() {})
	s.advance(15 * time.Millisecond)
	h.Cancel()
	s.close()

	if late := s.after(time.Millisecond, func() {}); late.Active() {
		t.Error("closed scheduler accepted a timer")
	}
	s.advance(time.Second)

	st := s.snapshot()
	if st.Pending != 0 {
		t.Errorf("Pending = %d, want 0", st.Pending)
	}
	if st.Scheduled != st.Fired+st.Cancelled {
		t.Errorf("Scheduled %d != Fired %d + Cancelled %d", st.Scheduled, st.Fired, st.Cancelled)
	}
	if st.Scheduled != 3 || st.Fired != 1 || st.Cancelled != 2 {
		t.Errorf("stats = %+v", st)
	}
}
