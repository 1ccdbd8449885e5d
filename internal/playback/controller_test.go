package playback

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/ivlev/storyreel/internal/story"
)

type fakeTimer struct {
	d       time.Duration
	f       func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

type fakeClock struct {
	timers []*fakeTimer
}

func (c *fakeClock) AfterFunc(d time.Duration, f func()) Timer {
	t := &fakeTimer{d: d, f: f}
	c.timers = append(c.timers, t)
	return t
}

func (c *fakeClock) live() []*fakeTimer {
	var out []*fakeTimer
	for _, t := range c.timers {
		if !t.stopped && !t.fired {
			out = append(out, t)
		}
	}
	return out
}

// fire expires the single live timer.
func (c *fakeClock) fire(t *testing.T) {
	t.Helper()
	live := c.live()
	if len(live) != 1 {
		t.Fatalf("Expected exactly one live timer, got %d", len(live))
	}
	live[0].fired = true
	live[0].f()
}

func sequence(durations ...int) []story.Slide {
	slides := make([]story.Slide, len(durations))
	for i, d := range durations {
		slides[i] = story.Slide{ID: fmt.Sprintf("s%d", i), Type: story.TypeBio, Duration: d}
	}
	return slides
}

func newTestController(t *testing.T, durations ...int) (*Controller, *fakeClock) {
	t.Helper()
	clock := &fakeClock{}
	c, err := New(sequence(durations...), WithClock(clock))
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return c, clock
}

func TestNewRejectsEmptyAndInvalid(t *testing.T) {
	if _, err := New(nil); !errors.Is(err, ErrEmptySequence) {
		t.Errorf("Expected ErrEmptySequence, got %v", err)
	}
	if _, err := New(sequence(1000, 0)); err == nil {
		t.Error("Expected error for zero duration")
	}
}

func TestInitialState(t *testing.T) {
	c, clock := newTestController(t, 1000, 2000)

	snap := c.Snapshot()
	if snap.Index != 0 || !snap.IsPlaying || snap.HasStarted {
		t.Errorf("Unexpected initial snapshot: %+v", snap)
	}
	if snap.State != NotStarted {
		t.Errorf("Expected NotStarted, got %s", snap.State)
	}
	if len(clock.live()) != 0 {
		t.Error("No timer may run before Start")
	}
}

func TestStartArmsTimerForCurrentSlide(t *testing.T) {
	c, clock := newTestController(t, 7000, 2000)
	c.Start()

	if c.State() != Playing {
		t.Fatalf("Expected Playing, got %s", c.State())
	}
	live := clock.live()
	if len(live) != 1 || live[0].d != 7000*time.Millisecond {
		t.Fatalf("Expected one 7s timer, got %+v", live)
	}

	c.Start()
	if len(clock.timers) != 1 {
		t.Error("second Start must not re-arm")
	}
}

func TestTimerExpiryAdvances(t *testing.T) {
	c, clock := newTestController(t, 1000, 2000, 3000)
	c.Start()

	clock.fire(t)
	if got := c.Snapshot().Index; got != 1 {
		t.Fatalf("Expected index 1, got %d", got)
	}
	if d := clock.live()[0].d; d != 2000*time.Millisecond {
		t.Errorf("Expected timer re-armed with 2s, got %s", d)
	}

	clock.fire(t)
	clock.fire(t)
	snap := c.Snapshot()
	if snap.Index != 2 || snap.State != Ended || snap.IsPlaying {
		t.Errorf("Expected Ended at last slide, got %+v", snap)
	}
	if len(clock.live()) != 0 {
		t.Error("No timer may be live once Ended")
	}
}

func TestAdvanceAtLastIndex(t *testing.T) {
	c, _ := newTestController(t, 1000, 1000)
	c.Start()
	c.Advance()
	c.Advance()
	c.Advance()

	snap := c.Snapshot()
	if snap.Index != 1 {
		t.Errorf("index overran: %d", snap.Index)
	}
	if snap.IsPlaying {
		t.Error("Expected isPlaying=false at end")
	}
	if snap.State != Ended {
		t.Errorf("Expected Ended, got %s", snap.State)
	}
}

func TestRetreatAtZeroIsNoop(t *testing.T) {
	c, clock := newTestController(t, 1000, 1000)
	c.Start()
	before := c.Snapshot()

	c.Retreat()

	after := c.Snapshot()
	if after.Index != 0 || after.Version != before.Version {
		t.Errorf("Retreat at 0 changed state: %+v -> %+v", before, after)
	}
	if len(clock.timers) != 1 {
		t.Error("Retreat at 0 must not re-arm the timer")
	}
}

func TestRetreat(t *testing.T) {
	c, _ := newTestController(t, 1000, 1000, 1000)
	c.Start()
	c.Advance()
	c.Advance()
	c.Retreat()
	if got := c.Snapshot().Index; got != 1 {
		t.Errorf("Expected index 1, got %d", got)
	}
}

func TestJumpTo(t *testing.T) {
	c, clock := newTestController(t, 1000, 2000, 3000, 4000)
	c.Start()
	c.TogglePlay()

	for i := 0; i < c.Len(); i++ {
		if err := c.JumpTo(i); err != nil {
			t.Fatalf("JumpTo(%d) failed: %v", i, err)
		}
		snap := c.Snapshot()
		if snap.Index != i {
			t.Errorf("JumpTo(%d): index %d", i, snap.Index)
		}
		if !snap.IsPlaying {
			t.Errorf("JumpTo(%d) must force playing", i)
		}
		live := clock.live()
		if len(live) != 1 || live[0].d != time.Duration(1000*(i+1))*time.Millisecond {
			t.Errorf("JumpTo(%d): unexpected timers %+v", i, live)
		}
	}
}

func TestJumpToOutOfRange(t *testing.T) {
	c, _ := newTestController(t, 1000, 1000)
	c.Start()
	c.Advance()

	for _, i := range []int{-1, 2, 99} {
		if err := c.JumpTo(i); !errors.Is(err, ErrIndexOutOfRange) {
			t.Errorf("JumpTo(%d): expected ErrIndexOutOfRange, got %v", i, err)
		}
	}
	if got := c.Snapshot().Index; got != 1 {
		t.Errorf("rejected jump changed index to %d", got)
	}
}

func TestTogglePlay(t *testing.T) {
	c, clock := newTestController(t, 1000, 1000)
	c.Start()
	c.Advance()

	c.TogglePlay()
	if c.State() != Paused {
		t.Fatalf("Expected Paused, got %s", c.State())
	}
	if len(clock.live()) != 0 {
		t.Error("Pause must cancel the timer")
	}
	if c.Snapshot().Index != 1 {
		t.Error("Toggle must not move the index")
	}

	c.TogglePlay()
	if c.State() != Playing {
		t.Fatalf("Expected Playing, got %s", c.State())
	}
	if len(clock.live()) != 1 {
		t.Error("Resume must re-arm exactly one timer")
	}
}

func TestRapidAdvanceLeavesOneTimer(t *testing.T) {
	c, clock := newTestController(t, 1000, 1000, 1000, 1000, 1000, 1000)
	c.Start()

	for i := 0; i < 4; i++ {
		c.Advance()
		if n := len(clock.live()); n != 1 {
			t.Fatalf("after %d advances: %d live timers", i+1, n)
		}
	}
	if got := c.Snapshot().Index; got != 4 {
		t.Errorf("Expected index 4, got %d", got)
	}
}

func TestStaleTimerIsIgnored(t *testing.T) {
	c, clock := newTestController(t, 1000, 1000, 1000)
	c.Start()
	stale := clock.live()[0]

	// The user navigates at the same instant the timer fires.
	c.Advance()
	stale.f()

	if got := c.Snapshot().Index; got != 1 {
		t.Errorf("stale timer advanced the index to %d", got)
	}
	if len(clock.live()) != 1 {
		t.Errorf("Expected one live timer, got %d", len(clock.live()))
	}
}

func TestRestartAfterEnded(t *testing.T) {
	c, clock := newTestController(t, 5000, 1000)
	c.Start()
	clock.fire(t)
	clock.fire(t)
	if c.State() != Ended {
		t.Fatalf("Expected Ended, got %s", c.State())
	}

	c.Restart()

	snap := c.Snapshot()
	if snap.Index != 0 || !snap.IsPlaying || snap.State != Playing {
		t.Errorf("Unexpected state after restart: %+v", snap)
	}
	live := clock.live()
	if len(live) != 1 || live[0].d != 5000*time.Millisecond {
		t.Errorf("Expected first slide timer re-armed with 5s, got %+v", live)
	}
}

func TestNavigationBeforeStartArmsNothing(t *testing.T) {
	c, clock := newTestController(t, 1000, 1000)
	c.Advance()
	if err := c.JumpTo(0); err != nil {
		t.Fatal(err)
	}
	if len(clock.timers) != 0 {
		t.Error("timers armed before Start")
	}
	if c.State() != NotStarted {
		t.Errorf("Expected NotStarted, got %s", c.State())
	}
}

func TestCloseStopsTimer(t *testing.T) {
	c, clock := newTestController(t, 1000, 1000)
	c.Start()
	armed := clock.live()[0]
	c.Close()

	if len(clock.live()) != 0 {
		t.Error("Close must stop the live timer")
	}
	armed.f()
	if c.Snapshot().Index != 0 {
		t.Error("timer after Close moved the index")
	}
}

func TestObserverSeesEveryChange(t *testing.T) {
	var seen []Snapshot
	clock := &fakeClock{}
	c, err := New(sequence(1000, 1000), WithClock(clock), WithObserver(func(s Snapshot) {
		seen = append(seen, s)
	}))
	if err != nil {
		t.Fatal(err)
	}

	c.Start()
	clock.fire(t)
	c.Retreat()

	if len(seen) != 3 {
		t.Fatalf("Expected 3 notifications, got %d", len(seen))
	}
	if seen[1].Index != 1 || seen[2].Index != 0 {
		t.Errorf("Unexpected notifications: %+v", seen)
	}
	if seen[0].NextID != "s1" || seen[1].NextID != "" {
		t.Errorf("Unexpected next ids: %q %q", seen[0].NextID, seen[1].NextID)
	}
}

func TestRealClockAdvances(t *testing.T) {
	done := make(chan Snapshot, 4)
	c, err := New(sequence(10, 10), WithObserver(func(s Snapshot) { done <- s }))
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	c.Start()
	<-done // start

	select {
	case s := <-done:
		if s.Index != 1 {
			t.Errorf("Expected index 1, got %d", s.Index)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timer never fired")
	}
}
