package playback

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ivlev/storyreel/internal/story"
)

var (
	ErrEmptySequence   = errors.New("playback: empty sequence")
	ErrIndexOutOfRange = errors.New("playback: index out of range")
)

// Controller owns the playback state of one viewer session. The sequence is
// read, never modified. All transitions are serialized by mu, so a timer
// firing concurrently with user input is handled as one more discrete event.
//
// At most one timer is live at any time. Every transition stops the previous
// timer and bumps gen; a timer that fires with an old gen is ignored.
type Controller struct {
	mu       sync.Mutex
	slides   []story.Slide
	clock    Clock
	onChange func(Snapshot)

	index   int
	playing bool
	started bool
	ended   bool
	closed  bool

	timer   Timer
	gen     uint64
	version uint64
}

type Option func(*Controller)

func WithClock(clock Clock) Option {
	return func(c *Controller) { c.clock = clock }
}

// WithObserver registers fn to receive a snapshot after every state change.
// fn is called outside the controller lock.
func WithObserver(fn func(Snapshot)) Option {
	return func(c *Controller) { c.onChange = fn }
}

// New creates a controller at index 0, playing, not yet started. No timer is
// armed until Start.
func New(slides []story.Slide, opts ...Option) (*Controller, error) {
	if len(slides) == 0 {
		return nil, ErrEmptySequence
	}
	if err := story.ValidateSlides(slides); err != nil {
		return nil, fmt.Errorf("playback: invalid sequence: %w", err)
	}

	c := &Controller{
		slides:  slides,
		clock:   RealClock,
		playing: true,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

func (c *Controller) Start() {
	c.transition(func() bool {
		if c.started {
			return false
		}
		c.started = true
		c.playing = true
		return true
	})
}

// Advance moves to the next slide. At the last slide it stops playback
// instead; the index never passes the end.
func (c *Controller) Advance() {
	c.transition(c.advanceLocked)
}

func (c *Controller) Retreat() {
	c.transition(func() bool {
		if c.index == 0 {
			return false
		}
		c.index--
		c.ended = false
		return true
	})
}

func (c *Controller) TogglePlay() {
	c.transition(func() bool {
		c.playing = !c.playing
		if c.playing {
			c.ended = false
		}
		return true
	})
}

// JumpTo selects slide i directly and resumes playback. An index outside
// the sequence is rejected and leaves the state untouched.
func (c *Controller) JumpTo(i int) error {
	if i < 0 || i >= len(c.slides) {
		return fmt.Errorf("%w: %d not in [0,%d)", ErrIndexOutOfRange, i, len(c.slides))
	}
	c.transition(func() bool {
		c.index = i
		c.playing = true
		c.ended = false
		return true
	})
	return nil
}

func (c *Controller) Restart() {
	c.transition(func() bool {
		c.index = 0
		c.playing = true
		c.ended = false
		return true
	})
}

// Close stops the live timer. The controller ignores timers afterwards.
func (c *Controller) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.stopTimerLocked()
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.stateLocked()
}

func (c *Controller) Len() int {
	return len(c.slides)
}

func (c *Controller) transition(apply func() bool) {
	c.mu.Lock()
	if !apply() {
		c.mu.Unlock()
		return
	}
	snap := c.commitLocked()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

func (c *Controller) commitLocked() Snapshot {
	c.version++
	c.rearmLocked()
	return c.snapshotLocked()
}

func (c *Controller) advanceLocked() bool {
	if c.index < len(c.slides)-1 {
		c.index++
		c.ended = false
		return true
	}
	if !c.playing && c.ended {
		return false
	}
	c.playing = false
	c.ended = true
	return true
}

func (c *Controller) rearmLocked() {
	c.stopTimerLocked()
	c.gen++
	if !c.playing || !c.started || c.closed {
		return
	}

	gen := c.gen
	d := time.Duration(c.slides[c.index].Duration) * time.Millisecond
	c.timer = c.clock.AfterFunc(d, func() { c.expire(gen) })
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) expire(gen uint64) {
	c.mu.Lock()
	if gen != c.gen || c.closed {
		c.mu.Unlock()
		return
	}
	c.timer = nil
	if !c.advanceLocked() {
		c.mu.Unlock()
		return
	}
	snap := c.commitLocked()
	fn := c.onChange
	c.mu.Unlock()

	if fn != nil {
		fn(snap)
	}
}

func (c *Controller) stateLocked() State {
	switch {
	case !c.started:
		return NotStarted
	case c.playing:
		return Playing
	case c.ended:
		return Ended
	default:
		return Paused
	}
}

func (c *Controller) snapshotLocked() Snapshot {
	cur := c.slides[c.index]
	snap := Snapshot{
		Index:      c.index,
		Total:      len(c.slides),
		State:      c.stateLocked(),
		IsPlaying:  c.playing,
		HasStarted: c.started,
		SlideID:    cur.ID,
		DurationMS: cur.Duration,
		Version:    c.version,
	}
	if c.index < len(c.slides)-1 {
		snap.NextID = c.slides[c.index+1].ID
	}
	return snap
}
