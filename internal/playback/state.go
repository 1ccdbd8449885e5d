package playback

import "time"

// State is the controller's position in its lifecycle.
type State int

const (
	NotStarted State = iota
	Playing
	Paused
	// Ended is Paused at the last slide after an advance found no next slide.
	Ended
)

func (s State) String() string {
	switch s {
	case NotStarted:
		return "not_started"
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	case Ended:
		return "ended"
	default:
		return "unknown"
	}
}

func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Snapshot is a read-only copy of the playback state.
type Snapshot struct {
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	State      State  `json:"state"`
	IsPlaying  bool   `json:"is_playing"`
	HasStarted bool   `json:"has_started"`
	SlideID    string `json:"slide_id"`
	NextID     string `json:"next_id,omitempty"`
	DurationMS int    `json:"duration_ms"`
	// Version increases on every state change; clients poll on it.
	Version uint64 `json:"version"`
}

// Clock arms one-shot timers. Tests substitute a manual clock.
type Clock interface {
	AfterFunc(d time.Duration, f func()) Timer
}

type Timer interface {
	Stop() bool
}

type realClock struct{}

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	return time.AfterFunc(d, f)
}

// RealClock uses the runtime timers.
var RealClock Clock = realClock{}
