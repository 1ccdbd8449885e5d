package web

import (
	"math/rand"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/ivlev/storyreel/internal/playback"
	"github.com/ivlev/storyreel/internal/story"
)

// MaxSessions bounds the live viewers; creating one more closes the oldest.
const MaxSessions = 64

const (
	// A viewer keeps up to this many connections open: the browser's
	// per-host pool for slide images, its dedication video and the poll.
	connsPerViewer = 8
	// Listener, log files, template and asset directory handles.
	reservedFiles = 64
)

// OpenFileBudget is the open-file limit serve needs with every session
// live: one socket per connection plus one file being served on each.
func OpenFileBudget() uint64 {
	return MaxSessions*connsPerViewer*2 + reservedFiles
}

type sessionStore struct {
	mu       sync.Mutex
	sessions map[string]*playback.Controller
	order    []string // creation order, oldest first
	entropy  *rand.Rand
	clock    playback.Clock
}

func newSessionStore(clock playback.Clock) *sessionStore {
	return &sessionStore{
		sessions: make(map[string]*playback.Controller),
		entropy:  rand.New(rand.NewSource(time.Now().UnixNano())),
		clock:    clock,
	}
}

func (s *sessionStore) create(slides []story.Slide) (string, *playback.Controller, error) {
	c, err := playback.New(slides, playback.WithClock(s.clock))
	if err != nil {
		return "", nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for len(s.order) >= MaxSessions {
		oldest := s.order[0]
		s.order = s.order[1:]
		if old, ok := s.sessions[oldest]; ok {
			old.Close()
			delete(s.sessions, oldest)
		}
	}

	id := ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
	s.sessions[id] = c
	s.order = append(s.order, id)
	return id, c, nil
}

func (s *sessionStore) get(id string) (*playback.Controller, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[id]
	return c, ok
}

func (s *sessionStore) remove(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	c, ok := s.sessions[id]
	if !ok {
		return false
	}
	c.Close()
	delete(s.sessions, id)
	for i, known := range s.order {
		if known == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true
}

func (s *sessionStore) len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

func (s *sessionStore) closeAll() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, c := range s.sessions {
		c.Close()
		delete(s.sessions, id)
	}
	s.order = nil
}
