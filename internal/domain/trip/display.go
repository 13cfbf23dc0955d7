package trip

import (
	"math"
	"sync"
	"sync/atomic"
)

// DefaultMaxSessions bounds how many sessions a Display remembers.
const DefaultMaxSessions = 10000

// Token identifies one estimate request within a session.
type Token struct {
	Session string
	Seq     uint64
}

type slot[T any] struct {
	latest    uint64
	committed bool
	value     T
}

// Display keeps the most recent result per session. Every request takes a token
// with Begin; only the holder of the newest token for a session may Commit, so a
// slow response from an older request can never overwrite a newer one.
type Display[T any] struct {
	seq         atomic.Uint64
	mu          sync.Mutex
	sessions    map[string]*slot[T]
	maxSessions int
}

// NewDisplay creates a Display remembering at most maxSessions sessions.
func NewDisplay[T any](maxSessions int) *Display[T] {
	if maxSessions <= 0 {
		maxSessions = DefaultMaxSessions
	}
	return &Display[T]{
		sessions:    make(map[string]*slot[T]),
		maxSessions: maxSessions,
	}
}

// Begin issues a token newer than every token issued before.
func (d *Display[T]) Begin(session string) Token {
	tok := Token{Session: session, Seq: d.seq.Add(1)}

	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessions[session]
	if !ok {
		d.evictLocked()
		s = &slot[T]{}
		d.sessions[session] = s
	}
	s.latest = tok.Seq
	return tok
}

// Commit installs value if tok is still the newest token of its session.
// It reports whether the value was installed.
func (d *Display[T]) Commit(tok Token, value T) bool {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessions[tok.Session]
	if !ok || s.latest != tok.Seq {
		return false
	}
	s.value = value
	s.committed = true
	return true
}

// Current returns the installed value for session.
func (d *Display[T]) Current(session string) (T, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s, ok := d.sessions[session]
	if !ok || !s.committed {
		var zero T
		return zero, false
	}
	return s.value, true
}

// evictLocked drops the session with the oldest token once the cap is reached.
func (d *Display[T]) evictLocked() {
	if len(d.sessions) < d.maxSessions {
		return
	}
	var oldestKey string
	oldest := uint64(math.MaxUint64)
	for k, s := range d.sessions {
		if s.latest < oldest {
			oldest, oldestKey = s.latest, k
		}
	}
	delete(d.sessions, oldestKey)
}
