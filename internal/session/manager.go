package session

import (
	"errors"
	"hash/fnv"
	"sync"
	"time"
)

// DefaultTTL is how long a pending session stays valid.
const DefaultTTL = 30 * time.Minute

// shardCount fixes the number of map shards. Operations on different users
// hash to independent shards; operations on the same user serialize on one
// shard mutex, which preserves the single-session-per-user invariant.
const shardCount = 16

// ErrNoActiveSession is returned by Consume when the user has no pending
// session, or when the pending session has expired. Callers prompt the user
// to pick an action again.
var ErrNoActiveSession = errors.New("session: no active session")

// ErrInvalidAction is returned when an unknown or non-bindable action is
// offered to the manager.
var ErrInvalidAction = errors.New("session: invalid action")

// Session is one user's pending action.
type Session struct {
	// UserID identifies the owner.
	UserID string
	// Action is the pipeline action bound to the next upload.
	Action Action
	// CreatedAt is when the action was selected.
	CreatedAt time.Time
	// ExpiresAt is when the session lapses.
	ExpiresAt time.Time
}

// Expired reports whether the session has lapsed at the given instant.
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}

type shard struct {
	mu       sync.Mutex
	sessions map[string]*Session
}

// Manager owns the session map. It is safe for concurrent use from multiple
// request goroutines; there is no global lock, only per-shard mutexes.
type Manager struct {
	ttl    time.Duration
	now    func() time.Time
	shards [shardCount]shard
}

// Option configures a Manager.
type Option func(*Manager)

// WithClock overrides the time source. Used in tests to drive expiry.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) {
		m.now = now
	}
}

// NewManager creates a Manager with the given TTL. A non-positive TTL falls
// back to DefaultTTL.
func NewManager(ttl time.Duration, opts ...Option) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Manager{
		ttl: ttl,
		now: time.Now,
	}
	for i := range m.shards {
		m.shards[i].sessions = make(map[string]*Session)
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) shardFor(userID string) *shard {
	h := fnv.New32a()
	_, _ = h.Write([]byte(userID))
	return &m.shards[h.Sum32()%shardCount]
}

// ChooseAction binds an action to the user's next upload, overwriting any
// existing pending session and resetting the TTL clock. Help cannot be
// bound; it is answered immediately by the caller.
func (m *Manager) ChooseAction(userID string, action Action) (Session, error) {
	if !action.IsValid() || action == ActionHelp {
		return Session{}, ErrInvalidAction
	}

	now := m.now()
	s := &Session{
		UserID:    userID,
		Action:    action,
		CreatedAt: now,
		ExpiresAt: now.Add(m.ttl),
	}

	sh := m.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.sessions[userID] = s
	return *s, nil
}

// Consume returns the user's pending action and deletes the session, making
// it single-use. An absent or expired session yields ErrNoActiveSession;
// expired sessions are removed lazily here.
func (m *Manager) Consume(userID string) (Action, error) {
	sh := m.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s, ok := sh.sessions[userID]
	if !ok {
		return "", ErrNoActiveSession
	}
	delete(sh.sessions, userID)
	if s.Expired(m.now()) {
		return "", ErrNoActiveSession
	}
	return s.Action, nil
}

// Peek returns a copy of the user's pending session without consuming it.
// Expired sessions are reported as absent but not deleted.
func (m *Manager) Peek(userID string) (Session, bool) {
	sh := m.shardFor(userID)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	s, ok := sh.sessions[userID]
	if !ok || s.Expired(m.now()) {
		return Session{}, false
	}
	return *s, true
}

// SweepExpired removes all lapsed sessions and returns how many were
// removed. Intended to run periodically; never invoked mid-pipeline.
func (m *Manager) SweepExpired() int {
	now := m.now()
	removed := 0
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mu.Lock()
		for userID, s := range sh.sessions {
			if s.Expired(now) {
				delete(sh.sessions, userID)
				removed++
			}
		}
		sh.mu.Unlock()
	}
	return removed
}

// Len returns the number of live sessions, counting expired but unswept
// entries.
func (m *Manager) Len() int {
	n := 0
	for i := range m.shards {
		sh := &m.shards[i]
		sh.mu.Lock()
		n += len(sh.sessions)
		sh.mu.Unlock()
	}
	return n
}
