package composer

import (
	"sync"
	"time"

	"github.com/google/uuid"

	appErrors "github.com/uzlearn/center-admin-api/pkg/errors"
)

// Store keeps live editor sessions in memory. Sessions are bounded in count
// and reaped after a TTL of inactivity; they do not survive a restart.
type Store struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	ttl time.Duration
	max int

	stop chan struct{}
	once sync.Once
}

// NewStore builds a store and starts its sweeper.
func NewStore(ttl, sweepInterval time.Duration, maxSessions int) *Store {
	if ttl <= 0 {
		ttl = 2 * time.Hour
	}
	if sweepInterval <= 0 {
		sweepInterval = time.Minute
	}
	if maxSessions <= 0 {
		maxSessions = 64
	}
	s := &Store{
		sessions: make(map[string]*Session),
		ttl:      ttl,
		max:      maxSessions,
		stop:     make(chan struct{}),
	}
	go s.sweep(sweepInterval)
	return s
}

// Create registers a new session for the given version id.
func (s *Store) Create(versionID uint64) (*Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.sessions) >= s.max {
		return nil, appErrors.ErrSessionLimit
	}
	sess := NewSession(uuid.NewString(), versionID)
	s.sessions[sess.ID] = sess
	return sess, nil
}

// Get returns the session with the given id and refreshes its TTL.
func (s *Store) Get(id string) (*Session, error) {
	s.mu.RLock()
	sess, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil, appErrors.ErrSessionNotFound
	}
	sess.Touch()
	return sess, nil
}

// Delete discards a session, typically after a successful submit.
func (s *Store) Delete(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

// Len returns the number of live sessions.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// Close stops the sweeper.
func (s *Store) Close() {
	s.once.Do(func() { close(s.stop) })
}

func (s *Store) sweep(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			cutoff := time.Now().Add(-s.ttl)
			s.mu.Lock()
			for id, sess := range s.sessions {
				if sess.IdleSince().Before(cutoff) {
					delete(s.sessions, id)
				}
			}
			s.mu.Unlock()
		}
	}
}
