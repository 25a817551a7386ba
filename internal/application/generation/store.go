package generation

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/panmaat/backend/internal/domain/generation"
)

// Store holds live generation sessions in memory. Sessions are
// transient: only a confirmed candidate ever reaches the database,
// so losing the store on restart loses nothing durable.
//
// Acquire hands out a session together with an exclusive latch, which
// serializes regenerate and confirm per session.
type Store struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*storeEntry
	ttl      time.Duration
}

type storeEntry struct {
	session *generation.Session
	busy    bool
	touched time.Time
}

// NewStore creates a session store. Sessions idle longer than ttl are
// removed by Sweep.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &Store{
		sessions: make(map[uuid.UUID]*storeEntry),
		ttl:      ttl,
	}
}

// Put registers a session.
func (st *Store) Put(s *generation.Session) {
	st.mu.Lock()
	defer st.mu.Unlock()
	st.sessions[s.ID()] = &storeEntry{
		session: s,
		touched: time.Now(),
	}
}

// Acquire returns the session and an exclusive latch on it. The
// returned release function must be called exactly once. A session
// that already has an operation in flight yields ErrBusy.
func (st *Store) Acquire(id uuid.UUID) (*generation.Session, func(), error) {
	st.mu.Lock()
	defer st.mu.Unlock()

	entry, ok := st.sessions[id]
	if !ok {
		return nil, nil, generation.ErrSessionNotFound
	}
	if entry.busy {
		return nil, nil, ErrBusy
	}

	entry.busy = true
	entry.touched = time.Now()

	release := func() {
		st.mu.Lock()
		defer st.mu.Unlock()
		if e, ok := st.sessions[id]; ok {
			e.busy = false
			e.touched = time.Now()
		}
	}

	return entry.session, release, nil
}

// Remove drops a session regardless of its state.
func (st *Store) Remove(id uuid.UUID) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Sweep removes idle and closed sessions, returning how many were
// dropped. Sessions with an operation in flight are never swept.
func (st *Store) Sweep() int {
	st.mu.Lock()
	defer st.mu.Unlock()

	cutoff := time.Now().Add(-st.ttl)
	removed := 0
	for id, entry := range st.sessions {
		if entry.busy {
			continue
		}
		if entry.session.Closed() || entry.touched.Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	return removed
}
