package app

import (
	"log"
	"sort"
	"sync"
	"time"

	"datagraph/domain/core"
	"datagraph/internal/analysis/pairwise"
	"datagraph/internal/metrics"
)

// SessionStore keeps plot sessions in memory, keyed by session ID
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[core.SessionID]*PlotSession
	provider RegistryProvider
	policy   pairwise.Policy
	maxIdle  time.Duration
}

// NewSessionStore creates an empty store. Sessions idle longer than maxIdle
// are dropped by Sweep; zero disables expiry.
func NewSessionStore(provider RegistryProvider, policy pairwise.Policy, maxIdle time.Duration) *SessionStore {
	return &SessionStore{
		sessions: make(map[core.SessionID]*PlotSession),
		provider: provider,
		policy:   policy,
		maxIdle:  maxIdle,
	}
}

// Create starts a new session of the given kind
func (st *SessionStore) Create(kind PlotKind) *PlotSession {
	session := NewPlotSession(kind, st.provider, st.policy)

	st.mu.Lock()
	st.sessions[session.ID] = session
	metrics.SessionsOpen.Set(float64(len(st.sessions)))
	st.mu.Unlock()

	log.Printf("[SessionStore] Created %s session %s", kind, session.ID)
	return session
}

// Get returns the session with id
func (st *SessionStore) Get(id core.SessionID) (*PlotSession, error) {
	st.mu.RLock()
	defer st.mu.RUnlock()

	session, ok := st.sessions[id]
	if !ok {
		return nil, core.ErrSessionNotFound
	}
	return session, nil
}

// Delete removes a session; deleting an unknown ID is a no-op
func (st *SessionStore) Delete(id core.SessionID) {
	st.mu.Lock()
	delete(st.sessions, id)
	metrics.SessionsOpen.Set(float64(len(st.sessions)))
	st.mu.Unlock()
}

// List returns all sessions, oldest first
func (st *SessionStore) List() []*PlotSession {
	st.mu.RLock()
	out := make([]*PlotSession, 0, len(st.sessions))
	for _, s := range st.sessions {
		out = append(out, s)
	}
	st.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.Before(out[j].CreatedAt)
	})
	return out
}

// Len returns the number of live sessions
func (st *SessionStore) Len() int {
	st.mu.RLock()
	defer st.mu.RUnlock()
	return len(st.sessions)
}

// Sweep drops sessions with no chart request or selection change since
// now-maxIdle and returns how many were removed
func (st *SessionStore) Sweep(now time.Time) int {
	if st.maxIdle <= 0 {
		return 0
	}
	cutoff := now.Add(-st.maxIdle)

	st.mu.Lock()
	defer st.mu.Unlock()

	removed := 0
	for id, s := range st.sessions {
		if s.LastSeen().Before(cutoff) {
			delete(st.sessions, id)
			removed++
		}
	}
	metrics.SessionsOpen.Set(float64(len(st.sessions)))
	if removed > 0 {
		log.Printf("[SessionStore] Expired %d idle sessions", removed)
	}
	return removed
}
