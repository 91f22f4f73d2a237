package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// Store is the concurrency-safe keyed session map. Each session carries its
// own mutex so a single session's read-modify-write sequence is serialized
// while turns for different sessions run fully in parallel.
type Store struct {
	thresholds   Thresholds
	policy       DispatchPolicy
	historyLimit int
	logger       *slog.Logger

	mu       sync.Mutex
	sessions map[string]*entry
}

type entry struct {
	mu   sync.Mutex
	sess *Session
}

// DefaultHistoryLimit bounds per-session history retention.
const DefaultHistoryLimit = 2000

// NewStore builds a store. Zero-valued thresholds, policy, or historyLimit
// fall back to the package defaults.
func NewStore(thresholds Thresholds, policy DispatchPolicy, historyLimit int, logger *slog.Logger) *Store {
	if thresholds == (Thresholds{}) {
		thresholds = DefaultThresholds
	}
	if policy == (DispatchPolicy{}) {
		policy = DefaultDispatchPolicy
	}
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		thresholds:   thresholds,
		policy:       policy,
		historyLimit: historyLimit,
		logger:       logger,
		sessions:     make(map[string]*entry),
	}
}

// WithSession runs fn with exclusive ownership of the session for id,
// creating it on first sight. created reports whether this call made the
// session. All session mutation goes through here; fn must not retain the
// *Session after returning.
func (st *Store) WithSession(id string, fn func(s *Session, created bool)) {
	st.mu.Lock()
	e, ok := st.sessions[id]
	if !ok {
		e = &entry{sess: newSession(id, time.Now().UTC())}
		st.sessions[id] = e
	}
	st.mu.Unlock()

	e.mu.Lock()
	defer e.mu.Unlock()
	fn(e.sess, !ok)
}

// WithExistingSession runs fn with exclusive ownership of the session for id
// and reports whether one existed. Unlike WithSession it never creates a
// session, so callers that tear a session down cannot race each other into
// resurrecting the id. A true return from fn discards the session; the entry
// is only deleted if the map still holds it, so a session recreated by fresh
// traffic in the meantime survives.
func (st *Store) WithExistingSession(id string, fn func(s *Session) (remove bool)) bool {
	st.mu.Lock()
	e, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return false
	}

	e.mu.Lock()
	remove := fn(e.sess)
	e.mu.Unlock()

	if remove {
		st.mu.Lock()
		if cur, ok := st.sessions[id]; ok && cur == e {
			delete(st.sessions, id)
		}
		st.mu.Unlock()
	}
	return true
}

// Advance records one inbound turn: bounded history append, turn-count
// increment, and phase recomputation. The phase never regresses because the
// turn count never decreases. Must be called under WithSession.
func (st *Store) Advance(s *Session, sanitizedText string) {
	if sanitizedText != "" {
		s.History = append(s.History, sanitizedText)
		if excess := len(s.History) - st.historyLimit; excess > 0 {
			s.History = s.History[excess:]
		}
	}
	s.TurnCount++
	s.LastSeenAt = time.Now().UTC()

	if next := st.phaseFor(s.TurnCount); next > s.Phase {
		s.Phase = next
	}
}

func (st *Store) phaseFor(turns int) Phase {
	switch {
	case turns >= st.thresholds.FinalAt:
		return PhaseFinal
	case turns >= st.thresholds.ExtractionAt:
		return PhaseExtraction
	case turns >= st.thresholds.ProbingAt:
		return PhaseProbing
	default:
		return PhaseInitial
	}
}

// ShouldDispatch returns true at most once in a session's lifetime: the first
// time the dispatch policy is satisfied. The callback-sent flag flips in the
// same critical section as the true return, so concurrent turns cannot both
// see it. Must be called under WithSession.
func (st *Store) ShouldDispatch(s *Session) bool {
	if s.CallbackSent {
		return false
	}
	earned := s.TurnCount >= st.policy.MinTurns && s.Intel.Total() >= st.policy.MinIndicators
	forced := s.TurnCount >= st.policy.ForceTurns
	if !earned && !forced {
		return false
	}
	s.CallbackSent = true
	return true
}

// Snapshot returns a copy of the session's observable state.
func (st *Store) Snapshot(id string) (Snapshot, bool) {
	st.mu.Lock()
	e, ok := st.sessions[id]
	st.mu.Unlock()
	if !ok {
		return Snapshot{}, false
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sess.snapshot(), true
}

// List snapshots every live session.
func (st *Store) List() []Snapshot {
	st.mu.Lock()
	entries := make([]*entry, 0, len(st.sessions))
	for _, e := range st.sessions {
		entries = append(entries, e)
	}
	st.mu.Unlock()

	out := make([]Snapshot, 0, len(entries))
	for _, e := range entries {
		e.mu.Lock()
		out = append(out, e.sess.snapshot())
		e.mu.Unlock()
	}
	return out
}

// Remove discards a session. Used by the manual finalize endpoint and the
// idle janitor; removal never triggers a dispatch by itself.
func (st *Store) Remove(id string) {
	st.mu.Lock()
	delete(st.sessions, id)
	st.mu.Unlock()
}

// Len reports the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// StartJanitor evicts sessions idle longer than ttl, checking every interval,
// until ctx is canceled. Sessions never expire while ttl <= 0.
func (st *Store) StartJanitor(ctx context.Context, ttl, interval time.Duration) {
	if ttl <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				st.evictIdle(ttl)
			}
		}
	}()
}

func (st *Store) evictIdle(ttl time.Duration) {
	cutoff := time.Now().UTC().Add(-ttl)

	st.mu.Lock()
	var stale []string
	for id, e := range st.sessions {
		e.mu.Lock()
		if e.sess.LastSeenAt.Before(cutoff) {
			stale = append(stale, id)
		}
		e.mu.Unlock()
	}
	for _, id := range stale {
		delete(st.sessions, id)
	}
	st.mu.Unlock()

	if len(stale) > 0 {
		st.logger.Info("evicted idle sessions", "count", len(stale), "ttl", ttl)
	}
}
