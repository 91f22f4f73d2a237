// Package session tracks per-conversation engagement state: turn counts,
// phase, conversation history, accumulated intelligence, and the one-shot
// callback gate.
package session

import (
	"time"

	"github.com/scamnet-io/decoy/internal/intel"
	"github.com/scamnet-io/decoy/internal/pools"
)

// Phase is the session's position in the scripted engagement arc.
type Phase int

const (
	PhaseInitial Phase = iota
	PhaseProbing
	PhaseExtraction
	PhaseFinal
)

func (p Phase) String() string {
	switch p {
	case PhaseProbing:
		return "PROBING"
	case PhaseExtraction:
		return "EXTRACTION"
	case PhaseFinal:
		return "FINAL"
	default:
		return "INITIAL"
	}
}

// Thresholds are the turn-count cutoffs between phases. Deployments tune
// these; the defaults follow the 10/25/35 arc.
type Thresholds struct {
	ProbingAt    int
	ExtractionAt int
	FinalAt      int
}

// DefaultThresholds is the standard engagement arc.
var DefaultThresholds = Thresholds{ProbingAt: 10, ExtractionAt: 25, FinalAt: 35}

// DispatchPolicy decides when a session has earned its final report: either
// enough turns with enough indicators, or an unconditional turn ceiling.
type DispatchPolicy struct {
	MinTurns      int
	MinIndicators int
	ForceTurns    int
}

// DefaultDispatchPolicy dispatches after 5 turns once 3 indicators exist, or
// unconditionally at 35 turns.
var DefaultDispatchPolicy = DispatchPolicy{MinTurns: 5, MinIndicators: 3, ForceTurns: 35}

// Session is the mutable state for one conversation. It is only ever touched
// while the store holds that session's lock; see Store.WithSession.
type Session struct {
	ID            string
	TurnCount     int
	Phase         Phase
	History       []string
	Intel         intel.Intelligence
	TopicAsked    map[pools.Topic]struct{}
	UsedResponses map[string]struct{}
	CallbackSent  bool
	CreatedAt     time.Time
	LastSeenAt    time.Time
}

func newSession(id string, now time.Time) *Session {
	return &Session{
		ID:            id,
		Phase:         PhaseInitial,
		Intel:         intel.New(),
		TopicAsked:    make(map[pools.Topic]struct{}),
		UsedResponses: make(map[string]struct{}),
		CreatedAt:     now,
		LastSeenAt:    now,
	}
}

// Snapshot is an immutable copy of a session's observable state, safe to hand
// out without holding the session lock.
type Snapshot struct {
	ID           string             `json:"sessionId"`
	TurnCount    int                `json:"turnCount"`
	Phase        string             `json:"phase"`
	Indicators   int                `json:"indicatorCount"`
	Intel        intel.Intelligence `json:"extractedIntelligence"`
	CallbackSent bool               `json:"callbackSent"`
	CreatedAt    time.Time          `json:"createdAt"`
	LastSeenAt   time.Time          `json:"lastSeenAt"`
}

func (s *Session) snapshot() Snapshot {
	return Snapshot{
		ID:           s.ID,
		TurnCount:    s.TurnCount,
		Phase:        s.Phase.String(),
		Indicators:   s.Intel.Total(),
		Intel:        s.Intel.Clone(),
		CallbackSent: s.CallbackSent,
		CreatedAt:    s.CreatedAt,
		LastSeenAt:   s.LastSeenAt,
	}
}
