// Package engine orchestrates one conversation turn: sanitize, extract,
// advance session state, choose an in-character reply, and decide whether the
// session has earned its one-shot report.
package engine

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/scamnet-io/decoy/internal/callback"
	"github.com/scamnet-io/decoy/internal/intel"
	"github.com/scamnet-io/decoy/internal/pools"
	"github.com/scamnet-io/decoy/internal/sanitize"
	"github.com/scamnet-io/decoy/internal/session"
)

// ErrEmptySessionID is the only hard failure a turn can produce: a session id
// that sanitizes to nothing cannot be correlated.
var ErrEmptySessionID = errors.New("session id is empty after sanitization")

// fallbackReply is the in-character reply for empty input and for any
// unexpected fault during turn processing. The conversation never breaks
// character.
const fallbackReply = "Sorry, my screen is hanging. Please repeat that once more?"

// Dispatcher is the outbound report hand-off. Dispatch runs off the request
// path; its error is advisory.
type Dispatcher interface {
	Dispatch(ctx context.Context, r callback.Report) error
}

// SubjectSessionStarted is the bus subject announcing a newly tracked session.
const SubjectSessionStarted = "honeypot.session.started"

// Options tune the stalling branch of response selection.
type Options struct {
	StallProbability float64 // chance of a stalling reply regardless of phase
	StallMinTurns    int     // stalling only after this many turns
}

// DefaultOptions stalls 15% of the time from turn 3 onward.
var DefaultOptions = Options{StallProbability: 0.15, StallMinTurns: 3}

// Turn is one sanitizer-bound inbound message.
type Turn struct {
	SessionID string
	Text      string
	// History carries prior conversation texts supplied by the caller. It
	// seeds extraction only when the session is not already tracked.
	History []string
}

// Reply is the engine's answer plus session-progress observability fields.
type Reply struct {
	Text         string
	TurnCount    int
	Phase        string
	CallbackSent bool
}

// Engine wires the sanitizer, extractor, pools, session store, and
// dispatcher together.
type Engine struct {
	store      *session.Store
	extractor  *intel.Extractor
	registry   *pools.Registry
	dispatcher Dispatcher
	events     callback.Publisher
	opts       Options
	logger     *slog.Logger
}

// New wires the engine's collaborators. events may be nil; session lifecycle
// announcements are then skipped.
func New(store *session.Store, ex *intel.Extractor, reg *pools.Registry, d Dispatcher, events callback.Publisher, opts Options, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{
		store:      store,
		extractor:  ex,
		registry:   reg,
		dispatcher: d,
		events:     events,
		opts:       opts,
		logger:     logger,
	}
}

// HandleTurn processes one inbound turn and returns the decoy's reply. Only a
// structurally invalid session id fails; everything else degrades to an
// in-character reply.
func (e *Engine) HandleTurn(ctx context.Context, t Turn) (reply Reply, err error) {
	defer func() {
		if r := recover(); r != nil {
			e.logger.Error("turn processing panicked", "session_id", t.SessionID, "panic", r)
			reply.Text = fallbackReply
			err = nil
		}
	}()

	id := sanitize.Clean(t.SessionID)
	if id == "" {
		return Reply{}, ErrEmptySessionID
	}
	text := sanitize.Clean(t.Text)

	var report *callback.Report
	var started bool
	e.store.WithSession(id, func(s *session.Session, created bool) {
		started = created
		if created && len(t.History) > 0 {
			s.Intel.Merge(e.extractor.ExtractAll(t.History))
		}

		e.store.Advance(s, text)

		if text == "" {
			reply.Text = fallbackReply
		} else {
			s.Intel.Merge(e.extractor.Extract(text))
			reply.Text = e.selectResponse(s, text)
		}

		if e.store.ShouldDispatch(s) {
			r := callback.NewReport(s.ID, s.TurnCount, s.Intel.Clone())
			report = &r
		}

		reply.TurnCount = s.TurnCount
		reply.Phase = s.Phase.String()
		reply.CallbackSent = s.CallbackSent
	})

	if started && e.events != nil {
		if perr := e.events.Publish(SubjectSessionStarted, map[string]any{
			"sessionId": id,
			"startedAt": time.Now().UTC().Format(time.RFC3339),
		}); perr != nil {
			e.logger.Warn("session-started publish failed", "session_id", id, "error", perr)
		}
	}

	if report != nil {
		// Off the hot path: the scammer-facing reply never waits on delivery.
		go func(r callback.Report) {
			_ = e.dispatcher.Dispatch(context.Background(), r)
		}(*report)
	}

	e.logger.Debug("turn handled",
		"session_id", id,
		"turn", reply.TurnCount,
		"phase", reply.Phase,
		"callback_sent", reply.CallbackSent,
	)
	return reply, nil
}

// Finalize forces a session's one-time dispatch if it has not happened, then
// discards the session. Used by the manual-stop endpoint. It reports whether
// a dispatch was triggered.
func (e *Engine) Finalize(ctx context.Context, sessionID string) (dispatched bool, found bool) {
	id := sanitize.Clean(sessionID)
	if id == "" {
		return false, false
	}

	// WithExistingSession never creates, so concurrent finalize calls cannot
	// resurrect the id and fabricate a second report after the first removal.
	var report *callback.Report
	found = e.store.WithExistingSession(id, func(s *session.Session) bool {
		if !s.CallbackSent {
			s.CallbackSent = true
			r := callback.NewReport(s.ID, s.TurnCount, s.Intel.Clone())
			report = &r
		}
		return true
	})

	if report != nil {
		go func(r callback.Report) {
			_ = e.dispatcher.Dispatch(context.Background(), r)
		}(*report)
	}
	return report != nil, found
}

// selectResponse implements the phase/topic selection ladder. Called under
// the session lock.
func (e *Engine) selectResponse(s *session.Session, text string) string {
	if s.TurnCount >= e.opts.StallMinTurns && e.opts.StallProbability > 0 &&
		rand.Float64() < e.opts.StallProbability {
		return e.pick(s, e.registry.Stalling)
	}

	switch s.Phase {
	case session.PhaseProbing:
		return e.pick(s, e.probingPool(s, text))
	case session.PhaseExtraction:
		return e.pick(s, e.registry.Extraction)
	case session.PhaseFinal:
		if rand.IntN(2) == 0 {
			return e.pick(s, e.registry.Extraction)
		}
		return e.pick(s, e.registry.Stalling)
	default:
		return e.pick(s, e.registry.Initial)
	}
}

// probingPool picks the question pool for the probing phase. A freshly
// classified topic is probed first; once probed, an unprobed topic is chosen
// uniformly; when every topic has been asked the pools just cycle.
func (e *Engine) probingPool(s *session.Session, text string) pools.Pool {
	topic := pools.Classify(text)
	if topic != pools.TopicGeneric {
		if _, asked := s.TopicAsked[topic]; !asked {
			s.TopicAsked[topic] = struct{}{}
			return e.registry.Question(topic)
		}
	}

	var unasked []pools.Topic
	for _, t := range pools.AllTopics {
		if _, asked := s.TopicAsked[t]; !asked {
			unasked = append(unasked, t)
		}
	}
	if len(unasked) > 0 {
		next := unasked[rand.IntN(len(unasked))]
		s.TopicAsked[next] = struct{}{}
		return e.registry.Question(next)
	}
	return e.registry.Question(pools.AllTopics[rand.IntN(len(pools.AllTopics))])
}

// pick draws an unused sentence and records it. When the pool has wrapped the
// used set resets, trading the no-repeat guarantee for continued replies.
func (e *Engine) pick(s *session.Session, p pools.Pool) string {
	sentence, wrapped := e.registry.Pick(p, s.UsedResponses)
	if wrapped {
		s.UsedResponses = make(map[string]struct{})
	}
	s.UsedResponses[sentence] = struct{}{}
	return sentence
}
