package session

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/scamnet-io/decoy/internal/intel"
)

func testStore() *Store {
	return NewStore(Thresholds{}, DispatchPolicy{}, 0, nil)
}

func TestWithSession_CreatesOnce(t *testing.T) {
	st := testStore()

	st.WithSession("s1", func(s *Session, created bool) {
		if !created {
			t.Error("expected created=true on first sight")
		}
		if s.Phase != PhaseInitial || s.TurnCount != 0 {
			t.Errorf("new session not zero-state: phase=%s turns=%d", s.Phase, s.TurnCount)
		}
	})
	st.WithSession("s1", func(s *Session, created bool) {
		if created {
			t.Error("expected created=false on second sight")
		}
	})
	if st.Len() != 1 {
		t.Errorf("expected 1 session, got %d", st.Len())
	}
}

func TestWithExistingSession_NeverCreates(t *testing.T) {
	st := testStore()

	if ok := st.WithExistingSession("missing", func(*Session) bool { return true }); ok {
		t.Error("expected false for an unknown id")
	}
	if st.Len() != 0 {
		t.Error("lookup of a missing id must not create a session")
	}

	st.WithSession("s1", func(s *Session, _ bool) { st.Advance(s, "hi") })

	ran := false
	ok := st.WithExistingSession("s1", func(s *Session) bool {
		ran = true
		if s.TurnCount != 1 {
			t.Errorf("expected the live session, got turns=%d", s.TurnCount)
		}
		return false
	})
	if !ok || !ran {
		t.Fatalf("expected fn to run on the existing session, ok=%v ran=%v", ok, ran)
	}
	if st.Len() != 1 {
		t.Error("remove=false must keep the session")
	}

	st.WithExistingSession("s1", func(*Session) bool { return true })
	if st.Len() != 0 {
		t.Error("remove=true must discard the session")
	}
}

func TestWithExistingSession_ConcurrentTeardown(t *testing.T) {
	st := testStore()
	st.WithSession("s1", func(s *Session, _ bool) { st.Advance(s, "hi") })

	var wg sync.WaitGroup
	var mu sync.Mutex
	flipped := 0
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			st.WithExistingSession("s1", func(s *Session) bool {
				if !s.CallbackSent {
					s.CallbackSent = true
					mu.Lock()
					flipped++
					mu.Unlock()
				}
				return true
			})
		}()
	}
	wg.Wait()

	if flipped != 1 {
		t.Errorf("expected exactly one caller to win the flag, got %d", flipped)
	}
	if st.Len() != 0 {
		t.Errorf("expected session gone after teardown, got %d live", st.Len())
	}
}

func TestAdvance_PhaseMonotonicOver40Turns(t *testing.T) {
	st := testStore()

	var last Phase
	st.WithSession("s1", func(s *Session, _ bool) {
		for i := 1; i <= 40; i++ {
			st.Advance(s, fmt.Sprintf("message %d", i))
			if s.TurnCount != i {
				t.Fatalf("turn %d: turnCount=%d", i, s.TurnCount)
			}
			if s.Phase < last {
				t.Fatalf("turn %d: phase regressed %s -> %s", i, last, s.Phase)
			}
			last = s.Phase

			switch {
			case i < 10 && s.Phase != PhaseInitial:
				t.Fatalf("turn %d: expected INITIAL, got %s", i, s.Phase)
			case i >= 10 && i < 25 && s.Phase != PhaseProbing:
				t.Fatalf("turn %d: expected PROBING, got %s", i, s.Phase)
			case i >= 25 && i < 35 && s.Phase != PhaseExtraction:
				t.Fatalf("turn %d: expected EXTRACTION, got %s", i, s.Phase)
			case i >= 35 && s.Phase != PhaseFinal:
				t.Fatalf("turn %d: expected FINAL, got %s", i, s.Phase)
			}
		}
	})
	if last != PhaseFinal {
		t.Errorf("expected FINAL after 40 turns, got %s", last)
	}
}

func TestAdvance_HistoryBounded(t *testing.T) {
	st := NewStore(Thresholds{}, DispatchPolicy{}, 5, nil)

	st.WithSession("s1", func(s *Session, _ bool) {
		for i := 1; i <= 8; i++ {
			st.Advance(s, fmt.Sprintf("m%d", i))
		}
		if len(s.History) != 5 {
			t.Fatalf("expected history capped at 5, got %d", len(s.History))
		}
		if s.History[0] != "m4" || s.History[4] != "m8" {
			t.Errorf("expected oldest entries dropped first, got %v", s.History)
		}
		if s.TurnCount != 8 {
			t.Errorf("turn count must not be affected by the bound, got %d", s.TurnCount)
		}
	})
}

func TestAdvance_EmptyTextCountsButNotRecorded(t *testing.T) {
	st := testStore()
	st.WithSession("s1", func(s *Session, _ bool) {
		st.Advance(s, "")
		if s.TurnCount != 1 {
			t.Errorf("empty turn must still count, got %d", s.TurnCount)
		}
		if len(s.History) != 0 {
			t.Errorf("empty text must not enter history, got %v", s.History)
		}
	})
}

func TestShouldDispatch_PolicyGate(t *testing.T) {
	st := NewStore(Thresholds{}, DispatchPolicy{MinTurns: 5, MinIndicators: 3, ForceTurns: 35}, 0, nil)

	st.WithSession("s1", func(s *Session, _ bool) {
		s.TurnCount = 5
		s.Intel.UPIIDs.Add("a@upi")
		s.Intel.UPIIDs.Add("b@upi")
		if st.ShouldDispatch(s) {
			t.Error("2 indicators must not satisfy a 3-indicator floor")
		}

		s.Intel.PhoneNumbers.Add("9876543210")
		if !st.ShouldDispatch(s) {
			t.Error("expected dispatch with 5 turns and 3 indicators")
		}
		if !s.CallbackSent {
			t.Error("callbackSent must flip with the true return")
		}
		if st.ShouldDispatch(s) {
			t.Error("second call must return false")
		}
	})
}

func TestShouldDispatch_ForcedAtTurnCeiling(t *testing.T) {
	st := NewStore(Thresholds{}, DispatchPolicy{MinTurns: 5, MinIndicators: 3, ForceTurns: 35}, 0, nil)

	st.WithSession("s1", func(s *Session, _ bool) {
		s.TurnCount = 34
		if st.ShouldDispatch(s) {
			t.Error("no indicators and below ceiling: no dispatch")
		}
		s.TurnCount = 35
		if !st.ShouldDispatch(s) {
			t.Error("expected forced dispatch at the turn ceiling")
		}
	})
}

func TestShouldDispatch_AtMostOnceUnderConcurrency(t *testing.T) {
	st := NewStore(Thresholds{}, DispatchPolicy{MinTurns: 1, MinIndicators: 1, ForceTurns: 35}, 0, nil)

	var wg sync.WaitGroup
	var mu sync.Mutex
	dispatched := 0

	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			st.WithSession("contested", func(s *Session, _ bool) {
				st.Advance(s, "pay me")
				s.Intel.UPIIDs.Add(fmt.Sprintf("sc%d@upi", n))
				if st.ShouldDispatch(s) {
					mu.Lock()
					dispatched++
					mu.Unlock()
				}
			})
		}(i)
	}
	wg.Wait()

	if dispatched != 1 {
		t.Errorf("expected exactly one dispatch across 50 concurrent turns, got %d", dispatched)
	}
}

func TestIntelMonotonicAcrossTurns(t *testing.T) {
	st := testStore()
	e := intel.NewExtractor(nil)

	prev := 0
	for turn := 0; turn < 10; turn++ {
		st.WithSession("s1", func(s *Session, _ bool) {
			st.Advance(s, "msg")
			s.Intel.Merge(e.Extract(fmt.Sprintf("urgent account 90000000%02d", turn)))
			if got := s.Intel.Total(); got < prev {
				t.Fatalf("intelligence shrank: %d -> %d", prev, got)
			} else {
				prev = got
			}
		})
	}
}

func TestSnapshotAndListAndRemove(t *testing.T) {
	st := testStore()
	st.WithSession("a", func(s *Session, _ bool) { st.Advance(s, "hi") })
	st.WithSession("b", func(s *Session, _ bool) {})

	snap, ok := st.Snapshot("a")
	if !ok {
		t.Fatal("expected snapshot for a")
	}
	if snap.TurnCount != 1 || snap.Phase != "INITIAL" {
		t.Errorf("unexpected snapshot: %+v", snap)
	}

	// The snapshot's intelligence is a copy, not a live reference.
	snap.Intel.UPIIDs.Add("tamper@upi")
	again, _ := st.Snapshot("a")
	if again.Intel.UPIIDs.Has("tamper@upi") {
		t.Error("snapshot mutation leaked into the store")
	}

	if got := len(st.List()); got != 2 {
		t.Errorf("expected 2 sessions listed, got %d", got)
	}

	st.Remove("a")
	if _, ok := st.Snapshot("a"); ok {
		t.Error("expected a removed")
	}
	if st.Len() != 1 {
		t.Errorf("expected 1 session after remove, got %d", st.Len())
	}
}

func TestEvictIdle(t *testing.T) {
	st := testStore()
	st.WithSession("old", func(s *Session, _ bool) {
		s.LastSeenAt = time.Now().UTC().Add(-time.Hour)
	})
	st.WithSession("fresh", func(s *Session, _ bool) {})

	st.evictIdle(30 * time.Minute)

	if _, ok := st.Snapshot("old"); ok {
		t.Error("expected idle session evicted")
	}
	if _, ok := st.Snapshot("fresh"); !ok {
		t.Error("fresh session must survive eviction")
	}
}
