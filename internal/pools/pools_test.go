package pools

import "testing"

func TestClassify_Precedence(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Topic
	}{
		{"banking", "share your bank account details", TopicAccount},
		{"banking beats payment", "bank transfer via upi", TopicAccount},
		{"payment", "scan this qr with gpay", TopicPaymentID},
		{"link", "click this url now", TopicLink},
		{"payment beats link", "open upi link fast", TopicPaymentID},
		{"otp", "tell me the otp", TopicOneTimeCode},
		{"amount", "send the full amount today", TopicAmount},
		{"threat", "police will arrest you, kyc expired", TopicIdentityVerification},
		{"case insensitive", "VERIFY IMMEDIATELY", TopicIdentityVerification},
		{"unmatched", "hello how are you", TopicGeneric},
		{"empty", "", TopicGeneric},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.text); got != tt.want {
				t.Errorf("Classify(%q) = %s, want %s", tt.text, got, tt.want)
			}
		})
	}
}

func TestPick_NoRepeatUntilExhausted(t *testing.T) {
	r := Default()
	pool := r.Question(TopicOneTimeCode)
	used := make(map[string]struct{})

	for i := 0; i < len(pool.Sentences); i++ {
		s, wrapped := r.Pick(pool, used)
		if wrapped {
			t.Fatalf("pool wrapped after %d picks, size %d", i, len(pool.Sentences))
		}
		if _, seen := used[s]; seen {
			t.Fatalf("sentence repeated before exhaustion: %q", s)
		}
		used[s] = struct{}{}
	}

	// Every sentence is now excluded; the next pick must signal a reset and
	// still return something.
	s, wrapped := r.Pick(pool, used)
	if !wrapped {
		t.Error("expected wrapped=true once pool is exhausted")
	}
	if s == "" {
		t.Error("expected a sentence even from an exhausted pool")
	}
}

func TestQuestion_UnknownTopicFallsBack(t *testing.T) {
	r := Default()
	p := r.Question(TopicGeneric)
	if p.Name != r.Initial.Name {
		t.Errorf("generic topic should fall back to initial pool, got %q", p.Name)
	}
}

func TestDefault_PoolsNonEmptyAndDistinct(t *testing.T) {
	r := Default()
	seen := make(map[string]string)
	checkPool := func(p Pool) {
		t.Helper()
		if len(p.Sentences) == 0 {
			t.Errorf("pool %q is empty", p.Name)
		}
		for _, s := range p.Sentences {
			if s == "" {
				t.Errorf("pool %q has an empty sentence", p.Name)
			}
			if prev, dup := seen[s]; dup {
				t.Errorf("sentence shared between pools %q and %q: %q", prev, p.Name, s)
			}
			seen[s] = p.Name
		}
	}
	checkPool(r.Initial)
	checkPool(r.Extraction)
	checkPool(r.Stalling)
	for _, topic := range AllTopics {
		checkPool(r.Question(topic))
	}
}
