// Package intel holds the structured fraud indicators pulled out of a
// conversation and the regex extractor that produces them.
package intel

import (
	"encoding/json"
	"sort"
)

// Set is a deduplicated string collection that serializes as a sorted list.
type Set map[string]struct{}

// Add records a value. Adding the same value twice is a no-op.
func (s Set) Add(v string) {
	s[v] = struct{}{}
}

// Has reports whether the value has been observed.
func (s Set) Has(v string) bool {
	_, ok := s[v]
	return ok
}

// Values returns the contents sorted ascending.
func (s Set) Values() []string {
	out := make([]string, 0, len(s))
	for v := range s {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}

// Union merges other into s.
func (s Set) Union(other Set) {
	for v := range other {
		s[v] = struct{}{}
	}
}

func (s Set) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Values())
}

func (s *Set) UnmarshalJSON(data []byte) error {
	var vals []string
	if err := json.Unmarshal(data, &vals); err != nil {
		return err
	}
	*s = make(Set, len(vals))
	for _, v := range vals {
		(*s)[v] = struct{}{}
	}
	return nil
}

// Intelligence is the five-category indicator accumulator for one session.
// The JSON field names match the outbound report schema.
type Intelligence struct {
	BankAccounts       Set `json:"bankAccounts"`
	UPIIDs             Set `json:"upiIds"`
	PhishingLinks      Set `json:"phishingLinks"`
	PhoneNumbers       Set `json:"phoneNumbers"`
	SuspiciousKeywords Set `json:"suspiciousKeywords"`
}

// New returns an empty accumulator.
func New() Intelligence {
	return Intelligence{
		BankAccounts:       make(Set),
		UPIIDs:             make(Set),
		PhishingLinks:      make(Set),
		PhoneNumbers:       make(Set),
		SuspiciousKeywords: make(Set),
	}
}

// Merge unions other into i. Merge is commutative and idempotent: merging the
// same observation any number of times leaves i unchanged after the first.
func (i Intelligence) Merge(other Intelligence) {
	i.BankAccounts.Union(other.BankAccounts)
	i.UPIIDs.Union(other.UPIIDs)
	i.PhishingLinks.Union(other.PhishingLinks)
	i.PhoneNumbers.Union(other.PhoneNumbers)
	i.SuspiciousKeywords.Union(other.SuspiciousKeywords)
}

// Total counts accumulated indicators across all five categories.
func (i Intelligence) Total() int {
	return len(i.BankAccounts) + len(i.UPIIDs) + len(i.PhishingLinks) +
		len(i.PhoneNumbers) + len(i.SuspiciousKeywords)
}

// Clone returns an independent deep copy, for snapshots handed outside the
// session lock.
func (i Intelligence) Clone() Intelligence {
	c := New()
	c.Merge(i)
	return c
}
