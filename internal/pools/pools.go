// Package pools holds the finite response-sentence pools the decoy replies
// from, plus the topic classifier that routes a scammer's message to the
// right question pool.
package pools

import (
	"math/rand/v2"
	"strings"
)

// Topic is a closed enumeration of scam-technique categories.
type Topic int

const (
	TopicGeneric Topic = iota
	TopicAccount
	TopicPaymentID
	TopicLink
	TopicOneTimeCode
	TopicAmount
	TopicIdentityVerification
)

// AllTopics lists every probeable topic, excluding TopicGeneric.
var AllTopics = []Topic{
	TopicAccount,
	TopicPaymentID,
	TopicLink,
	TopicOneTimeCode,
	TopicAmount,
	TopicIdentityVerification,
}

func (t Topic) String() string {
	switch t {
	case TopicAccount:
		return "account"
	case TopicPaymentID:
		return "payment-id"
	case TopicLink:
		return "link"
	case TopicOneTimeCode:
		return "one-time-code"
	case TopicAmount:
		return "amount"
	case TopicIdentityVerification:
		return "identity-verification"
	default:
		return "generic"
	}
}

// Pool is an immutable named set of literal sentences.
type Pool struct {
	Name      string
	Sentences []string
}

// Registry is the full taxonomy of pools. It is built once at startup and
// injected into the engine; nothing mutates it afterwards.
type Registry struct {
	Initial    Pool
	Extraction Pool
	Stalling   Pool
	questions  map[Topic]Pool
}

// Question returns the probing pool for a topic. Unknown or generic topics
// fall back to the initial-confusion pool so a reply always exists.
func (r *Registry) Question(t Topic) Pool {
	if p, ok := r.questions[t]; ok {
		return p
	}
	return r.Initial
}

// classifyRule pairs a topic with the substrings that select it. Rules are
// evaluated in order; the first hit wins.
type classifyRule struct {
	topic Topic
	terms []string
}

var classifyRules = []classifyRule{
	{TopicAccount, []string{"bank", "account", "ifsc", "statement", "branch", "passbook"}},
	{TopicPaymentID, []string{"upi", "gpay", "paytm", "phonepe", "qr", "scan"}},
	{TopicLink, []string{"link", "click", "url", "http", "website", "apk", "download"}},
	{TopicOneTimeCode, []string{"otp", "code", "pin", "password"}},
	{TopicAmount, []string{"amount", "rupees", "transfer", "fee", "charge", "lakh"}},
	{TopicIdentityVerification, []string{"police", "block", "suspend", "jail", "illegal", "kyc", "verify", "aadhaar", "pan"}},
}

// Classify maps message text to a topic with ordered first-match substring
// rules. Unmatched text is TopicGeneric.
func Classify(text string) Topic {
	msg := strings.ToLower(text)
	for _, rule := range classifyRules {
		for _, term := range rule.terms {
			if strings.Contains(msg, term) {
				return rule.topic
			}
		}
	}
	return TopicGeneric
}

// Pick selects a uniformly random sentence from the pool that is not in the
// used set. If every sentence is used the pool is treated as reset: Pick
// returns any sentence and reports wrapped=true so the caller can clear its
// exclusion set before recording the new choice.
func (r *Registry) Pick(p Pool, used map[string]struct{}) (sentence string, wrapped bool) {
	unused := make([]string, 0, len(p.Sentences))
	for _, s := range p.Sentences {
		if _, ok := used[s]; !ok {
			unused = append(unused, s)
		}
	}
	if len(unused) == 0 {
		return p.Sentences[rand.IntN(len(p.Sentences))], true
	}
	return unused[rand.IntN(len(unused))], false
}
