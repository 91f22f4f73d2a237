package intel

import (
	"regexp"
	"strings"

	"github.com/scamnet-io/decoy/internal/sanitize"
)

var (
	accountRe = regexp.MustCompile(`\b\d{9,18}\b`)
	upiRe     = regexp.MustCompile(`[a-zA-Z0-9.\-_]{2,256}@[a-zA-Z]{2,64}`)
	linkRe    = regexp.MustCompile(`https?://[^\s"'<>]+|www\.[^\s"'<>]+`)
	// Short-link hosts used without a scheme, e.g. "bit.ly/x".
	shortLinkRe = regexp.MustCompile(`\b(?:bit\.ly|tinyurl\.com|t\.co|goo\.gl|is\.gd|rb\.gy|cutt\.ly)/[^\s"'<>]+`)
	phoneRe     = regexp.MustCompile(`(?:\+91[\-\s]?)?[6-9]\d{9}`)
)

// DefaultKeywords is the fallback urgency/coercion vocabulary. Deployments
// override it via configuration.
var DefaultKeywords = []string{
	"urgent", "verify", "blocked", "block", "suspend", "kyc", "police",
	"expire", "immediate", "confirm", "freeze", "arrest", "penalty",
}

// Extractor derives indicators from message text. It is stateless; callers
// merge results into a session accumulator themselves.
type Extractor struct {
	keywordRe *regexp.Regexp
}

// NewExtractor builds an extractor with the given suspicious-keyword
// vocabulary. An empty vocabulary falls back to DefaultKeywords.
func NewExtractor(keywords []string) *Extractor {
	if len(keywords) == 0 {
		keywords = DefaultKeywords
	}
	quoted := make([]string, len(keywords))
	for i, k := range keywords {
		quoted[i] = regexp.QuoteMeta(strings.ToLower(strings.TrimSpace(k)))
	}
	return &Extractor{
		keywordRe: regexp.MustCompile(`(?i)\b(` + strings.Join(quoted, "|") + `)\b`),
	}
}

// Extract pulls all indicator categories out of text. The categories are
// matched independently: one token may land in more than one set (a 10-digit
// phone number is also a plausible account number). Text is sanitized
// defensively, so raw input degrades to an empty result rather than an error.
func (e *Extractor) Extract(text string) Intelligence {
	out := New()
	clean := sanitize.Clean(text)
	if clean == "" {
		return out
	}

	for _, m := range accountRe.FindAllString(clean, -1) {
		out.BankAccounts.Add(m)
	}
	for _, m := range upiRe.FindAllString(clean, -1) {
		out.UPIIDs.Add(m)
	}
	for _, m := range linkRe.FindAllString(clean, -1) {
		out.PhishingLinks.Add(m)
	}
	// Scheme-less short links, matched against text with the full links blanked
	// out so "http://bit.ly/x" is not counted twice.
	for _, m := range shortLinkRe.FindAllString(linkRe.ReplaceAllString(clean, " "), -1) {
		out.PhishingLinks.Add(m)
	}
	for _, m := range phoneRe.FindAllString(clean, -1) {
		out.PhoneNumbers.Add(m)
	}
	for _, m := range e.keywordRe.FindAllString(clean, -1) {
		out.SuspiciousKeywords.Add(strings.ToLower(m))
	}
	return out
}

// ExtractAll runs Extract over a batch of messages and unions the results,
// used to seed a session from prior conversation history.
func (e *Extractor) ExtractAll(texts []string) Intelligence {
	out := New()
	for _, t := range texts {
		out.Merge(e.Extract(t))
	}
	return out
}
