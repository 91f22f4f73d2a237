// Package sanitize normalizes untrusted conversation text into a canonical,
// UTF-8-safe form before it touches session state or the extractor.
package sanitize

import (
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Clean canonicalizes raw input: Unicode canonical decomposition, removal of
// C0/C1 control characters, replacement-rune and invalid-byte removal, and
// whitespace collapsing. Empty input yields an empty string; Clean never
// fails and is idempotent.
func Clean(raw string) string {
	if raw == "" {
		return ""
	}

	// Drop invalid byte sequences and control characters first so the
	// normalizer only ever sees well-formed UTF-8.
	var b strings.Builder
	b.Grow(len(raw))
	for i := 0; i < len(raw); {
		r, size := utf8.DecodeRuneInString(raw[i:])
		i += size
		if r == utf8.RuneError && size == 1 {
			continue // invalid byte sequence
		}
		if isControl(r) {
			continue
		}
		b.WriteRune(r)
	}

	return strings.Join(strings.Fields(norm.NFD.String(b.String())), " ")
}

// isControl reports C0 controls, DEL, and the C1 range. Tabs and newlines are
// controls too; they fold into the whitespace collapse as plain separators.
func isControl(r rune) bool {
	switch {
	case r == '\t' || r == '\n' || r == '\r':
		return false // handled as whitespace
	case r < 0x20 || r == 0x7f:
		return true
	case r >= 0x80 && r <= 0x9f:
		return true
	}
	return false
}
