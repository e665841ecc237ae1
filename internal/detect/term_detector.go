package detect

import (
	"context"
	"strings"
	"unicode"
)

// Special-category terms under GDPR article 9. Their mere presence next to a
// customer reference is sensitive, so plain keyword matching is enough.
var defaultDenyTerms = map[string][]string{
	"ETHNIC_ORIGIN":        {"ethnic origin"},
	"POLITICAL_OPINION":    {"political opinion", "liberal", "conservative", "socialist"},
	"HEALTH":               {"health record", "chronic illness", "mental health", "disability"},
	"RELIGIOUS_BELIEF":     {"religious belief", "christian", "muslim", "jewish", "hindu", "buddhist"},
	"PHILOSOPHICAL_BELIEF": {"philosophical belief", "agnostic", "atheist", "humanist"},
	"SEXUAL_ORIENTATION":   {"sexual orientation", "homosexual", "heterosexual", "bisexual", "asexual"},
}

const termConfidence = 0.7

// TermDetector flags occurrences of deny-listed sensitive terms.
// Matching is case-insensitive and bounded at word edges.
type TermDetector struct {
	terms map[string][]string
}

// NewTermDetector returns a detector over the built-in special-category
// term lists.
func NewTermDetector() *TermDetector {
	return &TermDetector{terms: defaultDenyTerms}
}

// NewTermDetectorWithTerms returns a detector over a caller-supplied
// entity type → term list table.
func NewTermDetectorWithTerms(terms map[string][]string) *TermDetector {
	return &TermDetector{terms: terms}
}

func (d *TermDetector) Detect(_ context.Context, text string) ([]Span, error) {
	lower := foldASCII(text)
	out := make([]Span, 0)
	for entityType, terms := range d.terms {
		for _, term := range terms {
			for from := 0; ; {
				i := strings.Index(lower[from:], term)
				if i < 0 {
					break
				}
				start := from + i
				end := start + len(term)
				if wordBounded(lower, start, end) {
					out = append(out, Span{
						Type:       entityType,
						Start:      start,
						End:        end,
						Confidence: termConfidence,
						Source:     SourceDefault,
					})
				}
				from = end
			}
		}
	}
	return out, nil
}

// foldASCII lowercases ASCII letters only. Unicode-aware lowercasing is not
// byte-length preserving (U+0130 shrinks from 2 bytes to 3), which would
// shift every offset after such a rune; the deny terms are ASCII, so a
// per-byte fold keeps indices valid in the original text.
func foldASCII(s string) string {
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if 'A' <= b[i] && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

func wordBounded(s string, start, end int) bool {
	if start > 0 && isWordByte(s[start-1]) {
		return false
	}
	if end < len(s) && isWordByte(s[end]) {
		return false
	}
	return true
}

func isWordByte(b byte) bool {
	return b == '_' || unicode.IsLetter(rune(b)) || unicode.IsDigit(rune(b))
}
