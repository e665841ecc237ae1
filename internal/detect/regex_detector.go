package detect

import (
	"context"
	"regexp"
)

// pattern couples a compiled regex with the entity type it detects and the
// confidence assigned to its matches.
type pattern struct {
	re         *regexp.Regexp
	entityType string
	confidence float64
}

// Financial and personal data patterns for Belgian banking text. Offsets
// come straight from the regex engine, so they are byte positions.
var financialPatterns = []pattern{
	{regexp.MustCompile(`\b(?:\d[ -]?){13,19}\b`), "CREDIT_CARD", 0.85},
	{regexp.MustCompile(`\bBE\d{2}\s?\d{4}\s?\d{4}\s?\d{4}\b`), "IBAN_CODE", 0.95},
	{regexp.MustCompile(`\b\d{2}[.\-]?\d{2}[.\-]?\d{2}[.\-]?\d{3}[.\-]?\d{2}\b`), "NATIONAL_REG", 0.9},
	{regexp.MustCompile(`\bBE0\d{9}\b`), "VAT_NUMBER", 0.9},
	{regexp.MustCompile(`(\+32\s?|\b0)(\d{1,2})(\s?\d{2}\s?\d{2}\s?\d{2}|\s?\d{3}\s?\d{3})`), "PHONE_NUMBER", 0.8},
	{regexp.MustCompile(`[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}`), "EMAIL_ADDRESS", 0.99},
	{regexp.MustCompile(`\*{4}\d{2}\b`), "PIN_MASKED", 0.9},
	{regexp.MustCompile(`\bCVV:?\s?\d{3,4}\b`), "CVV", 0.9},
	{regexp.MustCompile(`\b[1-9][0-9]{3}\b`), "POSTAL_CODE", 0.4},
}

// RegexDetector detects structured financial identifiers with fixed
// per-pattern confidences.
type RegexDetector struct {
	patterns []pattern
}

// NewRegexDetector returns a detector covering the built-in financial
// pattern catalog.
func NewRegexDetector() *RegexDetector {
	return &RegexDetector{patterns: financialPatterns}
}

func (d *RegexDetector) Detect(_ context.Context, text string) ([]Span, error) {
	out := make([]Span, 0)
	for _, p := range d.patterns {
		for _, idx := range p.re.FindAllStringIndex(text, -1) {
			out = append(out, Span{
				Type:       p.entityType,
				Start:      idx[0],
				End:        idx[1],
				Confidence: p.confidence,
				Source:     SourceRegex,
			})
		}
	}
	return out, nil
}
