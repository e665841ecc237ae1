// Package detect defines the span primitive shared by all entity detectors
// and the built-in regex and deny-list detectors. The statistical NER model
// is an external collaborator: it plugs in behind the Detector interface and
// is never embedded here.
package detect

import (
	"context"
	"errors"
	"fmt"
)

// Source identifies which kind of producer emitted a span.
type Source string

const (
	SourceDefault   Source = "default"
	SourceRegex     Source = "regex"
	SourceModel     Source = "model"
	SourceBlacklist Source = "blacklist"
	// SourceMerged marks spans coalesced from conflicting detections.
	// Only the merger produces it.
	SourceMerged Source = "merged"
)

// ErrInvalidSpan is returned when a candidate span has malformed offsets.
// A malformed span indicates an upstream detector bug; callers must not
// retry with the same input.
var ErrInvalidSpan = errors.New("invalid span")

// Span is a single detected entity occurrence. Offsets are half-open byte
// positions into the text the span was detected on.
type Span struct {
	Type       string  `json:"type"`
	Start      int     `json:"start"`
	End        int     `json:"end"`
	Confidence float64 `json:"confidence"`
	Source     Source  `json:"source"`
}

// Validate checks the span's offsets against the text length.
func (s Span) Validate(textLen int) error {
	if s.Start < 0 || s.Start >= s.End || s.End > textLen {
		return fmt.Errorf("%w: %s [%d,%d) in text of %d bytes", ErrInvalidSpan, s.Type, s.Start, s.End, textLen)
	}
	return nil
}

// Overlap returns the number of bytes shared by two spans.
func (s Span) Overlap(o Span) int {
	lo := s.Start
	if o.Start > lo {
		lo = o.Start
	}
	hi := s.End
	if o.End < hi {
		hi = o.End
	}
	if hi <= lo {
		return 0
	}
	return hi - lo
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.End - s.Start }

// Detector produces candidate spans for a text. Implementations must not
// mutate the text and must return offsets valid for it.
type Detector interface {
	Detect(ctx context.Context, text string) ([]Span, error)
}
