// Package merge reconciles candidate spans from multiple detector sources
// into a single non-overlapping redaction plan. Overlap is resolved by union
// of coverage: redacting more than one detector asked for is always
// acceptable, redacting less never is.
package merge

import (
	"sort"
	"strings"

	"github.com/albertopd/secureprompt/internal/classify"
	"github.com/albertopd/secureprompt/internal/detect"
)

// Plan is an ordered sequence of non-overlapping spans, sorted by start.
type Plan []detect.Span

// RedactedBytes returns the total number of bytes the plan covers.
func (p Plan) RedactedBytes() int {
	n := 0
	for _, s := range p {
		n += s.Len()
	}
	return n
}

// Types returns the distinct entity types present in the plan.
func (p Plan) Types() []string {
	seen := make(map[string]struct{}, len(p))
	types := make([]string, 0, len(p))
	for _, s := range p {
		if _, ok := seen[s.Type]; ok {
			continue
		}
		seen[s.Type] = struct{}{}
		types = append(types, s.Type)
	}
	return types
}

// Merger turns a bag of candidate spans into a Plan. The sensitivity table
// decides which entity type survives when overlapping spans disagree.
// Immutable after construction; safe for concurrent use.
type Merger struct {
	levels    *classify.Table
	blacklist []Rule
}

// NewMerger builds a merger over the given sensitivity table and blacklist
// exclusion rules.
func NewMerger(levels *classify.Table, blacklist []Rule) *Merger {
	return &Merger{levels: levels, blacklist: blacklist}
}

// Merge produces the redaction plan for text from candidate spans.
// Deterministic and total on well-formed input; a single malformed span
// fails the whole call with detect.ErrInvalidSpan, because a bad offset
// could corrupt text reconstruction downstream.
func (m *Merger) Merge(text string, spans []detect.Span) (Plan, error) {
	for _, s := range spans {
		if err := s.Validate(len(text)); err != nil {
			return nil, err
		}
	}

	candidates := make([]detect.Span, 0, len(spans))
	for _, s := range spans {
		if s.Source == detect.SourceBlacklist {
			continue
		}
		if matchesAny(m.blacklist, text[s.Start:s.End], s.Type) {
			continue
		}
		candidates = append(candidates, s)
	}
	if len(candidates) == 0 {
		return Plan{}, nil
	}

	// Earliest start first; on tie higher confidence, then wider coverage.
	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		if a.Confidence != b.Confidence {
			return a.Confidence > b.Confidence
		}
		return a.End > b.End
	})

	plan := make(Plan, 0, len(candidates))
	for _, s := range candidates {
		if len(plan) == 0 || s.Start >= plan[len(plan)-1].End {
			plan = append(plan, s)
			continue
		}
		// Overlaps the last accepted span: extend coverage instead of
		// picking a winner.
		last := &plan[len(plan)-1]
		if s.End > last.End {
			last.End = s.End
		}
		if s.Confidence > last.Confidence {
			last.Confidence = s.Confidence
		}
		if !strings.EqualFold(s.Type, last.Type) {
			if m.levels.LevelFor(s.Type) > m.levels.LevelFor(last.Type) {
				last.Type = s.Type
			}
			last.Source = detect.SourceMerged
		}
	}
	return plan, nil
}
