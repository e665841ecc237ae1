// Package score compares predicted redaction plans against ground truth
// using a security-first cost model: over-detection is mildly imperfect,
// under-detection is a data leak and penalized hard.
package score

import (
	"github.com/albertopd/secureprompt/internal/detect"
	"github.com/albertopd/secureprompt/internal/merge"
)

// Verdict classifies how a prediction relates to a truth span.
type Verdict string

const (
	Perfect        Verdict = "perfect"
	OverDetect     Verdict = "over_detect"
	UnderDetect    Verdict = "under_detect"
	PartialOverlap Verdict = "partial_overlap"
)

// severity orders verdicts from best to worst for case-level reporting.
var severity = map[Verdict]int{
	Perfect:        0,
	OverDetect:     1,
	PartialOverlap: 2,
	UnderDetect:    3,
}

// Weights are the tunable constants of the cost model. The shape is fixed
// (Perfect > Over > Under), the exact values are not contractual.
type Weights struct {
	Perfect  float64 `yaml:"perfect" json:"perfect"`
	Over     float64 `yaml:"over" json:"over"`
	UnderMax float64 `yaml:"under_max" json:"under_max"`
}

// DefaultWeights returns the standard security-aware cost model.
func DefaultWeights() Weights {
	return Weights{Perfect: 1.0, Over: 0.9, UnderMax: 0.3}
}

// SpanResult is the verdict for one ground-truth span.
type SpanResult struct {
	Truth     detect.Span  `json:"truth"`
	Predicted *detect.Span `json:"predicted,omitempty"`
	Verdict   Verdict      `json:"verdict"`
	Score     float64      `json:"score"`
	Covered   float64      `json:"covered"`
}

// ScoredCase is the outcome of scoring one prediction against one truth.
type ScoredCase struct {
	Predicted      merge.Plan   `json:"predicted"`
	Truth          merge.Plan   `json:"truth"`
	Verdict        Verdict      `json:"verdict"`
	Score          float64      `json:"score"`
	Spans          []SpanResult `json:"spans,omitempty"`
	FalsePositives int          `json:"false_positives"`
}

// Score evaluates a predicted plan against ground truth. Per truth span the
// best-overlapping predicted span is classified; the case score is the mean
// of per-span scores and the case verdict the worst per-span verdict.
// Predicted spans with no truth counterpart never lower the score; they are
// counted as FalsePositives for reporting only.
func Score(predicted, truth merge.Plan, w Weights) ScoredCase {
	c := ScoredCase{Predicted: predicted, Truth: truth}
	c.FalsePositives = countFalsePositives(predicted, truth)

	if len(truth) == 0 {
		if len(predicted) == 0 {
			c.Verdict, c.Score = Perfect, w.Perfect
		} else {
			// Extra caution on clean text: cautious, not wrong.
			c.Verdict, c.Score = OverDetect, w.Over
		}
		return c
	}

	c.Spans = make([]SpanResult, 0, len(truth))
	sum := 0.0
	worst := Perfect
	for _, t := range truth {
		r := scoreSpan(t, predicted, w)
		sum += r.Score
		if severity[r.Verdict] > severity[worst] {
			worst = r.Verdict
		}
		c.Spans = append(c.Spans, r)
	}
	c.Score = sum / float64(len(truth))
	c.Verdict = worst
	return c
}

func scoreSpan(t detect.Span, predicted merge.Plan, w Weights) SpanResult {
	best, overlap := bestMatch(t, predicted)
	if best == nil {
		return SpanResult{Truth: t, Verdict: UnderDetect, Score: 0, Covered: 0}
	}

	covered := float64(overlap) / float64(t.Len())
	r := SpanResult{Truth: t, Predicted: best, Covered: covered}
	switch {
	case best.Start == t.Start && best.End == t.End:
		r.Verdict, r.Score = Perfect, w.Perfect
	case best.Start <= t.Start && best.End >= t.End:
		// Full coverage with extra adjacent text redacted.
		r.Verdict, r.Score = OverDetect, w.Over
	case best.Start >= t.Start && best.End <= t.End:
		// Prediction is strictly inside the truth span: sensitive bytes
		// leaked past the redactor.
		r.Verdict, r.Score = UnderDetect, w.UnderMax*covered
	default:
		// Boundary mismatch on one side only.
		r.Verdict = PartialOverlap
		r.Score = w.UnderMax + (w.Over-w.UnderMax)*covered
	}
	return r
}

func bestMatch(t detect.Span, predicted merge.Plan) (*detect.Span, int) {
	var best *detect.Span
	bestOverlap := 0
	for i := range predicted {
		if ov := predicted[i].Overlap(t); ov > bestOverlap {
			best = &predicted[i]
			bestOverlap = ov
		}
	}
	return best, bestOverlap
}

func countFalsePositives(predicted, truth merge.Plan) int {
	n := 0
	for _, p := range predicted {
		matched := false
		for _, t := range truth {
			if p.Overlap(t) > 0 {
				matched = true
				break
			}
		}
		if !matched {
			n++
		}
	}
	return n
}
