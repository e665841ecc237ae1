// Package scrub runs the live redaction pipeline: detect, merge, classify,
// redact, persist the mapping, audit. The pipeline is a pure single-pass
// computation per document; documents can be scrubbed fully in parallel.
package scrub

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/albertopd/secureprompt/internal/audit"
	"github.com/albertopd/secureprompt/internal/classify"
	"github.com/albertopd/secureprompt/internal/detect"
	"github.com/albertopd/secureprompt/internal/merge"
	"github.com/albertopd/secureprompt/internal/redact"
	"github.com/albertopd/secureprompt/internal/store"
)

// Result is the output of one scrub: the redacted text, the level the
// document classified at, the plan that was applied, and the ID under which
// the reversal mapping was stored. The original text is never part of it.
type Result struct {
	Scrubbed  string
	MappingID string
	Level     classify.Level
	Plan      merge.Plan
}

// Scrubber wires detectors into the merge/classify/redact core.
type Scrubber struct {
	detectors []detect.Detector
	merger    *merge.Merger
	levels    *classify.Table
	mappings  store.Store
	auditLog  audit.Logger
}

// New builds a Scrubber. A nil auditLog disables auditing.
func New(detectors []detect.Detector, merger *merge.Merger, levels *classify.Table, mappings store.Store, auditLog audit.Logger) *Scrubber {
	if auditLog == nil {
		auditLog = audit.Discard{}
	}
	return &Scrubber{
		detectors: detectors,
		merger:    merger,
		levels:    levels,
		mappings:  mappings,
		auditLog:  auditLog,
	}
}

// Scrub redacts text end to end. On any failure no scrubbed text is
// returned: a rejected request must never silently deliver unredacted
// sensitive text, so the caller gets the error and nothing else.
func (s *Scrubber) Scrub(ctx context.Context, text string) (Result, error) {
	spans := make([]detect.Span, 0)
	for _, d := range s.detectors {
		found, err := d.Detect(ctx, text)
		if err != nil {
			return Result{}, s.fail(audit.OpScrub, fmt.Errorf("detect: %w", err))
		}
		spans = append(spans, found...)
	}

	plan, err := s.merger.Merge(text, spans)
	if err != nil {
		return Result{}, s.fail(audit.OpScrub, fmt.Errorf("merge: %w", err))
	}

	level := s.levels.Classify(plan)
	scrubbed, mapping := redact.Redact(text, plan)

	id := uuid.NewString()
	if err := s.mappings.Save(id, mapping); err != nil {
		return Result{}, s.fail(audit.OpScrub, fmt.Errorf("save mapping: %w", err))
	}

	counts := make(map[string]int, len(plan))
	for _, sp := range plan {
		counts[sp.Type]++
	}
	_ = s.auditLog.Log(audit.Entry{
		Operation:   audit.OpScrub,
		MappingID:   id,
		Level:       level.String(),
		EntityCount: counts,
		Outcome:     "ok",
	})

	return Result{Scrubbed: scrubbed, MappingID: id, Level: level, Plan: plan}, nil
}

// Descrub reverses a previous scrub given its mapping ID. Authorization is
// the caller's responsibility; this only guarantees the textual inverse.
func (s *Scrubber) Descrub(ctx context.Context, mappingID, scrubbed string) (string, error) {
	mapping, ok, err := s.mappings.Get(mappingID)
	if err != nil {
		return "", s.fail(audit.OpDescrub, fmt.Errorf("load mapping %s: %w", mappingID, err))
	}
	if !ok {
		return "", s.fail(audit.OpDescrub, fmt.Errorf("mapping %s not found", mappingID))
	}

	original, err := redact.Descrub(scrubbed, mapping)
	if err != nil {
		return "", s.fail(audit.OpDescrub, err)
	}

	_ = s.auditLog.Log(audit.Entry{
		Operation: audit.OpDescrub,
		MappingID: mappingID,
		Outcome:   "ok",
	})
	return original, nil
}

func (s *Scrubber) fail(op string, err error) error {
	_ = s.auditLog.Log(audit.Entry{Operation: op, Outcome: "error", Error: err.Error()})
	return err
}
