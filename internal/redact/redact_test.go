package redact

import (
	"errors"
	"strings"
	"testing"

	"github.com/albertopd/secureprompt/internal/detect"
	"github.com/albertopd/secureprompt/internal/merge"
)

func planOf(spans ...detect.Span) merge.Plan { return merge.Plan(spans) }

func TestRedactReplacesSpans(t *testing.T) {
	text := "email jane@example.com phone 0472 11 22 33"
	plan := planOf(
		detect.Span{Type: "EMAIL_ADDRESS", Start: 6, End: 22, Confidence: 0.99, Source: detect.SourceRegex},
		detect.Span{Type: "PHONE_NUMBER", Start: 29, End: 42, Confidence: 0.8, Source: detect.SourceRegex},
	)
	scrubbed, mapping := Redact(text, plan)
	if scrubbed != "email [EMAIL_ADDRESS_1] phone [PHONE_NUMBER_1]" {
		t.Fatalf("scrubbed = %q", scrubbed)
	}
	if mapping.Count != 2 || len(mapping.Entries) != 2 {
		t.Fatalf("mapping = %+v, want 2 entries", mapping)
	}
	if mapping.Entries[0].Original != "jane@example.com" || mapping.Entries[1].Original != "0472 11 22 33" {
		t.Fatalf("mapping originals = %+v", mapping.Entries)
	}
}

func TestRedactMappingPositionsPointAtPlaceholders(t *testing.T) {
	text := "card 4111 1111 1111 1111 and card 5500 0000 0000 0004 end"
	plan := planOf(
		detect.Span{Type: "CREDIT_CARD", Start: 5, End: 24},
		detect.Span{Type: "CREDIT_CARD", Start: 34, End: 53},
	)
	scrubbed, mapping := Redact(text, plan)
	for _, e := range mapping.Entries {
		got := scrubbed[e.Pos : e.Pos+len(e.Placeholder)]
		if got != e.Placeholder {
			t.Errorf("at pos %d: %q, want %q", e.Pos, got, e.Placeholder)
		}
	}
	if mapping.Entries[0].Placeholder == mapping.Entries[1].Placeholder {
		t.Fatalf("placeholders must be unique per entry: %+v", mapping.Entries)
	}
}

func TestRedactEmptyPlanPassesThrough(t *testing.T) {
	text := "nothing sensitive"
	scrubbed, mapping := Redact(text, merge.Plan{})
	if scrubbed != text {
		t.Fatalf("scrubbed = %q, want unchanged", scrubbed)
	}
	if mapping.Count != 0 || len(mapping.Entries) != 0 {
		t.Fatalf("mapping = %+v, want empty", mapping)
	}
}

func TestRedactRemovesOriginals(t *testing.T) {
	text := "IBAN BE68 5390 0754 7034 for Jane"
	plan := planOf(detect.Span{Type: "IBAN_CODE", Start: 5, End: 24})
	scrubbed, mapping := Redact(text, plan)
	for _, e := range mapping.Entries {
		if strings.Contains(scrubbed, e.Original) {
			t.Fatalf("original %q still present in %q", e.Original, scrubbed)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		text string
		plan merge.Plan
	}{
		{
			name: "ascii",
			text: "Call 555-123-4567 now",
			plan: planOf(detect.Span{Type: "PHONE_NUMBER", Start: 5, End: 17}),
		},
		{
			name: "unicode surrounding text",
			text: "Réunion: carte 4111 1111 1111 1111 — déjà payé €100",
			plan: planOf(detect.Span{Type: "CREDIT_CARD", Start: 16, End: 35}),
		},
		{
			name: "multibyte inside span",
			text: "naam: Zoë Müller, klant 42",
			plan: planOf(detect.Span{Type: "PERSON", Start: 6, End: 18}),
		},
		{
			name: "span at text boundaries",
			text: "jane@example.com",
			plan: planOf(detect.Span{Type: "EMAIL_ADDRESS", Start: 0, End: 16}),
		},
		{
			name: "empty plan",
			text: "geen gevoelige data",
			plan: merge.Plan{},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scrubbed, mapping := Redact(tt.text, tt.plan)
			restored, err := Descrub(scrubbed, mapping)
			if err != nil {
				t.Fatalf("Descrub() error = %v", err)
			}
			if restored != tt.text {
				t.Fatalf("round trip mismatch:\n got  %q\n want %q", restored, tt.text)
			}
		})
	}
}

func TestDescrubLeavesLiteralPlaceholderShapedTokens(t *testing.T) {
	// The queue token was never redacted; it must round-trip as plain text.
	text := "ticket ref [QUEUE_7] for jane@example.com thanks"
	scrubbed, mapping := Redact(text, planOf(detect.Span{Type: "EMAIL_ADDRESS", Start: 25, End: 41}))

	restored, err := Descrub(scrubbed, mapping)
	if err != nil {
		t.Fatalf("Descrub() error = %v", err)
	}
	if restored != text {
		t.Fatalf("round trip mismatch:\n got  %q\n want %q", restored, text)
	}
}

func TestDescrubTamperedPositionFailsClosed(t *testing.T) {
	text := "email jane@example.com done"
	scrubbed, mapping := Redact(text, planOf(detect.Span{Type: "EMAIL_ADDRESS", Start: 6, End: 22}))

	tampered := mapping
	tampered.Entries = append([]Entry(nil), mapping.Entries...)
	tampered.Entries[0].Pos += 3

	if _, err := Descrub(scrubbed, tampered); !errors.Is(err, ErrMappingMismatch) {
		t.Fatalf("err = %v, want ErrMappingMismatch", err)
	}
}

func TestDescrubDuplicatePlaceholderFailsClosed(t *testing.T) {
	m := Mapping{Count: 2, Entries: []Entry{
		{Placeholder: "[PERSON_1]", Original: "a", Type: "PERSON", Pos: 0},
		{Placeholder: "[PERSON_1]", Original: "b", Type: "PERSON", Pos: 10},
	}}
	if _, err := Descrub("[PERSON_1] [PERSON_1]", m); !errors.Is(err, ErrMappingMismatch) {
		t.Fatalf("err = %v, want ErrMappingMismatch", err)
	}
}

func TestDescrubNeverReturnsPartialText(t *testing.T) {
	text := "a jane@example.com b 0472 11 22 33 c"
	scrubbed, mapping := Redact(text, planOf(
		detect.Span{Type: "EMAIL_ADDRESS", Start: 2, End: 18},
		detect.Span{Type: "PHONE_NUMBER", Start: 21, End: 34},
	))
	// Drop the second entry: the count recorded at redaction no longer
	// matches, so the whole call fails instead of restoring half the text.
	truncated := Mapping{Count: mapping.Count, Entries: mapping.Entries[:1]}
	out, err := Descrub(scrubbed, truncated)
	if !errors.Is(err, ErrMappingMismatch) {
		t.Fatalf("err = %v, want ErrMappingMismatch", err)
	}
	if out != "" {
		t.Fatalf("partial text returned: %q", out)
	}
}
