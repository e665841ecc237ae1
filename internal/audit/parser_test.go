package audit

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseFileMissingIsEmpty(t *testing.T) {
	entries, skipped, err := ParseFile(filepath.Join(t.TempDir(), "nope.log"))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if entries != nil || skipped != 0 {
		t.Fatalf("entries = %v, skipped = %d, want empty", entries, skipped)
	}
}

func TestParseFileSkipsAndCountsBadLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	content := `{"operation":"scrub","mapping_id":"a","level":"C4","outcome":"ok"}
not json at all
{"operation":"descrub","mapping_id":"a","outcome":"ok"}
{"mapping_id":"x","outcome":"ok"}
`
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	entries, skipped, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// One unparseable line, one entry without a known operation.
	if skipped != 2 {
		t.Fatalf("skipped = %d, want 2", skipped)
	}
	if entries[0].Operation != OpScrub || entries[0].Level != "C4" {
		t.Fatalf("first entry = %+v", entries[0])
	}
}

func TestLoggerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "audit.log")
	logger, err := NewJSONLLogger(path)
	if err != nil {
		t.Fatalf("NewJSONLLogger() error = %v", err)
	}

	if err := logger.Log(Entry{
		Operation:   OpScrub,
		MappingID:   "m-1",
		Level:       "C3",
		EntityCount: map[string]int{"PERSON": 2},
		Outcome:     "ok",
	}); err != nil {
		t.Fatalf("Log() error = %v", err)
	}
	if err := logger.Log(Entry{Operation: OpDescrub, MappingID: "m-1", Outcome: "ok"}); err != nil {
		t.Fatalf("Log() error = %v", err)
	}

	entries, skipped, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(entries) != 2 || skipped != 0 {
		t.Fatalf("entries = %d, skipped = %d, want 2 and 0", len(entries), skipped)
	}
	if entries[0].Timestamp == "" {
		t.Fatal("timestamp not stamped on write")
	}
	if entries[0].EntityCount["PERSON"] != 2 {
		t.Fatalf("entity count lost: %+v", entries[0])
	}
}
