package commands

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/albertopd/secureprompt/internal/classify"
	"github.com/albertopd/secureprompt/internal/detect"
	"github.com/albertopd/secureprompt/internal/score"
)

func TestParseCases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.jsonl")
	content := `{"name":"c4-001","text":"IBAN BE68 5390 0754 7034","truth":[{"type":"IBAN_CODE","start":5,"end":24}]}

{"text":"nothing here","truth":[]}
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cases, err := parseCases(path)
	if err != nil {
		t.Fatalf("parseCases() error = %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("cases = %d, want 2", len(cases))
	}
	if cases[0].Name != "c4-001" {
		t.Errorf("name = %q", cases[0].Name)
	}
	if cases[1].Name == "" {
		t.Error("missing name was not defaulted")
	}
	if cases[0].Truth[0].Source != detect.SourceDefault || cases[0].Truth[0].Confidence != 1 {
		t.Errorf("truth span defaults not applied: %+v", cases[0].Truth[0])
	}
}

func TestParseCasesRejectsBadLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.jsonl")
	if err := os.WriteFile(path, []byte("{broken\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := parseCases(path); err == nil {
		t.Fatal("expected error for malformed case line")
	}
}

func TestPrintReportSmoke(t *testing.T) {
	r := score.Batch([]score.Case{
		{Name: "a", Predicted: nil, Truth: nil},
	}, score.DefaultWeights(), classify.NewTable(nil), 1)

	var sb strings.Builder
	printReport(&sb, r)
	out := sb.String()
	for _, want := range []string{"Cases:", "perfect:", "under-detect:", "By Security Level"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q:\n%s", want, out)
		}
	}
}
