package commands

import (
	"bufio"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/albertopd/secureprompt/internal/classify"
	"github.com/albertopd/secureprompt/internal/detect"
	"github.com/albertopd/secureprompt/internal/merge"
	"github.com/albertopd/secureprompt/internal/score"
)

var (
	evalExport  string
	evalWorkers int
)

var evalCmd = &cobra.Command{
	Use:   "eval <cases.jsonl>",
	Short: "Score the detectors against ground-truth cases",
	Long: `Eval runs the built-in detectors over a JSONL case file and scores the
predicted redaction plans against ground truth with the security-aware
cost model: over-detection scores 0.9, under-detection is penalized
hard.

Each input line is one case:

  {"name": "c4-042", "text": "...", "truth": [{"type": "IBAN_CODE", "start": 12, "end": 31}]}`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVar(&evalExport, "export", "", "export format: json|csv")
	evalCmd.Flags().IntVar(&evalWorkers, "workers", 0, "concurrent scoring workers (default: NumCPU)")
	rootCmd.AddCommand(evalCmd)
}

// evalCase is one line of the case file.
type evalCase struct {
	Name  string        `json:"name"`
	Text  string        `json:"text"`
	Truth []detect.Span `json:"truth"`
}

func runEval(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	table := cfg.Table()
	merger := merge.NewMerger(table, cfg.Blacklist)
	detectors := []detect.Detector{detect.NewRegexDetector(), detect.NewTermDetector()}

	raw, err := parseCases(args[0])
	if err != nil {
		return err
	}

	cases := make([]score.Case, 0, len(raw))
	for _, rc := range raw {
		predicted, err := predictPlan(cmd.Context(), detectors, merger, rc.Text)
		if err != nil {
			return fmt.Errorf("case %q: %w", rc.Name, err)
		}
		truth, err := merger.Merge(rc.Text, rc.Truth)
		if err != nil {
			return fmt.Errorf("case %q: bad ground truth: %w", rc.Name, err)
		}
		cases = append(cases, score.Case{Name: rc.Name, Predicted: predicted, Truth: truth})
	}

	workers := evalWorkers
	if workers == 0 {
		workers = cfg.Workers
	}
	report := score.Batch(cases, cfg.Scoring, table, workers)

	switch strings.ToLower(evalExport) {
	case "":
		printReport(cmd.OutOrStdout(), report)
		return nil
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	case "csv":
		return exportCasesCSV(cmd.OutOrStdout(), cases, report)
	default:
		return fmt.Errorf("unsupported export format %q", evalExport)
	}
}

func parseCases(path string) ([]evalCase, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open cases: %w", err)
	}
	defer f.Close()

	var cases []evalCase
	s := bufio.NewScanner(f)
	buf := make([]byte, 0, 64*1024)
	s.Buffer(buf, 2*1024*1024)
	line := 0
	for s.Scan() {
		line++
		if len(strings.TrimSpace(s.Text())) == 0 {
			continue
		}
		var c evalCase
		if err := json.Unmarshal(s.Bytes(), &c); err != nil {
			return nil, fmt.Errorf("parse case at line %d: %w", line, err)
		}
		if c.Name == "" {
			c.Name = fmt.Sprintf("case-%d", line)
		}
		for i := range c.Truth {
			if c.Truth[i].Source == "" {
				c.Truth[i].Source = detect.SourceDefault
			}
			if c.Truth[i].Confidence == 0 {
				c.Truth[i].Confidence = 1
			}
		}
		cases = append(cases, c)
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("scan cases: %w", err)
	}
	return cases, nil
}

func predictPlan(ctx context.Context, detectors []detect.Detector, merger *merge.Merger, text string) (merge.Plan, error) {
	spans := make([]detect.Span, 0)
	for _, d := range detectors {
		found, err := d.Detect(ctx, text)
		if err != nil {
			return nil, err
		}
		spans = append(spans, found...)
	}
	return merger.Merge(text, spans)
}

func printReport(w io.Writer, r score.Report) {
	bold := color.New(color.Bold)
	green := color.New(color.FgGreen)
	yellow := color.New(color.FgYellow)
	red := color.New(color.FgRed)

	bold.Fprintln(w, "Security-Aware Evaluation")
	fmt.Fprintln(w, strings.Repeat("-", 44))
	fmt.Fprintf(w, "Cases:          %d\n", r.Cases)
	fmt.Fprintf(w, "Security score: %s\n", scoreLabel(r.Mean))
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Verdicts")
	fmt.Fprintln(w, strings.Repeat("-", 44))
	fmt.Fprintf(w, "%-16s %5d  %s\n", "perfect:", r.Verdicts[score.Perfect], green.Sprint(progress(r.Verdicts[score.Perfect], r.Cases)))
	fmt.Fprintf(w, "%-16s %5d  %s\n", "over-detect:", r.Verdicts[score.OverDetect], yellow.Sprint(progress(r.Verdicts[score.OverDetect], r.Cases)))
	fmt.Fprintf(w, "%-16s %5d  %s\n", "partial:", r.Verdicts[score.PartialOverlap], yellow.Sprint(progress(r.Verdicts[score.PartialOverlap], r.Cases)))
	fmt.Fprintf(w, "%-16s %5d  %s\n", "under-detect:", r.Verdicts[score.UnderDetect], red.Sprint(progress(r.Verdicts[score.UnderDetect], r.Cases)))
	fmt.Fprintf(w, "False positives: %d (not penalized)\n\n", r.FalsePositives)

	fmt.Fprintln(w, "By Security Level")
	fmt.Fprintln(w, strings.Repeat("-", 44))
	levels := make([]classify.Level, 0, len(r.ByLevel))
	for l := range r.ByLevel {
		levels = append(levels, l)
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i] < levels[j] })
	for _, l := range levels {
		st := r.ByLevel[l]
		fmt.Fprintf(w, "%-4s %4d cases   %s\n", l.String()+":", st.Cases, scoreLabel(st.Mean))
	}
}

func scoreLabel(v float64) string {
	label := fmt.Sprintf("%.1f%%", v*100)
	switch {
	case v >= 0.9:
		return color.GreenString(label)
	case v >= 0.7:
		return color.YellowString(label)
	default:
		return color.RedString(label)
	}
}

func progress(v, total int) string {
	if total <= 0 {
		return ""
	}
	p := int(float64(v) / float64(total) * 20)
	if p > 20 {
		p = 20
	}
	return strings.Repeat("█", p) + strings.Repeat("░", 20-p)
}

func exportCasesCSV(w io.Writer, cases []score.Case, r score.Report) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()
	if err := cw.Write([]string{"name", "verdict", "score", "truth_spans", "predicted_spans", "false_positives"}); err != nil {
		return err
	}
	for i, c := range cases {
		res := r.Results[i]
		if err := cw.Write([]string{
			c.Name,
			string(res.Verdict),
			fmt.Sprintf("%.4f", res.Score),
			fmt.Sprintf("%d", len(c.Truth)),
			fmt.Sprintf("%d", len(c.Predicted)),
			fmt.Sprintf("%d", res.FalsePositives),
		}); err != nil {
			return err
		}
	}
	return cw.Error()
}
