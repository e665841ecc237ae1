package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/albertopd/secureprompt/internal/audit"
	"github.com/albertopd/secureprompt/internal/stats"
)

var (
	statsRecent bool
	statsExport string
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show redaction statistics from the audit log",
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().BoolVar(&statsRecent, "recent", false, "show recent events")
	statsCmd.Flags().StringVar(&statsExport, "export", "", "export format: json")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	entries, skipped, err := audit.ParseFile(cfg.AuditLog)
	if err != nil {
		return err
	}
	if skipped > 0 {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: skipped %d unreadable audit line(s)\n", skipped)
	}
	st := stats.CollectFromEntries(entries, stats.Options{})

	switch strings.ToLower(statsExport) {
	case "":
		if statsRecent {
			printRecent(cmd.OutOrStdout(), st)
			return nil
		}
		printSummary(cmd.OutOrStdout(), st)
		return nil
	case "json":
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(st)
	default:
		return fmt.Errorf("unsupported export format %q", statsExport)
	}
}

func printSummary(w io.Writer, st stats.Stats) {
	fmt.Fprintln(w, "SecurePrompt Statistics")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	fmt.Fprintf(w, "Operations:  %d (%d scrubs, %d descrubs, %d errors)\n",
		st.Operations.Total, st.Operations.Scrubs, st.Operations.Descrubs, st.Operations.Errors)
	fmt.Fprintln(w)

	fmt.Fprintln(w, "Redacted Items")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	types := make([]string, 0, len(st.RedactedItems.ByType))
	for k := range st.RedactedItems.ByType {
		types = append(types, k)
	}
	sort.Strings(types)
	for _, t := range types {
		v := st.RedactedItems.ByType[t]
		fmt.Fprintf(w, "%-20s %5d %s\n", t+":", v, progress(v, st.RedactedItems.Total))
	}
	fmt.Fprintf(w, "Total:               %d\n\n", st.RedactedItems.Total)

	fmt.Fprintln(w, "By Security Level")
	fmt.Fprintln(w, strings.Repeat("-", 40))
	levels := make([]string, 0, len(st.ByLevel))
	for k := range st.ByLevel {
		levels = append(levels, k)
	}
	sort.Strings(levels)
	for _, l := range levels {
		fmt.Fprintf(w, "%-6s %d\n", l+":", st.ByLevel[l])
	}
}

func printRecent(w io.Writer, st stats.Stats) {
	fmt.Fprintln(w, "Recent Events (last 20)")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	fmt.Fprintf(w, "%-10s %-9s %-38s %-5s %-9s %-7s\n", "TIME", "OP", "MAPPING", "LEVEL", "REDACTED", "OUTCOME")
	fmt.Fprintln(w, strings.Repeat("-", 84))
	for _, r := range st.Recent {
		tm := r.Timestamp
		if ts, err := time.Parse(time.RFC3339Nano, r.Timestamp); err == nil {
			tm = ts.Format("15:04:05")
		}
		fmt.Fprintf(w, "%-10s %-9s %-38s %-5s %-9d %-7s\n", tm, r.Operation, r.MappingID, r.Level, r.Redacted, r.Outcome)
	}
	fmt.Fprintln(w, strings.Repeat("-", 84))
	fmt.Fprintf(w, "Showing %d of %d total events\n", len(st.Recent), st.Operations.Total)
}
