package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/albertopd/secureprompt/internal/audit"
	"github.com/albertopd/secureprompt/internal/classify"
	"github.com/albertopd/secureprompt/internal/config"
	"github.com/albertopd/secureprompt/internal/detect"
	"github.com/albertopd/secureprompt/internal/merge"
	"github.com/albertopd/secureprompt/internal/scrub"
	"github.com/albertopd/secureprompt/internal/store"
)

var scrubQuiet bool

var scrubCmd = &cobra.Command{
	Use:   "scrub [file]",
	Short: "Redact sensitive data from text",
	Long: `Scrub reads text from a file (or stdin when the argument is "-" or
omitted), redacts detected entities, and prints the scrubbed text.
The mapping needed to reverse the redaction is stored locally and
referenced by the printed mapping ID.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScrub,
}

func init() {
	scrubCmd.Flags().BoolVarP(&scrubQuiet, "quiet", "q", false, "print only the scrubbed text")
	rootCmd.AddCommand(scrubCmd)
}

func runScrub(cmd *cobra.Command, args []string) error {
	text, err := readInput(args)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	scrubber, mappings, err := buildScrubber(cfg)
	if err != nil {
		return err
	}
	defer mappings.Close()

	result, err := scrubber.Scrub(cmd.Context(), text)
	if err != nil {
		return fmt.Errorf("scrub rejected, text was not passed through: %w", err)
	}

	if scrubQuiet {
		fmt.Fprintln(cmd.OutOrStdout(), result.Scrubbed)
		return nil
	}

	levelColor := color.New(color.FgGreen)
	if result.Level >= classify.C3 {
		levelColor = color.New(color.FgRed, color.Bold)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Level:      %s\n", levelColor.Sprint(result.Level))
	fmt.Fprintf(cmd.OutOrStdout(), "Mapping ID: %s\n", result.MappingID)
	fmt.Fprintf(cmd.OutOrStdout(), "Redacted:   %d span(s)\n\n", len(result.Plan))
	fmt.Fprintln(cmd.OutOrStdout(), result.Scrubbed)
	return nil
}

func readInput(args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}
	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}

func buildScrubber(cfg config.Config) (*scrub.Scrubber, store.Store, error) {
	table := cfg.Table()
	merger := merge.NewMerger(table, cfg.Blacklist)

	if err := os.MkdirAll(filepath.Dir(cfg.StorePath), 0o755); err != nil {
		return nil, nil, fmt.Errorf("create store dir: %w", err)
	}
	mappings, err := store.NewBolt(cfg.StorePath)
	if err != nil {
		return nil, nil, err
	}

	logger, err := audit.NewJSONLLogger(cfg.AuditLog)
	if err != nil {
		mappings.Close()
		return nil, nil, err
	}

	detectors := []detect.Detector{detect.NewRegexDetector(), detect.NewTermDetector()}
	return scrub.New(detectors, merger, table, mappings, logger), mappings, nil
}
