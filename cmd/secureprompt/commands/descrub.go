package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var descrubCmd = &cobra.Command{
	Use:   "descrub <mapping-id> [file]",
	Short: "Reverse a previous redaction",
	Long: `Descrub restores the original text from scrubbed text and the mapping
stored under the given ID. The scrubbed text is read from a file (or
stdin when the argument is "-" or omitted).

Access control is the operator's responsibility: anyone with read
access to the mapping store can reverse a redaction.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runDescrub,
}

func init() {
	rootCmd.AddCommand(descrubCmd)
}

func runDescrub(cmd *cobra.Command, args []string) error {
	mappingID := args[0]
	scrubbed, err := readInput(args[1:])
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

	original, err := scrubber.Descrub(cmd.Context(), mappingID, scrubbed)
	if err != nil {
		return fmt.Errorf("descrub failed, nothing restored: %w", err)
	}
	fmt.Fprint(cmd.OutOrStdout(), original)
	return nil
}
