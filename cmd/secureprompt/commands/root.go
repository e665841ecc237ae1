package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/albertopd/secureprompt/internal/config"
)

var (
	version string
	commit  string
	date    string

	cfgFile string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "secureprompt",
	Short: "SecurePrompt - reversible redaction of sensitive financial data",
	Long: `SecurePrompt redacts sensitive financial and personal data from text
before it reaches a large language model, and reverses the redaction
for authorized callers.

Detected entities are merged into a single non-overlapping redaction
plan, the document is classified C1-C4 by its most sensitive entity,
and every substitution is recorded in a mapping that can be losslessly
undone.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		// Optional .env for SECUREPROMPT_* overrides; absence is fine.
		_ = godotenv.Load()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() error {
	return rootCmd.Execute()
}

// SetVersionInfo sets the version information for the CLI
func SetVersionInfo(v, c, d string) {
	version = v
	commit = c
	date = d
	rootCmd.Version = fmt.Sprintf("%s (commit: %s, built: %s)", v, c, d)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.secureprompt/config.yaml)")
}

func loadConfig() (config.Config, error) {
	path := cfgFile
	if path == "" {
		p, err := config.ConfigPath()
		if err != nil {
			return config.Config{}, err
		}
		path = p
	}
	return config.Load(path)
}
