package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"prospector/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	flagLogLevel  string
	flagLogFormat string
	flagTaxonomy  string
	flagEnvFile   string
)

var rootCmd = &cobra.Command{
	Use:   "prospector",
	Short: "Mine Reddit discussions for unmet needs and startup ideas",
	Long: "Prospector scores Reddit posts and comments for problem-indicating\n" +
		"language, blends the signal with community engagement, and ranks the\n" +
		"results. Run it as an MCP stdio server or call the analyses directly.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		level, err := logging.ParseLevel(flagLogLevel)
		if err != nil {
			return err
		}
		logging.Init(level, flagLogFormat, nil)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&flagLogFormat, "log-format", "text", "log format: text or json")
	rootCmd.PersistentFlags().StringVar(&flagTaxonomy, "taxonomy", "", "path to a taxonomy override file (default: built-in, or PROSPECTOR_TAXONOMY)")
	rootCmd.PersistentFlags().StringVar(&flagEnvFile, "env-file", "", "load Reddit credentials from this .env file (default: ./.env if present)")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(searchCmd)
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(trendingCmd)
	rootCmd.AddCommand(postCmd)
	rootCmd.AddCommand(patternsCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
