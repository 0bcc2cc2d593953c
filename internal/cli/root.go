package cli

import (
	"github.com/spf13/cobra"
)

var environment string

var rootCmd = &cobra.Command{
	Use:           "ai-compass",
	Short:         "AI maturity assessment funnel",
	Long:          `AI Compass serves the visitor-facing side of the AI maturity assessment: anonymous sessions, questionnaire caching, submission and report downloads.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: false,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&environment, "env", "local", "environment name, selects .env.<env>")
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(walkthroughCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
