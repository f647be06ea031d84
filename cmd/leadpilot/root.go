package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "leadpilot",
	Short: "Marketing outcome tracking & prediction engine",
	Long: `Leadpilot tracks the outcomes of outreach emails, pricing offers,
and content pieces, derives simple statistical models from that
history, and uses them to steer what happens next.

Core capabilities:
- Records email, conversion, pricing, and content outcomes
- Learns which subject patterns convert and reweights decisions
- Predicts conversion probability, lifetime value, and churn risk
- Recommends send times and next-best actions
- Trains pricing, content, and lead-scoring models on a cooldown
- Runs A/B subject tests against a persisted ledger`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(trackCmd)
	rootCmd.AddCommand(predictCmd)
	rootCmd.AddCommand(trainCmd)
	rootCmd.AddCommand(abtestCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(versionCmd)
}
