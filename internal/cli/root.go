// Package cli implements the ledgerd command-line interface.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version is the daemon version, overridable at link time.
var Version = "0.1.0"

var rootCmd = &cobra.Command{
	Use:   "ledgerd",
	Short: "In-memory ledger engine with logical-clock settlement",
	Long: `ledgerd is an in-memory ledger engine. It tracks account balances,
processes peer-to-peer transfers that expire and auto-refund after 24
hours, schedules deferred cashback payouts, and answers spend-ranking
queries.

Time is logical: every operation carries a caller-supplied millisecond
timestamp, and deferred effects settle when a later timestamp arrives —
there is no background timer.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the ledgerd version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println("ledgerd", Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
