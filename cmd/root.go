// Package cmd wires the feeder's cobra commands: vote (the voting loop) and
// update-key (keystore bootstrap).
package cmd

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

const (
	flagLogLevel  = "log-level"
	flagLogFormat = "log-format"
)

var rootCmd = &cobra.Command{
	Use:   "oracle-feeder",
	Short: "oracle-feeder is a side-car process that votes on-chain prices for a commit-reveal oracle",
	Long: `A side-car process that validators run alongside their node to provide
on-chain price oracle with price information. It fetches prices from a set of
HTTP sources, commits to a price every vote period, reveals the prior
period's commitment alongside the new commitment, and submits both to the
chain via its REST LCD endpoint.`,
}

func init() {
	rootCmd.PersistentFlags().String(flagLogLevel, zerolog.InfoLevel.String(), "logging level")
	rootCmd.PersistentFlags().String(flagLogFormat, logFormatText, "logging format; must be either json or text")

	rootCmd.AddCommand(voteCmd)
	rootCmd.AddCommand(updateKeyCmd)
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main().
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
