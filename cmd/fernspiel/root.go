package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "fernspiel",
	Short: "fernspiel runs interactive telephone installations",
	Long: `fernspiel plays phonebooks: state machines that speak, ring and play
sounds, and move on when the caller dials, picks up or hangs up.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "Only log errors")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Log more, repeat for debug output")
	rootCmd.PersistentFlags().String("config", "", "Backend configuration file (default: fernspiel.yaml next to the phonebook)")
}

func verbosity(cmd *cobra.Command) (bool, int) {
	quiet, _ := cmd.Flags().GetBool("quiet")
	verbose, _ := cmd.Flags().GetCount("verbose")
	return quiet, verbose
}
