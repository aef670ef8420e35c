package main

import (
	"github.com/aretw0/fernspiel/internal/cli"
	"github.com/aretw0/fernspiel/pkg/runner"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the installation",
	Long:  `Rings the phone for a second (with --i2c) and speaks a sentence, then exits.`,
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.CheckOptions{}
		opts.Quiet, opts.Verbose = verbosity(cmd)
		opts.ConfigPath, _ = cmd.Flags().GetString("config")
		opts.I2C, _ = cmd.Flags().GetBool("i2c")

		sm := runner.NewSignalManager()
		defer sm.Stop()
		return cli.Check(sm.Context(), opts)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
	checkCmd.Flags().Bool("i2c", false, "Ring the telephone connected over I2C")
}
