package main

import (
	"fmt"

	"github.com/aretw0/fernspiel/internal/cli"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate <phonebook>",
	Short: "Check a phonebook for consistency",
	Long:  `Compiles the phonebook and reports undefined states, bad dial patterns and invalid durations.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := cli.LoadBook(args[0])
		if err != nil {
			return fmt.Errorf("validation failed: %w", err)
		}
		defer b.Close()
		fmt.Printf("Phonebook is valid! ✅ (%d states, %d sounds)\n", len(b.States()), len(b.Sounds()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}
