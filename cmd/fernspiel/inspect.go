package main

import (
	"fmt"

	"github.com/aretw0/fernspiel/internal/cli"
	"github.com/aretw0/fernspiel/internal/presentation/tui"
	"github.com/spf13/cobra"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <phonebook>",
	Short: "Describe a phonebook",
	Long:  `Renders a readable summary of every state of a phonebook.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := cli.LoadBook(args[0])
		if err != nil {
			return err
		}
		defer b.Close()

		md := tui.BookMarkdown(b)
		if raw, _ := cmd.Flags().GetBool("raw"); raw {
			fmt.Print(md)
			return nil
		}
		out, err := tui.NewRenderer()(md)
		if err != nil {
			return err
		}
		fmt.Print(out)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(inspectCmd)
	inspectCmd.Flags().Bool("raw", false, "Print markdown without rendering")
}
