package main

import (
	"fmt"

	"github.com/aretw0/fernspiel/internal/cli"
	"github.com/aretw0/fernspiel/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph <phonebook>",
	Short: "Export the phonebook as a graph",
	Long:  `Outputs a Mermaid diagram (graph TD) of the states and transitions of a phonebook.`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		b, err := cli.LoadBook(args[0])
		if err != nil {
			return err
		}
		defer b.Close()

		var overlay *graph.GraphOverlay
		if current, _ := cmd.Flags().GetString("current"); current != "" {
			overlay = &graph.GraphOverlay{CurrentState: current}
		}
		fmt.Print(graph.GenerateMermaid(b.States(), overlay))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().String("current", "", "Highlight a state")
}
