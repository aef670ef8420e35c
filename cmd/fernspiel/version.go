package main

import (
	"fmt"

	"github.com/aretw0/fernspiel"
	"github.com/spf13/cobra"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number of fernspiel",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("fernspiel version %s\n", fernspiel.Version)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
