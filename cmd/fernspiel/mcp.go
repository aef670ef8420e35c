package main

import (
	"github.com/aretw0/fernspiel"
	"github.com/aretw0/fernspiel/internal/cli"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp [phonebook]",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Runs a phonebook controlled by an MCP client.
The client can dial, reset, load phonebooks and query the current state.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.MCPOptions{Version: fernspiel.Version}
		if len(args) > 0 {
			opts.Phonebook = args[0]
		}
		opts.Quiet, opts.Verbose = verbosity(cmd)
		opts.ConfigPath, _ = cmd.Flags().GetString("config")
		opts.Transport, _ = cmd.Flags().GetString("transport")
		opts.Addr, _ = cmd.Flags().GetString("addr")
		opts.Port, _ = cmd.Flags().GetInt("port")
		opts.I2C, _ = cmd.Flags().GetBool("i2c")
		opts.Redis, _ = cmd.Flags().GetString("redis")
		return cli.ExecuteMCP(opts)
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)

	mcpCmd.Flags().String("transport", "stdio", "Transport protocol to use: 'stdio' or 'sse'")
	mcpCmd.Flags().String("addr", "localhost", "Address to listen on (only for SSE)")
	mcpCmd.Flags().Int("port", 8080, "Port to listen on (only for SSE)")
	mcpCmd.Flags().Bool("i2c", false, "Use the telephone connected over I2C")
	mcpCmd.Flags().String("redis", "", "Redis address for event publishing and remote dialing")
}
