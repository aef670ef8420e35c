package main

import (
	"github.com/aretw0/fernspiel/internal/cli"
	fhttp "github.com/aretw0/fernspiel/pkg/adapters/http"
	"github.com/spf13/cobra"
)

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run [phonebook]",
	Short: "Run a phonebook",
	Long: `Runs a phonebook until interrupted. Dial with the keyboard: digits dial,
p picks up, h hangs up. Without a phonebook, a passive one waits for a
remote control to send one.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts := cli.RunOptions{}
		if len(args) > 0 {
			opts.Phonebook = args[0]
		}
		opts.Quiet, opts.Verbose = verbosity(cmd)
		opts.ConfigPath, _ = cmd.Flags().GetString("config")
		opts.Serve, _ = cmd.Flags().GetBool("serve")
		opts.Addr, _ = cmd.Flags().GetString("addr")
		opts.Port, _ = cmd.Flags().GetInt("port")
		opts.Demo, _ = cmd.Flags().GetBool("demo")
		opts.ExitOnTerminal, _ = cmd.Flags().GetBool("exit-on-terminal")
		opts.Watch, _ = cmd.Flags().GetBool("watch")
		opts.NoStdin, _ = cmd.Flags().GetBool("no-stdin")
		opts.I2C, _ = cmd.Flags().GetBool("i2c")
		opts.Redis, _ = cmd.Flags().GetString("redis")
		return cli.Execute(opts)
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().BoolP("serve", "s", false, "Serve the remote control over HTTP and websockets")
	runCmd.Flags().StringP("addr", "a", "0.0.0.0", "Address to serve the remote control on")
	runCmd.Flags().IntP("port", "p", fhttp.DefaultPort, "Port to serve the remote control on")
	runCmd.Flags().BoolP("demo", "d", false, "Run the built-in demo phonebook")
	runCmd.Flags().Bool("exit-on-terminal", false, "Exit when a terminal state is reached instead of starting over")
	runCmd.Flags().BoolP("watch", "w", false, "Reload the phonebook when the file changes")
	runCmd.Flags().Bool("no-stdin", false, "Do not read dial input from the keyboard")
	runCmd.Flags().Bool("i2c", false, "Use the telephone connected over I2C")
	runCmd.Flags().String("redis", "", "Redis address for event publishing and remote dialing")

	// Make 'run' the default if no command is provided
	rootCmd.Args = runCmd.Args
	rootCmd.RunE = runCmd.RunE
	rootCmd.Flags().AddFlagSet(runCmd.Flags())
}
