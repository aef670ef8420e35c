package cli

// RunOptions contains all the configuration for the run command.
type RunOptions struct {
	// Phonebook is the file to run. Empty runs the passive phonebook
	// unless Demo is set.
	Phonebook      string
	Demo           bool
	Serve          bool
	Addr           string
	Port           int
	ExitOnTerminal bool
	Watch          bool
	NoStdin        bool
	I2C            bool
	ConfigPath     string
	Redis          string
	Quiet          bool
	Verbose        int
}

// CheckOptions configures the check command.
type CheckOptions struct {
	I2C        bool
	ConfigPath string
	Quiet      bool
	Verbose    int
}
