/*
Package runner implements the main loop of fernspiel.

It acts as the bridge between the state machine and the outside world. The
Runner owns the current phonebook, the machine, the sensors and the
actuators, ticks the machine on a fixed interval and applies requests from
remote controls between ticks.

# Key Components

  - Runner: the main loop, safe to control from other goroutines through
    Submit, Terminate and Status.
  - TerminalStateBehavior: whether reaching a terminal state exits or starts over.
  - SignalManager: turns OS signals into context cancellation.

# Usage

	r, err := runner.New(phonebook,
		runner.WithStdin(os.Stdin),
		runner.WithVoice(voice),
	)
	if err != nil {
		log.Fatal(err)
	}
	defer r.Close()

	if err := r.Run(ctx); err != nil {
		log.Fatal(err)
	}
*/
package runner
