package ports

// Act is anything that performs a timed side effect, e.g. speech, a sound,
// the bell or an idle wait.
//
// All operations may fail. Failures are logged by the orchestrator and never
// stop the machine.
type Act interface {
	// Activate starts the effect. Activating an active act keeps it going.
	Activate() error
	// Update advances internal bookkeeping, e.g. detecting natural
	// completion or restarting a loop.
	Update() error
	// Cancel stops the effect. Cancelling a stopped act succeeds.
	Cancel() error
	// Done reports whether the effect is neither active nor pending.
	Done() (bool, error)
}
