/*
Package fernspiel runs interactive telephone installations.

A phonebook describes a state machine: every state may speak text, ring the
bell, play background sounds and wait for the caller to dial. Transitions
happen when a digit is dialed, the receiver is picked up or hung up, or
once everything the state does has finished.

# Concept

The engine is a soft real-time loop. Each tick it drives the acts of the
current state, polls its senses for dial input and decides on at most one
transition. Acts (speech, sounds, ringing) and senses (keyboard, hardware
dial, remote controls) are pluggable, so the same phonebook runs on a
laptop with a keyboard or on an installation with a real rotary phone.

# Usage

	package main

	import (
		"context"
		"log"
		"os"

		"github.com/aretw0/fernspiel"
		"github.com/aretw0/fernspiel/pkg/runner"
	)

	func main() {
		r, err := fernspiel.New("phonebook.yaml", runner.WithStdin(os.Stdin))
		if err != nil {
			log.Fatal(err)
		}
		defer r.Close()

		if err := r.Run(context.Background()); err != nil {
			log.Fatal(err)
		}
	}

Phonebooks can also be built in code with the pkg/dsl package.

# Packages

  - pkg/book: phonebook format and compiler.
  - pkg/runner: the main loop.
  - pkg/acts, pkg/senses: effects and inputs.
  - pkg/adapters: audio, speech, I2C hardware, HTTP, redis and MCP.
*/
package fernspiel
