/*
Package domain contains the core models of the fernspiel engine.

It defines the input alphabet of the state machine, the immutable state and
sound tables produced by the phonebook compiler, and the events the machine
emits to its responders. The package is free of I/O so that every other
layer can depend on it.

# Key Entities

  - Input: something done with the phone, a dialed digit, pick up or hang up.
  - Symbol: one unit of machine input, either a dial or an idle duration.
  - State: an immutable node of the phonebook, addressed by dense index.
  - SoundSpec: how a background sound starts, ends and resumes.
  - Event: Start, Transition or Finish, delivered to every responder.
*/
package domain
