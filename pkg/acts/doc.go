/*
Package acts implements the timed side effects of a phonebook state and the
Actuators responder that orchestrates them.

Every act follows the ports.Act lifecycle. Actuators owns the acts of the
current state: on every transition it cancels the acts of the previous state
before activating the acts of the next one, so leaving a state always
silences what the state started.

Background sounds are kept in an Ensemble across transitions. A looping
sound that stays listed when a state changes keeps playing without a
rewind.
*/
package acts
