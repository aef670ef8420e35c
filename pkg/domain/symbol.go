package domain

import (
	"fmt"
	"time"
)

// SymbolKind distinguishes dial symbols from idle symbols.
type SymbolKind uint8

const (
	// SymbolDial is emitted once for every input received from a sense.
	SymbolDial SymbolKind = iota
	// SymbolDone is emitted while all actuators are idle, carrying how long
	// that has been the case.
	SymbolDone
)

// Symbol is one unit of the machine's input alphabet.
type Symbol struct {
	Kind  SymbolKind
	Input Input
	Idle  time.Duration
}

// Dial wraps an input as a symbol.
func Dial(in Input) Symbol {
	return Symbol{Kind: SymbolDial, Input: in}
}

// Done is the symbol for actuators having been idle for d.
func Done(d time.Duration) Symbol {
	return Symbol{Kind: SymbolDone, Idle: d}
}

func (s Symbol) String() string {
	if s.Kind == SymbolDial {
		return "dial: " + s.Input.String()
	}
	return fmt.Sprintf("done: %s", s.Idle)
}
