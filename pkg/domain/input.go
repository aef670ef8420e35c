package domain

import (
	"fmt"
	"strings"
	"unicode"
)

// InputKind distinguishes the things that can be done with a phone.
type InputKind uint8

const (
	InputDigit InputKind = iota
	InputPickUp
	InputHangUp
)

// Input is anything done with the phone: a dialed digit, picking up the
// speaker or hanging up. Inputs are comparable and can be used as map keys.
type Input struct {
	Kind  InputKind
	digit uint8
}

// NewDigit returns the input for dialing n, which must be in [0,9].
func NewDigit(n int) (Input, error) {
	if n < 0 || n > 9 {
		return Input{}, fmt.Errorf("%w: %d", ErrDigitOutOfRange, n)
	}
	return Input{Kind: InputDigit, digit: uint8(n)}, nil
}

// MustDigit is like NewDigit but panics on out of range digits.
// Intended for literals in tests and builders.
func MustDigit(n int) Input {
	in, err := NewDigit(n)
	if err != nil {
		panic(err)
	}
	return in
}

// PickUp is the input for lifting the speaker.
func PickUp() Input { return Input{Kind: InputPickUp} }

// HangUp is the input for putting the speaker back.
func HangUp() Input { return Input{Kind: InputHangUp} }

// Value returns the dialed number, or false if this is not a digit.
func (i Input) Value() (int, bool) {
	if i.Kind != InputDigit {
		return 0, false
	}
	return int(i.digit), true
}

// String describes the input the way it appears in transition reasons.
func (i Input) String() string {
	switch i.Kind {
	case InputPickUp:
		return "pick up"
	case InputHangUp:
		return "hang up"
	default:
		return fmt.Sprintf("type %d", i.digit)
	}
}

// ParseInput maps a keyboard character to an input.
// Digits dial, p and t pick up, h and r hang up. Anything else is ignored.
func ParseInput(r rune) (Input, bool) {
	switch {
	case r >= '0' && r <= '9':
		return Input{Kind: InputDigit, digit: uint8(r - '0')}, true
	case r == 'p' || r == 't':
		return PickUp(), true
	case r == 'h' || r == 'r':
		return HangUp(), true
	}
	return Input{}, false
}

// ParseInputs parses a string such as "p12h" into a sequence of inputs.
// Whitespace is skipped, any other unknown character is an error.
func ParseInputs(s string) ([]Input, error) {
	var inputs []Input
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) {
			continue
		}
		in, ok := ParseInput(r)
		if !ok {
			return nil, fmt.Errorf("unknown dial input %q in %q", r, s)
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}
