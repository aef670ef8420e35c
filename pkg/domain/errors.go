package domain

import (
	"errors"
	"fmt"
)

// ErrWouldBlock is returned by a sense that has no input available right now.
var ErrWouldBlock = errors.New("would block")

// ErrNoStates is returned when a machine or book is built without states.
var ErrNoStates = errors.New("expected at least one state")

// ErrUnknownState is returned when a transition points to a state that does not exist.
var ErrUnknownState = errors.New("unknown state")

// ErrUnknownSound is returned when a state lists a sound that does not exist.
var ErrUnknownSound = errors.New("unknown sound")

// ErrDigitOutOfRange is returned when a digit outside [0,9] is requested.
var ErrDigitOutOfRange = errors.New("digit out of range [0,9]")

// ErrInvalidDuration is returned for negative, NaN, infinite or overflowing durations.
var ErrInvalidDuration = errors.New("invalid duration")

// ErrNoPhone is returned when hardware access is requested but no phone is connected.
var ErrNoPhone = errors.New("no phone connected")

// FatalError marks a sense failure that will not recover.
// Sensors drop a sense for good once it reports one.
type FatalError struct {
	Cause error
}

func (e *FatalError) Error() string {
	return fmt.Sprintf("fatal sense error: %v", e.Cause)
}

func (e *FatalError) Unwrap() error {
	return e.Cause
}

// Fatal wraps err as a FatalError.
func Fatal(err error) error {
	return &FatalError{Cause: err}
}

// IsFatal reports whether err is or wraps a FatalError.
func IsFatal(err error) bool {
	var fatal *FatalError
	return errors.As(err, &fatal)
}
