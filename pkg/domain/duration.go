package domain

import (
	"fmt"
	"math"
	"time"
)

// maxSeconds is the largest whole number of seconds a time.Duration holds.
const maxSeconds = float64(math.MaxInt64 / int64(time.Second))

// ToDuration converts seconds given as a float into a duration.
//
// Accuracy is microseconds, anything below is rounded. Negative, NaN,
// infinite and overflowing inputs are rejected with ErrInvalidDuration.
func ToDuration(secs float64) (time.Duration, error) {
	switch {
	case math.IsNaN(secs) || math.IsInf(secs, 0):
		return 0, fmt.Errorf("%w: must be a finite number, got %v", ErrInvalidDuration, secs)
	case secs < 0:
		return 0, fmt.Errorf("%w: may not be negative, got %v", ErrInvalidDuration, secs)
	}

	whole := math.Trunc(secs)
	if whole >= maxSeconds {
		return 0, fmt.Errorf("%w: numeric overflow for %v seconds", ErrInvalidDuration, secs)
	}
	micros := int64(math.Round((secs - whole) * 1e6))
	return time.Duration(whole)*time.Second + time.Duration(micros)*time.Microsecond, nil
}

// Seconds renders d as float seconds with millisecond precision.
func Seconds(d time.Duration) float64 {
	return float64(d.Milliseconds()) / 1000
}
