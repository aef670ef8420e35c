// Package senses collects dial input from the phone, the keyboard and
// remote control into a single non-blocking poll.
//
// Blocking senses run on their own goroutine behind a Background adapter
// that hands results over through a small buffered channel. Sensors polls
// all registered senses in registration order and drops those that failed
// for good.
package senses
