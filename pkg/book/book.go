// Package book reads phonebooks, the YAML documents describing the states
// of an installation, and compiles them into state tables for the machine.
package book

import (
	"errors"
	"os"

	"github.com/aretw0/fernspiel/pkg/domain"
)

// Book is a compiled phonebook.
type Book struct {
	states []domain.State
	sounds []domain.SoundSpec
	ids    map[string]int
	source string
	// temp lists rendered files removed by Close.
	temp []string
}

// States returns the state table. The initial state is at index 0.
func (b *Book) States() []domain.State {
	return b.states
}

// Sounds returns the sound table referenced by state sound indexes.
func (b *Book) Sounds() []domain.SoundSpec {
	return b.sounds
}

// Index returns the index of the state with the given id.
func (b *Book) Index(id string) (int, bool) {
	i, ok := b.ids[id]
	return i, ok
}

// Source returns the file the book was loaded from, if any.
func (b *Book) Source() string {
	return b.source
}

// Close removes files rendered during compilation.
func (b *Book) Close() error {
	var errs []error
	for _, path := range b.temp {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			errs = append(errs, err)
		}
	}
	b.temp = nil
	return errors.Join(errs...)
}

// PassiveID is the id of the only state of the passive book.
const PassiveID = "passive"

// Passive returns a book with a single state that does nothing, for
// waiting on remote control.
func Passive() *Book {
	return &Book{
		states: []domain.State{{ID: PassiveID, Name: PassiveID}},
		ids:    map[string]int{PassiveID: 0},
	}
}
