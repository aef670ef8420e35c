package dsl

import (
	"fmt"

	"github.com/aretw0/fernspiel/pkg/book"
)

// Builder manages the phonebook construction.
type Builder struct {
	spec book.Spec
}

// New creates a builder whose initial state is initial.
func New(initial string) *Builder {
	return &Builder{spec: book.Spec{
		Initial:     initial,
		States:      map[string]*book.StateSpec{},
		Transitions: map[string]*book.TransitionSpec{},
		Sounds:      map[string]*book.SoundSpec{},
	}}
}

// Add creates a new state in the book.
// If the state already exists, it returns the existing builder.
func (b *Builder) Add(id string) *StateBuilder {
	if _, ok := b.spec.States[id]; !ok {
		b.spec.States[id] = &book.StateSpec{}
	}
	return &StateBuilder{id: id, builder: b}
}

// Any configures the fallback transitions applied to every state.
func (b *Builder) Any() *StateBuilder {
	return &StateBuilder{id: book.AnyState, builder: b}
}

// Sound declares a background sound played from file.
func (b *Builder) Sound(id, file string) *SoundBuilder {
	snd := &book.SoundSpec{File: file}
	b.spec.Sounds[id] = snd
	return &SoundBuilder{sound: snd}
}

// Spec returns the document built so far.
func (b *Builder) Spec() *book.Spec {
	return &b.spec
}

// Build compiles the book.
func (b *Builder) Build(opts ...book.Option) (*book.Book, error) {
	compiled, err := book.Compile(&b.spec, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build phonebook: %w", err)
	}
	return compiled, nil
}

// MustBuild is like Build but panics on error. Intended for tests and
// books that are known to be valid.
func (b *Builder) MustBuild(opts ...book.Option) *book.Book {
	compiled, err := b.Build(opts...)
	if err != nil {
		panic(err)
	}
	return compiled
}
