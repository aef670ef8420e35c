/*
Package dsl provides a Go DSL for programmatically constructing phonebooks.

It allows developers to define installations using a type-safe, fluent
builder instead of YAML files. This is useful for generated books, tests
and IDE autocompletion.

Example usage:

	b := dsl.New("ringing")

	b.Add("ringing").
		Ring(3).
		PickUp("greeting").
		Timeout(10, "ringing")

	b.Add("greeting").
		Speech("Hello!").
		Sounds("rain").
		End("goodbye")

	b.Add("goodbye").
		Terminal()

	b.Any().HangUp("ringing")
	b.Sound("rain", "rain.ogg").Loop().Backoff(2)

	phonebook, err := b.Build()
*/
package dsl
