package protocol

import (
	"errors"
	"fmt"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/aretw0/fernspiel/pkg/book"
	"github.com/aretw0/fernspiel/pkg/domain"
)

// Kind is what a request asks for.
type Kind string

const (
	// KindRun replaces the running phonebook.
	KindRun Kind = "run"
	// KindReset starts the current phonebook over.
	KindReset Kind = "reset"
	// KindDial feeds inputs as if they had been dialed.
	KindDial Kind = "dial"
)

// ErrMalformed is returned for requests that cannot be decoded.
var ErrMalformed = errors.New("malformed fernspielctl request")

// Request is a decoded control request.
type Request struct {
	Kind Kind
	// Book is set for run requests.
	Book *book.Spec
	// Inputs is set for dial requests.
	Inputs []domain.Input
}

// Reset returns a reset request.
func Reset() Request {
	return Request{Kind: KindReset}
}

// Run returns a request to run spec.
func Run(spec *book.Spec) Request {
	return Request{Kind: KindRun, Book: spec}
}

// Dial returns a request to dial inputs.
func Dial(inputs ...domain.Input) Request {
	return Request{Kind: KindDial, Inputs: inputs}
}

type envelope struct {
	Invoke string `yaml:"invoke"`
	With   any    `yaml:"with"`
}

// Decode parses a YAML or JSON request such as
//
//	invoke: dial
//	with: "12p"
func Decode(data []byte) (Request, error) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	var env envelope
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:     "yaml",
		ErrorUnused: true,
		Result:      &env,
	})
	if err != nil {
		return Request{}, err
	}
	if err := dec.Decode(raw); err != nil {
		return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}

	switch Kind(env.Invoke) {
	case KindReset:
		return Reset(), nil
	case KindRun:
		if env.With == nil {
			return Request{}, fmt.Errorf("%w: run without phonebook", ErrMalformed)
		}
		spec, err := book.Decode(env.With)
		if err != nil {
			return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return Run(spec), nil
	case KindDial:
		inputs, err := decodeInputs(env.With)
		if err != nil {
			return Request{}, fmt.Errorf("%w: %v", ErrMalformed, err)
		}
		return Dial(inputs...), nil
	case "":
		return Request{}, fmt.Errorf("%w: missing invoke", ErrMalformed)
	default:
		return Request{}, fmt.Errorf("%w: unknown invoke %q", ErrMalformed, env.Invoke)
	}
}

// decodeInputs accepts a string of inputs, a digit, or a list of either.
func decodeInputs(with any) ([]domain.Input, error) {
	switch v := with.(type) {
	case nil:
		return nil, errors.New("dial without inputs")
	case []any:
		var inputs []domain.Input
		for _, item := range v {
			more, err := decodeInputs(item)
			if err != nil {
				return nil, err
			}
			inputs = append(inputs, more...)
		}
		return inputs, nil
	default:
		var text string
		if err := mapstructure.WeakDecode(v, &text); err != nil {
			return nil, fmt.Errorf("cannot dial %v: %w", v, err)
		}
		inputs, err := domain.ParseInputs(text)
		if err != nil {
			return nil, err
		}
		if len(inputs) == 0 {
			return nil, errors.New("dial without inputs")
		}
		return inputs, nil
	}
}
