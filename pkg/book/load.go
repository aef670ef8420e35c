package book

import (
	_ "embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

//go:embed demo.yaml
var demo []byte

// Load reads and compiles the phonebook at path. Relative files are
// resolved against the directory of path unless WithBaseDir is given.
func Load(path string, opts ...Option) (*Book, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read phonebook: %w", err)
	}
	base := []Option{WithBaseDir(filepath.Dir(path)), withSource(path)}
	b, err := Parse(data, append(base, opts...)...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return b, nil
}

func withSource(path string) Option {
	return func(c *compiler) { c.source = path }
}

// Parse compiles a phonebook given as YAML (or JSON) bytes.
func Parse(data []byte, opts ...Option) (*Book, error) {
	spec, err := ParseSpec(data)
	if err != nil {
		return nil, err
	}
	return Compile(spec, opts...)
}

// ParseSpec decodes a phonebook document without compiling it.
func ParseSpec(data []byte) (*Spec, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("invalid phonebook: %w", err)
	}
	if raw == nil {
		return nil, fmt.Errorf("invalid phonebook: document is empty")
	}
	return Decode(raw)
}

// Decode converts a generic document, e.g. a phonebook embedded in a
// remote request, into a Spec. Scalars are converted leniently so that
// dial digits may be written as numbers.
func Decode(raw any) (*Spec, error) {
	var spec Spec
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "yaml",
		WeaklyTypedInput: true,
		ErrorUnused:      true,
		Result:           &spec,
	})
	if err != nil {
		return nil, err
	}
	if err := dec.Decode(raw); err != nil {
		return nil, fmt.Errorf("invalid phonebook: %w", err)
	}
	return &spec, nil
}

// Demo returns the built-in demo phonebook.
func Demo(opts ...Option) (*Book, error) {
	return Parse(demo, opts...)
}

// Marshal renders a spec back to YAML.
func Marshal(spec *Spec) ([]byte, error) {
	return yaml.Marshal(spec)
}
