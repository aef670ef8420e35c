package runner

// Status is a snapshot of the runner, safe to read from any goroutine.
type Status struct {
	// Book is the file the phonebook was loaded from, empty for books
	// received remotely or built in.
	Book      string `json:"book,omitempty" yaml:"book,omitempty"`
	StateID   string `json:"state" yaml:"state"`
	StateName string `json:"name" yaml:"name"`
	Index     int    `json:"index" yaml:"index"`
	States    int    `json:"states" yaml:"states"`
	Terminal  bool   `json:"terminal" yaml:"terminal"`
	Ticks     uint64 `json:"ticks" yaml:"ticks"`
	// LastError is the most recent failed request.
	LastError string `json:"last_error,omitempty" yaml:"last_error,omitempty"`
}
