package pipeline

import (
	"fmt"
	"io"

	"github.com/naoina/toml"

	"beast/pipe"
)

// PipeSpec names one pipe to instantiate and the slot capacity it
// should be built with; Kind is looked up in the PipeFactory registry
// passed to Build, since a pipe's concrete behavior (its Recombinator,
// Scorer, or ProgramFactory) isn't itself a TOML-expressible value.
type PipeSpec struct {
	Name         string `toml:"name"`
	Kind         string `toml:"kind"`
	SlotCapacity int    `toml:"slot_capacity"`
}

// ConnectionSpec names one directed, buffered wire between two named
// pipes' slots.
type ConnectionSpec struct {
	From       string `toml:"from"`
	FromSlot   int    `toml:"from_slot"`
	To         string `toml:"to"`
	ToSlot     int    `toml:"to_slot"`
	BufferSize int    `toml:"buffer_size"`
}

// Config is a pipeline's topology: which pipes exist and how their
// slots are wired, loadable from TOML (spec.md §1/§9's "pipeline
// topology ... loadable from configuration" note). LoadConfig only
// ever reads from r; resolving a config file path is the caller's
// concern, same as vm.LoadConfig.
type Config struct {
	Pipes       []PipeSpec       `toml:"pipe"`
	Connections []ConnectionSpec `toml:"connection"`
}

func LoadConfig(r io.Reader) (*Config, error) {
	var cfg Config
	if err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("decode pipeline config: %w", err)
	}
	return &cfg, nil
}

// PipeFactory builds the concrete pipe named by a PipeSpec's Kind.
type PipeFactory func(spec PipeSpec) (pipe.Pipe, error)

// Build instantiates a Pipeline from cfg, resolving each PipeSpec's
// Kind against factories and wiring every ConnectionSpec in order.
// Fails with InvalidArgument on an unregistered kind, mirroring
// AddPipe/Connect's own error reporting.
func Build(cfg *Config, factories map[string]PipeFactory) (*Pipeline, error) {
	pl := New()
	for _, ps := range cfg.Pipes {
		factory, ok := factories[ps.Kind]
		if !ok {
			return nil, fmt.Errorf("%w: no pipe factory registered for kind %q", ErrInvalidArgument, ps.Kind)
		}
		p, err := factory(ps)
		if err != nil {
			return nil, fmt.Errorf("build pipe %q: %w", ps.Name, err)
		}
		if err := pl.AddPipe(ps.Name, p); err != nil {
			return nil, err
		}
	}
	for _, cs := range cfg.Connections {
		if err := pl.Connect(cs.From, cs.FromSlot, cs.To, cs.ToSlot, cs.BufferSize); err != nil {
			return nil, err
		}
	}
	return pl, nil
}
