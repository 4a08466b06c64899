package baton

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"
)

// Command is an immutable descriptor of a typed unit of work: a name
// unique within a registry, JSON schemas for input and output, and the
// function that does the work. Commands are registered once and never
// mutated afterwards.
type Command interface {
	Name() string
	Description() string
	InputSchema() *jsonschema.Schema
	OutputSchema() *jsonschema.Schema

	// Run executes the command. The registry validates args against
	// InputSchema before calling Run and validates the returned JSON
	// against OutputSchema afterwards. Failures are reported as errors,
	// never panics.
	Run(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}

// CommandSpec is the descriptor advertised to the model: what the command
// is called, what it does, and the shape of its arguments.
type CommandSpec struct {
	Name        string
	Description string
	Input       *jsonschema.Schema
}

// Toolkit is what a pipeline needs from a command registry: the specs to
// advertise to the model and an invoker that validates and dispatches by
// name. Invoke errors wrap the registry taxonomy sentinels
// (ErrUnknownCommand, ErrInvalidArguments, ErrCommandExecution,
// ErrInvalidOutput).
type Toolkit interface {
	Specs() []CommandSpec
	Invoke(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error)
}

// NewCommand builds a Command from a typed function, deriving the input
// and output schemas from the type parameters. Schema derivation failures
// surface at construction time.
func NewCommand[In, Out any](name, description string, fn func(ctx context.Context, in In) (Out, error)) (Command, error) {
	if name == "" {
		return nil, fmt.Errorf("command name is required: %w", ErrValidation)
	}
	if fn == nil {
		return nil, fmt.Errorf("command %q: fn is required: %w", name, ErrValidation)
	}
	input, err := jsonschema.For[In](nil)
	if err != nil {
		return nil, fmt.Errorf("command %q: derive input schema: %w", name, err)
	}
	output, err := jsonschema.For[Out](nil)
	if err != nil {
		return nil, fmt.Errorf("command %q: derive output schema: %w", name, err)
	}
	return funcCommand[In, Out]{
		name:        name,
		description: description,
		input:       input,
		output:      output,
		fn:          fn,
	}, nil
}

type funcCommand[In, Out any] struct {
	name        string
	description string
	input       *jsonschema.Schema
	output      *jsonschema.Schema
	fn          func(ctx context.Context, in In) (Out, error)
}

func (c funcCommand[In, Out]) Name() string                     { return c.name }
func (c funcCommand[In, Out]) Description() string              { return c.description }
func (c funcCommand[In, Out]) InputSchema() *jsonschema.Schema  { return c.input }
func (c funcCommand[In, Out]) OutputSchema() *jsonschema.Schema { return c.output }

func (c funcCommand[In, Out]) Run(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	var in In
	if len(args) > 0 {
		if err := json.Unmarshal(args, &in); err != nil {
			return nil, fmt.Errorf("decode arguments: %w", err)
		}
	}
	out, err := c.fn(ctx, in)
	if err != nil {
		return nil, err
	}
	raw, err := json.Marshal(out)
	if err != nil {
		return nil, fmt.Errorf("encode output: %w", err)
	}
	return raw, nil
}

// Interface compliance check.
var _ Command = funcCommand[struct{}, struct{}]{}
