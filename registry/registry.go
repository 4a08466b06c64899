// Package registry maps command names to Commands and guards every
// invocation with schema validation on both sides of the call.
package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"sync"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/batonkit/baton"
)

// Interface compliance check.
var _ baton.Toolkit = (*Registry)(nil)

// Registry is a name→Command table. Registration happens at
// pipeline-construction time; during execution the table is read-only and
// safe to share across concurrent pipeline invocations.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]entry
}

// entry caches the resolved schemas alongside the command so invocation
// does no schema re-compilation.
type entry struct {
	cmd    baton.Command
	input  *jsonschema.Resolved
	output *jsonschema.Resolved
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{commands: make(map[string]entry)}
}

// Register adds a command to the registry. It rejects nil commands, empty
// names, and nil schemas with baton.ErrValidation, and duplicate names
// with baton.ErrDuplicateCommand. Both schemas are resolved here, once, so
// a schema that cannot be compiled fails registration rather than the
// first invocation.
func (r *Registry) Register(cmd baton.Command) error {
	if cmd == nil {
		return fmt.Errorf("command is nil: %w", baton.ErrValidation)
	}
	name := cmd.Name()
	if name == "" {
		return fmt.Errorf("command name is empty: %w", baton.ErrValidation)
	}
	if cmd.InputSchema() == nil || cmd.OutputSchema() == nil {
		return fmt.Errorf("command %q: input and output schemas are required: %w", name, baton.ErrValidation)
	}
	input, err := cmd.InputSchema().Resolve(nil)
	if err != nil {
		return fmt.Errorf("command %q: resolve input schema: %w", name, err)
	}
	output, err := cmd.OutputSchema().Resolve(nil)
	if err != nil {
		return fmt.Errorf("command %q: resolve output schema: %w", name, err)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.commands[name]; exists {
		return fmt.Errorf("%w: %s", baton.ErrDuplicateCommand, name)
	}
	r.commands[name] = entry{cmd: cmd, input: input, output: output}
	return nil
}

// Get returns the command registered under name, or
// baton.ErrUnknownCommand when absent.
func (r *Registry) Get(name string) (baton.Command, error) {
	r.mu.RLock()
	e, ok := r.commands[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", baton.ErrUnknownCommand, name)
	}
	return e.cmd, nil
}

// Names returns the registered command names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.commands))
	for name := range r.commands {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Specs returns the descriptors advertised to the model, sorted by name.
func (r *Registry) Specs() []baton.CommandSpec {
	r.mu.RLock()
	defer r.mu.RUnlock()
	specs := make([]baton.CommandSpec, 0, len(r.commands))
	for _, e := range r.commands {
		specs = append(specs, baton.CommandSpec{
			Name:        e.cmd.Name(),
			Description: e.cmd.Description(),
			Input:       e.cmd.InputSchema(),
		})
	}
	sort.Slice(specs, func(i, j int) bool { return specs[i].Name < specs[j].Name })
	return specs
}

// Invoke looks up a command, validates args against its input schema,
// runs it, and validates the returned JSON against its output schema.
// Failures map onto the registry taxonomy: baton.ErrUnknownCommand,
// baton.ErrInvalidArguments (Run is never called), baton.ErrCommandExecution
// (wrapping the cause), and baton.ErrInvalidOutput. Registry state is
// unaffected by invocation.
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	r.mu.RLock()
	e, ok := r.commands[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", baton.ErrUnknownCommand, name)
	}

	// Models frequently omit arguments entirely for zero-parameter
	// commands; treat that as an empty object.
	if len(args) == 0 {
		args = json.RawMessage(`{}`)
	}
	var in any
	if err := json.Unmarshal(args, &in); err != nil {
		return nil, fmt.Errorf("command %q: arguments are not valid JSON: %v: %w", name, err, baton.ErrInvalidArguments)
	}
	if err := e.input.Validate(in); err != nil {
		return nil, fmt.Errorf("command %q: %v: %w", name, err, baton.ErrInvalidArguments)
	}

	result, err := e.cmd.Run(ctx, args)
	if err != nil {
		return nil, fmt.Errorf("command %q: %w: %w", name, baton.ErrCommandExecution, err)
	}

	var out any
	if err := json.Unmarshal(result, &out); err != nil {
		return nil, fmt.Errorf("command %q: output is not valid JSON: %v: %w", name, err, baton.ErrInvalidOutput)
	}
	if err := e.output.Validate(out); err != nil {
		return nil, fmt.Errorf("command %q: %v: %w", name, err, baton.ErrInvalidOutput)
	}
	return result, nil
}
