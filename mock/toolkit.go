package mock

import (
	"context"
	"encoding/json"

	"github.com/google/jsonschema-go/jsonschema"

	"github.com/batonkit/baton"
)

// Interface compliance checks.
var (
	_ baton.Toolkit = (*Toolkit)(nil)
	_ baton.Command = (*Command)(nil)
)

// Toolkit is a test double for baton.Toolkit.
// Set the function fields for the methods you need.
type Toolkit struct {
	SpecsFn  func() []baton.CommandSpec
	InvokeFn func(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error)
}

// Specs delegates to SpecsFn.
func (t *Toolkit) Specs() []baton.CommandSpec {
	return t.SpecsFn()
}

// Invoke delegates to InvokeFn.
func (t *Toolkit) Invoke(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	return t.InvokeFn(ctx, name, args)
}

// Command is a test double for baton.Command with fixed descriptor fields
// and a function-field Run. Unlike baton.NewCommand it puts the schemas
// under direct test control, so mismatches between declared schemas and
// actual behavior can be staged deliberately.
type Command struct {
	NameVal        string
	DescriptionVal string
	Input          *jsonschema.Schema
	Output         *jsonschema.Schema
	RunFn          func(ctx context.Context, args json.RawMessage) (json.RawMessage, error)
}

// Name returns NameVal.
func (c *Command) Name() string { return c.NameVal }

// Description returns DescriptionVal.
func (c *Command) Description() string { return c.DescriptionVal }

// InputSchema returns Input.
func (c *Command) InputSchema() *jsonschema.Schema { return c.Input }

// OutputSchema returns Output.
func (c *Command) OutputSchema() *jsonschema.Schema { return c.Output }

// Run delegates to RunFn.
func (c *Command) Run(ctx context.Context, args json.RawMessage) (json.RawMessage, error) {
	return c.RunFn(ctx, args)
}
