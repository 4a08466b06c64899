package commands

import (
	"context"

	"github.com/batonkit/baton"
)

// EchoInput is the argument schema for the echo command.
type EchoInput struct {
	Text string `json:"text" jsonschema:"the text to return unchanged"`
}

// EchoOutput is the result schema for the echo command.
type EchoOutput struct {
	Text string `json:"text"`
}

// Echo returns a command that echoes its input text back. Useful as a
// first wiring check for a registry and in examples.
func Echo() baton.Command {
	return must(baton.NewCommand("echo", "Returns the provided text unchanged.",
		func(_ context.Context, in EchoInput) (EchoOutput, error) {
			return EchoOutput{Text: in.Text}, nil
		}))
}
