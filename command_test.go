package baton_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batonkit/baton"
)

type greetInput struct {
	Name string `json:"name" jsonschema:"who to greet"`
}

type greetOutput struct {
	Greeting string `json:"greeting"`
}

func greet(_ context.Context, in greetInput) (greetOutput, error) {
	if in.Name == "nobody" {
		return greetOutput{}, errors.New("nobody to greet")
	}
	return greetOutput{Greeting: "hello " + in.Name}, nil
}

func TestNewCommand(t *testing.T) {
	t.Parallel()

	t.Run("derives descriptor and schemas", func(t *testing.T) {
		t.Parallel()
		cmd, err := baton.NewCommand("greet", "Greets someone by name.", greet)
		require.NoError(t, err)

		assert.Equal(t, "greet", cmd.Name())
		assert.Equal(t, "Greets someone by name.", cmd.Description())
		require.NotNil(t, cmd.InputSchema())
		require.NotNil(t, cmd.OutputSchema())
		assert.Equal(t, "object", cmd.InputSchema().Type)
		assert.Contains(t, cmd.InputSchema().Properties, "name")
	})

	t.Run("requires a name", func(t *testing.T) {
		t.Parallel()
		_, err := baton.NewCommand("", "no name", greet)
		require.Error(t, err)
		assert.ErrorIs(t, err, baton.ErrValidation)
	})

	t.Run("requires a function", func(t *testing.T) {
		t.Parallel()
		_, err := baton.NewCommand[greetInput, greetOutput]("greet", "nil fn", nil)
		require.Error(t, err)
		assert.ErrorIs(t, err, baton.ErrValidation)
	})
}

func TestCommand_Run(t *testing.T) {
	t.Parallel()

	newGreet := func(t *testing.T) baton.Command {
		t.Helper()
		cmd, err := baton.NewCommand("greet", "Greets someone by name.", greet)
		require.NoError(t, err)
		return cmd
	}

	t.Run("round trips typed JSON", func(t *testing.T) {
		t.Parallel()
		cmd := newGreet(t)

		out, err := cmd.Run(context.Background(), []byte(`{"name":"gopher"}`))
		require.NoError(t, err)
		assert.JSONEq(t, `{"greeting":"hello gopher"}`, string(out))
	})

	t.Run("malformed arguments", func(t *testing.T) {
		t.Parallel()
		cmd := newGreet(t)

		_, err := cmd.Run(context.Background(), []byte(`{"name":`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "decode arguments")
	})

	t.Run("function error propagates", func(t *testing.T) {
		t.Parallel()
		cmd := newGreet(t)

		_, err := cmd.Run(context.Background(), []byte(`{"name":"nobody"}`))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "nobody to greet")
	})
}
