package baton

import "context"

// Request carries everything one generation call needs: the caller's
// scope, the ordered conversation, hyperparameters, and the command
// descriptors the model may call.
type Request struct {
	Scope    Scope
	Messages []Message
	Params   Params
	Commands []CommandSpec
}

// Model is a strategy interface for LLM providers. Generate returns one
// complete assistant message whose ToolCallBlocks are populated when and
// only when the model is requesting command execution. Cancellation flows
// through ctx.
type Model interface {
	Generate(ctx context.Context, req Request) (AssistantMessage, error)
}
