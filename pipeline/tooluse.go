package pipeline

import (
	"context"
	"fmt"
	"slices"

	"github.com/batonkit/baton"
)

// ToolUse builds the tool-use round-trip pipeline: it calls the model
// with the toolkit's command specs, executes any requested commands,
// feeds the results back, and repeats until the model answers without
// requesting commands or the round limit is hit.
//
// Command failures do not fail the pipeline: they are appended as
// ToolResultMessages with IsError set, so the model can recover.
// Context cancellation is the exception and aborts the invocation with
// the context's error. The returned Pipeline holds no state across
// invocations and is safe for concurrent use when model and tools are.
func ToolUse(model baton.Model, tools baton.Toolkit, opts ...Option) (baton.Pipeline, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required: %w", baton.ErrValidation)
	}
	if tools == nil {
		return nil, fmt.Errorf("toolkit is required: %w", baton.ErrValidation)
	}
	cfg := newConfig(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := func(ctx context.Context, scope baton.Scope, history []baton.Message) (baton.AssistantMessage, error) {
		msgs := slices.Clone(history)
		specs := tools.Specs()

		for round := 1; round <= cfg.maxRounds; round++ {
			if err := ctx.Err(); err != nil {
				return baton.AssistantMessage{}, err
			}

			reply, err := model.Generate(ctx, baton.Request{
				Scope:    scope,
				Messages: msgs,
				Params:   cfg.params,
				Commands: specs,
			})
			if err != nil {
				if ctx.Err() != nil {
					return baton.AssistantMessage{}, ctx.Err()
				}
				return baton.AssistantMessage{}, fmt.Errorf("model call failed (round %d): %w: %w", round, baton.ErrModel, err)
			}
			cfg.emit(baton.EventModelResponse{Round: round, Message: reply})

			calls := reply.ToolCalls()
			if len(calls) == 0 {
				return reply, nil
			}

			msgs = append(msgs, reply)
			for _, call := range calls {
				cfg.emit(baton.EventToolInvoked{Round: round, Call: call})

				out, err := tools.Invoke(ctx, call.Name, call.Arguments)
				if err != nil && ctx.Err() != nil {
					return baton.AssistantMessage{}, ctx.Err()
				}

				result := baton.ToolResultMessage{
					ToolCallID: call.ID,
					ToolName:   call.Name,
					Meta:       baton.NewMeta("pipeline"),
				}
				if err != nil {
					result.Content = []baton.ContentBlock{baton.TextBlock{Text: err.Error()}}
					result.IsError = true
				} else {
					result.Content = []baton.ContentBlock{baton.TextBlock{Text: string(out)}}
				}
				msgs = append(msgs, result)
				cfg.emit(baton.EventToolResult{Round: round, Result: result})
			}
		}

		return baton.AssistantMessage{}, fmt.Errorf("no final answer after %d rounds: %w", cfg.maxRounds, baton.ErrRoundLimit)
	}

	return baton.Wrap(p, cfg.middleware...), nil
}
