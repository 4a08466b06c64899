package pipeline

import (
	"context"
	"fmt"

	"github.com/batonkit/baton"
)

// Chat builds the straight-line pipeline: one model call with no
// command specs, reply returned as-is. Model failure wraps
// baton.ErrModel.
func Chat(model baton.Model, opts ...Option) (baton.Pipeline, error) {
	if model == nil {
		return nil, fmt.Errorf("model is required: %w", baton.ErrValidation)
	}
	cfg := newConfig(opts)
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	p := func(ctx context.Context, scope baton.Scope, history []baton.Message) (baton.AssistantMessage, error) {
		if err := ctx.Err(); err != nil {
			return baton.AssistantMessage{}, err
		}

		reply, err := model.Generate(ctx, baton.Request{
			Scope:    scope,
			Messages: history,
			Params:   cfg.params,
		})
		if err != nil {
			if ctx.Err() != nil {
				return baton.AssistantMessage{}, ctx.Err()
			}
			return baton.AssistantMessage{}, fmt.Errorf("model call failed: %w: %w", baton.ErrModel, err)
		}
		cfg.emit(baton.EventModelResponse{Round: 1, Message: reply})
		return reply, nil
	}

	return baton.Wrap(p, cfg.middleware...), nil
}
