package baton

import "context"

// Pipeline is the composable unit of orchestration: scope and history in,
// one assistant message out. A Pipeline holds no state across calls; the
// caller owns the history and the pipeline never mutates it. Every
// failure wraps a taxonomy sentinel from this package.
type Pipeline func(ctx context.Context, scope Scope, history []Message) (AssistantMessage, error)

// Middleware wraps a Pipeline with cross-cutting behavior while
// preserving its signature exactly, so middlewares and pipelines compose
// associatively and ordering stays caller-controlled. A middleware must
// pass through any result it does not specifically intend to alter.
type Middleware func(next Pipeline) Pipeline

// Chain combines middlewares into one. The first middleware is outermost:
// Chain(a, b)(p) behaves exactly like a(b(p)).
func Chain(middlewares ...Middleware) Middleware {
	return func(next Pipeline) Pipeline {
		return Wrap(next, middlewares...)
	}
}

// Wrap applies middlewares to a pipeline. The first middleware is
// outermost at execution; zero middlewares return p unchanged.
func Wrap(p Pipeline, middlewares ...Middleware) Pipeline {
	for i := len(middlewares) - 1; i >= 0; i-- {
		p = middlewares[i](p)
	}
	return p
}
