// Package pipeline builds baton.Pipeline values from a model, an
// optional toolkit, and configuration. Constructors validate everything
// up front and return a plain function; a misconfigured pipeline fails
// at construction, never mid-conversation.
package pipeline

import (
	"fmt"

	"github.com/batonkit/baton"
)

const (
	// DefaultMaxRounds bounds the number of model calls in one ToolUse
	// invocation when WithMaxRounds is not set.
	DefaultMaxRounds = 5

	// DefaultTopK is the number of documents a RAG pipeline retrieves
	// when WithTopK is not set.
	DefaultTopK = 4
)

// Option configures a pipeline at construction time. The resulting
// configuration is immutable; nothing reads it after the constructor
// returns except the pipeline closure itself.
type Option func(*config)

type config struct {
	params     baton.Params
	maxRounds  int
	topK       int
	onEvent    func(baton.Event)
	middleware []baton.Middleware
}

func newConfig(opts []Option) config {
	cfg := config{
		maxRounds: DefaultMaxRounds,
		topK:      DefaultTopK,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// validate checks the options shared by all constructors.
func (c config) validate() error {
	if err := c.params.Validate(); err != nil {
		return fmt.Errorf("params: %w", err)
	}
	if c.maxRounds < 1 {
		return fmt.Errorf("max rounds must be >= 1, got %d: %w", c.maxRounds, baton.ErrValidation)
	}
	if c.topK < 1 {
		return fmt.Errorf("top k must be >= 1, got %d: %w", c.topK, baton.ErrValidation)
	}
	return nil
}

// emit forwards an event to the configured handler, if any.
func (c config) emit(e baton.Event) {
	if c.onEvent != nil {
		c.onEvent(e)
	}
}

// WithParams sets the generation parameters for every model call the
// pipeline makes. Required: constructors reject invalid params, and the
// zero Params is invalid.
func WithParams(p baton.Params) Option {
	return func(c *config) {
		c.params = p
	}
}

// WithMaxRounds caps the number of model calls in one ToolUse
// invocation. Exhausting the cap returns baton.ErrRoundLimit.
func WithMaxRounds(n int) Option {
	return func(c *config) {
		c.maxRounds = n
	}
}

// WithTopK sets how many documents a RAG pipeline retrieves per
// invocation. Ignored by pipelines that do not retrieve.
func WithTopK(k int) Option {
	return func(c *config) {
		c.topK = k
	}
}

// WithEventHandler sets a callback that receives progress events
// synchronously during each invocation. Events are observational; the
// handler cannot alter results. Nil or unset means events are
// discarded.
func WithEventHandler(h func(baton.Event)) Option {
	return func(c *config) {
		c.onEvent = h
	}
}

// WithMiddleware wraps the pipeline with the given middleware. The first
// listed is outermost at execution, matching baton.Wrap.
func WithMiddleware(mw ...baton.Middleware) Option {
	return func(c *config) {
		c.middleware = append(c.middleware, mw...)
	}
}
