package baton

import "fmt"

// DefaultMaxTokens is a reasonable generation budget for callers that
// have no better number.
const DefaultMaxTokens = 4096

// Params carries model selection and generation hyperparameters. Params
// are immutable once constructed; pipelines validate them at construction
// time, so invalid values never reach a model call.
type Params struct {
	Model       string
	Temperature *float64 // nil = provider default
	TopP        *float64 // nil = provider default
	MaxTokens   int
	Stop        []string
}

// Validate checks universal constraints on Params.
// Adapters may apply additional provider-specific validation.
func (p Params) Validate() error {
	if p.Model == "" {
		return fmt.Errorf("model is required: %w", ErrValidation)
	}
	if p.MaxTokens < 1 {
		return fmt.Errorf("max_tokens must be >= 1, got %d: %w", p.MaxTokens, ErrValidation)
	}
	if p.Temperature != nil {
		if *p.Temperature < 0 || *p.Temperature > 2 {
			return fmt.Errorf("temperature must be in [0, 2], got %g: %w", *p.Temperature, ErrValidation)
		}
	}
	if p.TopP != nil {
		if *p.TopP < 0 || *p.TopP > 1 {
			return fmt.Errorf("top_p must be in [0, 1], got %g: %w", *p.TopP, ErrValidation)
		}
	}
	for i, s := range p.Stop {
		if s == "" {
			return fmt.Errorf("stop sequence %d is empty: %w", i, ErrValidation)
		}
	}
	return nil
}
