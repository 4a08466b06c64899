// Package mock provides test doubles for baton interfaces using function fields.
package mock

import (
	"context"

	"github.com/batonkit/baton"
)

// Interface compliance check.
var _ baton.Model = (*Model)(nil)

// Model is a test double for baton.Model.
// Set GenerateFn before calling Generate.
type Model struct {
	GenerateFn func(ctx context.Context, req baton.Request) (baton.AssistantMessage, error)
}

// Generate delegates to GenerateFn.
func (m *Model) Generate(ctx context.Context, req baton.Request) (baton.AssistantMessage, error) {
	return m.GenerateFn(ctx, req)
}
