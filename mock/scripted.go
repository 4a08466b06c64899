package mock

import (
	"context"
	"fmt"
	"sync"

	"github.com/batonkit/baton"
)

// Interface compliance check.
var _ baton.Model = (*ScriptedModel)(nil)

// Step configures one model turn in a scripted sequence.
type Step struct {
	Message baton.AssistantMessage
	Err     error
}

// ScriptedModel is a deterministic baton.Model for multi-round tests: each
// Generate call consumes the next Step in order and records the request it
// received. Calling past the end of the script is a test bug and fails
// with an error.
type ScriptedModel struct {
	mu       sync.Mutex
	index    int
	steps    []Step
	requests []baton.Request
}

// NewScriptedModel creates a ScriptedModel that replays steps in order.
func NewScriptedModel(steps ...Step) *ScriptedModel {
	cloned := make([]Step, len(steps))
	copy(cloned, steps)
	return &ScriptedModel{steps: cloned}
}

// Generate records the request and returns the next scripted step.
func (m *ScriptedModel) Generate(_ context.Context, req baton.Request) (baton.AssistantMessage, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.requests = append(m.requests, req)
	if m.index >= len(m.steps) {
		return baton.AssistantMessage{}, fmt.Errorf("script exhausted at call %d", m.index+1)
	}
	step := m.steps[m.index]
	m.index++
	if step.Err != nil {
		return baton.AssistantMessage{}, step.Err
	}
	return step.Message, nil
}

// Calls returns how many times Generate has been called.
func (m *ScriptedModel) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// Requests returns a copy of the requests Generate received, in order.
func (m *ScriptedModel) Requests() []baton.Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	cloned := make([]baton.Request, len(m.requests))
	copy(cloned, m.requests)
	return cloned
}
