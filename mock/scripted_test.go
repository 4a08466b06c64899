package mock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batonkit/baton"
	"github.com/batonkit/baton/mock"
)

func TestScriptedModel(t *testing.T) {
	t.Parallel()

	t.Run("replays steps in order", func(t *testing.T) {
		t.Parallel()
		first := baton.AssistantMessage{Content: []baton.ContentBlock{baton.TextBlock{Text: "one"}}}
		second := baton.AssistantMessage{Content: []baton.ContentBlock{baton.TextBlock{Text: "two"}}}
		m := mock.NewScriptedModel(
			mock.Step{Message: first},
			mock.Step{Message: second},
		)

		got, err := m.Generate(context.Background(), baton.Request{})
		require.NoError(t, err)
		assert.Equal(t, first, got)

		got, err = m.Generate(context.Background(), baton.Request{})
		require.NoError(t, err)
		assert.Equal(t, second, got)

		assert.Equal(t, 2, m.Calls())
	})

	t.Run("returns scripted errors", func(t *testing.T) {
		t.Parallel()
		wantErr := errors.New("transient")
		m := mock.NewScriptedModel(
			mock.Step{Err: wantErr},
			mock.Step{Message: baton.AssistantMessage{}},
		)

		_, err := m.Generate(context.Background(), baton.Request{})
		assert.ErrorIs(t, err, wantErr)

		_, err = m.Generate(context.Background(), baton.Request{})
		assert.NoError(t, err)
	})

	t.Run("fails when script is exhausted", func(t *testing.T) {
		t.Parallel()
		m := mock.NewScriptedModel()
		_, err := m.Generate(context.Background(), baton.Request{})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "script exhausted")
		assert.Equal(t, 1, m.Calls())
	})

	t.Run("records requests", func(t *testing.T) {
		t.Parallel()
		m := mock.NewScriptedModel(
			mock.Step{Message: baton.AssistantMessage{}},
			mock.Step{Message: baton.AssistantMessage{}},
		)

		_, err := m.Generate(context.Background(), baton.Request{Params: baton.Params{Model: "a"}})
		require.NoError(t, err)
		_, err = m.Generate(context.Background(), baton.Request{Params: baton.Params{Model: "b"}})
		require.NoError(t, err)

		reqs := m.Requests()
		require.Len(t, reqs, 2)
		assert.Equal(t, "a", reqs[0].Params.Model)
		assert.Equal(t, "b", reqs[1].Params.Model)
	})
}
