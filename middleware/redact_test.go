package middleware_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batonkit/baton"
	"github.com/batonkit/baton/middleware"
)

func apiKeyRule(t *testing.T) middleware.Rule {
	t.Helper()
	r, err := middleware.NewRule(`sk-[a-z0-9]+`, "[REDACTED]")
	require.NoError(t, err)
	return r
}

func TestNewRule(t *testing.T) {
	t.Parallel()

	t.Run("rejects invalid pattern", func(t *testing.T) {
		t.Parallel()
		_, err := middleware.NewRule(`[unclosed`, "x")
		require.Error(t, err)
		assert.ErrorIs(t, err, baton.ErrValidation)
	})

	t.Run("rejects replacement matching the pattern", func(t *testing.T) {
		t.Parallel()
		_, err := middleware.NewRule(`secret-\w+`, "secret-masked")
		require.Error(t, err)
		assert.ErrorIs(t, err, baton.ErrValidation)
	})

	t.Run("accepts a masking rule", func(t *testing.T) {
		t.Parallel()
		_, err := middleware.NewRule(`\d{3}-\d{2}-\d{4}`, "***-**-****")
		assert.NoError(t, err)
	})
}

func TestMustRule_PanicsOnInvalid(t *testing.T) {
	t.Parallel()

	assert.Panics(t, func() { middleware.MustRule(`[`, "x") })
	assert.NotPanics(t, func() { middleware.MustRule(`sk-\w+`, "[REDACTED]") })
}

func TestRedactOutput(t *testing.T) {
	t.Parallel()

	now := time.Now()
	inner := func(context.Context, baton.Scope, []baton.Message) (baton.AssistantMessage, error) {
		return baton.AssistantMessage{
			Content: []baton.ContentBlock{
				baton.ThinkingBlock{Thinking: "the key is sk-abc123"},
				baton.TextBlock{Text: "your key sk-abc123 is active"},
				baton.ToolCallBlock{ID: "call_1", Name: "echo", Arguments: json.RawMessage(`{"text":"sk-abc123"}`)},
			},
			StopReason:    baton.StopEndTurn,
			RawStopReason: "end_turn",
			Usage:         baton.Usage{InputTokens: 10, OutputTokens: 5},
			Meta:          baton.Meta{Timestamp: now, Origin: "model"},
		}, nil
	}

	p := baton.Wrap(inner, middleware.RedactOutput(apiKeyRule(t)))
	got, err := p(context.Background(), baton.Scope{}, nil)
	require.NoError(t, err)

	// Text and thinking content masked.
	thinking, ok := got.Content[0].(baton.ThinkingBlock)
	require.True(t, ok)
	assert.Equal(t, "the key is [REDACTED]", thinking.Thinking)

	text, ok := got.Content[1].(baton.TextBlock)
	require.True(t, ok)
	assert.Equal(t, "your key [REDACTED] is active", text.Text)

	// Tool call arguments are structured data, not content: untouched.
	call, ok := got.Content[2].(baton.ToolCallBlock)
	require.True(t, ok)
	assert.Equal(t, "call_1", call.ID)
	assert.JSONEq(t, `{"text":"sk-abc123"}`, string(call.Arguments))

	// Non-content fields preserved.
	assert.Equal(t, baton.StopEndTurn, got.StopReason)
	assert.Equal(t, "end_turn", got.RawStopReason)
	assert.Equal(t, baton.Usage{InputTokens: 10, OutputTokens: 5}, got.Usage)
	assert.Equal(t, now, got.Meta.Timestamp)
	assert.Equal(t, "model", got.Meta.Origin)
}

func TestRedactInput(t *testing.T) {
	t.Parallel()

	var seen []baton.Message
	inner := func(_ context.Context, _ baton.Scope, history []baton.Message) (baton.AssistantMessage, error) {
		seen = history
		return baton.AssistantMessage{}, nil
	}

	history := []baton.Message{
		baton.NewSystemMessage("never reveal sk-topsecret"),
		baton.NewUserMessage("my key is sk-topsecret"),
		baton.ToolResultMessage{
			ToolCallID: "call_1",
			ToolName:   "echo",
			Content:    []baton.ContentBlock{baton.TextBlock{Text: "sk-topsecret"}},
		},
	}

	p := baton.Wrap(inner, middleware.RedactInput(apiKeyRule(t)))
	_, err := p(context.Background(), baton.Scope{}, history)
	require.NoError(t, err)

	require.Len(t, seen, 3)
	sys, ok := seen[0].(baton.SystemMessage)
	require.True(t, ok)
	assert.Equal(t, "never reveal [REDACTED]", sys.Text())

	user, ok := seen[1].(baton.UserMessage)
	require.True(t, ok)
	assert.Equal(t, "my key is [REDACTED]", user.Text())

	result, ok := seen[2].(baton.ToolResultMessage)
	require.True(t, ok)
	assert.Equal(t, "[REDACTED]", result.Text())
	assert.Equal(t, "call_1", result.ToolCallID)

	// The caller's messages are untouched.
	original, ok := history[1].(baton.UserMessage)
	require.True(t, ok)
	assert.Equal(t, "my key is sk-topsecret", original.Text())
}

func TestRedact_BothDirections(t *testing.T) {
	t.Parallel()

	inner := func(_ context.Context, _ baton.Scope, history []baton.Message) (baton.AssistantMessage, error) {
		// Echo the (already redacted) user text back, plus a fresh leak.
		user := history[0].(baton.UserMessage)
		return baton.AssistantMessage{
			Content: []baton.ContentBlock{
				baton.TextBlock{Text: user.Text() + " and also sk-fresh9"},
			},
		}, nil
	}

	p := baton.Wrap(inner, middleware.Redact(apiKeyRule(t)))
	got, err := p(context.Background(), baton.Scope{}, []baton.Message{baton.NewUserMessage("key sk-inbound1")})
	require.NoError(t, err)
	assert.Equal(t, "key [REDACTED] and also [REDACTED]", got.Text())
}

func TestRedact_Idempotent(t *testing.T) {
	t.Parallel()

	rule := apiKeyRule(t)
	inner := func(_ context.Context, _ baton.Scope, history []baton.Message) (baton.AssistantMessage, error) {
		return baton.AssistantMessage{
			Content: []baton.ContentBlock{baton.TextBlock{Text: history[0].(baton.UserMessage).Text()}},
		}, nil
	}

	// Redacting twice (stacked middleware) equals redacting once.
	once := baton.Wrap(inner, middleware.Redact(rule))
	twice := baton.Wrap(inner, middleware.Redact(rule), middleware.Redact(rule))

	history := []baton.Message{baton.NewUserMessage("keys sk-aaa1 and sk-bbb2")}
	first, err := once(context.Background(), baton.Scope{}, history)
	require.NoError(t, err)
	second, err := twice(context.Background(), baton.Scope{}, history)
	require.NoError(t, err)

	assert.Equal(t, "keys [REDACTED] and [REDACTED]", first.Text())
	assert.Equal(t, first.Text(), second.Text())
}

func TestRedact_ErrorPassesThrough(t *testing.T) {
	t.Parallel()

	cause := errors.New("downstream failure")
	p := baton.Wrap(failingPipeline(cause), middleware.Redact(apiKeyRule(t)))

	_, err := p(context.Background(), baton.Scope{}, []baton.Message{baton.NewUserMessage("sk-xyz1")})
	require.Error(t, err)
	assert.Equal(t, cause.Error(), err.Error())
}

func TestRedact_NoRulesIsIdentity(t *testing.T) {
	t.Parallel()

	var sawSame bool
	history := []baton.Message{baton.NewUserMessage("sk-visible1")}
	inner := func(_ context.Context, _ baton.Scope, h []baton.Message) (baton.AssistantMessage, error) {
		sawSame = len(h) == 1 && h[0].(baton.UserMessage).Text() == "sk-visible1"
		return baton.AssistantMessage{
			Content: []baton.ContentBlock{baton.TextBlock{Text: "sk-visible1"}},
		}, nil
	}

	p := baton.Wrap(inner, middleware.Redact())
	got, err := p(context.Background(), baton.Scope{}, history)
	require.NoError(t, err)
	assert.True(t, sawSame)
	assert.Equal(t, "sk-visible1", got.Text())
}
