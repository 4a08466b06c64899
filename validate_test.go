package baton_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/batonkit/baton"
)

func TestValidateMessage(t *testing.T) {
	t.Parallel()

	text := baton.TextBlock{Text: "hi"}
	thinking := baton.ThinkingBlock{Thinking: "hmm"}
	call := baton.ToolCallBlock{ID: "tc_1", Name: "echo", Arguments: json.RawMessage(`{}`)}

	tests := []struct {
		name    string
		msg     baton.Message
		wantErr bool
	}{
		{"system with text", baton.SystemMessage{Content: []baton.ContentBlock{text}}, false},
		{"system with tool call", baton.SystemMessage{Content: []baton.ContentBlock{call}}, true},
		{"user with text", baton.UserMessage{Content: []baton.ContentBlock{text}}, false},
		{"user with thinking", baton.UserMessage{Content: []baton.ContentBlock{thinking}}, true},
		{"user with tool call", baton.UserMessage{Content: []baton.ContentBlock{call}}, true},
		{"assistant with everything", baton.AssistantMessage{Content: []baton.ContentBlock{thinking, text, call}}, false},
		{"tool result with text", baton.ToolResultMessage{Content: []baton.ContentBlock{text}}, false},
		{"tool result with thinking", baton.ToolResultMessage{Content: []baton.ContentBlock{thinking}}, true},
		{"empty content", baton.UserMessage{}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := baton.ValidateMessage(tt.msg)
			if tt.wantErr {
				assert.ErrorIs(t, err, baton.ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRequest_Validate(t *testing.T) {
	t.Parallel()

	valid := baton.Request{
		Params: baton.Params{Model: "test-model", MaxTokens: 256},
		Messages: []baton.Message{
			baton.NewSystemMessage("be brief"),
			baton.NewUserMessage("hello"),
		},
	}

	t.Run("valid request", func(t *testing.T) {
		t.Parallel()
		assert.NoError(t, valid.Validate())
	})

	t.Run("invalid params", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.Params.Model = ""
		assert.ErrorIs(t, req.Validate(), baton.ErrValidation)
	})

	t.Run("invalid message is indexed", func(t *testing.T) {
		t.Parallel()
		req := valid
		req.Messages = []baton.Message{
			baton.NewUserMessage("ok"),
			baton.UserMessage{Content: []baton.ContentBlock{
				baton.ToolCallBlock{ID: "tc_1", Name: "echo"},
			}},
		}

		err := req.Validate()
		require.Error(t, err)
		assert.ErrorIs(t, err, baton.ErrValidation)
		assert.Contains(t, err.Error(), "message 1")
	})
}
