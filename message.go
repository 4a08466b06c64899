package baton

import (
	"encoding/json"
	"strings"
	"time"
)

// Meta carries audit metadata attached to a message: when it was created,
// which component appended it, and free-form tags. Meta never influences
// control flow.
type Meta struct {
	Timestamp time.Time
	Origin    string
	Tags      []string
}

// NewMeta returns a Meta stamped with the current time.
func NewMeta(origin string) Meta {
	return Meta{Timestamp: time.Now(), Origin: origin}
}

// Message is a sealed interface representing a conversation message.
// The unexported marker method prevents external implementations.
// Role() returns the message's role without requiring a type switch.
//
// An ordered []Message forms the conversation. Histories are append-only
// within one pipeline invocation; pipelines clone the caller's slice and
// never mutate it.
type Message interface {
	isMessage()
	Role() Role
}

// SystemMessage carries instructions for the model. Adapters map leading
// system messages onto the provider's system slot.
type SystemMessage struct {
	Content []ContentBlock
	Meta    Meta
}

func (SystemMessage) isMessage() {}

// Role returns RoleSystem.
func (SystemMessage) Role() Role { return RoleSystem }

// Text returns the concatenated text blocks of the message.
func (m SystemMessage) Text() string { return blocksText(m.Content) }

// NewSystemMessage returns a SystemMessage with a single text block.
func NewSystemMessage(text string) SystemMessage {
	return SystemMessage{
		Content: []ContentBlock{TextBlock{Text: text}},
		Meta:    NewMeta("caller"),
	}
}

// UserMessage represents a message from the user.
type UserMessage struct {
	Content []ContentBlock
	Meta    Meta
}

func (UserMessage) isMessage() {}

// Role returns RoleUser.
func (UserMessage) Role() Role { return RoleUser }

// Text returns the concatenated text blocks of the message.
func (m UserMessage) Text() string { return blocksText(m.Content) }

// NewUserMessage returns a UserMessage with a single text block.
func NewUserMessage(text string) UserMessage {
	return UserMessage{
		Content: []ContentBlock{TextBlock{Text: text}},
		Meta:    NewMeta("caller"),
	}
}

// AssistantMessage represents a message from the model.
type AssistantMessage struct {
	Content       []ContentBlock
	StopReason    StopReason
	RawStopReason string
	Usage         Usage
	Meta          Meta
}

func (AssistantMessage) isMessage() {}

// Role returns RoleAssistant.
func (AssistantMessage) Role() Role { return RoleAssistant }

// Text returns the concatenated text blocks of the message.
func (m AssistantMessage) Text() string { return blocksText(m.Content) }

// ToolCalls returns the message's tool call blocks in content order.
// Empty when the model is not requesting command execution.
func (m AssistantMessage) ToolCalls() []ToolCallBlock {
	var calls []ToolCallBlock
	for _, b := range m.Content {
		if call, ok := b.(ToolCallBlock); ok {
			calls = append(calls, call)
		}
	}
	return calls
}

// ToolResultMessage carries the outcome of a command invocation back to
// the model. IsError marks a structured failure description the model may
// recover from.
type ToolResultMessage struct {
	ToolCallID string
	ToolName   string
	Content    []ContentBlock
	IsError    bool
	Meta       Meta
}

func (ToolResultMessage) isMessage() {}

// Role returns RoleToolResult.
func (ToolResultMessage) Role() Role { return RoleToolResult }

// Text returns the concatenated text blocks of the message.
func (m ToolResultMessage) Text() string { return blocksText(m.Content) }

// ContentBlock is a sealed interface representing a block of content.
// The unexported marker method prevents external implementations.
type ContentBlock interface {
	contentBlock()
}

// TextBlock contains text content.
type TextBlock struct {
	Text string
}

func (TextBlock) contentBlock() {}

// ThinkingBlock contains thinking/reasoning content.
type ThinkingBlock struct {
	Thinking string
}

func (ThinkingBlock) contentBlock() {}

// ToolCallBlock represents a command invocation requested by the model.
// Arguments are raw JSON, untyped until validated against the command's
// input schema.
type ToolCallBlock struct {
	ID        string
	Name      string
	Arguments json.RawMessage
}

func (ToolCallBlock) contentBlock() {}

func blocksText(blocks []ContentBlock) string {
	var sb strings.Builder
	for _, b := range blocks {
		if t, ok := b.(TextBlock); ok {
			sb.WriteString(t.Text)
		}
	}
	return sb.String()
}

// Interface compliance checks.
var (
	_ Message = SystemMessage{}
	_ Message = UserMessage{}
	_ Message = AssistantMessage{}
	_ Message = ToolResultMessage{}

	_ ContentBlock = TextBlock{}
	_ ContentBlock = ThinkingBlock{}
	_ ContentBlock = ToolCallBlock{}
)
