package baton

// Event is a sealed interface representing pipeline progress. Events are
// purely observational: handlers receive them synchronously but cannot
// alter control flow or results. The unexported marker method prevents
// external implementations.
type Event interface {
	event()
}

// EventModelResponse is emitted after each successful model call.
type EventModelResponse struct {
	Round   int
	Message AssistantMessage
}

func (EventModelResponse) event() {}

// EventToolInvoked is emitted when the pipeline dispatches a requested
// command, before it runs.
type EventToolInvoked struct {
	Round int
	Call  ToolCallBlock
}

func (EventToolInvoked) event() {}

// EventToolResult is emitted after a requested command returns, carrying
// the message appended to the history.
type EventToolResult struct {
	Round  int
	Result ToolResultMessage
}

func (EventToolResult) event() {}

// Interface compliance checks.
var (
	_ Event = EventModelResponse{}
	_ Event = EventToolInvoked{}
	_ Event = EventToolResult{}
)
