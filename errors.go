package baton

import "errors"

// Sentinel errors forming the orchestration error taxonomy. Every runtime
// failure returned by this module wraps exactly one of these; callers
// branch with errors.Is rather than on concrete error types.
var (
	// ErrValidation indicates params, a message, or configuration failed validation.
	ErrValidation = errors.New("validation error")

	// ErrModel indicates the model adapter failed to produce a message.
	ErrModel = errors.New("model error")

	// ErrUnknownCommand indicates the requested command is not registered.
	ErrUnknownCommand = errors.New("unknown command")

	// ErrDuplicateCommand indicates the command name is already registered.
	ErrDuplicateCommand = errors.New("command already registered")

	// ErrInvalidArguments indicates arguments violated a command's input
	// schema. The command's Run is never called in this case.
	ErrInvalidArguments = errors.New("invalid arguments")

	// ErrInvalidOutput indicates a command returned output violating its
	// declared output schema.
	ErrInvalidOutput = errors.New("invalid output")

	// ErrCommandExecution indicates a command's Run failed. The underlying
	// cause is wrapped alongside this sentinel and stays inspectable.
	ErrCommandExecution = errors.New("command execution failed")

	// ErrRoundLimit indicates the tool-use pipeline exhausted its round
	// budget without the model producing a final answer.
	ErrRoundLimit = errors.New("round limit exceeded")

	// ErrRetrieval indicates the retriever failed to produce documents.
	ErrRetrieval = errors.New("retrieval error")
)
