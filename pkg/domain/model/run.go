package model

import "github.com/caeleel/friendbook/pkg/domain/types"

// Run is a snapshot of one request-response cycle with the reasoning engine
type Run struct {
	ID       string
	ThreadID ThreadID
	Status   types.RunStatus

	// ToolCalls is set when Status is requires_action, in engine order
	ToolCalls []ToolCall

	// LastError is the engine-reported failure reason for failed runs
	LastError string
}

// ToolCall is a single operation requested by the engine. Arguments is the
// raw JSON payload as emitted by the engine.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
}

// ToolOutput is the JSON result of a tool call, keyed by call id
type ToolOutput struct {
	ToolCallID string
	Output     string
}

// AssistantMessage is the latest reply on a thread. Text and ImageRef are
// mutually exclusive.
type AssistantMessage struct {
	Text     string
	ImageRef string
}
