package interfaces

import (
	"context"

	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

// ErrThreadNotFound is returned by a ReasoningEngine for a thread id it does
// not know, for example one created before the engine restarted
var ErrThreadNotFound = goerr.New("thread not found")

// ReasoningEngine is an external conversational engine that runs on threads
// and may pause a run to request tool calls
type ReasoningEngine interface {
	// CreateThread starts a new conversation thread
	CreateThread(ctx context.Context) (model.ThreadID, error)

	// AddMessage appends a user message to the thread
	AddMessage(ctx context.Context, threadID model.ThreadID, content string) error

	// CreateRun starts a run on the thread with extra per-run instructions
	CreateRun(ctx context.Context, threadID model.ThreadID, instructions string) (*model.Run, error)

	// GetRun fetches the current status of a run
	GetRun(ctx context.Context, threadID model.ThreadID, runID string) (*model.Run, error)

	// SubmitToolOutputs resumes a run waiting in requires_action
	SubmitToolOutputs(ctx context.Context, threadID model.ThreadID, runID string, outputs []model.ToolOutput) (*model.Run, error)

	// LatestMessage returns the newest message on the thread
	LatestMessage(ctx context.Context, threadID model.ThreadID) (*model.AssistantMessage, error)
}
