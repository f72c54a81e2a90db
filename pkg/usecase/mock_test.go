package usecase_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/domain/types"
)

// mockEngine implements interfaces.ReasoningEngine for testing
type mockEngine struct {
	createThreadFn      func(ctx context.Context) (model.ThreadID, error)
	addMessageFn        func(ctx context.Context, threadID model.ThreadID, text string) error
	createRunFn         func(ctx context.Context, threadID model.ThreadID, instructions string) (*model.Run, error)
	getRunFn            func(ctx context.Context, threadID model.ThreadID, runID string) (*model.Run, error)
	submitToolOutputsFn func(ctx context.Context, threadID model.ThreadID, runID string, outputs []model.ToolOutput) (*model.Run, error)
	latestMessageFn     func(ctx context.Context, threadID model.ThreadID) (*model.AssistantMessage, error)
}

func (m *mockEngine) CreateThread(ctx context.Context) (model.ThreadID, error) {
	if m.createThreadFn != nil {
		return m.createThreadFn(ctx)
	}
	return "thread_default", nil
}

func (m *mockEngine) AddMessage(ctx context.Context, threadID model.ThreadID, text string) error {
	if m.addMessageFn != nil {
		return m.addMessageFn(ctx, threadID, text)
	}
	return nil
}

func (m *mockEngine) CreateRun(ctx context.Context, threadID model.ThreadID, instructions string) (*model.Run, error) {
	if m.createRunFn != nil {
		return m.createRunFn(ctx, threadID, instructions)
	}
	return &model.Run{ID: "run_default", ThreadID: threadID, Status: types.RunStatusCompleted}, nil
}

func (m *mockEngine) GetRun(ctx context.Context, threadID model.ThreadID, runID string) (*model.Run, error) {
	if m.getRunFn != nil {
		return m.getRunFn(ctx, threadID, runID)
	}
	return &model.Run{ID: runID, ThreadID: threadID, Status: types.RunStatusCompleted}, nil
}

func (m *mockEngine) SubmitToolOutputs(ctx context.Context, threadID model.ThreadID, runID string, outputs []model.ToolOutput) (*model.Run, error) {
	if m.submitToolOutputsFn != nil {
		return m.submitToolOutputsFn(ctx, threadID, runID, outputs)
	}
	return &model.Run{ID: runID, ThreadID: threadID, Status: types.RunStatusCompleted}, nil
}

func (m *mockEngine) LatestMessage(ctx context.Context, threadID model.ThreadID) (*model.AssistantMessage, error) {
	if m.latestMessageFn != nil {
		return m.latestMessageFn(ctx, threadID)
	}
	return &model.AssistantMessage{Text: "ok"}, nil
}

// scriptedEngine plays back one batch of tool calls per requires_action step
// and then completes with reply. Submitted outputs are recorded per step.
type scriptedEngine struct {
	mockEngine

	mu      sync.Mutex
	steps   [][]model.ToolCall
	outputs [][]model.ToolOutput
	threads int
}

func newScriptedEngine(t *testing.T, reply string, steps ...[]model.ToolCall) *scriptedEngine {
	t.Helper()
	e := &scriptedEngine{steps: steps}

	next := func(threadID model.ThreadID) *model.Run {
		step := len(e.outputs)
		runID := "run_1"
		if step < len(e.steps) {
			return &model.Run{
				ID:        runID,
				ThreadID:  threadID,
				Status:    types.RunStatusRequiresAction,
				ToolCalls: e.steps[step],
			}
		}
		return &model.Run{ID: runID, ThreadID: threadID, Status: types.RunStatusCompleted}
	}

	e.createThreadFn = func(ctx context.Context) (model.ThreadID, error) {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.threads++
		return model.ThreadID(fmt.Sprintf("thread_%d", e.threads)), nil
	}
	e.createRunFn = func(ctx context.Context, threadID model.ThreadID, instructions string) (*model.Run, error) {
		e.mu.Lock()
		defer e.mu.Unlock()
		return next(threadID), nil
	}
	e.submitToolOutputsFn = func(ctx context.Context, threadID model.ThreadID, runID string, outputs []model.ToolOutput) (*model.Run, error) {
		e.mu.Lock()
		defer e.mu.Unlock()
		e.outputs = append(e.outputs, outputs)
		return next(threadID), nil
	}
	e.latestMessageFn = func(ctx context.Context, threadID model.ThreadID) (*model.AssistantMessage, error) {
		return &model.AssistantMessage{Text: reply}, nil
	}
	return e
}

func call(id string, name types.ToolName, arguments string) model.ToolCall {
	return model.ToolCall{ID: id, Name: name.String(), Arguments: arguments}
}

// mockSlackService implements slack.Service for testing
type mockSlackService struct {
	mu sync.Mutex

	postThreadReplyFn func(ctx context.Context, channelID, threadTS, text string) (string, error)
	updateMessageFn   func(ctx context.Context, channelID, timestamp, text string) error
	getBotUserIDFn    func(ctx context.Context) (string, error)

	posted  []string
	updated []string
}

func (m *mockSlackService) PostThreadReply(ctx context.Context, channelID, threadTS, text string) (string, error) {
	m.mu.Lock()
	m.posted = append(m.posted, text)
	m.mu.Unlock()
	if m.postThreadReplyFn != nil {
		return m.postThreadReplyFn(ctx, channelID, threadTS, text)
	}
	return "1700000000.000200", nil
}

func (m *mockSlackService) UpdateMessage(ctx context.Context, channelID, timestamp, text string) error {
	m.mu.Lock()
	m.updated = append(m.updated, text)
	m.mu.Unlock()
	if m.updateMessageFn != nil {
		return m.updateMessageFn(ctx, channelID, timestamp, text)
	}
	return nil
}

func (m *mockSlackService) GetBotUserID(ctx context.Context) (string, error) {
	if m.getBotUserIDFn != nil {
		return m.getBotUserIDFn(ctx)
	}
	return "U0BOT", nil
}
