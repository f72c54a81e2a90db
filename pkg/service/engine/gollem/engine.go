// Package gollem emulates the thread and run lifecycle of an assistant on
// top of a gollem LLM session, so that any model gollem supports can drive
// the dispatch loop. Threads live in process memory.
package gollem

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/domain/types"
	"github.com/caeleel/friendbook/pkg/utils/logging"
	"github.com/google/uuid"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gollem"
)

type Engine struct {
	client       gollem.LLMClient
	systemPrompt string

	mu      sync.Mutex
	threads map[model.ThreadID]*thread
}

var _ interfaces.ReasoningEngine = &Engine{}

type thread struct {
	mu      sync.Mutex
	session gollem.Session
	pending []gollem.Input
	runs    map[string]*model.Run
	calls   map[string]*gollem.FunctionCall
	latest  *model.AssistantMessage
}

type Option func(*Engine)

// WithSystemPrompt sets the persona instructions of every new thread
func WithSystemPrompt(prompt string) Option {
	return func(e *Engine) {
		e.systemPrompt = prompt
	}
}

func New(client gollem.LLMClient, opts ...Option) *Engine {
	e := &Engine{
		client:  client,
		threads: make(map[model.ThreadID]*thread),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) CreateThread(ctx context.Context) (model.ThreadID, error) {
	options := []gollem.SessionOption{
		gollem.WithSessionTools(declarations()...),
	}
	if e.systemPrompt != "" {
		options = append(options, gollem.WithSessionSystemPrompt(e.systemPrompt))
	}

	session, err := e.client.NewSession(ctx, options...)
	if err != nil {
		return "", goerr.Wrap(err, "failed to create llm session")
	}

	id := model.ThreadID(uuid.New().String())
	e.mu.Lock()
	e.threads[id] = &thread{
		session: session,
		runs:    make(map[string]*model.Run),
		calls:   make(map[string]*gollem.FunctionCall),
	}
	e.mu.Unlock()

	return id, nil
}

func (e *Engine) thread(id model.ThreadID) (*thread, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	th, ok := e.threads[id]
	if !ok {
		return nil, goerr.Wrap(ErrThreadNotFound, "unknown thread", goerr.V("threadID", id))
	}
	return th, nil
}

func (e *Engine) AddMessage(ctx context.Context, threadID model.ThreadID, content string) error {
	th, err := e.thread(threadID)
	if err != nil {
		return err
	}

	th.mu.Lock()
	defer th.mu.Unlock()
	th.pending = append(th.pending, gollem.Text(content))
	return nil
}

// CreateRun sends the pending messages to the model. The run is already in a
// terminal or requires_action state when it is returned.
func (e *Engine) CreateRun(ctx context.Context, threadID model.ThreadID, instructions string) (*model.Run, error) {
	th, err := e.thread(threadID)
	if err != nil {
		return nil, err
	}

	th.mu.Lock()
	defer th.mu.Unlock()

	var input []gollem.Input
	if instructions != "" {
		input = append(input, gollem.Text(instructions))
	}
	input = append(input, th.pending...)
	th.pending = nil

	run := &model.Run{
		ID:       "run_" + uuid.New().String(),
		ThreadID: threadID,
		Status:   types.RunStatusInProgress,
	}
	th.runs[run.ID] = run

	th.generate(ctx, run, input)
	return copyRun(run), nil
}

func (e *Engine) GetRun(ctx context.Context, threadID model.ThreadID, runID string) (*model.Run, error) {
	th, err := e.thread(threadID)
	if err != nil {
		return nil, err
	}

	th.mu.Lock()
	defer th.mu.Unlock()

	run, ok := th.runs[runID]
	if !ok {
		return nil, goerr.Wrap(ErrRunNotFound, "unknown run", goerr.V("threadID", threadID), goerr.V("runID", runID))
	}
	return copyRun(run), nil
}

func (e *Engine) SubmitToolOutputs(ctx context.Context, threadID model.ThreadID, runID string, outputs []model.ToolOutput) (*model.Run, error) {
	th, err := e.thread(threadID)
	if err != nil {
		return nil, err
	}

	th.mu.Lock()
	defer th.mu.Unlock()

	run, ok := th.runs[runID]
	if !ok {
		return nil, goerr.Wrap(ErrRunNotFound, "unknown run", goerr.V("threadID", threadID), goerr.V("runID", runID))
	}
	if run.Status != types.RunStatusRequiresAction {
		return nil, goerr.Wrap(ErrRunNotWaiting, "cannot submit tool outputs",
			goerr.V("runID", runID), goerr.V("status", run.Status))
	}

	input := make([]gollem.Input, 0, len(outputs))
	for _, out := range outputs {
		call, ok := th.calls[out.ToolCallID]
		if !ok {
			return nil, goerr.New("tool output for unknown call", goerr.V("toolCallID", out.ToolCallID))
		}

		var data map[string]any
		if err := json.Unmarshal([]byte(out.Output), &data); err != nil {
			data = map[string]any{"output": out.Output}
		}
		input = append(input, gollem.FunctionResponse{
			ID:   call.ID,
			Name: call.Name,
			Data: data,
		})
		delete(th.calls, out.ToolCallID)
	}

	run.Status = types.RunStatusInProgress
	run.ToolCalls = nil
	th.generate(ctx, run, input)
	return copyRun(run), nil
}

func (e *Engine) LatestMessage(ctx context.Context, threadID model.ThreadID) (*model.AssistantMessage, error) {
	th, err := e.thread(threadID)
	if err != nil {
		return nil, err
	}

	th.mu.Lock()
	defer th.mu.Unlock()

	if th.latest == nil {
		return nil, goerr.Wrap(ErrNoMessage, "no assistant reply", goerr.V("threadID", threadID))
	}
	msg := *th.latest
	return &msg, nil
}

// generate runs one model turn and moves run to its next state. Model errors
// fail the run instead of the call, as a hosted engine would report them.
func (th *thread) generate(ctx context.Context, run *model.Run, input []gollem.Input) {
	resp, err := th.session.Generate(ctx, input)
	if err != nil {
		logging.From(ctx).Warn("llm generation failed", "error", err, "runID", run.ID)
		run.Status = types.RunStatusFailed
		run.LastError = err.Error()
		return
	}

	if len(resp.FunctionCalls) > 0 {
		run.Status = types.RunStatusRequiresAction
		for _, fc := range resp.FunctionCalls {
			args, err := json.Marshal(fc.Arguments)
			if err != nil {
				run.Status = types.RunStatusFailed
				run.LastError = "failed to encode function call arguments: " + err.Error()
				run.ToolCalls = nil
				return
			}
			callID := fc.ID
			if callID == "" {
				callID = "call_" + uuid.New().String()
			}
			th.calls[callID] = fc
			run.ToolCalls = append(run.ToolCalls, model.ToolCall{
				ID:        callID,
				Name:      fc.Name,
				Arguments: string(args),
			})
		}
		return
	}

	th.latest = &model.AssistantMessage{Text: strings.Join(resp.Texts, "\n")}
	run.Status = types.RunStatusCompleted
}

func copyRun(r *model.Run) *model.Run {
	copied := *r
	copied.ToolCalls = append([]model.ToolCall(nil), r.ToolCalls...)
	return &copied
}
