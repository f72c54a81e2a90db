// Package openai drives the reasoning engine through the OpenAI Assistants
// API: threads, runs, tool output submission and message listing.
package openai

import (
	"context"
	"errors"
	"net/http"

	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/sashabaranov/go-openai"
)

type Engine struct {
	client      *openai.Client
	assistantID string
}

var _ interfaces.ReasoningEngine = &Engine{}

type config struct {
	baseURL string
}

type Option func(*config)

// WithBaseURL points the client at another API endpoint, such as a proxy
func WithBaseURL(url string) Option {
	return func(c *config) {
		c.baseURL = url
	}
}

// New creates an engine running the given assistant
func New(apiKey, assistantID string, opts ...Option) (*Engine, error) {
	if apiKey == "" {
		return nil, goerr.New("openai api key is required")
	}
	if assistantID == "" {
		return nil, goerr.New("openai assistant id is required")
	}

	return &Engine{
		client:      newClient(apiKey, opts...),
		assistantID: assistantID,
	}, nil
}

func newClient(apiKey string, opts ...Option) *openai.Client {
	var cfg config
	for _, opt := range opts {
		opt(&cfg)
	}

	clientCfg := openai.DefaultConfig(apiKey)
	if cfg.baseURL != "" {
		clientCfg.BaseURL = cfg.baseURL
	}
	return openai.NewClientWithConfig(clientCfg)
}

func (e *Engine) CreateThread(ctx context.Context) (model.ThreadID, error) {
	thread, err := e.client.CreateThread(ctx, openai.ThreadRequest{})
	if err != nil {
		return "", goerr.Wrap(err, "failed to create thread")
	}
	return model.ThreadID(thread.ID), nil
}

func (e *Engine) AddMessage(ctx context.Context, threadID model.ThreadID, content string) error {
	if _, err := e.client.CreateMessage(ctx, threadID.String(), openai.MessageRequest{
		Role:    openai.ChatMessageRoleUser,
		Content: content,
	}); err != nil {
		if isNotFound(err) {
			return goerr.Wrap(interfaces.ErrThreadNotFound, "thread is gone",
				goerr.V("threadID", threadID), goerr.V("error", err.Error()))
		}
		return goerr.Wrap(err, "failed to add message", goerr.V("threadID", threadID))
	}
	return nil
}

func isNotFound(err error) bool {
	var apiErr *openai.APIError
	return errors.As(err, &apiErr) && apiErr.HTTPStatusCode == http.StatusNotFound
}

func (e *Engine) CreateRun(ctx context.Context, threadID model.ThreadID, instructions string) (*model.Run, error) {
	run, err := e.client.CreateRun(ctx, threadID.String(), openai.RunRequest{
		AssistantID:            e.assistantID,
		AdditionalInstructions: instructions,
	})
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create run", goerr.V("threadID", threadID))
	}
	return toRun(threadID, &run), nil
}

func (e *Engine) GetRun(ctx context.Context, threadID model.ThreadID, runID string) (*model.Run, error) {
	run, err := e.client.RetrieveRun(ctx, threadID.String(), runID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to retrieve run", goerr.V("threadID", threadID), goerr.V("runID", runID))
	}
	return toRun(threadID, &run), nil
}

func (e *Engine) SubmitToolOutputs(ctx context.Context, threadID model.ThreadID, runID string, outputs []model.ToolOutput) (*model.Run, error) {
	req := openai.SubmitToolOutputsRequest{
		ToolOutputs: make([]openai.ToolOutput, len(outputs)),
	}
	for i, out := range outputs {
		req.ToolOutputs[i] = openai.ToolOutput{
			ToolCallID: out.ToolCallID,
			Output:     out.Output,
		}
	}

	run, err := e.client.SubmitToolOutputs(ctx, threadID.String(), runID, req)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to submit tool outputs",
			goerr.V("threadID", threadID), goerr.V("runID", runID), goerr.V("count", len(outputs)))
	}
	return toRun(threadID, &run), nil
}

// LatestMessage reads the newest message of the thread. It must come from
// the assistant. Image replies are reported by their URL or file id.
func (e *Engine) LatestMessage(ctx context.Context, threadID model.ThreadID) (*model.AssistantMessage, error) {
	limit := 1
	order := "desc"
	list, err := e.client.ListMessage(ctx, threadID.String(), &limit, &order, nil, nil, nil)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list messages", goerr.V("threadID", threadID))
	}
	if len(list.Messages) == 0 || len(list.Messages[0].Content) == 0 {
		return nil, goerr.Wrap(ErrNoMessage, "no assistant reply", goerr.V("threadID", threadID))
	}

	latest := list.Messages[0]
	if latest.Role != openai.ChatMessageRoleAssistant {
		return nil, goerr.Wrap(ErrNoMessage, "run finished without an assistant reply",
			goerr.V("threadID", threadID), goerr.V("role", latest.Role))
	}

	content := latest.Content[0]
	switch {
	case content.Text != nil:
		return &model.AssistantMessage{Text: content.Text.Value}, nil
	case content.ImageURL != nil:
		return &model.AssistantMessage{ImageRef: content.ImageURL.URL}, nil
	case content.ImageFile != nil:
		return &model.AssistantMessage{ImageRef: content.ImageFile.FileID}, nil
	default:
		return nil, goerr.Wrap(ErrNoMessage, "unsupported message content",
			goerr.V("threadID", threadID), goerr.V("type", content.Type))
	}
}

func toRun(threadID model.ThreadID, run *openai.Run) *model.Run {
	r := &model.Run{
		ID:       run.ID,
		ThreadID: threadID,
		Status:   types.RunStatus(run.Status),
	}

	if run.RequiredAction != nil && run.RequiredAction.SubmitToolOutputs != nil {
		for _, call := range run.RequiredAction.SubmitToolOutputs.ToolCalls {
			r.ToolCalls = append(r.ToolCalls, model.ToolCall{
				ID:        call.ID,
				Name:      call.Function.Name,
				Arguments: call.Function.Arguments,
			})
		}
	}

	if run.LastError != nil {
		r.LastError = run.LastError.Message
		if r.LastError == "" {
			r.LastError = string(run.LastError.Code)
		}
	}

	return r
}
