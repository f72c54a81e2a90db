package usecase

import (
	"context"
	"errors"

	"github.com/caeleel/friendbook/pkg/agent/tool"
	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/service/person"
	"github.com/caeleel/friendbook/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// dispatch executes every requested call in engine order and returns one
// output per call. Only store failures abort the batch.
func (uc *ChatUseCase) dispatch(ctx context.Context, session *model.Session, calls []model.ToolCall) ([]model.ToolOutput, error) {
	outputs := make([]model.ToolOutput, 0, len(calls))
	for _, call := range calls {
		result, err := uc.execute(ctx, session, call)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to execute tool call",
				goerr.V("tool", call.Name), goerr.V("tool_call_id", call.ID))
		}

		out, err := result.Encode()
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, model.ToolOutput{ToolCallID: call.ID, Output: out})
	}
	return outputs, nil
}

func (uc *ChatUseCase) execute(ctx context.Context, session *model.Session, call model.ToolCall) (*tool.Result, error) {
	logger := logging.From(ctx).With("tool", call.Name, "tool_call_id", call.ID, "user", session.UserID)

	decoded, err := tool.Decode(call.Name, call.Arguments)
	switch {
	case errors.Is(err, tool.ErrUnknownTool):
		logger.Warn("engine requested an unknown tool")
		return tool.Failed(tool.ReasonUnknownTool), nil
	case errors.Is(err, tool.ErrMalformedArguments):
		logger.Warn("engine sent malformed tool arguments", "arguments", call.Arguments, "error", err)
		return tool.InvalidArguments(tool.MalformedDetail(err)), nil
	case err != nil:
		return nil, err
	}

	logger.Info("dispatching tool call", "call", decoded)
	tool.Progress(ctx, decoded)

	if c, ok := decoded.(tool.SetFact); ok && model.IsReservedFactKey(c.Key) {
		return tool.Failed(tool.ReasonReservedFactKey), nil
	}

	var view *model.PersonView
	if scoped, ok := decoded.(tool.PersonScoped); ok {
		view, err = uc.people.Resolve(ctx, session.UserID, scoped.PersonName(), scoped.PersonRelationship())
		if errors.Is(err, person.ErrAmbiguousPerson) {
			logger.Info("person name is ambiguous", "name", scoped.PersonName())
			return tool.Failed(tool.ReasonAmbiguous), nil
		}
		if err != nil {
			return nil, err
		}
	}

	switch c := decoded.(type) {
	case tool.AddPerson:
		if _, err := uc.people.AddPerson(ctx, session.UserID, c.Name, c.Relationship); err != nil {
			if errors.Is(err, person.ErrAlreadyExists) {
				return tool.Failed(tool.ReasonAlreadyExists), nil
			}
			return nil, err
		}
		return tool.Succeeded(), nil

	case tool.UpdateName:
		renamed, err := uc.people.RenamePerson(ctx, session.UserID, c.Person, c.Name)
		if errors.Is(err, person.ErrAlreadyExists) {
			return tool.Failed(tool.ReasonAlreadyExists), nil
		}
		if err != nil {
			return nil, err
		}
		if !renamed {
			return tool.Failed(tool.ReasonNotFound), nil
		}
		return tool.Succeeded(), nil

	case tool.AddListData:
		if err := uc.people.AddListEntry(ctx, session.UserID, view.ID, c.Key, c.Value, c.Timestamp); err != nil {
			return nil, err
		}
		return tool.Succeeded(), nil

	case tool.RemoveListData:
		if err := uc.people.RemoveListEntry(ctx, session.UserID, view.ID, c.Key, c.Value); err != nil {
			return nil, err
		}
		return tool.Succeeded(), nil

	case tool.SetFact:
		fact := model.Fact{Value: c.Value, Confidence: c.Confidence, Importance: c.Importance}
		if err := uc.people.SetFact(ctx, session.UserID, view.ID, c.Key, fact); err != nil {
			return nil, err
		}
		return tool.Succeeded(), nil

	case tool.GetPerson:
		if c.Attribute != "" {
			return tool.SucceededWithPerson(view.Attribute(c.Attribute)), nil
		}
		return tool.SucceededWithPerson(view), nil

	default:
		return nil, goerr.New("unhandled tool call", goerr.V("tool", decoded.ToolName()))
	}
}
