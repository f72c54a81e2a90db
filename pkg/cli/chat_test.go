package cli_test

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/caeleel/friendbook/pkg/agent/tool"
	"github.com/caeleel/friendbook/pkg/cli"
	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/usecase"
	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/gt"
)

type mockSessionChat struct {
	chatInSessionFn func(ctx context.Context, user model.UserID, message string) (*model.ChatReply, error)
	resets          int
}

func (m *mockSessionChat) ChatInSession(ctx context.Context, user model.UserID, message string) (*model.ChatReply, error) {
	return m.chatInSessionFn(ctx, user, message)
}

func (m *mockSessionChat) ResetSession(ctx context.Context, user model.UserID) error {
	m.resets++
	return nil
}

func TestRunChat(t *testing.T) {
	var messages []string
	chat := &mockSessionChat{
		chatInSessionFn: func(ctx context.Context, user model.UserID, message string) (*model.ChatReply, error) {
			gt.Value(t, user).Equal(model.UserID("alice"))
			messages = append(messages, message)
			tool.Progress(ctx, tool.AddPerson{Name: "Alex"})
			return &model.ChatReply{ThreadID: "thread_1", Text: "Noted Alex."}, nil
		},
	}

	in := strings.NewReader("Alex is my coworker\n\n/reset\nhello again\n/exit\nignored\n")
	var out bytes.Buffer
	gt.NoError(t, cli.RunChat(t.Context(), in, &out, chat, "alice")).Required()

	gt.Array(t, messages).Length(2)
	gt.Value(t, messages[0]).Equal("Alex is my coworker")
	gt.Value(t, messages[1]).Equal("hello again")
	gt.Value(t, chat.resets).Equal(1)
	gt.String(t, out.String()).Contains("Noted Alex.")
	gt.String(t, out.String()).Contains("Adding Alex")
	gt.String(t, out.String()).Contains("Started a new conversation.")
}

func TestRunChat_ErrorsKeepLoop(t *testing.T) {
	calls := 0
	chat := &mockSessionChat{
		chatInSessionFn: func(ctx context.Context, user model.UserID, message string) (*model.ChatReply, error) {
			calls++
			switch calls {
			case 1:
				return nil, goerr.Wrap(usecase.ErrRunTimeout, "run did not finish")
			case 2:
				return nil, goerr.Wrap(usecase.ErrRunFailed, "run failed", goerr.V(usecase.ReasonKey, "rate limited"))
			default:
				return &model.ChatReply{ThreadID: "thread_1", Text: "ok"}, nil
			}
		},
	}

	in := strings.NewReader("one\ntwo\nthree\n")
	var out bytes.Buffer
	gt.NoError(t, cli.RunChat(t.Context(), in, &out, chat, "alice")).Required()

	gt.Value(t, calls).Equal(3)
	gt.String(t, out.String()).Contains("took too long")
	gt.String(t, out.String()).Contains("rate limited")
	gt.String(t, out.String()).Contains("ok")
}
