package usecase_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/domain/types"
	"github.com/caeleel/friendbook/pkg/usecase"
	"github.com/m-mizutani/gt"
	"github.com/slack-go/slack/slackevents"
)

func directMessageEvent(user, text string) *slackevents.EventsAPIEvent {
	return &slackevents.EventsAPIEvent{
		Type:   slackevents.CallbackEvent,
		TeamID: "T1",
		InnerEvent: slackevents.EventsAPIInnerEvent{
			Type: string(slackevents.Message),
			Data: &slackevents.MessageEvent{
				Type:           "message",
				User:           user,
				Text:           text,
				TimeStamp:      "1700000000.000100",
				Channel:        "D1",
				ChannelType:    "im",
				EventTimeStamp: "1700000000.000100",
			},
		},
	}
}

func TestSlackUseCase_HandleSlackEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("direct message is answered in thread", func(t *testing.T) {
		engine := newScriptedEngine(t, "Noted.",
			[]model.ToolCall{
				call("call_1", types.ToolAddPerson, `{"name":"Alex","relationship":"friend"}`),
			},
		)
		slackMock := &mockSlackService{}
		uc := newTestUseCases(engine, usecase.WithSlack(slackMock))
		gt.Value(t, uc.Slack).NotNil().Required()

		gt.NoError(t, uc.Slack.HandleSlackEvent(ctx, directMessageEvent("U1", "I met Alex"))).Required()

		gt.Value(t, slackMock.posted).Equal([]string{"Thinking..."})
		gt.Value(t, slackMock.updated).Equal([]string{"🔧 Adding Alex", "Noted."})

		friends, err := uc.Friend.Friends(ctx, model.SlackUserID("T1", "U1"))
		gt.NoError(t, err).Required()
		gt.Value(t, friends.Friends).Equal([]string{"Alex"})
	})

	t.Run("app mention is stripped before chatting", func(t *testing.T) {
		engine := newScriptedEngine(t, "Hi!")
		var got string
		engine.addMessageFn = func(ctx context.Context, threadID model.ThreadID, text string) error {
			got = text
			return nil
		}
		slackMock := &mockSlackService{}
		uc := newTestUseCases(engine, usecase.WithSlack(slackMock))

		event := &slackevents.EventsAPIEvent{
			Type:   slackevents.CallbackEvent,
			TeamID: "T1",
			InnerEvent: slackevents.EventsAPIInnerEvent{
				Type: string(slackevents.AppMention),
				Data: &slackevents.AppMentionEvent{
					Type:      "app_mention",
					User:      "U1",
					Text:      "<@U0BOT> hello there",
					TimeStamp: "1700000000.000100",
					Channel:   "C1",
				},
			},
		}
		gt.NoError(t, uc.Slack.HandleSlackEvent(ctx, event)).Required()
		gt.Value(t, got).Equal("hello there")
		gt.Value(t, slackMock.updated).Equal([]string{"Hi!"})
	})

	t.Run("channel messages without mention are ignored", func(t *testing.T) {
		engine := newScriptedEngine(t, "unused")
		slackMock := &mockSlackService{}
		uc := newTestUseCases(engine, usecase.WithSlack(slackMock))

		event := directMessageEvent("U1", "chatter")
		event.InnerEvent.Data.(*slackevents.MessageEvent).ChannelType = "channel"

		gt.NoError(t, uc.Slack.HandleSlackEvent(ctx, event)).Required()
		gt.Array(t, slackMock.posted).Length(0)
		gt.Number(t, engine.threads).Equal(0)
	})

	t.Run("bot's own message is skipped", func(t *testing.T) {
		engine := newScriptedEngine(t, "unused")
		slackMock := &mockSlackService{}
		uc := newTestUseCases(engine, usecase.WithSlack(slackMock))

		gt.NoError(t, uc.Slack.HandleSlackEvent(ctx, directMessageEvent("U0BOT", "echo"))).Required()
		gt.Array(t, slackMock.posted).Length(0)
	})

	t.Run("unsupported event is ignored", func(t *testing.T) {
		uc := newTestUseCases(newScriptedEngine(t, "unused"), usecase.WithSlack(&mockSlackService{}))
		event := &slackevents.EventsAPIEvent{Type: slackevents.URLVerification}
		gt.NoError(t, uc.Slack.HandleSlackEvent(ctx, event))
	})

	t.Run("failed run posts an error notice", func(t *testing.T) {
		engine := newScriptedEngine(t, "")
		engine.createRunFn = func(ctx context.Context, threadID model.ThreadID, instructions string) (*model.Run, error) {
			return &model.Run{ID: "run_1", ThreadID: threadID, Status: types.RunStatusFailed, LastError: "boom"}, nil
		}
		slackMock := &mockSlackService{}
		uc := newTestUseCases(engine, usecase.WithSlack(slackMock))

		err := uc.Slack.HandleSlackEvent(ctx, directMessageEvent("U1", "hi"))
		gt.Error(t, err).Is(usecase.ErrRunFailed)
		gt.Array(t, slackMock.updated).Length(1).Required()
		gt.Bool(t, strings.HasPrefix(slackMock.updated[0], "⚠️")).True()
	})

	t.Run("timed out run posts a timeout notice", func(t *testing.T) {
		engine := newScriptedEngine(t, "")
		engine.createRunFn = func(ctx context.Context, threadID model.ThreadID, instructions string) (*model.Run, error) {
			return &model.Run{ID: "run_1", ThreadID: threadID, Status: types.RunStatusInProgress}, nil
		}
		engine.getRunFn = func(ctx context.Context, threadID model.ThreadID, runID string) (*model.Run, error) {
			return &model.Run{ID: runID, ThreadID: threadID, Status: types.RunStatusInProgress}, nil
		}
		slackMock := &mockSlackService{}
		uc := newTestUseCases(engine, usecase.WithSlack(slackMock), usecase.WithMaxWait(20*time.Millisecond))

		err := uc.Slack.HandleSlackEvent(ctx, directMessageEvent("U1", "hi"))
		gt.Error(t, err).Is(usecase.ErrRunTimeout)
		gt.Array(t, slackMock.updated).Length(1).Required()
		gt.String(t, slackMock.updated[0]).Contains("too long")
	})

	t.Run("image reply is referenced", func(t *testing.T) {
		engine := newScriptedEngine(t, "")
		engine.latestMessageFn = func(ctx context.Context, threadID model.ThreadID) (*model.AssistantMessage, error) {
			return &model.AssistantMessage{ImageRef: "file-abc"}, nil
		}
		slackMock := &mockSlackService{}
		uc := newTestUseCases(engine, usecase.WithSlack(slackMock))

		gt.NoError(t, uc.Slack.HandleSlackEvent(ctx, directMessageEvent("U1", "draw"))).Required()
		gt.Value(t, slackMock.updated).Equal([]string{"Image file: file-abc"})
	})
}

func TestUseCases_SlackDisabled(t *testing.T) {
	uc := newTestUseCases(newScriptedEngine(t, "unused"))
	gt.Value(t, uc.Slack).Nil()
}
