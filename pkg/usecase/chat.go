package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/domain/types"
	"github.com/caeleel/friendbook/pkg/service/person"
	"github.com/caeleel/friendbook/pkg/service/transcript"
	"github.com/caeleel/friendbook/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

const threadIDField = "threadId"

// ChatUseCase drives one user message through a run of the reasoning
// engine, executing the tool calls it requests against the knowledge store
type ChatUseCase struct {
	kv         interfaces.KVStore
	engine     interfaces.ReasoningEngine
	people     *person.Repository
	transcript *transcript.Log
	poll       pollConfig
	now        func() time.Time
}

func newChatUseCase(kv interfaces.KVStore, engine interfaces.ReasoningEngine, people *person.Repository, log *transcript.Log, poll pollConfig, now func() time.Time) *ChatUseCase {
	return &ChatUseCase{
		kv:         kv,
		engine:     engine,
		people:     people,
		transcript: log,
		poll:       poll,
		now:        now,
	}
}

// Chat sends req to the engine and returns the final reply. A thread is
// created when req carries none.
func (uc *ChatUseCase) Chat(ctx context.Context, req *model.ChatRequest) (*model.ChatReply, error) {
	if req == nil || req.UserID == "" || strings.TrimSpace(req.Message) == "" {
		return nil, goerr.Wrap(ErrInvalidRequest, "user id and message are required")
	}

	session := &model.Session{
		UserID:   req.UserID,
		ThreadID: req.ThreadID,
	}
	ctx = logging.With(ctx, logging.From(ctx).With("user", session.UserID))

	if session.ThreadID == "" {
		threadID, err := uc.engine.CreateThread(ctx)
		if err != nil {
			return nil, goerr.Wrap(err, "failed to create thread")
		}
		session.ThreadID = threadID
	}

	if err := uc.engine.AddMessage(ctx, session.ThreadID, req.Message); err != nil {
		return nil, goerr.Wrap(err, "failed to add message", goerr.V(ThreadIDKey, session.ThreadID))
	}
	if err := uc.transcript.Append(ctx, session.UserID, model.NewTranscriptMessage(types.RoleUser, req.Message, uc.now())); err != nil {
		return nil, err
	}

	return uc.run(ctx, session)
}

func (uc *ChatUseCase) run(ctx context.Context, session *model.Session) (*model.ChatReply, error) {
	logger := logging.From(ctx)

	instructions := fmt.Sprintf("The current time is %s.", uc.now().Format(time.RFC1123Z))
	run, err := uc.engine.CreateRun(ctx, session.ThreadID, instructions)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create run", goerr.V(ThreadIDKey, session.ThreadID))
	}
	deadline := time.Now().Add(uc.poll.maxWait)

	for {
		run, err = uc.waitRun(ctx, run, deadline)
		if err != nil {
			return nil, err
		}

		switch run.Status.State() {
		case types.RunStateRequiresAction:
			logger.Info("run requires action", "run_id", run.ID, "calls", len(run.ToolCalls))
			outputs, err := uc.dispatch(ctx, session, run.ToolCalls)
			if err != nil {
				return nil, err
			}
			runID := run.ID
			run, err = uc.engine.SubmitToolOutputs(ctx, session.ThreadID, runID, outputs)
			if err != nil {
				return nil, goerr.Wrap(err, "failed to submit tool outputs", goerr.V(RunIDKey, runID))
			}

		case types.RunStateCompleted:
			return uc.complete(ctx, session)

		default:
			reason := run.LastError
			if reason == "" {
				reason = fmt.Sprintf("Run ended with status %s", run.Status)
			}
			logger.Warn("run failed", "run_id", run.ID, "status", run.Status, "reason", reason)
			return nil, goerr.Wrap(ErrRunFailed, "engine reported a failed run",
				goerr.V(ReasonKey, reason), goerr.V(RunIDKey, run.ID), goerr.V(ThreadIDKey, session.ThreadID))
		}
	}
}

func (uc *ChatUseCase) complete(ctx context.Context, session *model.Session) (*model.ChatReply, error) {
	msg, err := uc.engine.LatestMessage(ctx, session.ThreadID)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get reply", goerr.V(ThreadIDKey, session.ThreadID))
	}

	reply := &model.ChatReply{
		ThreadID: session.ThreadID,
		Text:     msg.Text,
		ImageURL: msg.ImageRef,
	}

	if err := uc.transcript.Append(ctx, session.UserID, model.NewTranscriptMessage(types.RoleAssistant, reply.Content(), uc.now())); err != nil {
		return nil, err
	}
	return reply, nil
}

func sessionKey(user model.UserID) string {
	return fmt.Sprintf("session:%s", user)
}

// ChatInSession is Chat for surfaces that do not track threads themselves.
// The thread of the user is kept in the store and reused across messages. A
// stored thread the engine no longer knows is dropped and a new one started.
func (uc *ChatUseCase) ChatInSession(ctx context.Context, user model.UserID, message string) (*model.ChatReply, error) {
	threadID, _, err := uc.kv.HGet(ctx, sessionKey(user), threadIDField)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to load session", goerr.V("user", user))
	}

	req := &model.ChatRequest{
		UserID:   user,
		Message:  message,
		ThreadID: model.ThreadID(threadID),
	}
	reply, err := uc.Chat(ctx, req)
	if threadID != "" && errors.Is(err, interfaces.ErrThreadNotFound) {
		logging.From(ctx).Warn("stored thread is gone, starting a new one", "user", user, "thread_id", threadID)
		if err := uc.ResetSession(ctx, user); err != nil {
			return nil, err
		}
		threadID = ""
		req.ThreadID = ""
		reply, err = uc.Chat(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	if reply.ThreadID.String() != threadID {
		if err := uc.kv.HSet(ctx, sessionKey(user), threadIDField, reply.ThreadID.String()); err != nil {
			return nil, goerr.Wrap(err, "failed to save session", goerr.V("user", user))
		}
	}
	return reply, nil
}

// ResetSession forgets the thread of the user so the next message starts a
// new conversation
func (uc *ChatUseCase) ResetSession(ctx context.Context, user model.UserID) error {
	if err := uc.kv.HDel(ctx, sessionKey(user), threadIDField); err != nil {
		return goerr.Wrap(err, "failed to reset session", goerr.V("user", user))
	}
	return nil
}
