package transcript_test

import (
	"context"
	"testing"
	"time"

	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/domain/types"
	"github.com/caeleel/friendbook/pkg/repository/memory"
	"github.com/caeleel/friendbook/pkg/service/transcript"
	"github.com/m-mizutani/gt"
)

func TestLog(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	log := transcript.New(kv)

	t.Run("empty transcript", func(t *testing.T) {
		messages, err := log.List(ctx, "nobody")
		gt.NoError(t, err).Required()
		gt.Array(t, messages).Length(0)
	})

	t.Run("messages come back oldest first", func(t *testing.T) {
		base := time.Date(2024, 3, 3, 12, 0, 0, 0, time.UTC)
		gt.NoError(t, log.Append(ctx, "u1", model.NewTranscriptMessage(types.RoleUser, "hi", base))).Required()
		gt.NoError(t, log.Append(ctx, "u1", model.NewTranscriptMessage(types.RoleAssistant, "hello", base.Add(time.Second)))).Required()
		gt.NoError(t, log.Append(ctx, "u2", model.NewTranscriptMessage(types.RoleUser, "other", base))).Required()

		messages, err := log.List(ctx, "u1")
		gt.NoError(t, err).Required()
		gt.Array(t, messages).Length(2).Required()
		gt.Value(t, messages[0]).Equal(&model.TranscriptMessage{Role: types.RoleUser, Content: "hi", Time: base.UnixMilli()})
		gt.Value(t, messages[1].Role).Equal(types.RoleAssistant)
		gt.Value(t, messages[1].Time).Equal(base.Add(time.Second).UnixMilli())
	})

	t.Run("corrupted entry is an error", func(t *testing.T) {
		gt.NoError(t, kv.RPush(ctx, "chat:u3", "{not json")).Required()
		_, err := log.List(ctx, "u3")
		gt.Value(t, err).NotNil()
	})
}
