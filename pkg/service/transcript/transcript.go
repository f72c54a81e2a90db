// Package transcript keeps the append-only chat history of each user.
package transcript

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/m-mizutani/goerr/v2"
)

type Log struct {
	kv interfaces.KVStore
}

func New(kv interfaces.KVStore) *Log {
	return &Log{kv: kv}
}

func chatKey(user model.UserID) string {
	return fmt.Sprintf("chat:%s", user)
}

// Append adds msg to the end of the user's transcript
func (l *Log) Append(ctx context.Context, user model.UserID, msg *model.TranscriptMessage) error {
	data, err := json.Marshal(msg)
	if err != nil {
		return goerr.Wrap(err, "failed to encode transcript message")
	}

	if err := l.kv.RPush(ctx, chatKey(user), string(data)); err != nil {
		return goerr.Wrap(err, "failed to append transcript message", goerr.V("user", user))
	}
	return nil
}

// List returns the whole transcript, oldest first
func (l *Log) List(ctx context.Context, user model.UserID) ([]*model.TranscriptMessage, error) {
	items, err := l.kv.LRange(ctx, chatKey(user), 0, -1)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get transcript", goerr.V("user", user))
	}

	messages := make([]*model.TranscriptMessage, 0, len(items))
	for i, item := range items {
		var msg model.TranscriptMessage
		if err := json.Unmarshal([]byte(item), &msg); err != nil {
			return nil, goerr.Wrap(err, "failed to decode transcript message",
				goerr.V("user", user), goerr.V("index", i))
		}
		messages = append(messages, &msg)
	}
	return messages, nil
}
