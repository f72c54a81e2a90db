package model

import (
	"time"

	"github.com/caeleel/friendbook/pkg/domain/types"
)

// TranscriptMessage is one entry of a user's append-only chat history.
// Time is a unix timestamp in milliseconds.
type TranscriptMessage struct {
	Role    types.Role `json:"role"`
	Content string     `json:"content"`
	Time    int64      `json:"time"`
}

// NewTranscriptMessage stamps a message with the given time
func NewTranscriptMessage(role types.Role, content string, at time.Time) *TranscriptMessage {
	return &TranscriptMessage{
		Role:    role,
		Content: content,
		Time:    at.UnixMilli(),
	}
}
