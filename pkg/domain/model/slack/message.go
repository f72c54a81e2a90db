package slack

import (
	"context"
	"time"

	"github.com/slack-go/slack/slackevents"
)

const channelTypeIM = "im"

// Message is a Slack message addressed to the bot
type Message struct {
	id          string
	channelID   string
	channelType string
	threadTS    string
	teamID      string
	userID      string
	botID       string
	subType     string
	text        string
	eventTS     string
	createdAt   time.Time
}

// NewMessage creates a new Message from a Slack Events API event. It returns
// nil for events other than app mentions and messages.
func NewMessage(ctx context.Context, ev *slackevents.EventsAPIEvent) *Message {
	if ev.Type != slackevents.CallbackEvent {
		return nil
	}

	innerEvent := ev.InnerEvent
	now := time.Now()

	switch evt := innerEvent.Data.(type) {
	case *slackevents.AppMentionEvent:
		return &Message{
			id:        evt.TimeStamp,
			channelID: evt.Channel,
			threadTS:  evt.ThreadTimeStamp,
			teamID:    ev.TeamID,
			userID:    evt.User,
			botID:     evt.BotID,
			text:      evt.Text,
			eventTS:   evt.EventTimeStamp,
			createdAt: now,
		}
	case *slackevents.MessageEvent:
		threadTS := ""
		if evt.ThreadTimeStamp != "" && evt.ThreadTimeStamp != evt.TimeStamp {
			threadTS = evt.ThreadTimeStamp
		}
		return &Message{
			id:          evt.TimeStamp,
			channelID:   evt.Channel,
			channelType: evt.ChannelType,
			threadTS:    threadTS,
			teamID:      ev.TeamID,
			userID:      evt.User,
			botID:       evt.BotID,
			subType:     evt.SubType,
			text:        evt.Text,
			eventTS:     evt.EventTimeStamp,
			createdAt:   now,
		}
	default:
		return nil
	}
}

func (m *Message) ID() string {
	return m.id
}

func (m *Message) ChannelID() string {
	return m.channelID
}

func (m *Message) ThreadTS() string {
	return m.threadTS
}

func (m *Message) TeamID() string {
	return m.teamID
}

func (m *Message) UserID() string {
	return m.userID
}

func (m *Message) Text() string {
	return m.text
}

func (m *Message) EventTS() string {
	return m.eventTS
}

func (m *Message) CreatedAt() time.Time {
	return m.createdAt
}

// IsDirect reports whether the message was sent in a direct message channel
func (m *Message) IsDirect() bool {
	return m.channelType == channelTypeIM
}

// IsFromBot reports whether a bot or an edit, join or other system event
// produced the message
func (m *Message) IsFromBot() bool {
	return m.botID != "" || m.subType != ""
}

// ReplyThreadTS is the thread to answer in: the message's thread, or the
// message itself when it starts one
func (m *Message) ReplyThreadTS() string {
	if m.threadTS != "" {
		return m.threadTS
	}
	return m.id
}
