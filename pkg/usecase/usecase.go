package usecase

import (
	"time"

	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/caeleel/friendbook/pkg/service/person"
	"github.com/caeleel/friendbook/pkg/service/slack"
	"github.com/caeleel/friendbook/pkg/service/transcript"
)

type UseCases struct {
	poll         pollConfig
	now          func() time.Time
	slackService slack.Service

	Chat   *ChatUseCase
	Friend *FriendUseCase
	Slack  *SlackUseCase
}

type Option func(*UseCases)

// WithPollInterval sets the first wait between run status polls
func WithPollInterval(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.poll.interval = d
	}
}

// WithMaxPollInterval caps the exponential growth of the poll interval
func WithMaxPollInterval(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.poll.maxInterval = d
	}
}

// WithMaxWait bounds how long a run may stay active
func WithMaxWait(d time.Duration) Option {
	return func(uc *UseCases) {
		uc.poll.maxWait = d
	}
}

// WithSlack enables the Slack chat surface
func WithSlack(svc slack.Service) Option {
	return func(uc *UseCases) {
		uc.slackService = svc
	}
}

// WithClock replaces the clock used for transcript timestamps and run
// instructions
func WithClock(now func() time.Time) Option {
	return func(uc *UseCases) {
		uc.now = now
	}
}

func New(kv interfaces.KVStore, engine interfaces.ReasoningEngine, opts ...Option) *UseCases {
	uc := &UseCases{
		poll: defaultPollConfig(),
		now:  time.Now,
	}

	for _, opt := range opts {
		opt(uc)
	}

	people := person.New(kv)
	log := transcript.New(kv)

	uc.Chat = newChatUseCase(kv, engine, people, log, uc.poll, uc.now)
	uc.Friend = newFriendUseCase(people, log)
	if uc.slackService != nil {
		uc.Slack = NewSlackUseCase(uc.Chat, uc.slackService)
	}

	return uc
}
