package usecase

import (
	"context"

	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/service/person"
	"github.com/caeleel/friendbook/pkg/service/transcript"
)

// FriendUseCase serves the read-only views of a user's knowledge store
type FriendUseCase struct {
	people     *person.Repository
	transcript *transcript.Log
}

func newFriendUseCase(people *person.Repository, log *transcript.Log) *FriendUseCase {
	return &FriendUseCase{
		people:     people,
		transcript: log,
	}
}

// Transcript returns the chat history of the user, oldest first
func (uc *FriendUseCase) Transcript(ctx context.Context, user model.UserID) ([]*model.TranscriptMessage, error) {
	return uc.transcript.List(ctx, user)
}

func (uc *FriendUseCase) Friends(ctx context.Context, user model.UserID) (*model.FriendIndex, error) {
	return uc.people.ListFriends(ctx, user)
}

func (uc *FriendUseCase) Friend(ctx context.Context, user model.UserID, name string, id model.PersonID) (*model.PersonView, error) {
	return uc.people.GetPerson(ctx, user, name, id)
}
