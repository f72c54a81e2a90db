package person

import (
	"fmt"

	"github.com/caeleel/friendbook/pkg/domain/model"
)

// Keyspace of a user's knowledge store. Every key starts with the user id.

func friendsKey(user model.UserID) string {
	return fmt.Sprintf("%s:friends", user)
}

func friendMapKey(user model.UserID) string {
	return fmt.Sprintf("%s:friendMap", user)
}

func personKey(user model.UserID, id model.PersonID) string {
	return fmt.Sprintf("%s:%s", user, id)
}

func listsKey(user model.UserID, id model.PersonID) string {
	return fmt.Sprintf("%s:%s:lists", user, id)
}

func listKey(user model.UserID, id model.PersonID, key string) string {
	return fmt.Sprintf("%s:%s:%s", user, id, key)
}

func timestampsKey(user model.UserID, id model.PersonID, key string) string {
	return fmt.Sprintf("%s:%s:%s:timestamps", user, id, key)
}
