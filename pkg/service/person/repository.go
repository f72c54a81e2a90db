// Package person stores friends, their facts and their lists in a per-user
// namespace of a key-value store, and resolves free-text names to people.
package person

import (
	"context"
	"encoding/json"
	"slices"
	"sync"

	"github.com/caeleel/friendbook/pkg/domain/interfaces"
	"github.com/caeleel/friendbook/pkg/domain/model"
	"github.com/caeleel/friendbook/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"golang.org/x/sync/errgroup"
)

type Repository struct {
	kv interfaces.KVStore
}

func New(kv interfaces.KVStore) *Repository {
	return &Repository{kv: kv}
}

// AddPerson registers a new friend under name with a relationship fact
func (r *Repository) AddPerson(ctx context.Context, user model.UserID, name, relationship string) (*model.Person, error) {
	exists, err := r.kv.SIsMember(ctx, friendsKey(user), name)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to look up friend", goerr.V("name", name))
	}
	if exists {
		return nil, goerr.Wrap(ErrAlreadyExists, "name is already in use", goerr.V("name", name))
	}

	p := &model.Person{
		ID:   model.NewPersonID(),
		Name: name,
		Relationship: model.Fact{
			Value:      relationship,
			Confidence: types.ConfidenceHigh,
			Importance: 0,
		},
	}

	data, err := json.Marshal(p.Relationship)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to encode relationship fact")
	}

	if err := r.kv.Tx(ctx, func(w interfaces.KVWriter) error {
		if err := w.SAdd(friendsKey(user), name); err != nil {
			return err
		}
		if err := w.HSet(friendMapKey(user), name, p.ID.String()); err != nil {
			return err
		}
		return w.HSet(personKey(user, p.ID), model.RelationshipFactKey, string(data))
	}); err != nil {
		return nil, goerr.Wrap(err, "failed to add person", goerr.V("name", name))
	}

	return p, nil
}

// RenamePerson moves a friend from oldName to newName keeping its id, facts
// and lists. It returns false when oldName is not a friend.
func (r *Repository) RenamePerson(ctx context.Context, user model.UserID, oldName, newName string) (bool, error) {
	idStr, found, err := r.kv.HGet(ctx, friendMapKey(user), oldName)
	if err != nil {
		return false, goerr.Wrap(err, "failed to look up friend", goerr.V("name", oldName))
	}
	if !found {
		return false, nil
	}
	if oldName == newName {
		return true, nil
	}

	taken, err := r.kv.SIsMember(ctx, friendsKey(user), newName)
	if err != nil {
		return false, goerr.Wrap(err, "failed to look up friend", goerr.V("name", newName))
	}
	if taken {
		return false, goerr.Wrap(ErrAlreadyExists, "new name is already in use",
			goerr.V("oldName", oldName), goerr.V("newName", newName))
	}

	if err := r.kv.Tx(ctx, func(w interfaces.KVWriter) error {
		if err := w.SRem(friendsKey(user), oldName); err != nil {
			return err
		}
		if err := w.HDel(friendMapKey(user), oldName); err != nil {
			return err
		}
		if err := w.SAdd(friendsKey(user), newName); err != nil {
			return err
		}
		return w.HSet(friendMapKey(user), newName, idStr)
	}); err != nil {
		return false, goerr.Wrap(err, "failed to rename person",
			goerr.V("oldName", oldName), goerr.V("newName", newName))
	}

	return true, nil
}

// SetFact overwrites the fact at key
func (r *Repository) SetFact(ctx context.Context, user model.UserID, id model.PersonID, key string, fact model.Fact) error {
	if model.IsReservedFactKey(key) {
		return goerr.Wrap(ErrReservedFactKey, "fact key collides with an identity field", goerr.V("key", key))
	}

	data, err := json.Marshal(fact)
	if err != nil {
		return goerr.Wrap(err, "failed to encode fact", goerr.V("key", key))
	}

	if err := r.kv.HSet(ctx, personKey(user, id), key, string(data)); err != nil {
		return goerr.Wrap(err, "failed to set fact", goerr.V("personID", id), goerr.V("key", key))
	}
	return nil
}

// AddListEntry adds value to the list at key. A nil or empty timestamp is
// treated as absent and leaves any recorded timestamp untouched.
func (r *Repository) AddListEntry(ctx context.Context, user model.UserID, id model.PersonID, key, value string, timestamp *string) error {
	if err := r.kv.Tx(ctx, func(w interfaces.KVWriter) error {
		if err := w.SAdd(listKey(user, id, key), value); err != nil {
			return err
		}
		if err := w.SAdd(listsKey(user, id), key); err != nil {
			return err
		}
		if timestamp != nil && *timestamp != "" {
			return w.HSet(timestampsKey(user, id, key), value, *timestamp)
		}
		return nil
	}); err != nil {
		return goerr.Wrap(err, "failed to add list entry", goerr.V("personID", id), goerr.V("key", key))
	}
	return nil
}

// RemoveListEntry removes value and its timestamp from the list at key. The
// key leaves the list index once its last value is gone.
func (r *Repository) RemoveListEntry(ctx context.Context, user model.UserID, id model.PersonID, key, value string) error {
	members, err := r.kv.SMembers(ctx, listKey(user, id, key))
	if err != nil {
		return goerr.Wrap(err, "failed to get list", goerr.V("personID", id), goerr.V("key", key))
	}
	lastOne := !slices.ContainsFunc(members, func(m string) bool { return m != value })

	if err := r.kv.Tx(ctx, func(w interfaces.KVWriter) error {
		if err := w.SRem(listKey(user, id, key), value); err != nil {
			return err
		}
		if err := w.HDel(timestampsKey(user, id, key), value); err != nil {
			return err
		}
		if lastOne {
			return w.SRem(listsKey(user, id), key)
		}
		return nil
	}); err != nil {
		return goerr.Wrap(err, "failed to remove list entry", goerr.V("personID", id), goerr.V("key", key))
	}
	return nil
}

// GetPerson builds the full projection of a person
func (r *Repository) GetPerson(ctx context.Context, user model.UserID, name string, id model.PersonID) (*model.PersonView, error) {
	view := model.NewPersonView(name, id)

	raw, err := r.kv.HGetAll(ctx, personKey(user, id))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get facts", goerr.V("personID", id))
	}
	for key, data := range raw {
		var fact model.Fact
		if err := json.Unmarshal([]byte(data), &fact); err != nil {
			return nil, goerr.Wrap(err, "failed to decode fact", goerr.V("personID", id), goerr.V("key", key))
		}
		view.Facts[key] = fact
	}

	keys, err := r.kv.SMembers(ctx, listsKey(user, id))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get list keys", goerr.V("personID", id))
	}

	var mu sync.Mutex
	eg, ctx := errgroup.WithContext(ctx)
	for _, key := range keys {
		eg.Go(func() error {
			entries, err := r.getList(ctx, user, id, key)
			if err != nil {
				return err
			}
			mu.Lock()
			view.Lists[key] = entries
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	return view, nil
}

func (r *Repository) getList(ctx context.Context, user model.UserID, id model.PersonID, key string) ([]model.ListEntry, error) {
	values, err := r.kv.SMembers(ctx, listKey(user, id, key))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get list", goerr.V("personID", id), goerr.V("key", key))
	}

	timestamps, err := r.kv.HGetAll(ctx, timestampsKey(user, id, key))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get list timestamps", goerr.V("personID", id), goerr.V("key", key))
	}

	entries := make([]model.ListEntry, 0, len(values))
	for _, value := range values {
		entry := model.ListEntry{Value: value}
		if ts, ok := timestamps[value]; ok {
			entry.Timestamp = &ts
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// ListFriends returns the friend index with names sorted
func (r *Repository) ListFriends(ctx context.Context, user model.UserID) (*model.FriendIndex, error) {
	names, err := r.kv.SMembers(ctx, friendsKey(user))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get friends", goerr.V("user", user))
	}
	if names == nil {
		names = []string{}
	}
	slices.Sort(names)

	ids, err := r.kv.HGetAll(ctx, friendMapKey(user))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to get friend map", goerr.V("user", user))
	}

	index := &model.FriendIndex{
		Friends:   names,
		FriendMap: make(map[string]model.PersonID, len(ids)),
	}
	for name, id := range ids {
		index.FriendMap[name] = model.PersonID(id)
	}
	return index, nil
}
